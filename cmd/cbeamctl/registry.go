// Copyright 2025 The Cbeam Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"os"

	"github.com/acrion/cbeam/internal/wire"
	"github.com/spf13/cobra"
)

func newRegistryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "registry",
		Short: "Offline operations on a segment snapshot dumped by inspect --dump",
	}
	cmd.AddCommand(newRegistryResetCmd())
	return cmd
}

func newRegistryResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset <snapshot-file>",
		Short: "Zero out the reference-count map in a dumped snapshot",
		Long: "reset reads a segment image previously written by 'inspect --dump' " +
			"(the CBEAM_SRB_MAP_BYTES-backed RC map used by C7), reports how many " +
			"entries it held, and overwrites it in place with an empty map. It " +
			"cannot reach a live process's registry, which is process-local by design.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRegistryReset(args[0])
		},
	}
}

func runRegistryReset(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if len(data) < 8 {
		return fmt.Errorf("snapshot too short to hold a length prefix")
	}
	length, _, err := wire.GetUint64(data[:8])
	if err != nil {
		return err
	}
	if uint64(len(data)) < 8+length {
		return fmt.Errorf("snapshot truncated: declares %d bytes, has %d", length, len(data)-8)
	}
	rc, _, err := wire.DecodeMap(data[8:8+length], wire.GetUint64, wire.GetInt64)
	if err != nil {
		return fmt.Errorf("decode RC map: %w", err)
	}
	fmt.Printf("cleared %d entries\n", len(rc))

	empty := wire.NewBuffer(8)
	wire.PutUint64(empty, 0)
	copy(data[:8], empty.Data())
	for i := 8; i < len(data); i++ {
		data[i] = 0
	}
	return os.WriteFile(path, data, 0o600)
}
