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

	"github.com/acrion/cbeam/internal/shmutil"
	"github.com/acrion/cbeam/internal/wire"
	"github.com/spf13/cobra"
)

func newInspectCmd() *cobra.Command {
	var dumpPath string
	cmd := &cobra.Command{
		Use:   "inspect <name>",
		Short: "Attach to a named segment and print its header and used length",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(args[0], dumpPath)
		},
	}
	cmd.Flags().StringVar(&dumpPath, "dump", "", "write the raw segment image to this file for offline registry commands")
	return cmd
}

func runInspect(name, dumpPath string) error {
	exists, err := shmutil.SegmentExists(name)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("no segment named %q", name)
	}
	mu, err := shmutil.NewRecursiveMutex(name)
	if err != nil {
		return err
	}
	defer mu.Close()
	seg, err := shmutil.NewSegment(name, 0, mu)
	if err != nil {
		return err
	}
	defer seg.Close()

	return seg.WithLock(func(data []byte) error {
		length, _, err := wire.GetUint64(data[:8])
		if err != nil {
			return err
		}
		fmt.Printf("name:     %s\n", name)
		fmt.Printf("capacity: %d bytes\n", seg.Capacity())
		fmt.Printf("used:     %d bytes\n", length)
		if dumpPath != "" {
			if err := os.WriteFile(dumpPath, data, 0o600); err != nil {
				return fmt.Errorf("write dump: %w", err)
			}
			fmt.Printf("dumped:   %s\n", dumpPath)
		}
		return nil
	})
}
