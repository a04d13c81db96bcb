// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/affinecone/ipm/ipm"
	"github.com/spf13/cobra"
)

var scenariosCmd = &cobra.Command{
	Use:   "scenarios",
	Short: "List the canonical scenarios run accepts",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, s := range ipm.CanonicalScenarios() {
			fmt.Printf("%-24s n=%d m=%d k=%d\n", s.Name, s.N, s.M, s.K)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scenariosCmd)
}
