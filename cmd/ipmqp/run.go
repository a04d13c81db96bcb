// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"log/slog"

	"github.com/affinecone/ipm/ipm"
	"github.com/affinecone/ipm/ipm/dense"
	"github.com/affinecone/ipm/ipm/densedist"
	"github.com/affinecone/ipm/ipm/sparse"
	"github.com/affinecone/ipm/ipm/sparsedist"
	"github.com/spf13/cobra"
)

var (
	scenarioName string
	backendName  string
	ranks        int
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one canonical scenario against a chosen backend",
	Long:  `Runs a named canonical scenario through a dense, sparse or simulated-distributed dispatch path and reports the DIMACS convergence metrics.`,
	RunE:  runScenario,
}

func init() {
	runCmd.Flags().StringVar(&scenarioName, "scenario", "diagonal-qp",
		"Scenario name: diagonal-qp, simple-lp, ill-conditioned-scaling, infeasible-primal")
	runCmd.Flags().StringVar(&backendName, "backend", "dense",
		"Dispatch backend: dense, sparse, dense-dist, sparse-dist")
	runCmd.Flags().IntVar(&ranks, "ranks", 4, "Simulated rank count for a -dist backend")
	rootCmd.AddCommand(runCmd)
}

func findScenario(name string) (ipm.Scenario, error) {
	for _, s := range ipm.CanonicalScenarios() {
		if s.Name == name {
			return s, nil
		}
	}
	return ipm.Scenario{}, fmt.Errorf("unknown scenario %q", name)
}

func runScenario(cmd *cobra.Command, args []string) error {
	s, err := findScenario(scenarioName)
	if err != nil {
		return err
	}
	p, err := s.Problem()
	if err != nil {
		return fmt.Errorf("build problem: %w", err)
	}
	it := s.NewIterate()

	slog.Info("running scenario", "name", s.Name, "backend", backendName, "n", s.N, "m", s.M, "k", s.K)

	var res *ipm.Result
	var solveErr error
	switch backendName {
	case "dense":
		q, a, g := s.DenseMatrices()
		res, solveErr = dense.SolveLocal(q, a, g, p, s.Options, it)
	case "sparse":
		q, a, g := s.SparseMatrices()
		res, solveErr = sparse.SolveLocal(q, a, g, p, s.Options, it)
	case "dense-dist":
		q, a, g := s.DenseMatrices()
		res, solveErr = densedist.SolveDistributed(q, a, g, p, s.Options, it, ranks)
	case "sparse-dist":
		q, a, g := s.SparseMatrices()
		res, solveErr = sparsedist.SolveDistributed(q, a, g, p, s.Options, it, ranks)
	default:
		return fmt.Errorf("unknown backend %q", backendName)
	}
	if res == nil {
		return fmt.Errorf("solve failed: %w", solveErr)
	}

	slog.Info("terminated",
		"status", res.Summary.Status.String(),
		"iterations", res.Summary.NumIter,
		"refineSweeps", res.Summary.NumRefine,
		"dimacsError", res.Dimacs.DimacsError,
		"primalObj", res.Dimacs.PrimalObj,
		"dualObj", res.Dimacs.DualObj,
	)
	if !res.OK {
		return fmt.Errorf("scenario %s did not converge: %w", s.Name, solveErr)
	}
	fmt.Printf("x = %v\n", it.X)
	return nil
}
