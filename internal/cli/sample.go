package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

// sampleManifests is a small package tree with both shared and leaf
// dependencies, enough to exercise local mode end to end.
var sampleManifests = map[string]map[string]string{
	"webapp": {
		"react":   "^18.2.0",
		"express": "^4.18.2",
		"axios":   "^1.4.0",
	},
	"react": {
		"loose-envify":  "^1.1.0",
		"object-assign": "^4.1.1",
	},
	"express": {
		"accepts":     "~1.3.8",
		"body-parser": "1.20.1",
	},
	"axios": {
		"follow-redirects": "^1.15.0",
	},
	"loose-envify":     {},
	"object-assign":    {},
	"accepts":          {},
	"body-parser":      {},
	"follow-redirects": {},
}

// sampleGraphs maps file name to adjacency content for graphfile mode.
// cyclic closes a single three-package loop; complex mixes a diamond with
// two overlapping cycles and a dangling reference.
var sampleGraphs = map[string]map[string][]string{
	"simple.json": {
		"A": {"B", "C"},
		"B": {"D"},
		"C": {"D"},
		"D": {},
	},
	"cyclic.json": {
		"A": {"B"},
		"B": {"C"},
		"C": {"A"},
	},
	"complex.json": {
		"app":    {"auth", "db", "ui"},
		"auth":   {"db", "crypto"},
		"db":     {"pool", "legacy"},
		"ui":     {"render", "auth"},
		"render": {"ui"},
		"pool":   {},
		"crypto": {"rand"},
		"rand":   {"crypto"},
	},
}

// newSampleCmd creates the sample command: write demo data for the local
// and graphfile modes under a target directory.
func newSampleCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Generate sample manifest trees and adjacency files",
		Long: `Write a small package repository (one package.json per package) and a
set of adjacency files into the target directory.

Try:
  depviz sample -d testdata
  depviz graph webapp -m local -l testdata/repository
  depviz graph A -m graphfile -l testdata/graphs/cyclic.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSample(dir)
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", "testdata", "target directory")

	return cmd
}

func runSample(dir string) error {
	repoDir := filepath.Join(dir, "repository")
	for name, deps := range sampleManifests {
		pkgDir := filepath.Join(repoDir, name)
		if err := os.MkdirAll(pkgDir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", pkgDir, err)
		}
		manifest := map[string]any{
			"name":         name,
			"version":      "1.0.0",
			"dependencies": deps,
		}
		if err := writeJSONFile(filepath.Join(pkgDir, "package.json"), manifest); err != nil {
			return err
		}
	}
	printSuccess("Wrote %d package manifests", len(sampleManifests))
	printFile(repoDir)

	graphDir := filepath.Join(dir, "graphs")
	if err := os.MkdirAll(graphDir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", graphDir, err)
	}
	for name, adj := range sampleGraphs {
		if err := writeJSONFile(filepath.Join(graphDir, name), adj); err != nil {
			return err
		}
		printFile(filepath.Join(graphDir, name))
	}
	printSuccess("Wrote %d adjacency files", len(sampleGraphs))
	return nil
}

func writeJSONFile(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
