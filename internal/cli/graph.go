package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/depviz/pkg/config"
	"github.com/matzehuels/depviz/pkg/export"
	"github.com/matzehuels/depviz/pkg/graph"
	"github.com/matzehuels/depviz/pkg/source"
)

// buildOpts holds the command-line flags shared by every command that
// builds a graph (graph, inspect, serve).
type buildOpts struct {
	configPath  string // TOML configuration file (optional)
	mode        string // dependency source mode
	locator     string // manifest directory or adjacency file
	registryURL string // registry base URL override
}

// addBuildFlags registers the shared source-selection flags on cmd.
func addBuildFlags(cmd *cobra.Command, opts *buildOpts) {
	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "TOML configuration file")
	cmd.Flags().StringVarP(&opts.mode, "mode", "m", "", fmt.Sprintf("dependency source mode: %s", strings.Join(config.Modes(), ", ")))
	cmd.Flags().StringVarP(&opts.locator, "locator", "l", "", "manifest directory (local) or adjacency file (graphfile)")
	cmd.Flags().StringVar(&opts.registryURL, "registry-url", "", "registry base URL (registry mode)")
}

// resolveConfig merges the configuration file, flags, and the positional
// package argument. Flags override file values; the argument overrides both.
func resolveConfig(opts *buildOpts, args []string) (config.Config, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		loaded, err := config.Load(opts.configPath)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}
	if opts.mode != "" {
		cfg.Mode = opts.mode
	}
	if opts.locator != "" {
		cfg.Locator = opts.locator
	}
	if opts.registryURL != "" {
		cfg.RegistryURL = opts.registryURL
	}
	if len(args) > 0 {
		cfg.Package = args[0]
	}
	return cfg, cfg.Validate()
}

// runBuild constructs the source selected by cfg and builds the graph.
func runBuild(ctx context.Context, cfg config.Config) (*graph.Result, error) {
	logger := loggerFromContext(ctx)

	var src graph.Source
	switch config.Mode(cfg.Mode) {
	case config.ModeLocal:
		src = source.NewLocal(cfg.Locator)
	case config.ModeRegistry:
		src = source.NewRegistry(cfg.RegistryURL, logger)
	case config.ModeGraphFile:
		src = source.NewGraphFile(cfg.Locator)
	}

	logger.Infof("Building dependency graph for %s (%s mode)", cfg.Package, cfg.Mode)
	prog := newProgress(logger)
	res, err := graph.NewBuilder(src, logger).Build(ctx, cfg.Package)
	if err != nil {
		return nil, err
	}
	prog.done(fmt.Sprintf("Built graph of %d packages with %d dependencies", res.Graph.Len(), res.Graph.EdgeCount()))
	return res, nil
}

// graphOpts holds the flags specific to the graph command.
type graphOpts struct {
	buildOpts
	reverse   bool   // print reverse-dependency report
	allCycles bool   // re-enumerate cycles exhaustively on the built graph
	export    bool   // write annotated DOT export
	simple    bool   // export the simplified DOT form instead
	image     bool   // additionally render the export as SVG
	json      string // write the build result as JSON to this path
	output    string // base path for exported files
}

// newGraphCmd creates the graph command: build, analyze and report the
// dependency graph of one package.
func newGraphCmd() *cobra.Command {
	var opts graphOpts

	cmd := &cobra.Command{
		Use:   "graph [package]",
		Short: "Build and report the dependency graph of a package",
		Long: `Build the transitive dependency graph of a package from the selected
source, detect cycles, and print level and detail reports.

Examples:
  depviz graph webapp -m local -l ./testdata/repository
  depviz graph A -m graphfile -l graphs/cyclic.json --export --image
  depviz graph express -m registry --reverse`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(&opts.buildOpts, args)
			if err != nil {
				return err
			}
			// Flags that also exist in the file only override when set.
			if cmd.Flags().Changed("reverse") {
				cfg.ShowReverse = opts.reverse
			}
			if cmd.Flags().Changed("export") {
				cfg.ExportDOT = opts.export
			}
			if cmd.Flags().Changed("image") {
				cfg.RenderImage = opts.image
			}
			if opts.output != "" {
				cfg.Output = opts.output
			}
			return runGraph(cmd.Context(), cfg, &opts)
		},
	}

	addBuildFlags(cmd, &opts.buildOpts)
	cmd.Flags().BoolVarP(&opts.reverse, "reverse", "r", false, "print the reverse-dependency report")
	cmd.Flags().BoolVar(&opts.allCycles, "all-cycles", false, "exhaustively enumerate cycles on the built graph")
	cmd.Flags().BoolVarP(&opts.export, "export", "e", false, "write the graph as a Graphviz DOT file")
	cmd.Flags().BoolVar(&opts.simple, "simple", false, "export the simplified DOT form (edges only)")
	cmd.Flags().BoolVar(&opts.image, "image", false, "render the DOT export as SVG (implies --export)")
	cmd.Flags().StringVar(&opts.json, "json", "", "write the build result as JSON to this path")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "base path for exported files")

	return cmd
}

func runGraph(ctx context.Context, cfg config.Config, opts *graphOpts) error {
	logger := loggerFromContext(ctx)
	logger.Debugf("configuration:\n%s", cfg)

	res, err := runBuild(ctx, cfg)
	if err != nil {
		return err
	}

	reportGraph(res)
	reportDetails(res)
	reportCycles(res)
	if opts.allCycles {
		reportAllCycles(res)
	}
	if cfg.ShowReverse {
		reportReverse(res, cfg.Package)
	}

	if opts.json != "" {
		if err := export.ExportJSON(res, opts.json); err != nil {
			return err
		}
		printFile(opts.json)
	}

	if cfg.ExportDOT || cfg.RenderImage {
		return exportGraph(ctx, cfg, opts, res)
	}
	return nil
}

// exportGraph writes the DOT export and, when requested, renders it as SVG.
func exportGraph(ctx context.Context, cfg config.Config, opts *graphOpts, res *graph.Result) error {
	dot := export.ToDOT(res.Graph, res.Root)
	if opts.simple {
		dot = export.ToSimpleDOT(res.Graph, res.Root)
	}

	base := cfg.Output
	if base == "" {
		base = "dependency_graph_" + res.Root
	}

	dotPath := base + ".dot"
	if err := os.WriteFile(dotPath, []byte(dot), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", dotPath, err)
	}
	printSuccess("Wrote DOT export")
	printFile(dotPath)

	if !cfg.RenderImage {
		return nil
	}
	svg, err := export.RenderSVG(ctx, dot)
	if err != nil {
		return err
	}
	svgPath := base + ".svg"
	if err := os.WriteFile(svgPath, svg, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", svgPath, err)
	}
	printSuccess("Rendered graph image")
	printFile(svgPath)
	return nil
}
