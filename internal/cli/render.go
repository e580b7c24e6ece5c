package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/depviz/pkg/export"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output string // output file path (derived from input if empty)
	format string // output format: "svg" or "png"
}

// validRenderFormats is the set of supported image formats.
var validRenderFormats = map[string]bool{"svg": true, "png": true}

// newRenderCmd creates the render command for turning an exported DOT file
// into an image. The graph command produces DOT text; this command is the
// rendering boundary that depends on Graphviz.
func newRenderCmd() *cobra.Command {
	opts := renderOpts{format: "svg"}

	cmd := &cobra.Command{
		Use:   "render <file.dot>",
		Short: "Render a DOT file to an SVG or PNG image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !validRenderFormats[opts.format] {
				return fmt.Errorf("invalid format: %s (must be 'svg' or 'png')", opts.format)
			}
			return runRender(cmd, args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (derived from input if empty)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: svg (default), png")

	return cmd
}

func runRender(cmd *cobra.Command, path string, opts *renderOpts) error {
	logger := loggerFromContext(cmd.Context())

	dot, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	prog := newProgress(logger)
	var img []byte
	switch opts.format {
	case "png":
		img, err = export.RenderPNG(cmd.Context(), string(dot))
	default:
		img, err = export.RenderSVG(cmd.Context(), string(dot))
	}
	if err != nil {
		return err
	}

	out := opts.output
	if out == "" {
		out = strings.TrimSuffix(path, ".dot") + "." + opts.format
	}
	if err := os.WriteFile(out, img, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}

	prog.done(fmt.Sprintf("Rendered %s", path))
	printFile(out)
	return nil
}
