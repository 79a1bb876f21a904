package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/graphorder/pkg/errors"
	"github.com/matzehuels/graphorder/pkg/perm"
	"github.com/matzehuels/graphorder/pkg/render"
)

// newDotCmd creates the dot command for rendering small graphs.
func newDotCmd() *cobra.Command {
	var format, permPath string
	var maxNodes int

	cmd := &cobra.Command{
		Use:   "dot <graph> <output>",
		Short: "Render a small graph to DOT, SVG, or PNG",
		Long: `Renders a graph for visual inspection. The output format follows the
output file extension: .dot writes Graphviz source, .svg and .png write
rendered images. With --perm each node is labeled with its original and
reordered id so the permutation can be inspected.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDot(cmd, args[0], args[1], format, permPath, maxNodes)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "input format: bin or ascii (default: by extension)")
	cmd.Flags().StringVarP(&permPath, "perm", "p", "", "permutation file used to relabel nodes")
	cmd.Flags().IntVar(&maxNodes, "max-nodes", render.DefaultMaxNodes, "refuse graphs larger than this")
	return cmd
}

func runDot(cmd *cobra.Command, input, output, format, permPath string, maxNodes int) error {
	ctx := cmd.Context()

	g, err := loadGraphFile(input, format)
	if err != nil {
		return err
	}

	opts := render.Options{MaxNodes: maxNodes}
	if permPath != "" {
		p, err := perm.ReadFile(permPath, g.NumNodes())
		if err != nil {
			return err
		}
		opts.Perm = p
	}

	dot, err := render.ToDOT(g, opts)
	if err != nil {
		return err
	}

	var data []byte
	switch strings.ToLower(filepath.Ext(output)) {
	case ".dot", ".gv":
		data = []byte(dot)
	case ".svg":
		sp := newSpinnerWithContext(ctx, "Rendering SVG...")
		sp.Start()
		data, err = render.RenderSVG(ctx, dot)
		sp.Stop()
	case ".png":
		sp := newSpinnerWithContext(ctx, "Rendering PNG...")
		sp.Start()
		data, err = render.RenderPNG(ctx, dot)
		sp.Stop()
	default:
		return errors.New(errors.ErrCodeUnsupported,
			"unsupported output extension %q (use .dot, .svg, or .png)", filepath.Ext(output))
	}
	if err != nil {
		return err
	}

	if err := os.WriteFile(output, data, 0644); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", output)
	}
	printSuccess("Rendered graph")
	printFile(output)
	return nil
}
