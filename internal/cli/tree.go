package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stacklayout/pkg/render/tree"
)

var treeFormats = []string{"dot", "svg", "png", "pdf"}

type treeOpts struct {
	resolveFlags
	output   string
	format   string
	detailed bool
}

// treeCommand creates the tree command, which draws the container
// hierarchy of a resolved document with Graphviz.
func (c *CLI) treeCommand() *cobra.Command {
	opts := treeOpts{format: "dot"}

	cmd := &cobra.Command{
		Use:   "tree <file>",
		Short: "Draw the container hierarchy as a Graphviz graph",
		Example: `  stacklayout tree page.yaml | dot -Tsvg > tree.svg
  stacklayout tree page.yaml -f svg --detailed`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runTree(cmd.Context(), cmd, args[0], &opts)
		},
	}

	opts.resolveFlags.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (dot defaults to stdout)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: "+strings.Join(treeFormats, ", "))
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "label nodes with resolved geometry")

	return cmd
}

func (c *CLI) runTree(ctx context.Context, cmd *cobra.Command, input string, o *treeOpts) error {
	refs, _, err := c.resolve(ctx, cmd, input, &o.resolveFlags)
	if err != nil {
		return err
	}
	dot := tree.ToDOT(refs, tree.Options{Detailed: o.detailed})

	var data []byte
	switch o.format {
	case "dot":
		if o.output == "" {
			_, err := fmt.Fprint(cmd.OutOrStdout(), dot)
			return err
		}
		data = []byte(dot)
	case "svg":
		data, err = tree.RenderSVG(dot)
	case "png":
		data, err = tree.RenderPNG(dot)
	case "pdf":
		data, err = tree.RenderPDF(dot)
	default:
		return fmt.Errorf("invalid tree format: %s (must be one of %s)", o.format, strings.Join(treeFormats, ", "))
	}
	if err != nil {
		return err
	}

	path := o.output
	if path == "" {
		path = basePath("", input) + "_tree." + o.format
	}
	if err := writeFile(path, data); err != nil {
		return err
	}
	out := newPrinter(cmd.OutOrStdout())
	out.success("Drew hierarchy of %s", filepath.Base(input))
	out.file(path)
	return nil
}
