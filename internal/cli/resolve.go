package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	lio "github.com/matzehuels/stacklayout/pkg/io"
	"github.com/matzehuels/stacklayout/pkg/layout"
	"github.com/matzehuels/stacklayout/pkg/pipeline"
)

type resolveOpts struct {
	resolveFlags
	json   bool
	output string
}

// resolveCommand creates the resolve command.
func (c *CLI) resolveCommand() *cobra.Command {
	var opts resolveOpts

	cmd := &cobra.Command{
		Use:   "resolve <file>",
		Short: "Resolve a layout document and print the references",
		Example: `  stacklayout resolve page.yaml
  stacklayout resolve page.toml --json > refs.json
  stacklayout resolve page.json -o refs.json --viewport 1920x1080`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runResolve(cmd.Context(), cmd, args[0], &opts)
		},
	}

	opts.resolveFlags.register(cmd)
	cmd.Flags().BoolVar(&opts.json, "json", false, "print references as JSON")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write references JSON to a file")

	return cmd
}

func (c *CLI) runResolve(ctx context.Context, cmd *cobra.Command, input string, o *resolveOpts) error {
	refs, cached, err := c.resolve(ctx, cmd, input, &o.resolveFlags)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	p := newPrinter(out)
	switch {
	case o.output != "":
		if err := lio.ExportReferences(refs, o.output); err != nil {
			return err
		}
		p.success("Resolved %s", filepath.Base(input))
		p.stats(refs.Len(), 1, cached)
		p.file(o.output)
	case o.json:
		return lio.WriteReferences(refs, out)
	default:
		renderReferenceTable(out, refs)
		p.stats(refs.Len(), 0, cached)
	}
	return nil
}

// resolve loads and resolves input through a cached runner.
func (c *CLI) resolve(ctx context.Context, cmd *cobra.Command, input string, f *resolveFlags) (*layout.Map, bool, error) {
	opts, err := c.pipelineOptions(cmd, input, f)
	if err != nil {
		return nil, false, err
	}
	runner, err := c.newRunner(ctx, f.noCache)
	if err != nil {
		return nil, false, err
	}
	defer runner.Close()

	doc, err := pipeline.Load(ctx, opts)
	if err != nil {
		return nil, false, err
	}
	refs, _, cached, err := runner.ResolveWithCacheInfo(ctx, doc, opts)
	if err != nil {
		return nil, false, err
	}
	return refs, cached, nil
}

// renderReferenceTable prints one row per reference in resolution order.
func renderReferenceTable(w io.Writer, refs *layout.Map) {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	numStyle := lipgloss.NewStyle().Foreground(colorCyan).Align(lipgloss.Right)

	rows := make([][]string, 0, refs.Len())
	for _, ref := range refs.All() {
		rows = append(rows, referenceRow(ref))
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Name", "Parent", "Kind", "X", "Y", "W", "H", "Text").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col >= 3 && col <= 6:
				return numStyle
			case col == 1 || col == 2:
				return StyleDim
			}
			return StyleValue
		})

	fmt.Fprintln(w, t.Render())
}

func referenceRow(ref *layout.Reference) []string {
	parent := ref.Parent
	if parent == "" {
		parent = "—"
	}
	text := ""
	if ref.Text != nil {
		text = truncate(ref.Text.Content, 24)
	}
	return []string{
		ref.Name,
		parent,
		referenceKind(ref),
		formatNum(ref.Position.X),
		formatNum(ref.Position.Y),
		formatNum(ref.Dimensions.W),
		formatNum(ref.Dimensions.H),
		text,
	}
}

// referenceKind summarizes display and flex role, e.g. "inherit", "absolute"
// or "flex:row".
func referenceKind(ref *layout.Reference) string {
	if ref.Flex != layout.FlexNone {
		return "flex:" + ref.Flex.String()
	}
	return ref.Display.String()
}

func formatNum(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
