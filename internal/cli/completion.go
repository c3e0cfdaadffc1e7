package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stacklayout/pkg/pipeline"
)

// documentExts are the extensions offered when completing a document path.
var documentExts = []string{"json", "toml", "yaml", "yml"}

// completionCommand prints a shell completion script.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a completion script for your shell.

  bash:        source <(stacklayout completion bash)
  zsh:         stacklayout completion zsh > "${fpath[1]}/_stacklayout"
  fish:        stacklayout completion fish | source
  powershell:  stacklayout completion powershell | Out-String | Invoke-Expression

Document arguments complete to .json, .toml, .yaml and .yml files; --format
and --measurer complete to their accepted values.`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, out := cmd.Root(), cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(out, true)
			case "zsh":
				return root.GenZshCompletion(out)
			case "fish":
				return root.GenFishCompletion(out, true)
			default:
				return root.GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}

// completeDocument restricts the first positional argument to layout
// documents.
func completeDocument(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return documentExts, cobra.ShellCompDirectiveFilterFileExt
}

// completeList completes a comma-separated flag value such as
// --format svg,pn<TAB>.
func completeList(values []string) cobra.CompletionFunc {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		done, _ := splitLast(toComplete)
		var out []string
		for _, v := range values {
			if strings.Contains(","+done, ","+v+",") {
				continue
			}
			out = append(out, done+v)
		}
		return out, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
	}
}

// splitLast splits "svg,png,jp" into "svg,png," and "jp".
func splitLast(s string) (done, last string) {
	i := strings.LastIndex(s, ",")
	return s[:i+1], s[i+1:]
}

// registerCompletions wires argument and flag completion into every command
// that reads a document.
func registerCompletions(root *cobra.Command) {
	measurers := []string{pipeline.MeasurerOpenType, pipeline.MeasurerApprox}
	for _, cmd := range root.Commands() {
		if !strings.HasSuffix(cmd.Use, "<file>") {
			continue
		}
		cmd.ValidArgsFunction = completeDocument
		if cmd.Flags().Lookup("measurer") != nil {
			_ = cmd.RegisterFlagCompletionFunc("measurer", cobra.FixedCompletions(measurers, cobra.ShellCompDirectiveNoFileComp))
		}
		if cmd.Flags().Lookup("rasterizer") != nil {
			_ = cmd.RegisterFlagCompletionFunc("rasterizer", cobra.FixedCompletions(
				[]string{pipeline.RasterizerBuiltin, pipeline.RasterizerRSVG}, cobra.ShellCompDirectiveNoFileComp))
		}
		if cmd.Flags().Lookup("format") == nil {
			continue
		}
		formats := pipeline.FormatNames()
		if cmd.Name() == "tree" {
			formats = treeFormats
		}
		_ = cmd.RegisterFlagCompletionFunc("format", completeList(formats))
	}
}
