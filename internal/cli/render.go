package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stacklayout/pkg/observability"
	"github.com/matzehuels/stacklayout/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	resolveFlags
	output     string // output file (single format) or base path (multiple)
	formats    string // comma-separated output formats
	scale      float64
	background string
	embedFonts bool
	rasterizer string
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "Resolve a layout document and render it",
		Long: `Resolve a layout document and render it to one or more formats.

Output files are named after the input unless -o is given. With several
formats, -o is used as a base path and each format gets its own extension.`,
		Example: `  stacklayout render page.yaml
  stacklayout render page.yaml -f svg,png --scale 3
  stacklayout render page.json -f pdf -o out/page.pdf --viewport 1280x720`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), cmd, args[0], &opts)
		},
	}

	opts.resolveFlags.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): "+strings.Join(pipeline.FormatNames(), ", ")+" (comma-separated)")
	cmd.Flags().Float64Var(&opts.scale, "scale", pipeline.DefaultScale, "pixel density for png and jpeg")
	cmd.Flags().StringVar(&opts.background, "background", "", "canvas background color")
	cmd.Flags().BoolVar(&opts.embedFonts, "embed-fonts", false, "embed used fonts in SVG output")
	cmd.Flags().StringVar(&opts.rasterizer, "rasterizer", "", "png rasterizer: "+pipeline.RasterizerBuiltin+" or "+pipeline.RasterizerRSVG+" (needs rsvg-convert)")

	return cmd
}

// runRender executes the pipeline and writes one file per artifact.
func (c *CLI) runRender(ctx context.Context, cmd *cobra.Command, input string, o *renderOpts) error {
	opts, err := c.pipelineOptions(cmd, input, &o.resolveFlags)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("format") {
		opts.Formats = parseFormats(o.formats)
	}
	if flags.Changed("scale") {
		opts.Scale = o.scale
	}
	if flags.Changed("background") {
		opts.Background = o.background
	}
	opts.EmbedFonts = o.embedFonts
	if flags.Changed("rasterizer") {
		if err := pipeline.ValidateRasterizer(o.rasterizer); err != nil {
			return err
		}
		opts.Rasterizer = o.rasterizer
	}
	if err := pipeline.ValidateFormats(opts.Formats); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, o.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, "Rendering "+filepath.Base(input)+"...")
	hooks := observability.Pipeline()
	observability.SetPipelineHooks(spinner.Track(hooks))
	spinner.Start()
	result, err := runner.Execute(ctx, opts)
	spinner.Stop()
	observability.SetPipelineHooks(hooks)
	if err != nil {
		return err
	}

	paths := outputPaths(o.output, input, opts.Formats)
	for _, format := range opts.Formats {
		if err := writeFile(paths[format], result.Artifacts[format]); err != nil {
			return err
		}
		c.Logger.Debugf("Wrote %s: %d bytes", paths[format], len(result.Artifacts[format]))
	}

	out := newPrinter(cmd.OutOrStdout())
	out.success("Rendered %s", filepath.Base(input))
	out.stats(result.Stats.RefCount, len(opts.Formats), result.CacheInfo.RenderHit)
	for _, format := range opts.Formats {
		out.file(paths[format])
	}
	out.nextStep("Browse the references", appName+" inspect "+input)
	prog.done("Render complete")
	return nil
}

// outputPaths maps each format to its destination file. A single format
// with an explicit output path is written there verbatim.
func outputPaths(output, input string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output, input)
	for _, f := range formats {
		paths[f] = base + "." + fileExt(f)
	}
	return paths
}

// fileExt keeps reference JSON from overwriting a JSON input document.
func fileExt(format string) string {
	if format == pipeline.FormatJSON {
		return "refs.json"
	}
	return format
}

func isFormatExt(ext string) bool {
	return pipeline.ValidFormats[strings.TrimPrefix(ext, ".")]
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .pdf, etc.), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if isFormatExt(ext) {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// writeFile writes data to path, creating parent directories.
func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
