package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stacklayout/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the resolve and render cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cacheInfoCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// fileCache opens the configured file cache. It returns nil after printing a
// hint when the backend is not "file" or nothing was cached yet.
func (c *CLI) fileCache(out printer, op string) (*cache.FileCache, error) {
	cfg := c.config()
	if cache.Backend(cfg.Cache.Backend) != cache.BackendFile {
		out.warning("cache %s only supports the file backend (configured: %s)", op, cfg.Cache.Backend)
		return nil, nil
	}
	if _, err := os.Stat(cfg.Cache.Dir); os.IsNotExist(err) {
		out.info("Cache is empty")
		return nil, nil
	}
	store, err := cache.NewFileCache(cfg.Cache.Dir)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	return store.(*cache.FileCache), nil
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	var kinds []string

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove cached references and artifacts",
		Example: `  stacklayout cache clear
  stacklayout cache clear --kind artifact`,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, k := range kinds {
				if k != cache.KindResolve && k != cache.KindArtifact {
					return fmt.Errorf("invalid cache kind: %s (must be %q or %q)", k, cache.KindResolve, cache.KindArtifact)
				}
			}
			out := newPrinter(cmd.OutOrStdout())
			store, err := c.fileCache(out, "clear")
			if store == nil || err != nil {
				return err
			}
			if err := store.Clear(kinds...); err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}

			out.success("Cleared cache")
			out.detail("Directory: %s", store.Dir())
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&kinds, "kind", nil, "only clear these kinds (resolve, artifact)")
	return cmd
}

// cacheInfoCommand creates the "cache info" subcommand.
func (c *CLI) cacheInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show cache usage per entry kind",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.fileCache(newPrinter(cmd.OutOrStdout()), "info")
			if store == nil || err != nil {
				return err
			}
			usage, err := store.Usage()
			if err != nil {
				return fmt.Errorf("read cache: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, store.Dir())
			if len(usage) == 0 {
				fmt.Fprintln(out, "  (empty)")
				return nil
			}
			for _, u := range usage {
				fmt.Fprintf(out, "  %-9s %5d entries  %5d expired  %s\n", u.Kind, u.Entries, u.Expired, formatBytes(u.Bytes))
			}
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), c.config().Cache.Dir)
			return nil
		},
	}
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
