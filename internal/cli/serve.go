package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/stacklayout/pkg/server"
)

// serveCommand runs the HTTP API until the context is cancelled.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout API over HTTP",
		Long: `Serve the layout API over HTTP.

Routes:
  GET  /healthz      liveness probe
  POST /v1/resolve   document in, resolved references out
  POST /v1/render    document in, rendered artifact out (?format=svg|png|jpeg|pdf|json|dot)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.config()
			if !cmd.Flags().Changed("addr") {
				addr = cfg.Server.Addr
			}

			runner, err := c.newRunner(cmd.Context(), noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			srv := server.New(runner, c.Logger, server.WithMaxBody(cfg.Server.MaxBody))
			out := newPrinter(cmd.OutOrStdout())
			out.info("Listening on %s", StyleHighlight.Render(addr))
			out.keyValue("cache", cfg.Cache.Backend)
			out.keyValue("max body", formatBytes(cfg.Server.MaxBody))
			return srv.ListenAndServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	return cmd
}
