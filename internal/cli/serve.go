package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/rowgraph/internal/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the pipeline over HTTP",
		Long: `Serve materialize, layout and render as a JSON API.

Layout requests that carry an X-Client-ID header are sequenced per client:
a newer request cancels the older one, which answers 409.

Examples:
  rowgraph serve
  rowgraph serve --addr :9000
  rowgraph serve --config prod.toml -v`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				c.Config.Server.Addr = addr
			}
			ctx := cmd.Context()

			runner, err := c.newRunner(ctx)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			printSuccess("Listening on %s", StyleLink.Render("http://"+displayAddr(c.Config.Server.Addr)))
			printKeyValue("Cache", c.Config.Cache.Backend)
			printKeyValue("Timeout", c.Config.Server.Timeout.String())
			printNewline()

			return server.New(runner, c.Config.Server, c.Config.LayoutOptions(), c.Logger).ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")

	return cmd
}

// displayAddr turns ":8080" into "localhost:8080".
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
