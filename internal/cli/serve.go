package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mydungeon/pkg/server"
)

// serveCommand creates the HTTP API command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the diagnosis API and frontend over HTTP",
		Long: `Serve starts the HTTP API used by the web frontend. Result images are
served from the configured store under /output/ and catalog images under
/images/. The server drains in-flight requests on interrupt.`,
		Example: `  mydungeon serve
  mydungeon serve --addr 127.0.0.1:9000
  PORT=8080 mydungeon serve`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				c.Config.Server.Addr = addr
			}
			return c.runServe(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")

	return cmd
}

func (c *CLI) runServe(ctx context.Context) error {
	runner, cs, err := c.newRunner(ctx)
	if err != nil {
		return err
	}
	defer cs.close()

	sc := c.Config.Server
	srv := server.New(server.Config{
		Addr:           sc.Addr,
		CORSOrigins:    sc.CORSOrigins,
		ImagesDir:      c.Config.Data.ImagesDir,
		FrontendDir:    sc.FrontendDir,
		RequestTimeout: sc.RequestTimeout,
	}, runner, c.Logger)

	printInfo("Serving on %s", styleCommand.Render("http://"+displayAddr(sc.Addr)))
	return srv.ListenAndServe(ctx)
}

// displayAddr turns ":8000" into "localhost:8000".
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
