package cli

import (
	"time"

	"github.com/soypat/wardrobe/cache"
	"github.com/soypat/wardrobe/server"
	"github.com/spf13/cobra"
)

func (c *CLI) serveCommand() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the wardrobe generator over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			if !cmd.Flags().Changed("addr") {
				addr = c.cfg.Server.Addr
			}
			mats, err := c.resolver()
			if err != nil {
				return err
			}
			store, err := cache.Open(ctx, c.cfg.Cache)
			if err != nil {
				return err
			}
			defer store.Close()
			logger.Debug("cache ready", "kind", c.cfg.Cache.Kind)
			srv := server.New(mats, server.Options{
				Logger:  logger,
				Cache:   store,
				TTL:     time.Duration(c.cfg.Cache.TTL),
				Preview: c.cfg.previewOptions(),
			})
			return srv.ListenAndServe(ctx, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	return cmd
}
