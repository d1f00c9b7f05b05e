package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	httpadapter "github.com/terranastra/terran/internal/adapters/http"
	"github.com/terranastra/terran/internal/lock"
)

func newServeCommand(d deps, opts *rootOptions) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve tool checks and container status over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd, d, opts)
			if err != nil {
				return err
			}
			defer a.Close()
			if cmd.Flags().Changed("addr") {
				a.cfg.Server.Addr = addr
			}

			h := httpadapter.NewStatusHandler(a.checker, a.provisioner, lock.ForContainer(a.cfg.Container.Name))
			h.Logger = a.log
			server := httpadapter.NewApp(h)

			ctx := cmd.Context()
			errCh := make(chan error, 1)
			go func() {
				a.log.Infof("Server starting on %s", a.cfg.Server.Addr)
				errCh <- server.Listen(a.cfg.Server.Addr)
			}()

			select {
			case err := <-errCh:
				if err != nil {
					return fmt.Errorf("server failed: %w", err)
				}
				return nil
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			a.log.Info("shutting down")
			return server.ShutdownWithContext(shutdownCtx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	return cmd
}
