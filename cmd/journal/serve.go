package main

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pbaille/journal/internal/api"
	"github.com/pbaille/journal/internal/completion"
	"github.com/pbaille/journal/internal/fetcher"
)

func serveCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the reflection backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg.Server
			if addr != "" {
				host, port, err := splitAddr(addr)
				if err != nil {
					return err
				}
				cfg.Host, cfg.Port = host, port
			}

			c, err := completion.New(a.cfg.Completion)
			if err != nil {
				return err
			}

			var fetch *fetcher.Client
			if cfg.LandingURL != "" {
				fetch = fetcher.New(30 * time.Second)
			}

			a.logger.Info("starting backend",
				zap.String("addr", cfg.Addr()),
				zap.String("provider", a.cfg.Completion.Provider),
			)
			return api.New(cfg, c, fetch, a.logger).Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address host:port (overrides server.host and server.port)")
	return cmd
}

func splitAddr(addr string) (string, int, error) {
	host, p, err := net.SplitHostPort(addr)
	if err != nil {
		return "", 0, fmt.Errorf("--addr: %w", err)
	}
	port, err := strconv.Atoi(p)
	if err != nil || port < 1 || port > 65535 {
		return "", 0, fmt.Errorf("--addr: invalid port %q", p)
	}
	return host, port, nil
}
