package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/subodh556/AI-Teacher-sub000/internal/assess"
	"github.com/subodh556/AI-Teacher-sub000/internal/metrics"
	"github.com/subodh556/AI-Teacher-sub000/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the assessment API over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			e.cfg.Server.Addr = addr
		}

		m := metrics.New()
		svc := assess.New(e.store, assess.Options{
			Logger:   e.log,
			Observer: m,
			Range:    e.cfg.Engine.Range(),
		})

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		e.log.Info("starting server", zap.String("addr", e.cfg.Server.Addr), zap.String("version", version))
		return server.New(e.cfg.Server, svc, m, e.log).Run(ctx)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides server.addr)")
}
