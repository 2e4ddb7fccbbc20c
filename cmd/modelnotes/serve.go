package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"model-notes-be/internal/server"
	"model-notes-be/internal/tracer"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		shutdownTracer := tracer.InitTracer(cfg.Tracing)
		defer shutdownTracer(context.Background())

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := container.StartBackground(ctx); err != nil {
			return err
		}

		srv := server.New(cfg, container)
		go func() {
			<-ctx.Done()
			color.Yellow("Shutting down server...")
			_ = srv.Shutdown()
		}()
		return srv.Run()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
