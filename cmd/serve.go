package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	glog "github.com/labstack/gommon/log"
	"github.com/spf13/cobra"

	"parsverse/pkg/server"
)

var addrFlag string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, done := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer done()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}

		srv := server.NewServer(ctx, a.generator, a.composer)
		if verbose {
			srv.Echo.Logger.SetLevel(glog.DEBUG)
		}

		addr := cfg.Server.Addr
		if addrFlag != "" {
			addr = addrFlag
		}

		finishedShutDown := make(chan struct{})
		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Error("shutdown failed", "error", err)
			}
			close(finishedShutDown)
		}()

		if err := srv.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		<-finishedShutDown
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&addrFlag, "addr", "", "Listen address (overrides config and PORT)")
	rootCmd.AddCommand(serveCmd)
}
