package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	xlog "textbuddy/internal/log"
	"textbuddy/internal/server"
)

const shutdownTimeout = 5 * time.Second

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		addr     string
		level    string
		cfg      server.Config
		rateWind time.Duration
	)
	cmd := &cobra.Command{
		Use:          "textbuddy-backend",
		Short:        "Reference TextBuddy backend for local development",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.APIKey == "" {
				cfg.APIKey = os.Getenv("TEXTBUDDY_API_KEY")
			}
			cfg.RateWindow = rateWind
			xlog.Configure(xlog.Config{Level: level, Service: "textbuddy-backend"})
			log := xlog.WithComponent("server")

			srv, err := server.New(cfg, log)
			if err != nil {
				return err
			}
			hs := &http.Server{
				Addr:              addr,
				Handler:           srv.Handler(),
				ReadHeaderTimeout: 5 * time.Second,
				ReadTimeout:       10 * time.Second,
				WriteTimeout:      10 * time.Second,
				IdleTimeout:       60 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errc := make(chan error, 1)
			go func() {
				log.Info().Str("addr", addr).Msg("backend listening")
				errc <- hs.ListenAndServe()
			}()

			select {
			case err := <-errc:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}

			log.Info().Msg("shutting down")
			sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return hs.Shutdown(sctx)
		},
	}

	f := cmd.Flags()
	f.StringVar(&addr, "addr", ":8080", "listen address")
	f.StringVar(&cfg.APIKey, "api-key", "", "signing key shared with the SDK (env TEXTBUDDY_API_KEY)")
	f.StringVar(&cfg.PhoneNumber, "phone", "+15550100", "short code reported to the SDK")
	f.StringVar(&cfg.Scheme, "scheme", "textbuddy", "confirmation link URL scheme")
	f.IntVar(&cfg.RateLimit, "rate-limit", 0, "POST requests per window per client IP (0 disables)")
	f.DurationVar(&rateWind, "rate-window", time.Minute, "rate limit window")
	f.StringVar(&level, "log-level", "info", "log level")
	return cmd
}
