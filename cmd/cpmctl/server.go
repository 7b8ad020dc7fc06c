package main

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/client-project-manager/pkg/audit"
	"github.com/doodlesbykumbi/client-project-manager/pkg/config"
	"github.com/doodlesbykumbi/client-project-manager/pkg/db"
	"github.com/doodlesbykumbi/client-project-manager/pkg/server"
	"github.com/doodlesbykumbi/client-project-manager/pkg/server/endpoints"
	"github.com/doodlesbykumbi/client-project-manager/pkg/token"
)

const shutdownTimeout = 10 * time.Second

func defaultBindAddress() string {
	if addr := os.Getenv("BIND_ADDRESS"); addr != "" {
		return addr
	}
	return "0.0.0.0"
}

func defaultPort() string {
	if port := os.Getenv("PORT"); port != "" {
		return port
	}
	return "8000"
}

func defaultPortInt() int {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			return p
		}
	}
	return 8000
}

// signingKey decodes CPM_SIGNING_KEY.
func signingKey() ([]byte, error) {
	keyB64, ok := os.LookupEnv("CPM_SIGNING_KEY")
	if !ok || keyB64 == "" {
		return nil, errors.New("CPM_SIGNING_KEY environment variable is required")
	}
	key, err := base64.StdEncoding.DecodeString(keyB64)
	if err != nil {
		return nil, fmt.Errorf("bad CPM_SIGNING_KEY: %w", err)
	}
	if len(key) < token.MinKeyLength {
		return nil, fmt.Errorf("bad CPM_SIGNING_KEY: %w", token.ErrKeyTooShort)
	}
	return key, nil
}

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the API server",
	Long: `Run the client project manager API server.

To run the server requires the environment variables CPM_SIGNING_KEY and DATABASE_URL.

By default, database migrations are run on startup. Use --no-migrate to skip.
With --watch-config the configuration file is reloaded whenever it changes.`,
	Run: func(cmd *cobra.Command, args []string) {
		key, err := signingKey()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		if db.URL() == "" {
			fmt.Fprintln(os.Stderr, "DATABASE_URL environment variable is required")
			os.Exit(1)
		}

		noMigrate, _ := cmd.Flags().GetBool("no-migrate")
		if !noMigrate {
			slog.Info("running database migrations")
			if err := runMigrations(); err != nil {
				fmt.Fprintf(os.Stderr, "Migration failed: %v\n", err)
				os.Exit(1)
			}
		}

		cfg := config.Get()
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
			os.Exit(1)
		}

		tokens, err := token.NewIssuer(key, cfg.TokenIssuer, cfg.TokenLifetime())
		if err != nil {
			fmt.Fprintln(os.Stderr, "Unable to create token issuer:", err)
			os.Exit(1)
		}

		database, err := db.Connect(db.Config{})
		if err != nil {
			fmt.Fprintln(os.Stderr, "Unable to connect to DB:", err)
			os.Exit(1)
		}

		audit.SetEnabled(cfg.IsAuditEnabled())
		auditStore, err := audit.NewStore(os.Getenv("AUDIT_DATABASE_URL"))
		if err != nil {
			fmt.Fprintln(os.Stderr, "Unable to open audit database:", err)
			os.Exit(1)
		}
		if auditStore != nil {
			audit.DefaultStore = auditStore
			defer func() { _ = auditStore.Close() }()
		}

		host, _ := cmd.Flags().GetString("bind-address")
		port, _ := cmd.Flags().GetString("port")
		s := server.NewServer(cfg, database, tokens, host, port)
		endpoints.RegisterAll(s)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if watch, _ := cmd.Flags().GetBool("watch-config"); watch {
			go func() {
				err := config.Watch(ctx, func(c *config.Config) {
					s.SetConfig(c)
					audit.SetEnabled(c.IsAuditEnabled())
				})
				if err != nil {
					slog.Error("configuration watch stopped", "error", err)
				}
			}()
		}

		errCh := make(chan error, 1)
		go func() {
			slog.Info("running server", "addr", "http://"+s.Addr())
			errCh <- s.Start()
		}()

		select {
		case err := <-errCh:
			if !errors.Is(err, http.ErrServerClosed) {
				fmt.Fprintln(os.Stderr, "Server failed:", err)
				os.Exit(1)
			}
		case <-ctx.Done():
			slog.Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := s.Shutdown(shutdownCtx); err != nil {
				slog.Error("graceful shutdown failed", "error", err)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)

	serverCmd.Flags().StringP("port", "p", defaultPort(), "server listen port")
	serverCmd.Flags().StringP("bind-address", "b", defaultBindAddress(), "server bind address")
	serverCmd.Flags().Bool("no-migrate", false, "skip running database migrations on start")
	serverCmd.Flags().Bool("watch-config", false, "reload the configuration file when it changes")
}
