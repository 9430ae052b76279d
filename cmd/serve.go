package cmd

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/gestormatic/loginapi/internal/auth"
	"github.com/gestormatic/loginapi/internal/db/bunx"
	"github.com/gestormatic/loginapi/internal/server"
	"github.com/gestormatic/loginapi/internal/services/admin"
	"github.com/gestormatic/loginapi/internal/services/profile"
	"github.com/gestormatic/loginapi/internal/supabase"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the login API server",
	Long:  `Starts the HTTP server with the auth and admin endpoints.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Connect to database
		db, err := bunx.NewDB(cfg.DatabaseURL, cfg.MaxDBConnections)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer bunx.Close(db)

		log.Printf("Connected to database")

		idp, err := supabase.NewClient(cfg.Supabase.URL, cfg.Supabase.ServiceRoleKey)
		if err != nil {
			return fmt.Errorf("configure identity-provider client: %w", err)
		}

		// Initialize services
		claimsService := admin.NewClaimsService(db, idp)
		roleService := admin.NewRoleService(db)
		profileService := profile.NewService(db)

		// Seed the initial administrator before accepting traffic, so the
		// admin API is usable from the first request.
		if err := admin.Bootstrap(cmd.Context(), cfg.Bootstrap, db, claimsService); err != nil {
			return fmt.Errorf("bootstrap failed: %w", err)
		}

		verifier, err := auth.NewVerifier(cmd.Context(), cfg,
			auth.WithErrorResponder(server.InvalidTokenResponder))
		if err != nil {
			return fmt.Errorf("configure token verifier: %w", err)
		}

		handler := server.NewH2CHandler(server.RouterOptions{
			Verifier:     verifier,
			SignInClient: idp,
			Profiles:     profileService,
			Claims:       claimsService,
			Roles:        roleService,
		})

		srv := &http.Server{
			Addr:         cfg.ServerAddr,
			Handler:      handler,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		}

		// Start server in goroutine
		serverErrors := make(chan error, 1)
		go func() {
			log.Printf("Starting server on %s", cfg.ServerAddr)
			serverErrors <- srv.ListenAndServe()
		}()

		// Wait for interrupt signal
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			return fmt.Errorf("server error: %w", err)

		case sig := <-shutdown:
			log.Printf("Received signal %v, shutting down gracefully", sig)

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				srv.Close()
				return fmt.Errorf("graceful shutdown failed: %w", err)
			}

			log.Printf("Server stopped")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
