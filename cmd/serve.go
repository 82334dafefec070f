package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sigscope/internal/controller"
	"sigscope/internal/handler"
	"sigscope/internal/service/signature"
	"sigscope/pkg/mcp"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd(c *cli) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the signature HTTP API and MCP tools",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger := c.cfg, c.logger
			if cmd.Flags().Changed("port") {
				cfg.App.Port = port
			}
			logger.Info("Configuration loaded successfully", zap.Any("config", cfg))

			svc, err := signature.NewService(cfg.Signature, logger)
			if err != nil {
				return err
			}

			var mcpServer *mcp.SignatureServer
			if !cfg.App.DisableMCP {
				mcpServer = mcp.NewSignatureServer(svc, logger)
			} else {
				logger.Info("MCP endpoint disabled in the configuration")
			}
			router := handler.SetupRouter(controller.NewSignatureController(svc, logger), mcpServer, logger)

			srv := &http.Server{
				Addr:    fmt.Sprintf(":%d", cfg.App.Port),
				Handler: router,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				logger.Info("Starting server", zap.Int("port", cfg.App.Port))
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("server failed: %w", err)
				}
				return nil
			case <-ctx.Done():
			}

			logger.Info("Shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 8080, "Server port (overrides app.port)")
	return cmd
}
