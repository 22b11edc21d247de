package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/davetashner/promptproxy/internal/completion"
	"github.com/davetashner/promptproxy/internal/config"
	"github.com/davetashner/promptproxy/internal/handler"
)

// Serve command flags.
var serveAddr string

// newCompleter builds the completion backend. Tests replace it.
var newCompleter = func(cfg config.Config) handler.Completer {
	return completion.NewFromConfig(cfg)
}

// serveCmd hosts the request handler over plain HTTP.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the proxy as a local HTTP server",
	Long: `Run the same request handler the Lambda function uses behind a local
HTTP server. Every method and path is routed to the handler.

The listen address defaults to $HOST:$PORT (127.0.0.1:8080).`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (host:port)")
}

func newHandler(cfg config.Config) *handler.Handler {
	return handler.New(newCompleter(cfg),
		handler.WithDefaultMaxTokens(cfg.DefaultMaxTokens),
		handler.WithMaxTokensLimit(cfg.MaxTokensLimit),
	)
}

func listenAddr() string {
	if serveAddr != "" {
		return serveAddr
	}
	host := config.GetEnv("HOST", "127.0.0.1")
	port := strings.TrimPrefix(config.GetEnv("PORT", "8080"), ":")
	return net.JoinHostPort(host, port)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	mux.Handle("/", handler.AccessLog(newHandler(cfg)))

	ln, err := net.Listen("tcp", listenAddr())
	if err != nil {
		return exitError(ExitError, "promptproxy: listen: %v", err)
	}

	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return serve(ctx, srv, ln, cmd)
}

func serve(ctx context.Context, srv *http.Server, ln net.Listener, cmd *cobra.Command) error {
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "promptproxy listening on http://%s\n", ln.Addr())

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return exitError(ExitError, "promptproxy: serve: %v", err)
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return exitError(ExitError, "promptproxy: shutdown: %v", err)
	}
	return nil
}
