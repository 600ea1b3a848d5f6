package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/sixpicks/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server",
	Long: `Start the SixPicks web server.
The web server provides a browser-based interface for picking a month,
re-rolling single photos and saving the collage into the library.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Int("port", 0, "Port to listen on (default WEB_PORT or 8080)")
	serveCmd.Flags().String("host", "", "Host to bind to (default WEB_HOST or 0.0.0.0)")
}

// resolveServeHostPort resolves port and host from flags, falling back to the environment config.
func resolveServeHostPort(cmd *cobra.Command, port int, host string) (int, string) {
	if p := mustGetInt(cmd, "port"); p > 0 {
		port = p
	}
	if h := mustGetString(cmd, "host"); h != "" {
		host = h
	}
	return port, host
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	svc, closeFn, err := openService(context.Background(), cfg)
	if err != nil {
		return err
	}
	defer closeFn()
	fmt.Printf("Using %s photo library\n", cfg.Library.Backend)

	port, host := resolveServeHostPort(cmd, cfg.Web.Port, cfg.Web.Host)
	server := web.NewServer(cfg, svc, port, host)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Println("\nShutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			fmt.Printf("Error during shutdown: %v\n", err)
		}
	}()

	fmt.Printf("Starting SixPicks Web UI on http://%s:%d\n", host, port)
	fmt.Println("Press Ctrl+C to stop")

	if err := server.Start(); err != nil {
		return fmt.Errorf("starting server: %w", err)
	}
	return nil
}
