package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"studybot-client/internal/transport/ws"
)

var listenAddr string

// NewServeCmd builds the CLI subcommand that hosts the local gateway for
// external UI processes.
func NewServeCmd(configPath, serverURL, token *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the session over a local websocket gateway",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGateway(cmd.Context(), *configPath, *serverURL, *token)
		},
	}
	cmd.Flags().StringVar(&listenAddr, "listen", "127.0.0.1:7385", "address to listen on")
	return cmd
}

func runGateway(ctx context.Context, configPath, serverURL, token string) error {
	session, client, _, err := buildSession(configPath, serverURL, token)
	if err != nil {
		return err
	}
	if err := client.Health(ctx); err != nil {
		log.Printf("remote service unreachable: %v", err)
	}
	if err := session.Hydrate(ctx); err != nil {
		log.Printf("could not fetch history: %v", err)
	}

	gateway := ws.NewGateway(session)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", gateway.ServeWS)

	server := &http.Server{
		Addr:         listenAddr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("serving gateway on %s", listenAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start gateway: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down gateway...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down gateway...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
