package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/plus3/blockfall/internal/stream"
	"github.com/plus3/blockfall/sim"
)

func main() {
	addr := flag.String("addr", ":8080", "Address to listen on.")
	maxSessions := flag.Int("max-sessions", 100, "Maximum concurrent sessions.")
	interval := flag.Duration("interval", 500*time.Millisecond, "Gravity period of each session.")
	idle := flag.Duration("idle", 5*time.Minute, "Close sessions with no command for this long.")
	policy := flag.String("policy", "move", "Collision policy: tick or move.")
	seed := flag.Uint64("seed", uint64(time.Now().UnixNano()), "Seed for the first session's piece bag.")
	flag.Parse()

	cfg := sim.DefaultConfig()
	p, err := sim.ParsePolicy(*policy)
	if err != nil {
		log.Fatalf("Invalid policy: %v", err)
	}
	cfg.Policy = p

	hub, err := stream.NewHub(stream.HubConfig{
		MaxSessions: *maxSessions,
		Board:       cfg,
		Interval:    *interval,
		Seed:        *seed,
	})
	if err != nil {
		log.Fatalf("Failed to create hub: %v", err)
	}
	defer hub.Stop()

	mux := http.NewServeMux()
	mux.Handle("/ws", &stream.Handler{Hub: hub})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	server := &http.Server{
		Addr:        *addr,
		ReadTimeout: 5 * time.Second,
		IdleTimeout: 30 * time.Second,
		Handler:     loggingMiddleware(mux),
	}

	shutdown := make(chan struct{})
	go handleSignals(server, hub, shutdown)

	go hub.MaintainSessions(30*time.Second, *idle)

	log.Printf("Server starting on %s", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Server failed: %v", err)
	}

	<-shutdown
	log.Println("Server stopped gracefully")
}

func handleSignals(server *http.Server, hub *stream.Hub, shutdown chan struct{}) {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	<-sig
	log.Println("Received shutdown signal")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	// Hijacked websocket connections are not tracked by Shutdown.
	hub.Stop()

	close(shutdown)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}
