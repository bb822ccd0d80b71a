/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the settlement engine server. Handles
  configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags
  2. Open the SQLite journal export (unless disabled)
  3. Create API handler around an empty simulation
  4. Optionally preload a demo scenario
  5. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port      HTTP server port (default: 8080)
  -db        SQLite journal path (default: journal.db)
             Use ":memory:" for in-memory, "" to disable the export
  -scenario  Demo scenario to load on startup (default: none)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close the journal database
  4. Exit

EXAMPLES:
  # Run with a file-backed journal and the interbank demo loaded
  ./server -db="./data/run.db" -scenario=interbank

  # Run without durable journal
  ./server -db=""

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - store/sqlite/sqlite.go: Journal export
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/warp/settlement-engine/api"
	"github.com/warp/settlement-engine/store/sqlite"
)

func main() {
	// Flags
	port := flag.Int("port", 8080, "HTTP server port")
	dbPath := flag.String("db", "journal.db", "SQLite journal path (empty to disable)")
	scenario := flag.String("scenario", "", "demo scenario to load on startup")
	flag.Parse()

	// Journal export is optional; the engine runs fine without it.
	var store *sqlite.Store
	if *dbPath != "" {
		var err error
		store, err = sqlite.New(*dbPath)
		if err != nil {
			log.Fatalf("Failed to open journal database: %v", err)
		}
		defer store.Close()
	}

	// Initialize handler
	handler := api.NewHandler(store)
	if *scenario != "" {
		if err := handler.Load(*scenario); err != nil {
			log.Fatalf("Failed to load scenario %q: %v", *scenario, err)
		}
		log.Printf("Loaded scenario %q", *scenario)
	}

	// Create router
	router := api.NewRouter(handler)

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("🚀 Server starting on http://localhost:%d", *port)
		log.Printf("📊 API available at http://localhost:%d/api", *port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
