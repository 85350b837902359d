/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the timekeeping server. Handles configuration,
  dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load environment configuration (.env supported)
  2. Parse command-line flags (flags win over environment)
  3. Initialize SQLite store
  4. Create API handler with domain services
  5. Configure HTTP router
  6. Start the calendar scheduler
  7. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port    HTTP server port (default from PORT, else 8080)
  -db      SQLite database path (default from DATABASE_PATH)
           Use ":memory:" for in-memory database
  -canton  Canton code scoping regional public holidays (default CANTON)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/timekeeping.db"

  # Run with in-memory database, Zurich holiday calendar
  ./server -db=":memory:" -canton=ZH

SEE ALSO:
  - api/server.go: Router configuration
  - config/config.go: Environment configuration
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/erdemkoca/baunex-timekeeping/api"
	"github.com/erdemkoca/baunex-timekeeping/config"
	"github.com/erdemkoca/baunex-timekeeping/store/sqlite"
)

func main() {
	cfg := config.Load()

	port := flag.Int("port", cfg.Port, "HTTP server port")
	dbPath := flag.String("db", cfg.DatabasePath, "SQLite database path")
	canton := flag.String("canton", cfg.Canton, "canton code for regional holidays")
	flag.Parse()

	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logrus.SetLevel(level)
	}

	store, err := sqlite.New(*dbPath)
	if err != nil {
		logrus.WithError(err).Fatal("failed to initialize database")
	}
	defer store.Close()

	handler := api.NewHandler(store, *canton)
	router := api.NewRouter(handler)

	scheduler := api.NewCalendarScheduler(handler, *canton)
	scheduler.Start()
	defer scheduler.Stop()

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logrus.WithFields(logrus.Fields{
			"port":   *port,
			"db":     *dbPath,
			"canton": *canton,
		}).Info("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logrus.WithError(err).Fatal("server forced to shutdown")
	}

	logrus.Info("server stopped")
}
