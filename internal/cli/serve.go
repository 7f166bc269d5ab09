package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/rohmanhakim/docs-crawler/internal/controller"
	"github.com/rohmanhakim/docs-crawler/internal/httpapi"
	"github.com/rohmanhakim/docs-crawler/internal/jobqueue"
	"github.com/rohmanhakim/docs-crawler/internal/metadata"
	"github.com/rohmanhakim/docs-crawler/internal/plugin"
	"github.com/rohmanhakim/docs-crawler/pkg/rotation"
	"github.com/spf13/cobra"
)

var serveWorkers int

// serveCmd starts the HTTP surface: the synchronous single-URL pipeline
// plus the job-queue-backed crawl endpoints, reading its runtime
// configuration from the recognized environment variables (PORT,
// API_KEY, CACHE_ENABLED, CACHE_TTL, CACHE_DIRECTORY, LOG_LEVEL; LLM_*
// is read by an external plugin, not the core).
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server (single-URL scrape + crawl job endpoints)",
	Run: func(cmd *cobra.Command, args []string) {
		port := os.Getenv("PORT")
		if port == "" {
			port = "8080"
		}
		apiKey := os.Getenv("API_KEY")

		cacheEnabled := true
		if v := os.Getenv("CACHE_ENABLED"); v != "" {
			if b, err := strconv.ParseBool(v); err == nil {
				cacheEnabled = b
			}
		}
		cacheDir := ""
		if cacheEnabled {
			cacheDir = os.Getenv("CACHE_DIRECTORY")
		}
		cacheTTL := time.Hour
		if v := os.Getenv("CACHE_TTL"); v != "" {
			if d, err := time.ParseDuration(v); err == nil {
				cacheTTL = d
			}
		}

		recorder := metadata.NewRecorderWithLogger("httpapi", loggerFromEnv())
		pipeline := httpapi.NewPipeline(recorder, cacheDir, cacheTTL, rotation.NewRoundRobinRotator(nil, nil, userAgentOrDefault()))

		store := jobqueue.NewInMemoryStore()
		ctrl := controller.NewController(store, recorder, serveWorkers)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go ctrl.Run(ctx)

		srv := httpapi.NewServer(pipeline, ctrl, plugin.Noop{}, apiKey)
		httpServer := &http.Server{
			Addr:    ":" + port,
			Handler: srv.Handler(),
		}

		go func() {
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
			<-sigCh
			cancel()
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer shutdownCancel()
			_ = httpServer.Shutdown(shutdownCtx)
			pipeline.Close()
		}()

		fmt.Printf("Listening on :%s\n", port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Fprintf(os.Stderr, "server error: %s\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	serveCmd.Flags().IntVar(&serveWorkers, "workers", 4, "number of concurrent crawl-kickoff workers")
	rootCmd.AddCommand(serveCmd)
}
