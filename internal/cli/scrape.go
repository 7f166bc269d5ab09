package cmd

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/rohmanhakim/docs-crawler/internal/httpapi"
	"github.com/rohmanhakim/docs-crawler/internal/metadata"
	"github.com/rohmanhakim/docs-crawler/pkg/rotation"
	"github.com/spf13/cobra"
)

var scrapeURL string

// scrapeCmd runs the synchronous single-URL fetch -> clean -> transform
// pipeline once and prints the resulting Markdown, bypassing the
// frontier/controller/job-queue stack the same way POST /scrape does.
var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Fetch, clean, and convert a single URL to Markdown",
	Run: func(cmd *cobra.Command, args []string) {
		if scrapeURL == "" {
			fmt.Fprintln(os.Stderr, "Error: --url is required")
			cmd.Usage()
			os.Exit(1)
		}
		target, err := url.Parse(scrapeURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid url: %s\n", err)
			os.Exit(1)
		}

		recorder := metadata.NewRecorderWithLogger("scrape", loggerFromEnv())
		pipeline := httpapi.NewPipeline(
			recorder,
			cacheDirFromEnv(),
			cacheTTLFromEnv(),
			rotation.NewRoundRobinRotator(nil, nil, userAgentOrDefault()),
		)

		result, scrapeErr := pipeline.Scrape(context.Background(), *target, httpapi.ScrapeOptions{})
		if scrapeErr != nil {
			fmt.Fprintf(os.Stderr, "Scrape failed: %s\n", scrapeErr.Error())
			os.Exit(1)
		}
		fmt.Println(string(result.Markdown))
	},
}

func userAgentOrDefault() string {
	if userAgent != "" {
		return userAgent
	}
	return "docs-crawler/1.0"
}

func cacheDirFromEnv() string {
	if dir := os.Getenv("CACHE_DIRECTORY"); dir != "" {
		return dir
	}
	return ""
}

func cacheTTLFromEnv() time.Duration {
	if v := os.Getenv("CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return time.Hour
}

func init() {
	scrapeCmd.Flags().StringVar(&scrapeURL, "url", "", "URL to scrape")
	rootCmd.AddCommand(scrapeCmd)
}
