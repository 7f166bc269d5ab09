// Command docs-crawler is the CLI entrypoint: crawl a seed URL to
// completion, scrape a single URL synchronously, or serve the HTTP API.
package main

import (
	cmd "github.com/rohmanhakim/docs-crawler/internal/cli"
)

func main() {
	cmd.Execute()
}
