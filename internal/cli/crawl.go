package cmd

import (
	"fmt"
	"os"

	"github.com/rohmanhakim/docs-crawler/internal/config"
	"github.com/rohmanhakim/docs-crawler/internal/scheduler"
	"github.com/spf13/cobra"
)

// crawlCmd actually runs a crawl to completion, unlike the bare root
// command which only prints the resolved configuration.
var crawlCmd = &cobra.Command{
	Use:   "crawl",
	Short: "Run a crawl to completion and write Markdown output",
	Run: func(cmd *cobra.Command, args []string) {
		if len(seedURLs) == 0 && cfgFile == "" {
			fmt.Fprintln(os.Stderr, "Error: --seed-url or --config-file is required")
			cmd.Usage()
			os.Exit(1)
		}

		parsedURLs, err := parseSeedURLs(seedURLs)
		if err != nil && cfgFile == "" {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
			os.Exit(1)
		}

		var resolved config.Config
		if cfgFile != "" && len(parsedURLs) == 0 {
			// The config file carries its own seed URLs.
			resolved, err = config.WithConfigFile(cfgFile)
		} else {
			resolved, err = InitConfigWithError(parsedURLs)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
			os.Exit(1)
		}

		sched := scheduler.NewScheduler()
		execution, execErr := sched.ExecuteCrawlingWithConfig(resolved)
		if execErr != nil {
			fmt.Fprintf(os.Stderr, "Crawl failed: %s\n", execErr.Error())
			os.Exit(1)
		}

		fmt.Printf("Crawl finished: %d pages written\n", len(execution.WriteResults))
		for _, wr := range execution.WriteResults {
			fmt.Printf("  %s\n", wr.Path())
		}
	},
}

func init() {
	rootCmd.AddCommand(crawlCmd)
}
