package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sellermate/prowl/internal/config"
	"github.com/sellermate/prowl/pkg/prowl"
)

var (
	cfgFile       string
	verbose       bool
	headful       bool
	timeout       time.Duration
	outputPath    string
	storeType     string
	mongoURI      string
	screenshotDir string
	strict        bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "prowl",
		Short: "Prowl — Product Page Scraper",
		Long: `Prowl extracts structured product data from e-commerce pages.

Features:
  • Stealth browser sessions with fingerprint masking
  • Six-stage navigation fallback chain (cache, mobile UA, referrer,
    alternate profile, minimal no-JS)
  • CAPTCHA detection with optional manual solve in headful mode
  • Amazon and Flipkart selector tables plus a generic extractor
  • Always-complete records: every field populated or placeholdered
  • JSON Lines and MongoDB record sinks`,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(scrapeCmd())
	rootCmd.AddCommand(versionCmd())
	rootCmd.AddCommand(configCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// scrapeCmd creates the "scrape" subcommand.
func scrapeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrape [url]",
		Short: "Scrape a product page",
		Long:  "Scrape a single product page and print the extracted record as JSON.",
		Args:  cobra.ExactArgs(1),
		RunE:  runScrape,
	}

	cmd.Flags().BoolVar(&headful, "headful", false, "show the browser window (enables manual CAPTCHA solving)")
	cmd.Flags().DurationVarP(&timeout, "timeout", "t", 0, "per-strategy navigation timeout (0 = config default)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "append the record to this JSON Lines file")
	cmd.Flags().StringVar(&storeType, "store", "", "record sink: json or mongodb")
	cmd.Flags().StringVar(&mongoURI, "mongo-uri", "", "MongoDB connection URI for --store mongodb")
	cmd.Flags().StringVar(&screenshotDir, "screenshots", "", "save page and challenge screenshots to this directory")
	cmd.Flags().BoolVar(&strict, "strict", false, "fail with an error instead of emitting a placeholder record")

	return cmd
}

func runScrape(cmd *cobra.Command, args []string) error {
	targetURL := args[0]

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyCLIOverrides(cfg)

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := config.ValidateURL(targetURL); err != nil {
		return fmt.Errorf("invalid URL %q: %w", targetURL, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	scraper := prowl.NewScraper(prowl.WithConfig(cfg))

	start := time.Now()
	var res *prowl.Result
	if cfg.Storage.Type != "" && cfg.Storage.Type != config.StorageNone {
		res, err = scraper.ScrapeAndStore(ctx, targetURL)
	} else {
		res, err = scraper.Scrape(ctx, targetURL)
	}
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(res.Record, "", "  ")
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	fmt.Println(string(out))

	if res.Degraded() {
		fmt.Fprintf(os.Stderr, "\n⚠️  Degraded result in %s: %s\n",
			time.Since(start).Round(time.Millisecond), res.Reason)
	} else {
		fmt.Fprintf(os.Stderr, "\n✅ Scraped in %s (%d navigation attempt(s))\n",
			time.Since(start).Round(time.Millisecond), len(res.Attempts))
	}
	return nil
}

// versionCmd creates the "version" subcommand.
func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("Prowl %s\n", config.Version)
		},
	}
}

// configCmd creates the "config" subcommand for inspecting configuration.
func configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			fmt.Printf("Browser:\n")
			fmt.Printf("  Headless:          %v\n", cfg.Browser.Headless)
			fmt.Printf("  Viewport:          %dx%d\n", cfg.Browser.ViewportWidth, cfg.Browser.ViewportHeight)
			fmt.Printf("  Screenshots:       %v\n", cfg.Browser.Screenshots)
			fmt.Printf("\nNavigation:\n")
			fmt.Printf("  Timeout:           %s\n", cfg.Navigate.Timeout)
			fmt.Printf("  Settle Delay:      %s\n", cfg.Navigate.SettleDelay)
			fmt.Printf("  Challenge Wait:    %s\n", cfg.Navigate.ChallengeWait)
			fmt.Printf("  Min Cached Bytes:  %d\n", cfg.Navigate.MinCachedBytes)
			fmt.Printf("\nScraper:\n")
			fmt.Printf("  Strict Errors:     %v\n", cfg.Scraper.StrictErrors)
			fmt.Printf("  Max Reviews:       %d\n", cfg.Scraper.MaxReviews)
			fmt.Printf("  Max Features:      %d\n", cfg.Scraper.MaxFeatures)
			fmt.Printf("\nStorage:\n")
			fmt.Printf("  Type:              %s\n", cfg.Storage.Type)
			fmt.Printf("  Output Path:       %s\n", cfg.Storage.OutputPath)
			return nil
		},
	}
}

// applyCLIOverrides applies command-line flag values to the config.
func applyCLIOverrides(cfg *config.Config) {
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if headful {
		cfg.Browser.Headless = false
	}
	if timeout > 0 {
		cfg.Navigate.Timeout = timeout
	}
	if screenshotDir != "" {
		cfg.Browser.Screenshots = true
		cfg.Browser.ScreenshotDir = screenshotDir
	}
	if strict {
		cfg.Scraper.StrictErrors = true
	}
	if outputPath != "" {
		cfg.Storage.OutputPath = outputPath
		if storeType == "" {
			storeType = config.StorageJSON
		}
	}
	if mongoURI != "" {
		cfg.Storage.MongoURI = mongoURI
		if storeType == "" {
			storeType = config.StorageMongoDB
		}
	}
	if storeType != "" {
		cfg.Storage.Type = storeType
	}
}
