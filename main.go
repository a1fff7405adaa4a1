package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"sjsage522/profilescout/config"
	"sjsage522/profilescout/helpers"
	"sjsage522/profilescout/internal/scraper"
	"sjsage522/profilescout/logger"
	"sjsage522/profilescout/services/browser"
	"sjsage522/profilescout/services/cache"
	"sjsage522/profilescout/services/export"
	"sjsage522/profilescout/services/publisher"
	"sjsage522/profilescout/services/session"
)

// Services holds the external dependencies of one crawl run.
type Services struct {
	Browser   browser.Session
	Cache     cache.CacheService
	Publisher publisher.Publisher
}

// Cleanup closes all service connections.
func (s *Services) Cleanup() {
	if s.Browser != nil {
		if err := s.Browser.Close(); err != nil {
			logger.Error("Failed to close browser: %v", err)
		}
	}
	if s.Publisher != nil {
		if err := s.Publisher.Close(); err != nil {
			logger.Error("Failed to close publisher: %v", err)
		}
	}
}

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		flagURL      string
		flagLimit    int
		flagRoles    []string
		flagHeadless bool
		flagOutput   string
		flagNoOpen   bool
	)

	cmd := &cobra.Command{
		Use:   "profilescout",
		Short: "Collect public profile data from a company people page",
		Long: "profilescout discovers profile links on a company people page, visits each\n" +
			"profile with a real browser session, and exports the extracted records to CSV.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := godotenv.Load(); err != nil {
				logger.Info("No .env file found, using environment variables")
			}
			if logDir := os.Getenv("LOG_DIR"); logDir != "" {
				logger.InitWithFile(logDir)
			} else {
				logger.Init()
			}

			cfg := config.LoadConfig()
			if cmd.Flags().Changed("url") {
				cfg.PeopleURL = flagURL
			}
			if cmd.Flags().Changed("limit") {
				cfg.ProfileLimit = flagLimit
			}
			if cmd.Flags().Changed("role") {
				cfg.RoleKeywords = flagRoles
			}
			if cmd.Flags().Changed("headless") {
				cfg.Headless = flagHeadless
			}
			if cmd.Flags().Changed("output") {
				cfg.OutputCSV = flagOutput
			}
			if flagNoOpen {
				cfg.OpenAfterExport = false
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVarP(&flagURL, "url", "u", "", "company people page URL")
	cmd.Flags().IntVarP(&flagLimit, "limit", "l", config.DefaultProfileLimit, "maximum number of profiles to extract")
	cmd.Flags().StringSliceVarP(&flagRoles, "role", "r", nil, "role keywords given priority during discovery")
	cmd.Flags().BoolVar(&flagHeadless, "headless", false, "run the browser headless")
	cmd.Flags().StringVarP(&flagOutput, "output", "o", "", "output CSV path")
	cmd.Flags().BoolVar(&flagNoOpen, "no-open", false, "do not open the CSV after export")
	return cmd
}

func run(ctx context.Context, cfg *config.Config) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go handleSignals(cancel)

	if err := helpers.ProbeURL(cfg.PeopleURL); err != nil {
		logger.Warn("People page probe failed, continuing with browser anyway: %v", err)
	}

	svcs, err := initializeServices(ctx, cfg)
	if err != nil {
		return err
	}
	defer svcs.Cleanup()

	pacer := scraper.NewPacer()
	rules := scraper.LinkedInRules()
	prompt := stdinPrompt()

	auth := session.NewManager(
		session.NewFileStore(cfg.CookieFile),
		prompt,
		cfg.LandingURL,
		cfg.NavTimeout,
	)
	collector := scraper.NewCollector(
		svcs.Browser,
		pacer,
		rules,
		scraper.KeywordPredicate(cfg.RoleKeywords),
		prompt,
		cfg.NavTimeout,
	)
	extractor := scraper.NewExtractor(
		svcs.Browser,
		pacer,
		rules,
		cfg.NavTimeout,
		cfg.WaitTimeout,
		cfg.HomeOrg,
		cfg.SkillLimit,
		cfg.ExperienceDetailLimit,
	)

	orch := scraper.NewOrchestrator(scraper.Deps{
		Session:   svcs.Browser,
		Auth:      auth,
		Collector: collector,
		Extractor: extractor,
		Pacer:     pacer,
		Records:   scraper.NewRecordCache(svcs.Cache, cfg.RecordTTL),
		Publisher: svcs.Publisher,
		Exporter:  export.NewCSVExporter(cfg.OutputCSV, cfg.OpenAfterExport),
	}, cfg.PeopleURL, cfg.ProfileLimit, rules.BaseHost)
	orch.ShowProgress = true

	result, err := orch.Run(ctx)
	if err != nil {
		return err
	}
	logger.Info("Extracted %d profiles (%d failed, %d from cache) in %s",
		result.Succeeded, result.Failed, result.FromCache, result.Elapsed.Round(time.Second))
	return nil
}

// initializeServices initializes all required services
func initializeServices(ctx context.Context, cfg *config.Config) (*Services, error) {
	svcs := &Services{}

	sess, err := browser.NewRodSession(browser.Options{
		Headless:  cfg.Headless,
		UserAgent: cfg.UserAgent,
		Width:     1280,
		Height:    900,
	})
	if err != nil {
		return nil, err
	}
	svcs.Browser = sess

	if cfg.CacheEnabled {
		svcs.Cache = cache.NewMemcacheService(cfg.MemcacheAddr)
	}
	if cfg.PublishEnabled {
		svcs.Publisher = publisher.NewRedisPublisher(
			ctx,
			cfg.RedisAddr,
			cfg.RedisDB,
			cfg.RedisStream,
			cfg.RedisStreamCount,
			cfg.RedisStreamMaxLength,
		)
	}
	return svcs, nil
}

// stdinPrompt returns a prompt that blocks until the operator presses
// Enter, or the context is cancelled.
func stdinPrompt() session.PromptFunc {
	return func(ctx context.Context, message string) error {
		fmt.Println()
		fmt.Println(message)
		fmt.Print("> press Enter to continue ")

		done := make(chan struct{})
		go func() {
			reader := bufio.NewReader(os.Stdin)
			_, _ = reader.ReadString('\n')
			close(done)
		}()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-done:
			return nil
		}
	}
}

func handleSignals(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	logger.Info("Received signal %s, finishing current profile before shutdown", strings.ToUpper(sig.String()))
	cancel()
}
