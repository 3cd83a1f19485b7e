package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/theirongolddev/stackcost/internal/config"
	"github.com/theirongolddev/stackcost/internal/logger"
	"github.com/theirongolddev/stackcost/internal/model"
	"github.com/theirongolddev/stackcost/internal/remote"
	"github.com/theirongolddev/stackcost/internal/session"

	"github.com/spf13/cobra"
)

var (
	flagCatalog  string
	flagCurrency string
	flagCycle    string
	flagQuiet    bool
	flagOffline  bool
	flagLogLevel string
)

// appConfig is loaded once before any command runs.
var appConfig = config.DefaultConfig()

var rootCmd = &cobra.Command{
	Use:   "stackcost",
	Short: "Tech stack cost calculator",
	Long: "Price a selection of apps from a catalog in any supported currency, " +
		"then save, share, or export it as a report.",
	SilenceUsage:      true,
	PersistentPreRunE: initRuntime,
	RunE:              runQuote,
}

// Execute is the main entry point called from main.go.
func Execute() {
	defer logger.Sync()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagCatalog, "catalog", "", "Catalog path or URL (default from config, then data.json)")
	rootCmd.PersistentFlags().StringVar(&flagCurrency, "currency", "", "Display currency (default: catalog default)")
	rootCmd.PersistentFlags().StringVar(&flagCycle, "cycle", "", "Billing cycle: monthly or yearly")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
	rootCmd.PersistentFlags().BoolVar(&flagOffline, "offline", false, "Skip the exchange-rate fetch and use 1:1 parity")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")

	addStackSourceFlags(rootCmd)
}

// initRuntime loads .env and the config file, then builds the logger.
func initRuntime(_ *cobra.Command, _ []string) error {
	if err := config.LoadEnv(); err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	appConfig = cfg

	logger.Init(logLevel(), config.Production())
	return nil
}

func logLevel() string {
	if flagLogLevel != "" {
		return flagLogLevel
	}
	return appConfig.Log.Level
}

// newGetter returns the throttled HTTP client for catalog, rate, chart, and icon fetches.
func newGetter() *remote.Client {
	return remote.New(
		remote.WithTimeout(time.Duration(appConfig.APIs.TimeoutSec)*time.Second),
		remote.WithRateLimit(appConfig.APIs.RequestsPerSec, 1),
	)
}

func catalogSource() string {
	if flagCatalog != "" {
		return flagCatalog
	}
	return appConfig.General.Catalog
}

func billingCycle() (model.Cycle, error) {
	c := flagCycle
	if c == "" {
		c = appConfig.General.Cycle
	}
	return model.ParseCycle(c)
}

// sessionOptions collects session settings from flags and config.
func sessionOptions() (session.Options, error) {
	cycle, err := billingCycle()
	if err != nil {
		return session.Options{}, err
	}
	pricing, err := appConfig.Pricing.ForApps()
	if err != nil {
		return session.Options{}, err
	}
	cur := flagCurrency
	if cur == "" {
		cur = appConfig.General.Currency
	}
	return session.Options{
		CatalogSource: catalogSource(),
		Getter:        newGetter(),
		Offline:       flagOffline,
		RatesURL:      appConfig.APIs.RatesURL,
		Currency:      cur,
		Cycle:         cycle,
		Pricing:       pricing,
		Log:           logger.Get(),
	}, nil
}

// loadSession is the shared catalog and rate loading path used by all commands.
func loadSession(ctx context.Context) (*session.Session, error) {
	src := catalogSource()
	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Loading catalog %s...\n", src)
	}

	opts, err := sessionOptions()
	if err != nil {
		return nil, err
	}
	sess, err := session.Open(ctx, opts)
	if err != nil {
		return nil, err
	}

	if !flagQuiet {
		cat := sess.Catalog()
		rt := sess.Rates()
		rates := fmt.Sprintf("%d rates vs %s", len(rt.Rates), strings.ToUpper(rt.Base))
		if rt.Degraded {
			rates = "rates unavailable, using 1:1 parity"
		} else if flagOffline {
			rates = "offline, using 1:1 parity"
		}
		fmt.Fprintf(os.Stderr, "  Loaded %d apps in %d categories (%s)\n",
			len(cat.Apps()), len(cat.Categories()), rates)
	}
	return sess, nil
}
