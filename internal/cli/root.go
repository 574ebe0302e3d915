package cli

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/vietddude/stylelog"

	"failover-constructor/internal/catalog"
	"failover-constructor/internal/class"
	"failover-constructor/internal/config"
	"failover-constructor/internal/metrics"
	"failover-constructor/internal/supervisor"
)

var (
	cfgPath      string
	catalogPath  string
	isDebug      bool
	printMetrics bool
)

var rootCmd = &cobra.Command{
	Use:   "failover",
	Short: "Construct catalog classes with failover",
	Long: `failover loads a YAML class catalog and constructs its classes, falling
back to the classes named by failover_to when construction fails.`,
	PersistentPostRun: runMetrics,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "config.yaml", "config file (default is config.yaml)")
	rootCmd.PersistentFlags().StringVar(&catalogPath, "catalog", "", "class catalog file (overrides the config)")
	rootCmd.PersistentFlags().BoolVar(&isDebug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&printMetrics, "metrics", false, "print failover metrics after the command")
}

// app is the state shared by the commands once configuration is loaded.
type app struct {
	cfg     *config.Config
	file    *catalog.File
	classes *class.Registry
}

var current *app

// setup loads the environment, the config and the catalog file. It exits the
// process on failure.
func setup() *app {
	_ = godotenv.Load()

	cfg, err := config.LoadOrDefault(cfgPath)
	if err != nil {
		stylelog.InitDefault()
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	slogLevel := slog.LevelInfo
	if isDebug || cfg.Logging.Level == "debug" {
		slogLevel = slog.LevelDebug
	}

	stylelog.InitDefault(&tint.Options{
		Level:      slogLevel,
		TimeFormat: time.RFC3339,
	})

	if catalogPath != "" {
		cfg.Catalog = catalogPath
	}

	file, err := catalog.LoadFile(cfg.Catalog)
	if err != nil {
		slog.Error("Failed to load catalog", "error", err)
		os.Exit(1)
	}

	current = &app{cfg: cfg, file: file}

	return current
}

// mustBuild sets up the app and builds its class registry.
func mustBuild() *app {
	a := setup()

	if err := a.build(); err != nil {
		slog.Error("Failed to build catalog", "catalog", a.cfg.Catalog, "error", err)
		os.Exit(1)
	}

	return a
}

func (a *app) build() error {
	classes, err := catalog.Build(a.file, catalog.DefaultRegistry())
	if err != nil {
		return err
	}

	a.classes = classes

	return nil
}

func (a *app) supervisor() *supervisor.Supervisor {
	sc := a.cfg.SupervisorConfig()
	sc.Logger = slog.Default()

	return supervisor.New(a.classes, sc)
}

func runMetrics(cmd *cobra.Command, args []string) {
	if !printMetrics && (current == nil || !current.cfg.Metrics.Print) {
		return
	}

	fmt.Println()

	if err := metrics.Write(os.Stdout, prometheus.DefaultGatherer); err != nil {
		slog.Error("Failed to print metrics", "error", err)
	}
}
