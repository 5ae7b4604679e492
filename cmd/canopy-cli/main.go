package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/paveg/canopy/internal/config"
	"github.com/paveg/canopy/internal/logging"
	"github.com/paveg/canopy/internal/monitoring"
	"github.com/paveg/canopy/internal/version"
	"go.uber.org/zap"
)

func customUsage() {
	fmt.Fprintf(os.Stderr, "canopy CLI (version %s)\n\n", version.Version)
	fmt.Fprintf(os.Stderr, "Usage: canopy-cli [options]\n\n")
	fmt.Fprintf(os.Stderr, "Options:\n")
	fmt.Fprintf(os.Stderr, "  --demo NAME\n\t\tRun a demo: people, pivot, join, explode or all\n")
	fmt.Fprintf(os.Stderr, "  --schema\n\t\tPrint the schema of each result as JSON\n")
	fmt.Fprintf(os.Stderr, "  --config FILE\n\t\tLoad configuration from a .json or .yaml file\n")
	fmt.Fprintf(os.Stderr, "  --metrics-port N\n\t\tServe metrics on this port after the demo and block\n")
	fmt.Fprintf(os.Stderr, "  -v, --version\n\t\tPrint version information and exit\n")
	fmt.Fprintf(os.Stderr, "  -h, --help\n\t\tShow this help message and exit\n")
}

func main() {
	versionFlag := flag.Bool("v", false, "Print version and exit")
	flag.BoolVar(versionFlag, "version", false, "Print version and exit") // alias
	demoFlag := flag.String("demo", "", "Demo to run")
	schemaFlag := flag.Bool("schema", false, "Print result schemas as JSON")
	configFlag := flag.String("config", "", "Configuration file")
	portFlag := flag.Int("metrics-port", 0, "Metrics port")

	//nolint:reassign // Standard Go pattern for customizing flag usage message
	flag.Usage = customUsage

	flag.Parse()

	if *versionFlag {
		fmt.Print(version.Info().String())
		return
	}
	if *demoFlag == "" {
		flag.Usage()
		os.Exit(1)
	}

	if err := setup(*configFlag, *portFlag > 0); err != nil {
		fmt.Fprintf(os.Stderr, "canopy-cli: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logging.Sync() }()

	if err := run(os.Stdout, *demoFlag, *schemaFlag); err != nil {
		logging.Get().Error("demo failed", zap.String("demo", *demoFlag), zap.Error(err))
		fmt.Fprintf(os.Stderr, "canopy-cli: %v\n", err)
		os.Exit(1)
	}

	if *portFlag > 0 {
		serveMetrics(*portFlag)
	}
}

// setup loads configuration from file and environment, then installs the
// global logger and, when requested, a metrics collector.
func setup(path string, metrics bool) error {
	cfg := config.LoadFromEnv()
	if path != "" {
		loaded, err := config.LoadFromFile(path)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if metrics {
		cfg.MetricsCollection = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	config.SetGlobalConfig(cfg)
	if cfg.MetricsCollection {
		monitoring.EnableGlobalMonitoring()
	}
	return logging.Init(cfg)
}

func run(w io.Writer, demo string, schema bool) error {
	names := []string{demo}
	if demo == "all" {
		names = demoOrder
	}
	for _, name := range names {
		fn, ok := demos[name]
		if !ok {
			return fmt.Errorf("unknown demo %q", name)
		}
		fmt.Fprintf(w, "== %s ==\n", name)
		df, err := fn()
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		render(w, df)
		if schema {
			data, err := df.Schema().JSON()
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "%s\n", data)
		}
		fmt.Fprintln(w)
	}
	return nil
}

func serveMetrics(port int) {
	collector := monitoring.GetGlobalCollector()
	summary := monitoring.GlobalSummary()
	logging.Info("serving metrics",
		zap.Int("port", port),
		zap.Int("operations", summary.TotalOperations))
	server := monitoring.NewMonitoringServer(collector, port)
	if err := server.Start(); err != nil {
		logging.Warn("metrics server stopped", zap.Error(err))
	}
}
