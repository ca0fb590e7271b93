package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/jbernhard/flow-cumulants/internal/config"
	"github.com/jbernhard/flow-cumulants/internal/flow"
	"github.com/jbernhard/flow-cumulants/internal/reader"
	"github.com/jbernhard/flow-cumulants/internal/report"
	"github.com/jbernhard/flow-cumulants/internal/telemetry"
)

const (
	appName = "flowcum"
	version = "v1.2.0"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	if term.IsTerminal(int(os.Stderr.Fd())) {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}

	rootCmd := &cobra.Command{
		Use:     appName + " [flags] [input-file]",
		Short:   "Anisotropic-flow cumulants from per-event azimuthal angles",
		Version: version,
		Long: appName + ` computes flow coefficients v_n{2}, v_n{4} and v_n{6} from
batches of particle azimuthal angles grouped into events. Input is read
from a file argument or stdin, as blank-line-separated phi lists or
UrQMD file-14 records. Results are emitted per harmonic in ascending
order: v_n{2}, its error if requested, then v_n{4} and v_n{6}.`,
		Args:         cobra.MaximumNArgs(1),
		RunE:         runAnalysis,
		SilenceUsage: true,
	}

	registerFlags(rootCmd.Flags())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runAnalysis(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd.Flags())
	if err != nil {
		return err
	}
	req, err := cfg.Request()
	if err != nil {
		return err
	}

	runID := uuid.NewString()[:8]
	logger := log.With().Str("run_id", runID).Logger()

	input, name, err := openInput(args)
	if err != nil {
		return err
	}
	defer input.Close()

	src, err := newSource(cfg, input)
	if err != nil {
		return err
	}

	metrics := telemetry.NewMetrics()
	if cfg.MetricsAddr != "" {
		srv := telemetry.NewServer(cfg.MetricsAddr, metrics)
		go func() {
			if err := srv.ListenAndServe(); err != nil {
				logger.Error().Err(err).Msg("status server failed")
			}
		}()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(ctx)
		}()
		logger.Info().Str("addr", cfg.MetricsAddr).Msg("status server listening")
	}
	src = metrics.Instrument(src)

	logger.Info().
		Str("input", name).
		Str("format", cfg.Format).
		Str("harmonics", cfg.Harmonics).
		Int("max_order", cfg.MaxOrder).
		Msg("accumulating events")

	acc, err := flow.NewAccumulator(req)
	if err != nil {
		return err
	}
	if cfg.Workers > 1 {
		err = acc.DrainParallel(cmd.Context(), src, cfg.Workers)
	} else {
		err = acc.Drain(src)
	}
	if err != nil {
		return err
	}

	start := time.Now()
	results, err := acc.Results(req)
	metrics.AnalysisDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return err
	}

	logger.Info().
		Int("events", acc.Events()).
		Float64("mean_multiplicity", acc.MeanMultiplicity()).
		Int("harmonics", len(results)).
		Msg("batch reduced")

	var dNchDeta *float64
	if cfg.EtaMax > 0 {
		v := acc.MeanMultiplicity() / (2 * cfg.EtaMax)
		dNchDeta = &v
	}
	return report.New(os.Stdout, cfg.Precision, cfg.Labels).Write(results, dNchDeta)
}

func registerFlags(flags *pflag.FlagSet) {
	flags.String("config", "", "YAML config file (flags override it)")
	flags.String("harmonics", "2:4", "Inclusive harmonic range \"min:max\" (min >= 2)")
	flags.Int("max-order", 2, "Highest cumulant order: 2, 4 or 6")
	flags.Bool("with-error", false, "Emit the statistical error on v_n{2}")
	flags.String("format", config.FormatPhi, "Input format (phi|urqmd)")
	flags.Float64("eta-max", 0, "Pseudorapidity cut for urqmd input; also enables the dNch/deta prefix")
	flags.Float64("pt-min", 0, "Lower edge of the urqmd pT window")
	flags.Float64("pt-max", 0, "Upper edge of the urqmd pT window (0 disables)")
	flags.Int("workers", 1, "Accumulation workers (>1 enables parallel ingestion)")
	flags.String("metrics-addr", "", "Serve /metrics and /healthz on this host:port")
	flags.Bool("labels", false, "Labeled output instead of bare scalars")
	flags.Int("precision", 8, "Significant digits in the output")
}

// resolveConfig layers explicit flags over the config file over the
// defaults.
func resolveConfig(flags *pflag.FlagSet) (config.Config, error) {
	cfg := config.Default()
	if path, _ := flags.GetString("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	if flags.Changed("harmonics") {
		cfg.Harmonics, _ = flags.GetString("harmonics")
	}
	if flags.Changed("max-order") {
		cfg.MaxOrder, _ = flags.GetInt("max-order")
	}
	if flags.Changed("with-error") {
		cfg.WithError, _ = flags.GetBool("with-error")
	}
	if flags.Changed("format") {
		cfg.Format, _ = flags.GetString("format")
	}
	if flags.Changed("eta-max") {
		cfg.EtaMax, _ = flags.GetFloat64("eta-max")
	}
	if flags.Changed("pt-min") {
		cfg.PTMin, _ = flags.GetFloat64("pt-min")
	}
	if flags.Changed("pt-max") {
		cfg.PTMax, _ = flags.GetFloat64("pt-max")
	}
	if flags.Changed("workers") {
		cfg.Workers, _ = flags.GetInt("workers")
	}
	if flags.Changed("metrics-addr") {
		cfg.MetricsAddr, _ = flags.GetString("metrics-addr")
	}
	if flags.Changed("labels") {
		cfg.Labels, _ = flags.GetBool("labels")
	}
	if flags.Changed("precision") {
		cfg.Precision, _ = flags.GetInt("precision")
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func openInput(args []string) (io.ReadCloser, string, error) {
	if len(args) == 0 {
		return io.NopCloser(os.Stdin), "stdin", nil
	}
	f, err := os.Open(args[0])
	if err != nil {
		return nil, "", fmt.Errorf("failed to open input: %w", err)
	}
	return f, args[0], nil
}

func newSource(cfg config.Config, input io.Reader) (flow.EventSource, error) {
	switch cfg.Format {
	case config.FormatPhi:
		return reader.NewPhiReader(input), nil
	case config.FormatURQMD:
		return reader.NewURQMDReader(input, reader.URQMDOptions{
			EtaMax: cfg.EtaMax,
			PTMin:  cfg.PTMin,
			PTMax:  cfg.PTMax,
		}), nil
	default:
		return nil, fmt.Errorf("unknown input format %q", cfg.Format)
	}
}
