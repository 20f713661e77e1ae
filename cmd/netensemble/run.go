package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/dd0wney/cluso-netensemble/pkg/config"
	"github.com/dd0wney/cluso-netensemble/pkg/detect"
	"github.com/dd0wney/cluso-netensemble/pkg/ensemble"
	"github.com/dd0wney/cluso-netensemble/pkg/logging"
	"github.com/dd0wney/cluso-netensemble/pkg/metrics"
	"github.com/dd0wney/cluso-netensemble/pkg/sigclu"
	"github.com/dd0wney/cluso-netensemble/pkg/store"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <edges> [edges...]",
		Short: "Partition networks and compute significant cores",
		Long: `Run reads one or more edge lists. A single network is bootstrapped into
replicates; several networks are partitioned as a given ensemble. The
partitions are then aggregated into significant cores.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runEnsemble,
	}

	f := cmd.Flags()
	f.String("config", "", "YAML run configuration file")
	f.Uint64("seed", ensemble.DefaultSeed, "Random seed")
	f.Int("bootstraps", 1000, "Number of bootstrap replicates")
	f.Float64("resolution", 1.0, "Modularity resolution")
	f.Bool("variable-resolution", true, "Tune the resolution around --resolution")
	f.Int("trials", 5, "Detection trials per network")
	f.Int("workers", 1, "Concurrent replicate workers")
	f.String("detector", "louvain", "Community detector (louvain, label_propagation)")
	f.Float64("significance", 0.05, "Significance level of cores")
	f.Int("min-core-size", 1, "Smallest core to report")
	f.Int("reference", sigclu.MedoidReference, "Reference partition index (-1 for medoid)")
	f.String("export", "", "Write an UpSet summary to this file")
	f.String("format", "", "Export format (json, yaml, text; default from extension)")
	f.Int("max-bars", 0, "Limit exported UpSet bars (0 for all)")
	f.String("store-dir", "", "Save a snapshot in this directory")
	f.String("s3-bucket", "", "Save a snapshot to this S3 bucket")
	f.String("s3-region", "us-east-1", "S3 region")
	f.String("s3-prefix", "", "S3 key prefix")
	f.String("s3-endpoint", "", "S3 endpoint override")
	f.String("metrics-addr", "", "Serve Prometheus metrics on this address while running")
	f.String("log-level", "", "Log level (debug, info, warn, error)")
	return cmd
}

// loadConfig reads --config (or defaults) and applies changed flags over it
func loadConfig(f *pflag.FlagSet) (config.Config, error) {
	cfg := config.Default()
	if path, _ := f.GetString("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	} else {
		cfg.ApplyEnv()
	}

	if f.Changed("seed") {
		cfg.Ensemble.Seed, _ = f.GetUint64("seed")
	}
	if f.Changed("bootstraps") {
		cfg.Ensemble.NumBootstraps, _ = f.GetInt("bootstraps")
	}
	if f.Changed("resolution") {
		cfg.Ensemble.Resolution, _ = f.GetFloat64("resolution")
	}
	if f.Changed("variable-resolution") {
		cfg.Ensemble.VariableResolution, _ = f.GetBool("variable-resolution")
	}
	if f.Changed("trials") {
		cfg.Ensemble.NumTrials, _ = f.GetInt("trials")
	}
	if f.Changed("workers") {
		cfg.Ensemble.Workers, _ = f.GetInt("workers")
	}
	if f.Changed("significance") {
		cfg.Sigclu.Significance, _ = f.GetFloat64("significance")
	}
	if f.Changed("min-core-size") {
		cfg.Sigclu.MinCoreSize, _ = f.GetInt("min-core-size")
	}
	if f.Changed("reference") {
		cfg.Sigclu.Reference, _ = f.GetInt("reference")
	}
	if f.Changed("export") {
		cfg.Export.Path, _ = f.GetString("export")
	}
	if f.Changed("format") {
		cfg.Export.Format, _ = f.GetString("format")
	}
	if f.Changed("max-bars") {
		cfg.Export.MaxBars, _ = f.GetInt("max-bars")
	}
	if f.Changed("store-dir") {
		cfg.Store.Dir, _ = f.GetString("store-dir")
	}
	if f.Changed("s3-bucket") {
		s3cfg := store.S3Config{}
		if cfg.Store.S3 != nil {
			s3cfg = *cfg.Store.S3
		}
		s3cfg.Bucket, _ = f.GetString("s3-bucket")
		s3cfg.Region, _ = f.GetString("s3-region")
		s3cfg.Prefix, _ = f.GetString("s3-prefix")
		s3cfg.Endpoint, _ = f.GetString("s3-endpoint")
		cfg.Store.S3 = &s3cfg
	}
	if f.Changed("log-level") {
		cfg.Log.Level, _ = f.GetString("log-level")
	}

	return cfg, cfg.Validate()
}

func detectorByName(name string) (detect.Detector, error) {
	switch name {
	case "louvain":
		return detect.Louvain{}, nil
	case "label_propagation", "lpa":
		return detect.LabelPropagation{}, nil
	default:
		return nil, fmt.Errorf("unknown detector %q", name)
	}
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd.Flags())
	if err != nil {
		return err
	}
	logger := cfg.Logger(cmd.ErrOrStderr())

	detName, _ := cmd.Flags().GetString("detector")
	det, err := detectorByName(detName)
	if err != nil {
		return err
	}

	nets, err := readNetworks(cmd, args)
	if err != nil {
		return err
	}

	reg := metrics.NewRegistry()
	if addr, _ := cmd.Flags().GetString("metrics-addr"); addr != "" {
		stop := serveMetrics(addr, reg, logger)
		defer stop()
	}

	e, err := ensemble.New(nets, cfg.Ensemble,
		ensemble.WithDetector(det),
		ensemble.WithClusterer(sigclu.NewRecursive().WithLogger(logger)),
		ensemble.WithLogger(logger),
		ensemble.WithMetrics(reg),
	)
	if err != nil {
		return err
	}
	logger.Info("run started",
		logging.RunID(e.RunID()),
		logging.Mode(e.Mode().String()),
		logging.Nodes(e.Nodes().Len()),
		logging.Count(len(nets)),
	)

	if err := e.Partition(); err != nil {
		return fmt.Errorf("partition: %w", err)
	}
	if err := e.SignificanceCluster(cfg.Sigclu, cfg.UpsetOptions()); err != nil {
		return fmt.Errorf("significance clustering: %w", err)
	}

	saved, err := saveSnapshot(cmd.Context(), e, cfg.Store, reg)
	if err != nil {
		return err
	}

	reg.UpdateSystemMetrics()
	return printSummary(cmd.OutOrStdout(), e, saved)
}

func saveSnapshot(ctx context.Context, e *ensemble.Ensemble, cfg config.StoreConfig, reg *metrics.Registry) ([]string, error) {
	if cfg.Dir == "" && cfg.S3 == nil {
		return nil, nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	snap, err := e.Snapshot()
	if err != nil {
		return nil, err
	}

	saved := make([]string, 0, 2)
	if cfg.Dir != "" {
		fs := store.NewFileStore(cfg.Dir)
		fs.Metrics = reg
		path, err := fs.Save(snap)
		if err != nil {
			return nil, fmt.Errorf("save snapshot: %w", err)
		}
		saved = append(saved, path)
	}
	if cfg.S3 != nil {
		client, err := store.NewS3Client(ctx, *cfg.S3)
		if err != nil {
			return nil, err
		}
		st := store.NewS3Store(client, cfg.S3.Bucket, cfg.S3.Prefix)
		st.Metrics = reg
		key, err := st.Save(ctx, snap)
		if err != nil {
			return nil, fmt.Errorf("save snapshot: %w", err)
		}
		saved = append(saved, "s3://"+cfg.S3.Bucket+"/"+key)
	}
	return saved, nil
}

// serveMetrics exposes reg on addr until the returned stop func is called
func serveMetrics(addr string, reg *metrics.Registry, logger logging.Logger) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", reg.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("serving metrics", logging.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", logging.Error(err))
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Warn("metrics server shutdown failed", logging.Error(err))
		}
	}
}
