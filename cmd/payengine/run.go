package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	httpAdapter "github.com/iho/payengine/internal/adapter/http"
	"github.com/iho/payengine/internal/adapter/http/handler"
	"github.com/iho/payengine/internal/adapter/report"
	"github.com/iho/payengine/internal/adapter/repository/memory"
	postgresRepo "github.com/iho/payengine/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/payengine/internal/adapter/repository/redis"
	"github.com/iho/payengine/internal/adapter/source"
	"github.com/iho/payengine/internal/infrastructure/config"
	"github.com/iho/payengine/internal/infrastructure/postgres"
	"github.com/iho/payengine/internal/infrastructure/redis"
	"github.com/iho/payengine/internal/infrastructure/runid"
	"github.com/iho/payengine/internal/usecase"
)

// Output sinks.
const (
	outputCSV      = "csv"
	outputPostgres = "postgres"
)

type runOptions struct {
	output      string
	outFile     string
	ledger      string
	runID       string
	metricsAddr string

	// synthetic input, used instead of a file when generateCount > 0
	generateCount int
	seed          uint64
	clients       int
	maxAmount     string
}

func runCmd() *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run [input.csv]",
		Short: "Replay a CSV file of transaction records and report balances",
		Long: `Replay a CSV file (type,client,tx,amount) and write one balance row per client.
Use "-" to read records from stdin, or --generate-count to replay a
synthetic stream without writing it out first.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch {
			case opts.generateCount > 0 && len(args) > 0:
				return errors.New("an input file and --generate-count are mutually exclusive")
			case opts.generateCount <= 0 && len(args) == 0:
				return errors.New("an input file or --generate-count is required")
			}

			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("seed") {
				opts.seed = a.cfg.GeneratorSeed
			}
			if cmd.Flags().Changed("ledger") {
				a.cfg.LedgerBackend = opts.ledger
			}
			if cmd.Flags().Changed("metrics-addr") {
				a.cfg.MetricsAddr = opts.metricsAddr
			}
			inputPath := ""
			if len(args) == 1 {
				inputPath = args[0]
			}
			return replay(cmd, a, opts, inputPath)
		},
	}

	cmd.Flags().StringVar(&opts.output, "output", outputCSV, "Balance sink: csv or postgres")
	cmd.Flags().StringVar(&opts.outFile, "out-file", "", "Write the CSV report to this file instead of stdout")
	cmd.Flags().StringVar(&opts.ledger, "ledger", config.LedgerBackendMemory, "Transaction ledger backend: memory or redis (overrides LEDGER_BACKEND)")
	cmd.Flags().StringVar(&opts.runID, "run-id", "", "Run id namespacing the redis ledger and stored snapshots (default: new ULID)")
	cmd.Flags().StringVar(&opts.metricsAddr, "metrics-addr", "", "Serve /health and /metrics on this address (overrides METRICS_ADDR)")
	cmd.Flags().IntVar(&opts.generateCount, "generate-count", 0, "Replay this many synthetic records instead of reading a file")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 1, "Random seed for --generate-count (overrides GENERATOR_SEED)")
	cmd.Flags().IntVar(&opts.clients, "clients", 1000, "Number of distinct clients for --generate-count")
	cmd.Flags().StringVar(&opts.maxAmount, "max-amount", "1000", "Largest synthetic deposit or withdrawal amount")

	return cmd
}

func replay(cmd *cobra.Command, a *app, opts runOptions, inputPath string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	runID := opts.runID
	if runID == "" {
		runID = runid.New()
	}
	log := a.logger.With().Str("run_id", runID).Logger()

	checks := make(map[string]handler.Pinger)

	ledger, closeLedger, err := openLedger(ctx, a, runID, checks)
	if err != nil {
		return err
	}
	defer closeLedger()

	writer, closeWriter, err := openWriter(ctx, cmd, a, opts, runID, log, checks)
	if err != nil {
		return err
	}
	defer closeWriter()

	src, skipped, closeInput, err := openSource(cmd, opts, inputPath, log, a)
	if err != nil {
		return err
	}
	defer closeInput()

	engine := usecase.NewEngine(ledger, log, a.metrics)

	g, gctx := errgroup.WithContext(ctx)
	replayDone := make(chan struct{})

	if a.cfg.MetricsAddr != "" {
		server := &http.Server{
			Addr: a.cfg.MetricsAddr,
			Handler: httpAdapter.NewRouter(httpAdapter.RouterConfig{
				Gatherer:      a.registry,
				Metrics:       a.metrics,
				HealthHandler: handler.NewHealthHandler(checks),
				Logger:        log,
			}),
			ReadHeaderTimeout: 5 * time.Second,
		}

		g.Go(func() error {
			log.Info().Str("addr", a.cfg.MetricsAddr).Msg("starting metrics server")
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server failed: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			select {
			case <-replayDone:
			case <-gctx.Done():
			}
			shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.MetricsShutdownTimeout)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		})
	}

	g.Go(func() error {
		defer close(replayDone)

		stats, err := engine.Run(gctx, src)
		if err != nil {
			return err
		}
		if n := skipped(); n > 0 {
			log.Warn().Int("skipped", n).Msg("malformed input rows were skipped")
		}
		log.Debug().Int("processed", stats.Processed).Msg("writing balance report")

		if err := engine.Report(gctx, writer); err != nil {
			return err
		}
		_, err = engine.Reconcile()
		return err
	})

	return g.Wait()
}

func openLedger(ctx context.Context, a *app, runID string, checks map[string]handler.Pinger) (usecase.TransactionLedger, func(), error) {
	switch a.cfg.LedgerBackend {
	case config.LedgerBackendMemory:
		return memory.NewLedger(), func() {}, nil

	case config.LedgerBackendRedis:
		client, err := redis.NewClient(ctx, redis.ClientConfig{
			URL:         a.cfg.RedisURL,
			Name:        "payengine",
			PoolSize:    a.cfg.RedisPoolSize,
			DialTimeout: a.cfg.RedisDialTimeout,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		a.logger.Info().Msg("connected to redis")

		checks["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
		ledger := redisRepo.NewLedger(client, runID, a.cfg.LedgerTTL, a.metrics)

		closeLedger := func() {
			expireCtx, cancel := context.WithTimeout(context.Background(), a.cfg.RedisDialTimeout)
			defer cancel()
			if err := ledger.Expire(expireCtx); err != nil {
				a.logger.Warn().Err(err).Msg("failed to set ledger retention")
			}
			client.Close()
		}
		return ledger, closeLedger, nil
	}

	return nil, nil, fmt.Errorf("unknown ledger backend %q", a.cfg.LedgerBackend)
}

func openWriter(
	ctx context.Context,
	cmd *cobra.Command,
	a *app,
	opts runOptions,
	runID string,
	log zerolog.Logger,
	checks map[string]handler.Pinger,
) (usecase.BalanceWriter, func(), error) {
	switch opts.output {
	case outputCSV:
		if opts.outFile == "" {
			return report.NewCSVWriter(cmd.OutOrStdout()), func() {}, nil
		}
		f, err := os.Create(opts.outFile)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create report file: %w", err)
		}
		return report.NewCSVWriter(f), func() { f.Close() }, nil

	case outputPostgres:
		pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
			DatabaseURL:    a.cfg.DatabaseURL,
			MaxConns:       a.cfg.DatabaseMaxConns,
			MinConns:       a.cfg.DatabaseMinConns,
			ConnectTimeout: a.cfg.DatabaseTimeout,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		a.logger.Info().Msg("connected to postgres")

		checks["postgres"] = pool.Ping
		retrier := postgresRepo.NewRetrier(log, a.metrics)
		return postgresRepo.NewSnapshotRepository(pool, runID, retrier, log, a.metrics), pool.Close, nil
	}

	return nil, nil, fmt.Errorf("unknown output %q", opts.output)
}

func openSource(
	cmd *cobra.Command,
	opts runOptions,
	path string,
	log zerolog.Logger,
	a *app,
) (usecase.TransactionSource, func() int, func(), error) {
	if opts.generateCount > 0 {
		limit, err := parseMaxAmount(opts.maxAmount)
		if err != nil {
			return nil, nil, nil, err
		}
		src := source.NewGeneratorSource(source.GeneratorConfig{
			Count:     opts.generateCount,
			Seed:      opts.seed,
			Clients:   opts.clients,
			MaxAmount: limit,
		}, source.NewIDSequence(1))
		log.Info().Int("records", opts.generateCount).Uint64("seed", opts.seed).Msg("replaying synthetic records")
		return src, func() int { return 0 }, func() {}, nil
	}

	input, closeInput, err := openInput(cmd, path)
	if err != nil {
		return nil, nil, nil, err
	}
	src := source.NewCSVSource(input, log, a.metrics)
	return src, src.Skipped, closeInput, nil
}

func openInput(cmd *cobra.Command, path string) (io.Reader, func(), error) {
	if path == "-" {
		return cmd.InOrStdin(), func() {}, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open input: %w", err)
	}
	return f, func() { f.Close() }, nil
}
