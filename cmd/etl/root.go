package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"
	"github.com/user/moviesearch/internal/config"
	"github.com/user/moviesearch/internal/metrics"
	"github.com/user/moviesearch/internal/model"
	"github.com/user/moviesearch/internal/repository"
	"github.com/user/moviesearch/internal/service"
	"github.com/user/moviesearch/internal/utils"
)

type etlOptions struct {
	index        string
	chunkSize    int
	sourceDriver string
	sourceDSN    string
	esURL        string
	dryRun       bool
	interval     time.Duration
}

func newRootCmd() *cobra.Command {
	var opts etlOptions

	cmd := &cobra.Command{
		Use:           "etl",
		Short:         "Load movies from the relational store into the search index",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			applyFlags(cmd, cfg, opts)
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}

			if cfg.ETLInterval > 0 {
				return schedule(cmd.Context(), cfg, opts.dryRun)
			}

			report, err := runETL(cmd.Context(), cfg, opts.dryRun)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "total=%d accepted=%d failed=%d\n",
				report.Total, report.Accepted, len(report.Failures))
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.index, "index", "", "Target index name (default: ES_INDEX)")
	cmd.Flags().IntVar(&opts.chunkSize, "chunk-size", 0, "Documents per bulk request, 0 sends one request (default: ETL_CHUNK_SIZE)")
	cmd.Flags().StringVar(&opts.sourceDriver, "source-driver", "", "Source driver: sqlite or postgres (default: SOURCE_DRIVER)")
	cmd.Flags().StringVar(&opts.sourceDSN, "source-dsn", "", "Source DSN or sqlite file path (default: SOURCE_DSN)")
	cmd.Flags().StringVar(&opts.esURL, "es-url", "", "Search engine base URL (default: ES_URL)")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Extract and transform only, skip loading")
	cmd.Flags().DurationVar(&opts.interval, "interval", 0, "Re-run every interval until interrupted, 0 runs once (default: ETL_INTERVAL)")

	return cmd
}

// applyFlags 命令行参数覆盖环境变量配置，只处理显式传入的参数
func applyFlags(cmd *cobra.Command, cfg *config.Config, opts etlOptions) {
	flags := cmd.Flags()
	if flags.Changed("index") {
		cfg.IndexName = opts.index
	}
	if flags.Changed("chunk-size") {
		cfg.ChunkSize = opts.chunkSize
	}
	if flags.Changed("source-driver") {
		cfg.SourceDriver = opts.sourceDriver
	}
	if flags.Changed("source-dsn") {
		cfg.SourceDSN = opts.sourceDSN
	}
	if flags.Changed("es-url") {
		cfg.ESURL = opts.esURL
	}
	if flags.Changed("interval") {
		cfg.ETLInterval = opts.interval
	}
}

// etlRunner 每次运行重新建立数据库连接和客户端
type etlRunner struct {
	cfg    *config.Config
	dryRun bool
}

func (r etlRunner) Run(ctx context.Context) (*model.LoadReport, error) {
	return runETL(ctx, r.cfg, r.dryRun)
}

// schedule 定时运行直到收到中断信号
func schedule(ctx context.Context, cfg *config.Config, dryRun bool) error {
	service.NewScheduler(etlRunner{cfg: cfg, dryRun: dryRun}, cfg.ETLInterval).Start(ctx)
	return nil
}

// runETL 组装数据源、写入器和指标后执行一次 ETL
func runETL(ctx context.Context, cfg *config.Config, dryRun bool) (*model.LoadReport, error) {
	db, err := repository.InitDB(ctx, cfg.SourceDriver, cfg.SourceDSN)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	esClient, err := utils.NewESClient(cfg.ESURL, cfg.ConnectTimeout, cfg.RequestTimeout)
	if err != nil {
		return nil, &model.LoadError{Op: "connect", Err: err}
	}
	defer esClient.Stop()

	var recorder metrics.Recorder = metrics.Nop{}
	if cfg.PushgatewayURL != "" {
		pr, err := metrics.NewPushRecorder(cfg.PushgatewayURL, cfg.MetricsJob)
		if err != nil {
			log.Printf("[ETL] 指标推送不可用: %v", err)
		} else {
			recorder = pr
		}
	}

	svc := service.NewETLService(
		repository.NewMovieRepository(db, cfg.SourceDriver),
		service.NewBulkLoader(esClient, cfg.ChunkSize),
		cfg.IndexName,
		service.WithMetrics(recorder),
		service.WithDryRun(dryRun),
	)
	return svc.Run(ctx)
}
