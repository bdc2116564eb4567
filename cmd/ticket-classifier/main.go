// cmd/ticket-classifier/main.go
package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"ticket-classifier/internal/common/config"
	"ticket-classifier/internal/common/database"
	apperrors "ticket-classifier/internal/common/errors"
	"ticket-classifier/internal/common/logger"
	"ticket-classifier/internal/keywords"
	"ticket-classifier/internal/report"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	flags := pflag.NewFlagSet("ticket-classifier", pflag.ContinueOnError)
	configFile := flags.String("config", "", "path to the configuration file")
	flags.String("tickets", "", "ticket dataset (.xlsx or .csv)")
	flags.String("keywords", "", "category keyword dataset (.xlsx, .csv or .yaml)")
	flags.String("keyword-source", "", "keyword source: file or postgres")
	flags.String("classified-out", "", "classified ticket table (.xlsx or .csv)")
	flags.String("summary-out", "", "summary JSON document")
	flags.Bool("all-matches", false, "label tickets with every matched category instead of the first")
	flags.String("log-level", "", "log level: debug, info, warn or error")
	if err := flags.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return 0
		}
		return 2
	}

	cfg, err := config.Load(*configFile, flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		return 1
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var db *sql.DB
	if cfg.Input.KeywordSource == config.KeywordSourcePostgres {
		pg, err := database.ConnectPostgres(ctx, cfg.Database.Postgres)
		if err != nil {
			zapLog.Error("postgres connection failed", zap.Error(err))
			return 1
		}
		defer pg.Close()
		db = pg.DB
	}

	var cache redis.Cmdable
	if cfg.Database.Redis.Enabled {
		rdb := database.NewRedis(cfg.Database.Redis)
		defer rdb.Close()
		cache = rdb.Client
	}

	source, err := keywords.Build(cfg, db, cache, log)
	if err != nil {
		zapLog.Error("keyword source setup failed", zap.Error(err))
		return 1
	}

	if _, err := report.Run(ctx, cfg, source, log, os.Stdout); err != nil {
		if apperrors.HasCode(err, apperrors.ErrCodeMissingInput) {
			fmt.Fprintf(os.Stderr, "Missing files. Make sure %s exist.\n", missingPaths(err))
		}
		return 1
	}
	return 0
}

func missingPaths(err error) string {
	stdErr, ok := apperrors.AsStandardError(err)
	if !ok {
		return err.Error()
	}
	return stdErr.Details
}
