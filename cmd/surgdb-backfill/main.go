// Command surgdb-backfill retroactively computes missing search-hash
// siblings across an existing record database. Safe to re-run: records that
// already carry their digests are skipped.
//
// Usage:
//
//	surgdb-backfill -spec fieldspec.yaml -db records.db [-batch 500] [-env .env]
//
// Key material comes from SURGDB_MASTER_KEY and SURGDB_KEY_SALT (hex), read
// from the environment or the -env file.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	surgdb "github.com/pdsykes2512/surg-db-sub005"
	"github.com/pdsykes2512/surg-db-sub005/providers/localsecret"
	"github.com/pdsykes2512/surg-db-sub005/sqlitestore"
)

func main() {
	specPath := flag.String("spec", "fieldspec.yaml", "path to the field spec YAML")
	dbPath := flag.String("db", "records.db", "path to the record database")
	batchSize := flag.Int("batch", surgdb.DefaultBackfillBatchSize, "records per batch")
	envFile := flag.String("env", "", "optional .env file with key material")
	keyVersion := flag.Int("key-version", 1, "active key generation")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if err := run(*specPath, *dbPath, *envFile, *batchSize, *keyVersion, logger); err != nil {
		logger.Error("backfill failed", "error", err)
		os.Exit(1)
	}
}

func run(specPath, dbPath, envFile string, batchSize, keyVersion int, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	spec, err := surgdb.LoadFieldSpec(specPath)
	if err != nil {
		return err
	}

	provider := localsecret.New(localsecret.Config{EnvFile: envFile})
	keyring, err := surgdb.NewKeyringFromProvider(ctx, provider,
		surgdb.WithKeyVersion(keyVersion))
	if err != nil {
		return err
	}

	engine, err := surgdb.New(keyring, surgdb.WithLogger(logger))
	if err != nil {
		return err
	}

	store, err := sqlitestore.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	report, runErr := engine.Backfill(ctx, store, spec, batchSize)
	if report != nil {
		printReport(report)
	}
	return runErr
}

func printReport(r *surgdb.BackfillReport) {
	fmt.Printf("run %s: %d batches, %d scanned, %d processed, %d skipped, %d failed, %d hashes written\n",
		r.RunID, r.Batches, r.Scanned, r.Processed, r.Skipped, r.Failed, r.HashesWritten)
	for id, reason := range r.Failures {
		fmt.Printf("  failed %s: %s\n", id, reason)
	}
}
