package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spreadcoin/spreadd/domain/consensus/datastructures/blockheaderstore"
	"github.com/spreadcoin/spreadd/domain/consensus/processes/blockvalidator"
	"github.com/spreadcoin/spreadd/domain/consensus/processes/difficultymanager"
	"github.com/spreadcoin/spreadd/domain/consensus/utils/powhash"
	"github.com/spreadcoin/spreadd/domain/miningmanager"
	"github.com/spreadcoin/spreadd/infrastructure/db/database/ldb"
	"github.com/spreadcoin/spreadd/util/panics"
	"github.com/spreadcoin/spreadd/util/profiling"
	"github.com/spreadcoin/spreadd/version"
)

const headerCacheSize = 1024

func main() {
	defer panics.HandlePanic(log, "main", nil)

	cfg, err := parseConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing command-line arguments: %s\n", err)
		os.Exit(1)
	}
	defer logBackendClose()

	// Show version at startup.
	log.Infof("Version %s, network %s", version.Version(), cfg.NetParams().Name)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = run(ctx, cfg)
	if err != nil && !errors.Is(err, context.Canceled) {
		panics.Exit(log, fmt.Sprintf("Error in mine loop: %+v", err))
	}
}

func run(ctx context.Context, cfg *configFlags) error {
	params := cfg.NetParams()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	if cfg.Metrics != "" {
		profiling.Start(cfg.Metrics, registry, log)
	}

	db, err := ldb.NewLevelDB(cfg.DataDir)
	if err != nil {
		return errors.Wrapf(err, "failed to open the database at %s", cfg.DataDir)
	}
	defer db.Close()

	headerStore, err := blockheaderstore.New(db, headerCacheSize)
	if err != nil {
		return err
	}

	hashFamily := powhash.New()
	miningManager, err := miningmanager.NewFactory().NewMiningManager(params, hashFamily, cfg.privateKeyBytes, registry)
	if err != nil {
		return err
	}
	validator := blockvalidator.New(params, difficultymanager.New(params), hashFamily)

	miner, err := newMiner(params, db, headerStore, miningManager, validator, cfg.privateKeyBytes, cfg.MiningAddr)
	if err != nil {
		return err
	}

	doneChan := make(chan error, 1)
	spawn("mineLoop", func() {
		doneChan <- miner.mineLoop(ctx, cfg.NumberOfBlocks)
	})
	return <-doneChan
}

func logBackendClose() {
	log.Backend().Close()
}
