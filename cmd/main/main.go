package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"aapl-elt/src/config"
	"aapl-elt/src/data_source/yahoo"
	"aapl-elt/src/interfaces"
	"aapl-elt/src/logger"
	"aapl-elt/src/objectstore"
	"aapl-elt/src/pipeline"
	"aapl-elt/src/scheduler"
	"aapl-elt/src/sentiment"
	"aapl-elt/src/server"
	"aapl-elt/src/storage"
	"aapl-elt/src/utils"
)

// -----------------------------------------------------------------------------

func main() {

	// Parse command line flags
	configPath := flag.String("config", "config/default.yaml", "path to config file")
	runOnce := flag.Bool("once", false, "run the pipeline once and exit")
	flag.Parse()

	// Load config from YAML file
	config, err := config.NewConfig(*configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Setup logger
	appLogger := logger.NewLogger(config.Name)

	// 2. Setup Components
	var store interfaces.IObjectStore
	store, err = objectstore.NewMinioStore(config.MConfig, appLogger)
	if err != nil {
		appLogger.Critical("Failed to init object store: %v", err)
	}

	var warehouse interfaces.IWarehouse
	warehouse, err = storage.NewSQLiteWarehouse(config.MConfig, appLogger)
	if err != nil {
		appLogger.Critical("Failed to init warehouse: %v", err)
	}
	if err := warehouse.Initialize(); err != nil {
		appLogger.Critical("Failed to open warehouse: %v", err)
	}
	defer warehouse.Close()

	var source interfaces.IMarketDataSource = yahoo.NewYahooFinanceSource(config.MConfig)
	var scorer interfaces.ISentimentScorer = sentiment.NewVaderScorer()
	calendar := utils.NewTradingCalendar(appLogger)

	orch := pipeline.NewOrchestrator(config.MConfig, store, source, scorer, warehouse, calendar)

	// 3. One-shot mode: run the pipeline synchronously and exit
	if *runOnce {
		report := orch.Run(context.Background())
		if !report.OK {
			appLogger.Error("Pipeline run failed: %s", report.Cause)
			os.Exit(1)
		}
		for _, reason := range report.Degraded {
			appLogger.Warning("Run degraded: %s", reason)
		}
		appLogger.Info("Pipeline run succeeded: %d rows loaded", report.RowsLoaded)
		return
	}

	// 4. Service mode: read API plus scheduled runs
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv := server.NewAPIServer(config.MConfig, appLogger, orch)
	go func() {
		if err := srv.Start(); err != nil {
			appLogger.Error("Server failed: %v", err)
		}
	}()

	wg := &sync.WaitGroup{}
	if config.Scheduler.Enabled {
		sched := scheduler.NewScheduler(config.MConfig, orch)
		sched.Start(ctx, wg)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down...")
	cancel()
	wg.Wait()
}
