package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"

	actormemory "worldharvest/internal/adapter/actor/memory"
	"worldharvest/internal/adapter/catalog"
	httpadapter "worldharvest/internal/adapter/http"
	"worldharvest/internal/adapter/metrics"
	metricsinmem "worldharvest/internal/adapter/metrics/inmemory"
	"worldharvest/internal/adapter/metrics/prom"
	gormrepo "worldharvest/internal/adapter/repo/gorm"
	"worldharvest/internal/adapter/repo/memory"
	"worldharvest/internal/app/commandbus"
	"worldharvest/internal/app/eventbus"
	"worldharvest/internal/app/harvesting"
	"worldharvest/internal/app/harvestquery"
	"worldharvest/internal/app/ports"
	"worldharvest/internal/config"
	"worldharvest/internal/pkg/log"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// Actors known to the demo server. A host world would supply its own
// ports.ActorProvider.
var demoActors = []actormemory.Actor{
	{ID: "demo-lumberjack", EquippedTool: "axe", Area: "forest"},
	{ID: "demo-miner", EquippedTool: "pickaxe", Area: "quarry"},
	{ID: "demo-forager", Area: "meadow"},
}

func main() {
	if err := newServerCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newServerCommand() *cobra.Command {
	cfg, envErr := config.Load()
	cmd := &cobra.Command{
		Use:          "worldharvest-server",
		Short:        "Serve the resource node harvesting engine over HTTP.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if envErr != nil {
				return envErr
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			logger, err := log.New(cfg.LogOptions())
			if err != nil {
				return err
			}

			a, err := buildApp(cmd.Context(), cfg, logger)
			if err != nil {
				logger.Error(err, "failed to build application")
				return err
			}
			defer a.close()

			s := server.Default(server.WithHostPorts(cfg.HTTPAddr))
			a.handler.RegisterRoutes(s)

			logger.Info("worldharvest server listening",
				"addr", cfg.HTTPAddr,
				"store", a.store,
				"commands", a.dispatcher.RegisteredTypes(),
			)
			s.Spin()
			return nil
		},
	}
	cfg.AddFlags(cmd.Flags())
	return cmd
}

type application struct {
	handler    httpadapter.Handler
	dispatcher *commandbus.Dispatcher
	bus        *eventbus.Bus
	store      string
	close      func()
}

func buildApp(ctx context.Context, cfg config.Config, logger log.Logger) (*application, error) {
	defs, err := catalog.Load(cfg.DefinitionsPath)
	if err != nil {
		return nil, fmt.Errorf("load definitions: %w", err)
	}
	memStore := memory.NewStore()
	definitionRepo := memory.NewDefinitionRepo(memStore)
	if err := definitionRepo.Seed(defs...); err != nil {
		return nil, fmt.Errorf("seed definitions: %w", err)
	}

	a := &application{close: func() {}}
	var (
		instances ports.ResourceNodeInstanceRepository
		txManager ports.TxManager
	)
	if cfg.DBDSN != "" {
		db, err := gormrepo.OpenPostgres(cfg.DBDSN, logger)
		if err != nil {
			return nil, err
		}
		a.close = func() { closeDB(db) }
		if cfg.AutoMigrate {
			if err := migrateOrClose(ctx, db, gormrepo.Migrations()); err != nil {
				return nil, err
			}
		}
		instances = gormrepo.NewResourceNodeInstanceRepo(db)
		txManager = gormrepo.NewTxManager(db)
		a.store = "postgres"
	} else {
		instances = memory.NewInstanceRepo(memStore)
		txManager = memory.NewTxManager(memStore)
		a.store = "memory"
	}

	kpi := metricsinmem.NewRecorder()
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	promMetrics, err := prom.New(reg)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("register metrics: %w", err)
	}

	a.bus = eventbus.New()
	eventLog := logger.WithName("events")
	a.bus.SubscribeAll(func(_ context.Context, event any) {
		eventLog.Debug("event published", "type", fmt.Sprintf("%T", event), "event", event)
	})

	a.dispatcher = commandbus.NewDispatcher(a.bus,
		commandbus.WithTxManager(txManager),
		commandbus.WithMetrics(metrics.Fanout{kpi, promMetrics}),
		commandbus.WithLogger(logger.WithName("dispatcher")),
	)
	if err := harvesting.Register(a.dispatcher, harvesting.Deps{
		Definitions: definitionRepo,
		Instances:   instances,
		Actors:      actormemory.NewProvider(demoActors...),
		Events:      a.bus,
	}); err != nil {
		a.close()
		return nil, err
	}

	a.handler = httpadapter.Handler{
		Commands:         a.dispatcher,
		Queries:          harvestquery.Service{Definitions: definitionRepo, Instances: instances},
		KPI:              kpi,
		Metrics:          promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		BatchParallelism: cfg.BatchParallelism,
		CORSOrigin:       cfg.CORSOrigin,
		Logger:           logger.WithName("http"),
	}
	return a, nil
}

// migrateOrClose applies migrations and releases the pool if they fail, since
// buildApp hands no application back to close it.
func migrateOrClose(ctx context.Context, db *gorm.DB, migrations fs.FS) error {
	if err := gormrepo.ApplyMigrations(ctx, db, migrations); err != nil {
		closeDB(db)
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
