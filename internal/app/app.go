package app

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"os"

	"github.com/niksmo/catalog-review/config"
	"github.com/niksmo/catalog-review/internal/adapter"
	"github.com/niksmo/catalog-review/internal/adapter/catalogapi"
	"github.com/niksmo/catalog-review/internal/adapter/httphandler"
	"github.com/niksmo/catalog-review/internal/adapter/kafka"
	"github.com/niksmo/catalog-review/internal/core/catalog"
	"github.com/niksmo/catalog-review/internal/core/port"
	"github.com/niksmo/catalog-review/internal/core/service"
	"github.com/niksmo/catalog-review/pkg/schema"
	"github.com/twmb/franz-go/pkg/sr"
)

type serdes struct {
	browseEvent   schema.Serde
	catalogChange schema.Serde
}

type producers struct {
	browseEvents   port.BrowseEventsProducer
	catalogChanges port.CatalogChangesEmitter
}

type App struct {
	ctx        context.Context
	cfg        config.Config
	tlsCfg     *tls.Config
	apiClient  catalogapi.Client
	serdes     serdes
	producers  producers
	service    service.Service
	httpServer httphandler.HTTPServer
}

func New(ctx context.Context, cfg config.Config) *App {
	app := &App{ctx: ctx, cfg: cfg}

	app.initLogger()
	app.initOutboundAdapters()
	app.initBroker()
	app.initCoreService()
	app.initInboundAdapters()

	return app
}

func (app *App) initLogger() {
	opts := &slog.HandlerOptions{Level: app.cfg.LogLevel}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, opts))
	slog.SetDefault(logger)
}

func (app *App) initOutboundAdapters() {
	const op = "App.initOutboundAdapters"

	apiCfg := app.cfg.CatalogAPI
	cl, err := catalogapi.New(catalogapi.Config{
		BaseURL:       apiCfg.BaseURL,
		Timeout:       apiCfg.Timeout,
		RetryAttempts: apiCfg.RetryAttempts,
		RetryDelay:    apiCfg.RetryDelay,
	})
	if err != nil {
		app.fallDown(op, err)
	}
	app.apiClient = cl
}

// initBroker wires the event producers when seed brokers are configured.
func (app *App) initBroker() {
	const op = "App.initBroker"
	log := slog.With("op", op)

	if !app.cfg.Broker.Enabled() {
		log.Info("seed brokers are not set, event publishing is disabled")
		return
	}

	app.initTLS()
	app.initSerdes()
	app.initProducers()
}

func (app *App) initTLS() {
	const op = "App.initTLS"

	tlsPaths := app.cfg.Broker.TLS
	if !tlsPaths.Enabled() {
		return
	}

	tlsCfg, err := adapter.MakeTLSConfig(tlsPaths.CA, tlsPaths.Cert, tlsPaths.Key)
	if err != nil {
		app.fallDown(op, err)
	}
	app.tlsCfg = tlsCfg
}

func (app *App) initSerdes() {
	const op = "App.initSerdes"
	urls := app.cfg.Broker.SchemaRegistryURLs
	topics := app.cfg.Broker.Topics
	ctx := app.ctx

	srOpts := []sr.ClientOpt{sr.URLs(urls...)}
	if app.tlsCfg != nil {
		srOpts = append(srOpts, sr.DialTLSConfig(app.tlsCfg))
	}
	srClient, err := sr.NewClient(srOpts...)
	if err != nil {
		app.fallDown(op, err)
	}

	schemaCreater := schema.NewSchemaCreater(srClient)

	browseEventSerde, err := schema.NewSerdeBrowseEventV1(
		ctx,
		schema.SubjectOpt(topics.BrowseEvents+"-value"),
		schema.SchemaIdentifierOpt(schemaCreater),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	catalogChangeSerde, err := schema.NewSerdeCatalogChangeV1(
		ctx,
		schema.SubjectOpt(topics.CatalogChanges+"-value"),
		schema.SchemaIdentifierOpt(schemaCreater),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	app.serdes.browseEvent = browseEventSerde
	app.serdes.catalogChange = catalogChangeSerde
}

func (app *App) initProducers() {
	const op = "App.initProducers"

	ctx := app.ctx
	seedBrokers := app.cfg.Broker.SeedBrokers
	topics := app.cfg.Broker.Topics

	browseProducer, err := kafka.NewBrowseEventsProducer(
		kafka.ProducerClientOpt(
			ctx, seedBrokers, topics.BrowseEvents, app.tlsCfg,
		),
		kafka.ProducerEncoderOpt(app.serdes.browseEvent),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	changesEmitter, err := kafka.NewCatalogChangesEmitter(
		kafka.EmitterConfig{
			SeedBrokers: seedBrokers,
			Topic:       topics.CatalogChanges,
			TLS:         app.tlsCfg,
		},
		app.serdes.catalogChange,
	)
	if err != nil {
		browseProducer.Close()
		app.fallDown(op, err)
	}

	app.producers.browseEvents = browseProducer
	app.producers.catalogChanges = changesEmitter
}

func (app *App) initCoreService() {
	app.service = service.New(
		catalog.NewStore(),
		app.apiClient,
		app.apiClient,
		app.producers.browseEvents,
		app.producers.catalogChanges,
	)
}

func (app *App) initInboundAdapters() {
	handler := httphandler.NewHandler(
		httphandler.CatalogDeps{
			Viewer: app.service,
			Setter: app.service,
			Loader: app.service,
		},
		httphandler.ProductsDeps{
			Manager: app.service,
			Poster:  app.service,
		},
	)
	app.httpServer = httphandler.NewHTTPServer(app.cfg.HTTPServerAddr, handler)
}

func (app *App) Run(stopFn context.CancelFunc) {
	const op = "App.Run"
	log := slog.With("op", op)

	go app.httpServer.Run(stopFn)
	go func() {
		if err := app.service.LoadCatalog(app.ctx); err != nil {
			log.Error("initial catalog load failed", "err", err)
		}
	}()

	log.Info("application is running")
}

func (app *App) Close(ctx context.Context) {
	slog.Info("application is closing...")

	app.httpServer.Close(ctx)
	app.service.Close()

	slog.Info("application is closed")
}

func (app *App) fallDown(op string, err error) {
	panic(fmt.Errorf("%s: %w", op, err))
}
