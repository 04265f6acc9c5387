package httphandler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/niksmo/catalog-review/internal/core/port"
)

type HTTPServer struct {
	httpServer *http.Server
}

func NewHTTPServer(addr string, handler http.Handler) HTTPServer {
	handler = http.TimeoutHandler(handler, 15*time.Second, "unavailable")
	s := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       30 * time.Second,
	}
	return HTTPServer{s}
}

type CatalogDeps struct {
	Viewer port.CatalogViewer
	Setter port.CriteriaSetter
	Loader port.CatalogLoader
}

type ProductsDeps struct {
	Manager port.ProductsManager
	Poster  port.ReviewPoster
}

// NewHandler assembles the routes of the catalog client.
func NewHandler(
	catalog CatalogDeps, products ProductsDeps,
) http.Handler {
	mux := http.NewServeMux()
	RegisterCatalog(mux, catalog.Viewer, catalog.Setter, catalog.Loader)
	RegisterProducts(mux, products.Manager, products.Poster)
	RegisterMetrics(mux)
	return Instrument(AllowJSONAndForms(mux))
}

func (s HTTPServer) Run(stopFn context.CancelFunc) {
	const op = "HTTPServer.Run"
	log := slog.With("op", op)

	defer stopFn()
	log.Info("listening", "addr", s.httpServer.Addr)
	err := s.httpServer.ListenAndServe()
	if err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			return
		}
		log.Error("unexpected servers shutdown", "err", err)
	}
}

func (s HTTPServer) Close(ctx context.Context) {
	const op = "HTTPServer.Close"
	log := slog.With("op", op)

	log.Info("closing http server...")

	err := s.httpServer.Shutdown(ctx)
	if err != nil {
		log.Error("failed to shutdown gracefully", "err", err)
	}
	log.Info("http server is closed")
}
