package router

import (
	"net/http"
	"strings"

	"stockroom/internal/handler"
	"stockroom/internal/middleware"

	"github.com/rs/zerolog"
)

// New creates a new HTTP router with all routes and middleware configured.
func New(
	productHandler *handler.ProductHandler,
	supplierHandler *handler.SupplierHandler,
	cartonHandler *handler.CartonHandler,
	orderHandler *handler.OrderHandler,
	analyticsHandler *handler.AnalyticsHandler,
	apiKey string,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint (no authentication required)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	registerCollection(mux, "/api/products", collectionRoutes{
		list:   productHandler.List,
		create: productHandler.Create,
		get:    productHandler.GetByID,
		update: productHandler.Update,
		delete: productHandler.Delete,
	})

	registerCollection(mux, "/api/suppliers", collectionRoutes{
		list:   supplierHandler.List,
		create: supplierHandler.Create,
		get:    supplierHandler.GetByID,
		update: supplierHandler.Update,
		delete: supplierHandler.Delete,
	})

	registerCollection(mux, "/api/orders", collectionRoutes{
		list:   orderHandler.List,
		create: orderHandler.Create,
		get:    orderHandler.GetByID,
		update: orderHandler.Update,
		delete: orderHandler.Delete,
	})

	// Cartons carry sub-resources for the open and status workflows, so
	// they get a hand-rolled dispatcher instead of the shared one.
	cartonRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		switch {
		case path == "/api/cartons" || path == "/api/cartons/":
			if r.Method == http.MethodPost {
				cartonHandler.Intake(w, r)
				return
			}
			cartonHandler.List(w, r)
		case strings.HasSuffix(path, "/open"):
			cartonHandler.Open(w, r)
		case strings.HasSuffix(path, "/status"):
			cartonHandler.SetStatus(w, r)
		case r.Method == http.MethodDelete:
			cartonHandler.Delete(w, r)
		default:
			cartonHandler.GetByID(w, r)
		}
	}
	mux.HandleFunc("/api/cartons", cartonRouteHandler)
	mux.HandleFunc("/api/cartons/", cartonRouteHandler)

	mux.HandleFunc("/api/analytics/sales", analyticsHandler.SalesSummary)

	// Apply middleware in order: Recovery -> Logging -> CORS -> APIKeyAuth
	var h http.Handler = mux
	h = middleware.APIKeyAuth(apiKey, logger)(h)
	h = middleware.CORS(h)
	h = middleware.Logging(logger)(h)
	h = middleware.Recovery(logger)(h)

	return h
}

// collectionRoutes holds the handlers for a standard CRUD collection.
type collectionRoutes struct {
	list   http.HandlerFunc
	create http.HandlerFunc
	get    http.HandlerFunc
	update http.HandlerFunc
	delete http.HandlerFunc
}

// registerCollection wires the usual list/create routes on the collection
// path and get/update/delete routes on the item path.
func registerCollection(mux *http.ServeMux, base string, routes collectionRoutes) {
	dispatch := func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == base || r.URL.Path == base+"/" {
			if r.Method == http.MethodPost {
				routes.create(w, r)
				return
			}
			routes.list(w, r)
			return
		}

		switch r.Method {
		case http.MethodPut:
			routes.update(w, r)
		case http.MethodDelete:
			routes.delete(w, r)
		default:
			routes.get(w, r)
		}
	}

	mux.HandleFunc(base, dispatch)
	mux.HandleFunc(base+"/", dispatch)
}
