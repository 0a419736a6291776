package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// RouterDeps carries everything the router wires together. Notifier is
// optional.
type RouterDeps struct {
	Orders interface {
		OrderPlacer
		OrderPayer
	}
	Queries  OrderReader
	Products ProductManager
	Notifier OrderCreatedNotifier
	Logger   *zap.Logger
	CORS     []string
}

// NewRouter assembles the HTTP surface of the service.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(RequestLogger(deps.Logger))
	r.Use(CORS(deps.CORS))

	r.Get("/healthz", HealthHandler)

	r.Route("/orders", func(r chi.Router) {
		r.Post("/", HandlePlaceOrder(deps.Orders, deps.Notifier))
		r.Get("/my", HandleMyOrders(deps.Queries))
		r.Get("/all", HandleAllOrders(deps.Queries))
		r.Get("/count", HandleOrderCount(deps.Queries))
		r.Get("/revenue", HandleOrderRevenue(deps.Queries))
		r.Post("/{id}/pay", HandleMarkOrderPaid(deps.Orders))
	})

	r.Route("/products", func(r chi.Router) {
		r.Get("/", HandleListProducts(deps.Products))
		r.Post("/", HandleCreateProduct(deps.Products))
		r.Get("/{id}", HandleGetProduct(deps.Products))
		r.Patch("/{id}", HandleUpdateProduct(deps.Products))
		r.Delete("/{id}", HandleDeleteProduct(deps.Products))
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, codeNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
	})

	return r
}
