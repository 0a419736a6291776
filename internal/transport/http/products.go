package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/Profanor/micro-commerce-app/internal/app"
	"github.com/Profanor/micro-commerce-app/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

// ProductManager is the product-management surface used by the
// handlers below.
type ProductManager interface {
	CreateProduct(ctx context.Context, in app.CreateProductInput) (domain.Product, error)
	GetProduct(ctx context.Context, productID int64) (domain.Product, error)
	UpdateProduct(ctx context.Context, productID int64, in app.UpdateProductInput) (domain.Product, error)
	DeleteProduct(ctx context.Context, productID int64) error
	ListProducts(ctx context.Context) ([]domain.Product, error)
}

type createProductRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Inventory   int             `json:"inventory"`
	Image       string          `json:"image"`
}

// HandleCreateProduct returns the handler for POST /products.
func HandleCreateProduct(svc ProductManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createProductRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		product, err := svc.CreateProduct(r.Context(), app.CreateProductInput{
			Title:       req.Title,
			Description: req.Description,
			Price:       req.Price,
			Inventory:   req.Inventory,
			Image:       req.Image,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, newProductResponse(product))
	}
}

// HandleGetProduct returns the handler for GET /products/{id}.
func HandleGetProduct(svc ProductManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, ok := parseProductID(w, r)
		if !ok {
			return
		}

		product, err := svc.GetProduct(r.Context(), productID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, newProductResponse(product))
	}
}

type updateProductRequest struct {
	Title       *string          `json:"title"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Inventory   *int             `json:"inventory"`
	Image       *string          `json:"image"`
}

// HandleUpdateProduct returns the handler for PATCH /products/{id}.
func HandleUpdateProduct(svc ProductManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, ok := parseProductID(w, r)
		if !ok {
			return
		}

		var req updateProductRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		product, err := svc.UpdateProduct(r.Context(), productID, app.UpdateProductInput{
			Title:       req.Title,
			Description: req.Description,
			Price:       req.Price,
			Inventory:   req.Inventory,
			Image:       req.Image,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, newProductResponse(product))
	}
}

// HandleDeleteProduct returns the handler for DELETE /products/{id}.
// Deletion is soft: the product disappears from listings only.
func HandleDeleteProduct(svc ProductManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, ok := parseProductID(w, r)
		if !ok {
			return
		}

		if err := svc.DeleteProduct(r.Context(), productID); err != nil {
			writeServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// HandleListProducts returns the handler for GET /products.
func HandleListProducts(svc ProductManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		products, err := svc.ListProducts(r.Context())
		if err != nil {
			writeServiceError(w, err)
			return
		}

		out := make([]productResponse, 0, len(products))
		for _, p := range products {
			out = append(out, newProductResponse(p))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func parseProductID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	productID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || productID <= 0 {
		writeError(w, http.StatusBadRequest, codeInvalidID, "invalid product id")
		return 0, false
	}
	return productID, true
}

type productResponse struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Inventory   int             `json:"inventory"`
	Image       string          `json:"image"`
	Deleted     bool            `json:"deleted"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func newProductResponse(p domain.Product) productResponse {
	return productResponse{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Price:       p.Price,
		Inventory:   p.Inventory,
		Image:       p.Image,
		Deleted:     p.Deleted,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
