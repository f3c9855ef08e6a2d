package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/example/pterohub-shop/internal/customer"
	"github.com/example/pterohub-shop/internal/domain/product"
	"github.com/example/pterohub-shop/internal/domain/purchase"
	"github.com/example/pterohub-shop/internal/settings"
	"github.com/example/pterohub-shop/internal/stats"
	"github.com/example/pterohub-shop/internal/store"
)

type Handlers struct {
	store      *store.Store
	settings   *settings.Service
	statsCache *stats.Cache
}

func NewHandlers(st *store.Store, settingsSvc *settings.Service) *Handlers {
	return &Handlers{
		store:      st,
		settings:   settingsSvc,
		statsCache: stats.NewCache(),
	}
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Storefront

func (h *Handlers) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.ProductFilter{
		Query:      q.Get("q"),
		Category:   q.Get("category"),
		ActiveOnly: q.Get("active") == "true",
	}
	respondJSON(w, http.StatusOK, h.store.Products(filter))
}

func (h *Handlers) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/products/")
	p, err := h.store.ProductByID(id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

func (h *Handlers) ViewProduct(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/products/")
	if err := h.store.IncrementProductViews(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type CheckoutRequest struct {
	ProductID     string `json:"product_id"`
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
	CustomerPhone string `json:"customer_phone"`
	PaymentMethod string `json:"payment_method"`
}

// Checkout creates a pending purchase. Form-level validation lives here;
// the repository only enforces its own invariants.
func (h *Handlers) Checkout(w http.ResponseWriter, r *http.Request) {
	if h.settings.Get().MaintenanceMode {
		respondJSONError(w, "store is under maintenance", http.StatusServiceUnavailable)
		return
	}

	var req CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.CustomerName == "" || req.CustomerEmail == "" || req.CustomerPhone == "" {
		respondJSONError(w, "name, email, and phone are required", http.StatusBadRequest)
		return
	}

	method := purchase.PaymentMethod(strings.ToUpper(req.PaymentMethod))
	if !method.Valid() {
		respondJSONError(w, "unknown payment method", http.StatusBadRequest)
		return
	}
	if !h.settings.PaymentEnabled(method) {
		respondJSONError(w, "payment method is disabled", http.StatusBadRequest)
		return
	}

	p, err := h.store.ProductByID(req.ProductID)
	if err != nil {
		respondError(w, err)
		return
	}
	if !p.IsActive || p.Stock == 0 {
		respondJSONError(w, "product is unavailable", http.StatusConflict)
		return
	}

	created, err := h.store.CreatePurchase(r.Context(), req.ProductID,
		req.CustomerName, req.CustomerEmail, req.CustomerPhone, method)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

// LookupOrder finds a purchase by its public order id, case-insensitively.
// A miss is a plain not-found result, not an error page.
func (h *Handlers) LookupOrder(w http.ResponseWriter, r *http.Request) {
	orderID := r.URL.Query().Get("order_id")
	if orderID == "" {
		respondJSONError(w, "order_id is required", http.StatusBadRequest)
		return
	}

	p, err := h.store.PurchaseByOrderID(orderID)
	if err != nil {
		respondJSONError(w, "order not found", http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

// Admin: products

func (h *Handlers) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var draft product.Draft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		respondJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := draft.Validate(); err != nil {
		respondError(w, err)
		return
	}

	p, err := h.store.AddProduct(r.Context(), draft)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, p)
}

// AdminProductItem dispatches /admin/products/{id} and
// /admin/products/{id}/restock.
func (h *Handlers) AdminProductItem(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/admin/products/")
	id, action, _ := strings.Cut(rest, "/")

	switch {
	case action == "restock" && r.Method == http.MethodPost:
		h.restockProduct(w, r, id)
	case action == "" && r.Method == http.MethodPut:
		h.updateProduct(w, r, id)
	case action == "" && r.Method == http.MethodDelete:
		h.deleteProduct(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handlers) updateProduct(w http.ResponseWriter, r *http.Request, id string) {
	var upd product.Update
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		respondJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	p, err := h.store.UpdateProduct(r.Context(), id, upd)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

func (h *Handlers) deleteProduct(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.store.DeleteProduct(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "product deleted"})
}

func (h *Handlers) restockProduct(w http.ResponseWriter, r *http.Request, id string) {
	var req struct {
		Amount int `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	p, err := h.store.RestockProduct(r.Context(), id, req.Amount)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

// Admin: purchases

func (h *Handlers) ListPurchases(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.PurchaseFilter{
		Query:  q.Get("q"),
		Status: purchase.Status(q.Get("status")),
	}
	respondJSON(w, http.StatusOK, h.store.Purchases(filter))
}

// AdminPurchaseItem dispatches /admin/purchases/{id}/status and
// /admin/purchases/{id}/notes.
func (h *Handlers) AdminPurchaseItem(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/admin/purchases/")
	id, action, _ := strings.Cut(rest, "/")

	switch {
	case action == "status" && r.Method == http.MethodPut:
		h.updatePurchaseStatus(w, r, id)
	case action == "notes" && r.Method == http.MethodPut:
		h.setPurchaseNotes(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handlers) updatePurchaseStatus(w http.ResponseWriter, r *http.Request, id string) {
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	p, err := h.store.UpdatePurchaseStatus(r.Context(), id, purchase.Status(req.Status))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

func (h *Handlers) setPurchaseNotes(w http.ResponseWriter, r *http.Request, id string) {
	var req struct {
		Notes string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	p, err := h.store.SetPurchaseNotes(r.Context(), id, req.Notes)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

func (h *Handlers) BulkUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IDs    []string `json:"ids"`
		Status string   `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	updated, err := h.store.BulkUpdateStatus(r.Context(), req.IDs, purchase.Status(req.Status))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{"updated": updated})
}

// Admin: derived views

func (h *Handlers) ListCustomers(w http.ResponseWriter, r *http.Request) {
	purchases := h.store.Purchases(store.PurchaseFilter{})
	respondJSON(w, http.StatusOK, customer.Aggregate(purchases))
}

func (h *Handlers) DashboardStats(w http.ResponseWriter, r *http.Request) {
	products, purchases, version := h.store.Snapshot()
	result := h.statsCache.Get(version, func() stats.DashboardStats {
		return stats.Compute(products, purchases, time.Now())
	})
	respondJSON(w, http.StatusOK, result)
}

// Admin: settings

func (h *Handlers) GetSettings(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.settings.Get())
}

func (h *Handlers) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var upd settings.Update
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		respondJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	updated, err := h.settings.ApplyUpdate(r.Context(), upd)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}
