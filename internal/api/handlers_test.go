package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/pterohub-shop/internal/auth"
	"github.com/example/pterohub-shop/internal/customer"
	"github.com/example/pterohub-shop/internal/domain/product"
	"github.com/example/pterohub-shop/internal/domain/purchase"
	"github.com/example/pterohub-shop/internal/infrastructure/kv"
	"github.com/example/pterohub-shop/internal/settings"
	"github.com/example/pterohub-shop/internal/stats"
	"github.com/example/pterohub-shop/internal/store"
)

type testAPI struct {
	router   http.Handler
	store    *store.Store
	settings *settings.Service
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	ctx := context.Background()
	backend := kv.NewMemoryStore()

	shop, err := store.Open(ctx, backend)
	require.NoError(t, err)
	settingsSvc, err := settings.Load(ctx, backend)
	require.NoError(t, err)
	admins, err := auth.LoadAdmin(ctx, backend)
	require.NoError(t, err)

	jwtService := auth.NewJWTService("test-secret-key-for-testing-purposes", 15*time.Minute, 7*24*time.Hour)
	router := NewRouter(RouterConfig{
		Handlers:     NewHandlers(shop, settingsSvc),
		AuthHandlers: NewAuthHandlers(admins, jwtService),
		JWTService:   jwtService,
	})

	return &testAPI{router: router, store: shop, settings: settingsSvc}
}

func (a *testAPI) do(t *testing.T, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func (a *testAPI) login(t *testing.T) TokenResponse {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/auth/login", `{"username":"admin","password":"admin123"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var tokens TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tokens))
	return tokens
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

// ============================================
// Storefront Tests
// ============================================

func TestAPI_Health(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(t, http.MethodGet, "/health", "", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}

func TestAPI_ListProducts(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(t, http.MethodGet, "/products", "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	products := decodeBody[[]product.Product](t, rec)
	assert.Len(t, products, 6)
}

func TestAPI_ListProducts_QueryAndCategory(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(t, http.MethodGet, "/products?category=Bot", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]product.Product](t, rec), 2)

	rec = a.do(t, http.MethodGet, "/products?q=pterodactyl", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]product.Product](t, rec), 1)
}

func TestAPI_GetProduct(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(t, http.MethodGet, "/products/1", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	p := decodeBody[product.Product](t, rec)
	assert.Equal(t, "Pterodactyl Panel Pro", p.Name)

	rec = a.do(t, http.MethodGet, "/products/missing", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAPI_ViewProduct(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(t, http.MethodPost, "/products/1/view", "", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	p, err := a.store.ProductByID("1")
	require.NoError(t, err)
	assert.Equal(t, 321, p.Views)
}

// ============================================
// Checkout Tests
// ============================================

func checkoutBody(productID, method string) string {
	return `{"product_id":"` + productID + `","customer_name":"Budi","customer_email":"budi@mail.com","customer_phone":"0812","payment_method":"` + method + `"}`
}

func TestAPI_Checkout_Success(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(t, http.MethodPost, "/checkout", checkoutBody("1", "QRIS"), "")

	require.Equal(t, http.StatusCreated, rec.Code)
	p := decodeBody[purchase.Purchase](t, rec)
	assert.True(t, strings.HasPrefix(p.OrderID, "PTH-"))
	assert.Equal(t, purchase.StatusPending, p.Status)
	assert.Equal(t, 150000, p.Price)
}

func TestAPI_Checkout_LowercaseMethodAccepted(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(t, http.MethodPost, "/checkout", checkoutBody("1", "qris"), "")

	require.Equal(t, http.StatusCreated, rec.Code)
	p := decodeBody[purchase.Purchase](t, rec)
	assert.Equal(t, purchase.MethodQRIS, p.PaymentMethod)
}

func TestAPI_Checkout_MissingFields(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(t, http.MethodPost, "/checkout", `{"product_id":"1","payment_method":"QRIS"}`, "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPI_Checkout_UnknownPaymentMethod(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(t, http.MethodPost, "/checkout", checkoutBody("1", "OVO"), "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPI_Checkout_DisabledPaymentMethod(t *testing.T) {
	a := newTestAPI(t)
	dana := false
	_, err := a.settings.ApplyUpdate(context.Background(), settings.Update{EnableDANA: &dana})
	require.NoError(t, err)

	rec := a.do(t, http.MethodPost, "/checkout", checkoutBody("1", "DANA"), "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPI_Checkout_MaintenanceMode(t *testing.T) {
	a := newTestAPI(t)
	maintenance := true
	_, err := a.settings.ApplyUpdate(context.Background(), settings.Update{MaintenanceMode: &maintenance})
	require.NoError(t, err)

	rec := a.do(t, http.MethodPost, "/checkout", checkoutBody("1", "QRIS"), "")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestAPI_Checkout_UnknownProduct(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(t, http.MethodPost, "/checkout", checkoutBody("missing", "QRIS"), "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAPI_Checkout_OutOfStock(t *testing.T) {
	a := newTestAPI(t)
	ctx := context.Background()

	// Drain product 6 (3 in stock).
	for i := 0; i < 3; i++ {
		_, err := a.store.CreatePurchase(ctx, "6", "Budi", "budi@mail.com", "0812", purchase.MethodQRIS)
		require.NoError(t, err)
	}

	rec := a.do(t, http.MethodPost, "/checkout", checkoutBody("6", "QRIS"), "")

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAPI_Checkout_InactiveProduct(t *testing.T) {
	a := newTestAPI(t)
	inactive := false
	_, err := a.store.UpdateProduct(context.Background(), "1", product.Update{IsActive: &inactive})
	require.NoError(t, err)

	rec := a.do(t, http.MethodPost, "/checkout", checkoutBody("1", "QRIS"), "")

	assert.Equal(t, http.StatusConflict, rec.Code)
}

// ============================================
// Order Lookup Tests
// ============================================

func TestAPI_LookupOrder(t *testing.T) {
	a := newTestAPI(t)

	created, err := a.store.CreatePurchase(context.Background(), "1", "Budi", "budi@mail.com", "0812", purchase.MethodQRIS)
	require.NoError(t, err)

	rec := a.do(t, http.MethodGet, "/orders/lookup?order_id="+created.OrderID, "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	found := decodeBody[purchase.Purchase](t, rec)
	assert.Equal(t, created.ID, found.ID)

	// Case-insensitive match.
	rec = a.do(t, http.MethodGet, "/orders/lookup?order_id="+strings.ToLower(created.OrderID), "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAPI_LookupOrder_NotFound(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(t, http.MethodGet, "/orders/lookup?order_id=PTH-UNKNOWN-XXX", "", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "order not found")
}

func TestAPI_LookupOrder_MissingParam(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(t, http.MethodGet, "/orders/lookup", "", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// ============================================
// Auth Tests
// ============================================

func TestAPI_Login_Success(t *testing.T) {
	a := newTestAPI(t)

	tokens := a.login(t)

	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
	assert.True(t, tokens.ExpiresAt.After(time.Now()))
}

func TestAPI_Login_WrongCredentials(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(t, http.MethodPost, "/auth/login", `{"username":"admin","password":"wrong"}`, "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAPI_Refresh_IssuesNewAccessToken(t *testing.T) {
	a := newTestAPI(t)
	tokens := a.login(t)

	rec := a.do(t, http.MethodPost, "/auth/refresh", `{"refresh_token":"`+tokens.RefreshToken+`"}`, "")

	require.Equal(t, http.StatusOK, rec.Code)
	refreshed := decodeBody[TokenResponse](t, rec)
	assert.NotEmpty(t, refreshed.AccessToken)

	// The new access token works against admin routes.
	rec = a.do(t, http.MethodGet, "/admin/stats", "", refreshed.AccessToken)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAPI_Refresh_RejectsGarbage(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(t, http.MethodPost, "/auth/refresh", `{"refresh_token":"garbage"}`, "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAPI_AdminRoutes_RequireToken(t *testing.T) {
	a := newTestAPI(t)

	paths := []struct{ method, path string }{
		{http.MethodGet, "/admin/purchases"},
		{http.MethodGet, "/admin/customers"},
		{http.MethodGet, "/admin/stats"},
		{http.MethodGet, "/admin/settings"},
		{http.MethodGet, "/admin/profile"},
		{http.MethodPost, "/admin/products"},
	}
	for _, p := range paths {
		rec := a.do(t, p.method, p.path, "", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, p.path)

		rec = a.do(t, p.method, p.path, "", "not-a-token")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, p.path)
	}
}

// ============================================
// Admin Product Tests
// ============================================

func TestAPI_CreateProduct(t *testing.T) {
	a := newTestAPI(t)
	tokens := a.login(t)

	body := `{"name":"SSH Tunnel Script","price":30000,"stock":10,"is_active":true}`
	rec := a.do(t, http.MethodPost, "/admin/products", body, tokens.AccessToken)

	require.Equal(t, http.StatusCreated, rec.Code)
	p := decodeBody[product.Product](t, rec)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, product.DefaultCategory, p.Category)
}

func TestAPI_CreateProduct_Invalid(t *testing.T) {
	a := newTestAPI(t)
	tokens := a.login(t)

	rec := a.do(t, http.MethodPost, "/admin/products", `{"name":"","price":100,"stock":1}`, tokens.AccessToken)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = a.do(t, http.MethodPost, "/admin/products", `{"name":"X","price":0,"stock":1}`, tokens.AccessToken)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPI_UpdateProduct(t *testing.T) {
	a := newTestAPI(t)
	tokens := a.login(t)

	rec := a.do(t, http.MethodPut, "/admin/products/1", `{"price":175000}`, tokens.AccessToken)

	require.Equal(t, http.StatusOK, rec.Code)
	p := decodeBody[product.Product](t, rec)
	assert.Equal(t, 175000, p.Price)
}

func TestAPI_DeleteProduct(t *testing.T) {
	a := newTestAPI(t)
	tokens := a.login(t)

	rec := a.do(t, http.MethodDelete, "/admin/products/1", "", tokens.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = a.do(t, http.MethodGet, "/products/1", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAPI_RestockProduct(t *testing.T) {
	a := newTestAPI(t)
	tokens := a.login(t)

	rec := a.do(t, http.MethodPost, "/admin/products/3/restock", `{"amount":7}`, tokens.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code)
	p := decodeBody[product.Product](t, rec)
	assert.Equal(t, 12, p.Stock)

	rec = a.do(t, http.MethodPost, "/admin/products/3/restock", `{"amount":0}`, tokens.AccessToken)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// ============================================
// Admin Purchase Tests
// ============================================

func TestAPI_UpdatePurchaseStatus(t *testing.T) {
	a := newTestAPI(t)
	tokens := a.login(t)
	created, err := a.store.CreatePurchase(context.Background(), "1", "Budi", "budi@mail.com", "0812", purchase.MethodQRIS)
	require.NoError(t, err)

	rec := a.do(t, http.MethodPut, "/admin/purchases/"+created.ID+"/status", `{"status":"paid"}`, tokens.AccessToken)

	require.Equal(t, http.StatusOK, rec.Code)
	p := decodeBody[purchase.Purchase](t, rec)
	assert.Equal(t, purchase.StatusPaid, p.Status)
	assert.NotNil(t, p.PaidAt)
}

func TestAPI_UpdatePurchaseStatus_Invalid(t *testing.T) {
	a := newTestAPI(t)
	tokens := a.login(t)
	created, err := a.store.CreatePurchase(context.Background(), "1", "Budi", "budi@mail.com", "0812", purchase.MethodQRIS)
	require.NoError(t, err)

	rec := a.do(t, http.MethodPut, "/admin/purchases/"+created.ID+"/status", `{"status":"shipped"}`, tokens.AccessToken)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPI_SetPurchaseNotes(t *testing.T) {
	a := newTestAPI(t)
	tokens := a.login(t)
	created, err := a.store.CreatePurchase(context.Background(), "1", "Budi", "budi@mail.com", "0812", purchase.MethodQRIS)
	require.NoError(t, err)

	rec := a.do(t, http.MethodPut, "/admin/purchases/"+created.ID+"/notes", `{"notes":"sent via Telegram"}`, tokens.AccessToken)

	require.Equal(t, http.StatusOK, rec.Code)
	p := decodeBody[purchase.Purchase](t, rec)
	assert.Equal(t, "sent via Telegram", p.Notes)
}

func TestAPI_BulkUpdateStatus(t *testing.T) {
	a := newTestAPI(t)
	tokens := a.login(t)
	ctx := context.Background()

	first, err := a.store.CreatePurchase(ctx, "1", "Budi", "budi@mail.com", "0812", purchase.MethodQRIS)
	require.NoError(t, err)
	second, err := a.store.CreatePurchase(ctx, "2", "Siti", "siti@mail.com", "0813", purchase.MethodDANA)
	require.NoError(t, err)

	body := `{"ids":["` + first.ID + `","` + second.ID + `","missing"],"status":"paid"}`
	rec := a.do(t, http.MethodPost, "/admin/purchases/bulk-status", body, tokens.AccessToken)

	require.Equal(t, http.StatusOK, rec.Code)
	result := decodeBody[map[string]int](t, rec)
	assert.Equal(t, 2, result["updated"])
}

func TestAPI_ListPurchases_FilterByStatus(t *testing.T) {
	a := newTestAPI(t)
	tokens := a.login(t)
	ctx := context.Background()

	created, err := a.store.CreatePurchase(ctx, "1", "Budi", "budi@mail.com", "0812", purchase.MethodQRIS)
	require.NoError(t, err)
	_, err = a.store.CreatePurchase(ctx, "2", "Siti", "siti@mail.com", "0813", purchase.MethodDANA)
	require.NoError(t, err)
	_, err = a.store.UpdatePurchaseStatus(ctx, created.ID, purchase.StatusPaid)
	require.NoError(t, err)

	rec := a.do(t, http.MethodGet, "/admin/purchases?status=paid", "", tokens.AccessToken)

	require.Equal(t, http.StatusOK, rec.Code)
	purchases := decodeBody[[]purchase.Purchase](t, rec)
	require.Len(t, purchases, 1)
	assert.Equal(t, created.ID, purchases[0].ID)
}

// ============================================
// Admin Derived View Tests
// ============================================

func TestAPI_ListCustomers(t *testing.T) {
	a := newTestAPI(t)
	tokens := a.login(t)
	ctx := context.Background()

	_, err := a.store.CreatePurchase(ctx, "1", "Budi", "budi@mail.com", "0812", purchase.MethodQRIS)
	require.NoError(t, err)
	_, err = a.store.CreatePurchase(ctx, "2", "Budi", "budi@mail.com", "0812", purchase.MethodDANA)
	require.NoError(t, err)

	rec := a.do(t, http.MethodGet, "/admin/customers", "", tokens.AccessToken)

	require.Equal(t, http.StatusOK, rec.Code)
	customers := decodeBody[[]customer.Customer](t, rec)
	require.Len(t, customers, 1)
	assert.Equal(t, 2, customers[0].TotalOrders)
	assert.Equal(t, 225000, customers[0].TotalSpent)
}

func TestAPI_DashboardStats(t *testing.T) {
	a := newTestAPI(t)
	tokens := a.login(t)
	ctx := context.Background()

	created, err := a.store.CreatePurchase(ctx, "1", "Budi", "budi@mail.com", "0812", purchase.MethodQRIS)
	require.NoError(t, err)
	_, err = a.store.UpdatePurchaseStatus(ctx, created.ID, purchase.StatusPaid)
	require.NoError(t, err)

	rec := a.do(t, http.MethodGet, "/admin/stats", "", tokens.AccessToken)

	require.Equal(t, http.StatusOK, rec.Code)
	result := decodeBody[stats.DashboardStats](t, rec)
	assert.Equal(t, 150000, result.TotalSales)
	assert.Equal(t, 1, result.TotalOrders)
	assert.Equal(t, 6, result.TotalProducts)
	assert.Len(t, result.SalesByDay, 7)
	assert.Len(t, result.OrdersByStatus, 5)
	assert.Len(t, result.SalesByPayment, 3)
}

// ============================================
// Admin Settings and Profile Tests
// ============================================

func TestAPI_Settings_GetAndUpdate(t *testing.T) {
	a := newTestAPI(t)
	tokens := a.login(t)

	rec := a.do(t, http.MethodGet, "/admin/settings", "", tokens.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code)
	current := decodeBody[settings.Settings](t, rec)
	assert.Equal(t, "PTEROHUB.ID", current.StoreName)

	rec = a.do(t, http.MethodPut, "/admin/settings", `{"maintenance_mode":true,"enable_gopay":false}`, tokens.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decodeBody[settings.Settings](t, rec)
	assert.True(t, updated.MaintenanceMode)
	assert.False(t, updated.EnableGOPAY)
}

func TestAPI_ChangePassword(t *testing.T) {
	a := newTestAPI(t)
	tokens := a.login(t)

	rec := a.do(t, http.MethodPost, "/admin/password", `{"new_password":"short"}`, tokens.AccessToken)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = a.do(t, http.MethodPost, "/admin/password", `{"new_password":"newsecret123"}`, tokens.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code)

	// Old password no longer works; the new one does.
	rec = a.do(t, http.MethodPost, "/auth/login", `{"username":"admin","password":"admin123"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = a.do(t, http.MethodPost, "/auth/login", `{"username":"admin","password":"newsecret123"}`, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAPI_Profile_GetAndUpdate(t *testing.T) {
	a := newTestAPI(t)
	tokens := a.login(t)

	rec := a.do(t, http.MethodGet, "/admin/profile", "", tokens.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code)
	profile := decodeBody[ProfileResponse](t, rec)
	assert.Equal(t, "admin", profile.Username)
	// The password hash must never leave the server.
	assert.NotContains(t, rec.Body.String(), "password")

	rec = a.do(t, http.MethodPut, "/admin/profile", `{"phone":"081234567890"}`, tokens.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decodeBody[ProfileResponse](t, rec)
	assert.Equal(t, "081234567890", updated.Phone)
}

func TestAPI_Logout(t *testing.T) {
	a := newTestAPI(t)
	tokens := a.login(t)

	rec := a.do(t, http.MethodGet, "/auth/logout", "", tokens.AccessToken)
	assert.Equal(t, http.StatusOK, rec.Code)
}
