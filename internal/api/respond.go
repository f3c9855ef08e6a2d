package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/example/pterohub-shop/internal/auth"
	"github.com/example/pterohub-shop/internal/domain/product"
	"github.com/example/pterohub-shop/internal/domain/purchase"
	"github.com/example/pterohub-shop/internal/store"
)

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondJSONError(w http.ResponseWriter, message string, status int) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondError maps domain errors onto HTTP statuses.
func respondError(w http.ResponseWriter, err error) {
	respondJSONError(w, err.Error(), errorStatus(err))
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, store.ErrProductNotFound),
		errors.Is(err, store.ErrPurchaseNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrInvalidAmount),
		errors.Is(err, purchase.ErrInvalidStatus),
		errors.Is(err, purchase.ErrInvalidPaymentMethod),
		errors.Is(err, product.ErrInvalidName),
		errors.Is(err, product.ErrInvalidPrice),
		errors.Is(err, product.ErrInvalidStock),
		errors.Is(err, auth.ErrPasswordTooShort):
		return http.StatusBadRequest
	case errors.Is(err, purchase.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// extractPathParam returns the path segment right after prefix, dropping
// any trailing segments.
func extractPathParam(path, prefix string) string {
	rest := strings.TrimPrefix(path, prefix)
	if i := strings.Index(rest, "/"); i >= 0 {
		return rest[:i]
	}
	return rest
}

// hasSuffixAction reports whether the path ends with "/<action>".
func hasSuffixAction(path, action string) bool {
	return strings.HasSuffix(path, "/"+action)
}
