package httpapi

import (
	"net/http"
	"strings"

	"dairy-farm-management/internal/middleware"
	"dairy-farm-management/internal/ports/auth"
	"dairy-farm-management/internal/ports/capabilities"
)

// Authorize exige claims (401) y la capability pedida (403).
func Authorize(w http.ResponseWriter, r *http.Request, caps capabilities.Resolver, c capabilities.Capability) (auth.Claims, bool) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.UserID) == "" {
		Detail(w, http.StatusUnauthorized, "unauthorized")
		return auth.Claims{}, false
	}
	if caps == nil || !caps.Has(r.Context(), claims, c) {
		Detail(w, http.StatusForbidden, "forbidden")
		return auth.Claims{}, false
	}
	return claims, true
}

// Authenticated solo exige claims.
func Authenticated(w http.ResponseWriter, r *http.Request) (auth.Claims, bool) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.UserID) == "" {
		Detail(w, http.StatusUnauthorized, "unauthorized")
		return auth.Claims{}, false
	}
	return claims, true
}
