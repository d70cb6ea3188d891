package http

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/atlas/internal/directory"
	"github.com/mrlokans/atlas/internal/kvstore"
	"github.com/mrlokans/atlas/internal/restcountries"
	"github.com/mrlokans/atlas/internal/session"
)

// Machine-readable error codes.
const (
	CodeCapacityExceeded   = "capacity_exceeded"
	CodeCatalogLoading     = "catalog_loading"
	CodeConflictingFilters = "conflicting_filters"
	CodeUpstreamError      = "upstream_unavailable"
)

// --- Response Types ---

// ErrorResponse is the standard error response format for all API errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`    // machine-readable error code
	Details any    `json:"details,omitempty"` // additional context
}

// SuccessResponse is a standard success response with optional data.
type SuccessResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// --- Error Response Helpers ---

// respondBadRequest sends a 400 Bad Request response.
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message})
}

// respondNotFound sends a 404 Not Found response.
func respondNotFound(c *gin.Context, resource string) {
	c.JSON(http.StatusNotFound, ErrorResponse{Error: resource + " not found"})
}

// respondInternalError logs the error and sends a 500 Internal Server Error response.
// The actual error is logged but not exposed to the client.
func respondInternalError(c *gin.Context, err error, context string) {
	log.Printf("Internal error (%s): %v", context, err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

// respondCodedError sends an error response carrying a machine-readable code.
func respondCodedError(c *gin.Context, status int, code, message string) {
	c.JSON(status, ErrorResponse{Error: message, Code: code})
}

// respondCatalogLoading sends 503 while the catalog has not been loaded.
func respondCatalogLoading(c *gin.Context) {
	c.Header("Retry-After", "5")
	respondCodedError(c, http.StatusServiceUnavailable, CodeCatalogLoading, directory.ErrNotReady.Error())
}

// respondLookupError maps directory and provider errors to API responses.
func respondLookupError(c *gin.Context, err error, context string) {
	switch {
	case errors.Is(err, restcountries.ErrNotFound):
		respondNotFound(c, "country")
	case errors.Is(err, directory.ErrNotReady):
		respondCatalogLoading(c)
	case restcountries.IsNetworkError(err):
		log.Printf("Upstream error (%s): %v", context, err)
		respondCodedError(c, http.StatusBadGateway, CodeUpstreamError, "country data provider unavailable")
	default:
		respondInternalError(c, err, context)
	}
}

// respondAccepted sends a 202 Accepted response (for async operations).
func respondAccepted(c *gin.Context, message string, data any) {
	c.JSON(http.StatusAccepted, SuccessResponse{Message: message, Data: data})
}

// --- Parameter Parsing ---

// parseCodeParam reads a country code from the URL and normalizes it to
// upper case. Codes are three ASCII letters (cca3).
func parseCodeParam(c *gin.Context, paramName string) (string, bool) {
	code := normalizeCode(c.Param(paramName))
	if !isCountryCode(code) {
		respondBadRequest(c, "invalid country code")
		return "", false
	}
	return code, true
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func isCountryCode(code string) bool {
	if len(code) != 3 {
		return false
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// visitorStore returns the key/value scope of the requesting visitor.
func visitorStore(c *gin.Context, stores StoreProvider) kvstore.Store {
	visitorID := session.VisitorID(c)
	if visitorID == "" {
		visitorID = DefaultVisitorID
	}
	return stores(visitorID)
}

// safeRedirectTarget returns target when it is a local path, otherwise
// fallback. Protects form redirects from pointing at other hosts.
func safeRedirectTarget(target, fallback string) string {
	if target == "" || !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return fallback
	}
	return target
}
