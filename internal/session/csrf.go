package session

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"
)

// CSRFTokenHeader is the header name for the CSRF token in script requests.
const CSRFTokenHeader = "X-CSRF-Token"

const csrfContextKey = "csrf_token"

// CSRFMiddleware protects unsafe methods with gorilla/csrf. Without secure
// cookies requests are marked as plain HTTP so the referer check does not
// reject local development traffic.
func CSRFMiddleware(secret []byte, secure bool) gin.HandlerFunc {
	csrfProtect := csrf.Protect(
		secret,
		csrf.Secure(secure),
		csrf.HttpOnly(true),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.Path("/"),
		csrf.RequestHeader(CSRFTokenHeader),
		csrf.ErrorHandler(http.HandlerFunc(csrfErrorHandler)),
	)

	return func(c *gin.Context) {
		if !secure {
			c.Request = csrf.PlaintextHTTPRequest(c.Request)
		}

		handler := csrfProtect(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c.Set(csrfContextKey, csrf.Token(r))
			c.Request = r
			c.Next()
		}))

		handler.ServeHTTP(c.Writer, c.Request)
	}
}

func csrfErrorHandler(w http.ResponseWriter, r *http.Request) {
	accept := r.Header.Get("Accept")
	if strings.Contains(accept, "application/json") {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":"CSRF token invalid or missing"}`))
		return
	}

	// Send form posts back where they came from with a notice
	if referer := r.Referer(); referer != "" {
		separator := "?"
		if strings.Contains(referer, "?") {
			separator = "&"
		}
		http.Redirect(w, r, referer+separator+"error=Session+expired.+Please+try+again.", http.StatusSeeOther)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusForbidden)
	_, _ = w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>Session Expired</title></head>
<body style="font-family: system-ui; max-width: 400px; margin: 100px auto; text-align: center;">
<h1>Session Expired</h1>
<p>The form submission could not be verified.</p>
<p><a href="/">Back to the country list</a></p>
</body>
</html>`))
}

// CSRFToken returns the token set by CSRFMiddleware, or "".
func CSRFToken(c *gin.Context) string {
	return c.GetString(csrfContextKey)
}

// CSRFField returns a hidden form input carrying the CSRF token.
func CSRFField(c *gin.Context) string {
	token := CSRFToken(c)
	if token == "" {
		return ""
	}
	return `<input type="hidden" name="gorilla.csrf.Token" value="` + token + `">`
}
