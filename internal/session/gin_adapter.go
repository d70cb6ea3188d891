package session

import (
	"bufio"
	"net"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/gin-gonic/gin"
)

// ContextKeyVisitorID is the gin context key set by VisitorMiddleware.
const ContextKeyVisitorID = "visitor_id"

// sessionResponseWriter commits the session and writes its cookie before the
// first byte of the response goes out.
type sessionResponseWriter struct {
	gin.ResponseWriter
	sm            *Manager
	request       *http.Request
	wroteHeader   bool
	cookieWritten bool
}

func (w *sessionResponseWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.wroteHeader = true
		w.writeSessionCookie()
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *sessionResponseWriter) WriteHeaderNow() {
	if !w.wroteHeader {
		w.wroteHeader = true
		w.writeSessionCookie()
	}
	w.ResponseWriter.WriteHeaderNow()
}

func (w *sessionResponseWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.wroteHeader = true
		w.writeSessionCookie()
	}
	return w.ResponseWriter.Write(b)
}

func (w *sessionResponseWriter) WriteString(s string) (int, error) {
	if !w.wroteHeader {
		w.wroteHeader = true
		w.writeSessionCookie()
	}
	return w.ResponseWriter.WriteString(s)
}

func (w *sessionResponseWriter) writeSessionCookie() {
	if w.cookieWritten {
		return
	}
	w.cookieWritten = true

	ctx := w.request.Context()
	switch w.sm.Status(ctx) {
	case scs.Modified:
		token, expiry, err := w.sm.Commit(ctx)
		if err != nil {
			return
		}
		w.sm.WriteSessionCookie(ctx, w.ResponseWriter, token, expiry)
	case scs.Destroyed:
		w.sm.WriteSessionCookie(ctx, w.ResponseWriter, "", time.Time{})
	}
}

func (w *sessionResponseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	return w.ResponseWriter.Hijack()
}

// LoadSave loads the session for each request and saves it when modified.
// It must run before VisitorMiddleware.
func (m *Manager) LoadSave() gin.HandlerFunc {
	return func(c *gin.Context) {
		var token string
		if cookie, err := c.Request.Cookie(m.Cookie.Name); err == nil {
			token = cookie.Value
		}

		ctx, err := m.Load(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		c.Request = c.Request.WithContext(ctx)

		srw := &sessionResponseWriter{
			ResponseWriter: c.Writer,
			sm:             m,
			request:        c.Request,
		}
		c.Writer = srw

		c.Next()

		if !srw.wroteHeader {
			srw.writeSessionCookie()
		}
	}
}

// VisitorMiddleware makes sure every request carries a visitor id.
func (m *Manager) VisitorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := m.EnsureVisitor(c.Request.Context())
		c.Set(ContextKeyVisitorID, id)
		c.Next()
	}
}

// StaticVisitor pins every request to one visitor id. Used by tests and
// single-user deployments without a session store.
func StaticVisitor(id string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ContextKeyVisitorID, id)
		c.Next()
	}
}

// VisitorID returns the visitor id set by the middleware, or "".
func VisitorID(c *gin.Context) string {
	return c.GetString(ContextKeyVisitorID)
}
