package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/claireundgeorge/accessible-site/internal/platform/ctxutil"
)

const (
	VisitorCookie    = "cg_visitor"
	visitorCookieTTL = 365 * 24 * time.Hour
)

// AttachVisitor identifies the browser by the visitor cookie, issuing a new
// id when the cookie is missing or not a UUID.
func AttachVisitor(secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		vd := &ctxutil.VisitorData{}
		if raw, err := c.Cookie(VisitorCookie); err == nil {
			if id, perr := uuid.Parse(strings.TrimSpace(raw)); perr == nil {
				vd.VisitorID = id.String()
			}
		}
		if vd.VisitorID == "" {
			vd.VisitorID = uuid.New().String()
			vd.New = true
		}
		// Refresh the expiry on every request.
		http.SetCookie(c.Writer, &http.Cookie{
			Name:     VisitorCookie,
			Value:    vd.VisitorID,
			Path:     "/",
			MaxAge:   int(visitorCookieTTL / time.Second),
			HttpOnly: true,
			Secure:   secure,
			SameSite: http.SameSiteLaxMode,
		})
		c.Request = c.Request.WithContext(ctxutil.WithVisitor(c.Request.Context(), vd))
		c.Next()
	}
}
