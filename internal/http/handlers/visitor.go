package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/claireundgeorge/accessible-site/internal/http/response"
	"github.com/claireundgeorge/accessible-site/internal/platform/ctxutil"
)

var errNoVisitor = errors.New("no visitor identity on request")

// visitorID returns the id attached by the visitor middleware, writing a
// 400 when it is missing.
func visitorID(c *gin.Context) (string, bool) {
	vd := ctxutil.GetVisitor(c.Request.Context())
	if vd == nil || vd.VisitorID == "" {
		response.RespondError(c, http.StatusBadRequest, "missing_visitor", errNoVisitor)
		return "", false
	}
	return vd.VisitorID, true
}

var errNoHub = errors.New("event stream is not configured")
