package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"flatboard/internal/apperr"
	"flatboard/internal/model"
	"flatboard/pkg/logger"
)

var statusByKind = map[apperr.Kind]int{
	apperr.KindValidation: http.StatusBadRequest,
	apperr.KindAuth:       http.StatusUnauthorized,
	apperr.KindForbidden:  http.StatusForbidden,
	apperr.KindNotFound:   http.StatusNotFound,
}

// writeError is the one place the error taxonomy turns into HTTP. Storage and
// unclassified errors respond 500 without leaking their cause.
func writeError(c *gin.Context, log *zap.Logger, err error) {
	log = logger.WithTrace(c.Request.Context(), log)

	status, ok := statusByKind[apperr.KindOf(err)]
	if !ok {
		log.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	log.Warn("request rejected",
		zap.String("path", c.FullPath()),
		zap.Int("status", status),
		zap.String("reason", err.Error()),
	)
	c.JSON(status, gin.H{"error": err.Error()})
}

// identityFromContext pulls the identity the auth middleware attached.
func identityFromContext(c *gin.Context) (model.Identity, bool) {
	v, ok := c.Get("identity")
	if !ok {
		return model.Identity{}, false
	}
	identity, ok := v.(model.Identity)
	return identity, ok
}
