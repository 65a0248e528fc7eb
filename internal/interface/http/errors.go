package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-follow-graph/internal/domain/entity"
	"github.com/oksasatya/go-follow-graph/pkg/response"
	"github.com/oksasatya/go-follow-graph/pkg/validation"
)

// writeError maps domain errors onto status codes. Anything unknown is a 500
// and is logged; its text never reaches the client.
func writeError(c *gin.Context, logger *logrus.Logger, err error) {
	switch {
	case errors.Is(err, entity.ErrUnauthenticated):
		response.Error[any](c, http.StatusUnauthorized, "authentication required", nil)
	case errors.Is(err, entity.ErrUserNotFound):
		response.Error[any](c, http.StatusNotFound, "user not found", nil)
	case errors.Is(err, entity.ErrConflict):
		response.Error[any](c, http.StatusConflict, "login already taken", nil)
	case errors.Is(err, entity.ErrSelfFollow):
		response.Error[any](c, http.StatusBadRequest, "cannot follow yourself", nil)
	case errors.Is(err, entity.ErrEdgeBusy):
		response.Error[any](c, http.StatusServiceUnavailable, "edge busy, retry", nil)
	case errors.Is(err, entity.ErrInvalidUser):
		response.Error[any](c, http.StatusBadRequest, "invalid user", validation.ToDetails(err))
	default:
		logger.WithError(err).WithFields(logrus.Fields{
			"path":       c.FullPath(),
			"request_id": c.GetString("request_id"),
		}).Error("request failed")
		response.Error[any](c, http.StatusInternalServerError, "internal error", nil)
	}
}
