package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	appErr "github.com/jhjeon/askresume/internal/pkg/errors"
	"github.com/jhjeon/askresume/internal/pkg/response"
)

// handleError is the outermost error boundary: every failure becomes a
// structured JSON body with a matching status. Details go to the server log,
// never to the caller.
func handleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	logutil.GetLogger(c.Request.Context()).Error("request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	)
	switch {
	case errors.Is(err, appErr.ErrInvalid):
		response.Error(c, http.StatusBadRequest, "question(prompt) is missing")
	case errors.Is(err, appErr.ErrNotReady):
		response.Error(c, http.StatusInternalServerError, "server initialization failed, check the logs")
	case errors.Is(err, appErr.ErrIndexUnavailable):
		response.Error(c, http.StatusInternalServerError, "search index is unavailable")
	case errors.Is(err, appErr.ErrUpstream):
		response.Error(c, http.StatusInternalServerError, "upstream model call failed")
	default:
		response.Error(c, http.StatusInternalServerError, "internal server error")
	}
}
