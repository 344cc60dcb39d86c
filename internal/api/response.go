package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/asdscreen/asd-screening-api/internal/errors"
)

// writeError renders err as {"error", "code", "details"} with the status
// its code maps to. Errors that are not AppErrors become a bare 500.
func writeError(c *gin.Context, err error) {
	status := apperrors.HTTPStatus(err)

	appErr, ok := apperrors.As(err)
	if !ok {
		c.JSON(status, gin.H{
			"error": http.StatusText(status),
			"code":  apperrors.ErrCodeInternalError,
		})
		return
	}

	body := gin.H{
		"error": appErr.Message,
		"code":  appErr.Code,
	}
	if appErr.Details != "" {
		body["details"] = appErr.Details
	}
	c.JSON(status, body)
}

func invalidBody(err error) error {
	return apperrors.InvalidInput("Invalid request format", err)
}

func routeNotFound(c *gin.Context) {
	writeError(c, apperrors.NotFound("Not found", nil))
}
