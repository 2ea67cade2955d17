package server

import (
	"net/http"

	"github.com/cordialsys/resource-deployer/client/errors"
	"github.com/gin-gonic/gin"
)

type ErrorResponse struct {
	Error    string          `json:"error"`
	Status   errors.Status   `json:"status,omitempty"`
	Category errors.Category `json:"category,omitempty"`
}

// HttpStatus maps an error to the response code for it.
func HttpStatus(err error) int {
	status, ok := errors.StatusOf(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch status {
	case errors.InvalidAddress:
		return http.StatusBadRequest
	case errors.ModuleNotFound:
		return http.StatusNotFound
	case errors.BuildFailed:
		return http.StatusUnprocessableEntity
	case errors.PayloadTooLarge:
		return http.StatusRequestEntityTooLarge
	case errors.MetadataExtractionFailed, errors.InvalidConfig:
		return http.StatusInternalServerError
	case errors.ConfirmationTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}

func NewErrorResponse(err error) ErrorResponse {
	resp := ErrorResponse{Error: err.Error()}
	if status, ok := errors.StatusOf(err); ok {
		resp.Status = status
		resp.Category = status.Category()
	}
	return resp
}

func abortWithError(c *gin.Context, code int, err error) {
	c.AbortWithStatusJSON(code, NewErrorResponse(err))
}
