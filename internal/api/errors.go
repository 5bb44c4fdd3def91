package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ops4go/phacts/internal/errors"
	"github.com/ops4go/phacts/internal/logger"
)

// StatusClientClosedRequest is reported when the caller went away mid-request.
const StatusClientClosedRequest = 499

// ErrorResponse is the body of every failed API call.
type ErrorResponse struct {
	Error    string `json:"error"`
	Category string `json:"category,omitempty"`
}

var categoryStatus = []struct {
	category errors.ErrorCategory
	status   int
}{
	{errors.CategoryValidation, http.StatusBadRequest},
	{errors.CategoryStructure, http.StatusUnprocessableEntity},
	{errors.CategoryNotFound, http.StatusNotFound},
	{errors.CategoryConfiguration, http.StatusServiceUnavailable},
	{errors.CategoryTimeout, http.StatusGatewayTimeout},
	{errors.CategoryRDFParse, http.StatusBadGateway},
	{errors.CategoryNetwork, http.StatusBadGateway},
	{errors.CategoryCancellation, StatusClientClosedRequest},
}

// statusFor maps an error's category to an HTTP status.
func statusFor(err error) (int, errors.ErrorCategory) {
	for _, cs := range categoryStatus {
		if errors.IsCategory(err, cs.category) {
			return cs.status, cs.category
		}
	}
	return http.StatusInternalServerError, ""
}

func (s *Server) errorResponse(c echo.Context, err error) error {
	status, category := statusFor(err)
	if s.metrics != nil {
		errorType := string(category)
		if errorType == "" {
			errorType = "internal"
		}
		s.metrics.HTTP.RecordHTTPRequestError(c.Request().Method, c.Path(), errorType)
	}
	if status >= http.StatusInternalServerError {
		s.log.WithContext(c.Request().Context()).Error("request failed",
			logger.String("path", c.Path()), logger.Error(err))
	}
	return c.JSON(status, newErrorResponse(err, category))
}

// newErrorResponse builds the body sent to the client. Credentials are
// masked in case an upstream message echoes a request URL.
func newErrorResponse(err error, category errors.ErrorCategory) ErrorResponse {
	return ErrorResponse{
		Error:    logger.RedactSensitiveData(err.Error()),
		Category: string(category),
	}
}
