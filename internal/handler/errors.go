package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dharmasatrya/flightexplorer/internal/apperr"
	"github.com/dharmasatrya/flightexplorer/internal/logger"
	"github.com/dharmasatrya/flightexplorer/internal/models"
)

// ActionReload tells the client the only way forward is reloading the page.
const ActionReload = "reload"

// NewHTTPErrorHandler renders every error returned by a handler, including
// recovered panics, as a models.ErrorResponse.
func NewHTTPErrorHandler(log *logger.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		resp := errorResponse(err)
		reqLog := log.WithContext(c.Request().Context())
		if resp.Code >= http.StatusInternalServerError {
			reqLog.Error("request failed",
				"method", c.Request().Method,
				"path", c.Path(),
				"status", resp.Code,
				"error", err,
			)
		} else {
			reqLog.Debug("request rejected", "status", resp.Code, "error", err)
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(resp.Code)
		} else {
			writeErr = c.JSON(resp.Code, resp)
		}
		if writeErr != nil {
			reqLog.Error("write error response", "error", writeErr)
		}
	}
}

func errorResponse(err error) models.ErrorResponse {
	var appErr *apperr.Error
	if errors.As(err, &appErr) && appErr.Kind != apperr.KindUnknown && appErr.Kind != apperr.KindInternal {
		return models.ErrorResponse{
			Error:       appErr.Code(),
			Message:     appErr.Message,
			Code:        appErr.HTTPStatus(),
			Dismissible: appErr.Kind == apperr.KindUpstream || appErr.Kind == apperr.KindUnavailable,
		}
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) && httpErr.Code < http.StatusInternalServerError {
		return models.ErrorResponse{
			Error:   httpErrorName(httpErr.Code),
			Message: fmt.Sprint(httpErr.Message),
			Code:    httpErr.Code,
		}
	}

	return models.ErrorResponse{
		Error:   "internal_error",
		Message: "Something went wrong. Please reload the page.",
		Code:    http.StatusInternalServerError,
		Action:  ActionReload,
	}
}

func httpErrorName(code int) string {
	switch code {
	case http.StatusNotFound:
		return "not_found"
	case http.StatusMethodNotAllowed:
		return "method_not_allowed"
	case http.StatusTooManyRequests:
		return "rate_limited"
	default:
		return "invalid_request"
	}
}
