package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type APIError struct {
	Error struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		RequestID string `json:"request_id,omitempty"`
	} `json:"error"`
}

// Error codes returned in the envelope.
const (
	CodeBadRequest       = "bad_request"
	CodeLoading          = "loading"
	CodeUnknownDashboard = "unknown_dashboard"
	CodeDisabled         = "summarizer_disabled"
	CodeRateLimited      = "rate_limited"
	CodeUpstream         = "upstream_error"
	CodeNotFound         = "not_found"
	CodeInternal         = "internal_error"
)

func writeError(c echo.Context, status int, code, message string) error {
	var e APIError
	e.Error.Code = code
	e.Error.Message = message
	e.Error.RequestID = c.Response().Header().Get(echo.HeaderXRequestID)
	return c.JSON(status, e)
}

// errorHandler renders echo's own errors (404, 405, 429, panics turned into
// 500 by Recover) in the same envelope as handler errors.
func errorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, code, msg := http.StatusInternalServerError, CodeInternal, "internal server error"
		var he *echo.HTTPError
		if errors.As(err, &he) {
			status = he.Code
			msg = fmt.Sprint(he.Message)
			switch status {
			case http.StatusNotFound:
				code = CodeNotFound
			case http.StatusTooManyRequests:
				code = CodeRateLimited
			case http.StatusBadRequest:
				code = CodeBadRequest
			case http.StatusInternalServerError:
				code, msg = CodeInternal, "internal server error"
			default:
				code = strings.ToLower(strings.ReplaceAll(http.StatusText(status), " ", "_"))
			}
		}
		if status >= http.StatusInternalServerError {
			logger.Error("request failed", zap.Error(err), zap.String("path", c.Path()))
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(status)
			return
		}
		if werr := writeError(c, status, code, msg); werr != nil {
			logger.Warn("write error response", zap.Error(werr))
		}
	}
}
