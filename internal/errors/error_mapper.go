package errors

import (
	"net/http"
	"strings"
)

// MapError converts a technical error into a user-friendly AppError.
func MapError(err error) *AppError {
	if err == nil {
		return nil
	}

	if appErr, ok := err.(*AppError); ok {
		return appErr
	}

	technicalMessage := err.Error()

	switch {
	case strings.Contains(technicalMessage, "search query is required"):
		return &AppError{
			TechnicalMessage: technicalMessage,
			UserMessage:      MsgInvalidQuery,
			Code:             ErrCodeInvalidQuery,
			HTTPStatus:       http.StatusBadRequest,
			OriginalError:    err,
		}
	case strings.Contains(technicalMessage, "property not found"):
		return &AppError{
			TechnicalMessage: technicalMessage,
			UserMessage:      MsgPropertyNotFound,
			Code:             ErrCodePropertyNotFound,
			HTTPStatus:       http.StatusNotFound,
			OriginalError:    err,
		}
	case strings.Contains(technicalMessage, "circuit breaker is open"):
		return &AppError{
			TechnicalMessage: technicalMessage,
			UserMessage:      MsgServiceUnavailable,
			Code:             ErrCodeServiceUnavailable,
			HTTPStatus:       http.StatusServiceUnavailable,
			OriginalError:    err,
		}
	case strings.Contains(technicalMessage, "rate limit"):
		return &AppError{
			TechnicalMessage: technicalMessage,
			UserMessage:      MsgRateLimited,
			Code:             ErrCodeRateLimited,
			HTTPStatus:       http.StatusTooManyRequests,
			OriginalError:    err,
		}
	case strings.Contains(technicalMessage, "provider"):
		return &AppError{
			TechnicalMessage: technicalMessage,
			UserMessage:      MsgServiceUnavailable,
			Code:             ErrCodeServiceUnavailable,
			HTTPStatus:       http.StatusServiceUnavailable,
			OriginalError:    err,
		}
	default:
		return &AppError{
			TechnicalMessage: technicalMessage,
			UserMessage:      MsgInternalError,
			Code:             ErrCodeInternalError,
			HTTPStatus:       http.StatusInternalServerError,
			OriginalError:    err,
		}
	}
}
