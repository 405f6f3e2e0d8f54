package boundary

import (
	"fmt"
	"strings"
)

// Code identifies a failure class. The set is closed: anything that cannot
// be classified maps to CodeUnknown before it reaches a host-visible
// boundary.
type Code string

const (
	CodeNetworkError        Code = "NETWORK_ERROR"
	CodeAPIError            Code = "API_ERROR"
	CodeConfigLoadFailed    Code = "CONFIG_LOAD_FAILED"
	CodeContainerNotFound   Code = "CONTAINER_NOT_FOUND"
	CodeInvalidConfig       Code = "INVALID_CONFIG"
	CodeRateLimitExceeded   Code = "RATE_LIMIT_EXCEEDED"
	CodeSanitizationError   Code = "SANITIZATION_ERROR"
	CodeConversationExpired Code = "CONVERSATION_EXPIRED"
	CodeOffline             Code = "OFFLINE"
	CodeUnknown             Code = "UNKNOWN_ERROR"
)

// NormalizedError is the only error shape allowed to cross into host code
// (error handlers, callbacks, reporters). Status carries the HTTP status for
// API failures; Details preserves structured payloads from the backend.
type NormalizedError struct {
	Code    Code           `json:"code"`
	Message string         `json:"message"`
	Status  int            `json:"status,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

func (e *NormalizedError) Error() string {
	if e == nil {
		return ""
	}
	if e.Code == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewError constructs a NormalizedError with the given code and message.
func NewError(code Code, message string) *NormalizedError {
	if code == "" {
		code = CodeUnknown
	}
	return &NormalizedError{Code: code, Message: message}
}

// Errorf constructs a NormalizedError with a formatted message.
func Errorf(code Code, format string, args ...any) *NormalizedError {
	return NewError(code, fmt.Sprintf(format, args...))
}

const unknownMessage = "Unknown error occurred"

// Normalize converts an arbitrary recovered or returned value into a
// NormalizedError. Values already shaped like a normalized error pass
// through with status and details preserved; everything else collapses to
// CodeUnknown. When context is non-empty it prefixes the message.
func Normalize(value any, context string) *NormalizedError {
	normalized := normalize(value)
	if context = strings.TrimSpace(context); context != "" {
		normalized.Message = context + ": " + normalized.Message
	}
	return normalized
}

func normalize(value any) *NormalizedError {
	switch v := value.(type) {
	case nil:
		return &NormalizedError{Code: CodeUnknown, Message: unknownMessage}
	case *NormalizedError:
		if v == nil {
			return &NormalizedError{Code: CodeUnknown, Message: unknownMessage}
		}
		clone := *v
		if clone.Code == "" {
			clone.Code = CodeUnknown
		}
		return &clone
	case NormalizedError:
		clone := v
		if clone.Code == "" {
			clone.Code = CodeUnknown
		}
		return &clone
	case error:
		return &NormalizedError{Code: CodeUnknown, Message: v.Error()}
	case string:
		if strings.TrimSpace(v) == "" {
			return &NormalizedError{Code: CodeUnknown, Message: unknownMessage}
		}
		return &NormalizedError{Code: CodeUnknown, Message: v}
	case map[string]any:
		return normalizeMap(v)
	default:
		return &NormalizedError{Code: CodeUnknown, Message: fmt.Sprint(v)}
	}
}

func normalizeMap(payload map[string]any) *NormalizedError {
	out := &NormalizedError{Code: CodeUnknown, Message: unknownMessage}

	if raw, ok := payload["code"].(string); ok && strings.TrimSpace(raw) != "" {
		out.Code = Code(raw)
	}
	if raw, ok := payload["message"].(string); ok && strings.TrimSpace(raw) != "" {
		out.Message = raw
	}
	switch status := payload["status"].(type) {
	case int:
		out.Status = status
	case float64:
		out.Status = int(status)
	}
	if details, ok := payload["details"].(map[string]any); ok && len(details) > 0 {
		out.Details = details
	}
	return out
}
