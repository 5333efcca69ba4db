// internal/protocol/envelope.go
package protocol

import (
	"encoding/json"
	"fmt"

	appErrors "github.com/unclebandit/dmcodex/internal/errors"
)

// ErrorCode is the closed taxonomy carried across the boundary.
type ErrorCode = appErrors.Code

type ErrorInfo struct {
	Message string    `json:"message"`
	Code    ErrorCode `json:"code"`
	Details any       `json:"details,omitempty"`
}

// Envelope is the only shape that crosses the process boundary. Callers branch on Success.
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *ErrorInfo      `json:"error,omitempty"`
}

// Success encodes v as the envelope data. Void produces an envelope without data.
func Success(v any) (Envelope, error) {
	if _, ok := v.(Void); ok {
		return Envelope{Success: true}, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return Envelope{}, fmt.Errorf("encode envelope data: %w", err)
	}
	return Envelope{Success: true, Data: data}, nil
}

// Failure forwards the code already attached to err. Untagged errors become UNKNOWN_ERROR.
func Failure(err error) Envelope {
	return Envelope{
		Success: false,
		Error: &ErrorInfo{
			Message: err.Error(),
			Code:    appErrors.CodeOf(err),
			Details: appErrors.DetailsOf(err),
		},
	}
}

func FailureWith(code ErrorCode, message string, details any) Envelope {
	return Envelope{Success: false, Error: &ErrorInfo{Message: message, Code: code, Details: details}}
}

// Decode unpacks a successful envelope into T. A failed envelope returns its ErrorInfo.
func Decode[T any](env Envelope) (T, *ErrorInfo, error) {
	var out T
	if !env.Success {
		if env.Error == nil {
			return out, &ErrorInfo{Message: "request failed without error details", Code: appErrors.CodeUnknown}, nil
		}
		return out, env.Error, nil
	}
	if len(env.Data) == 0 {
		return out, nil, nil
	}
	if err := json.Unmarshal(env.Data, &out); err != nil {
		return out, nil, fmt.Errorf("decode envelope data: %w", err)
	}
	return out, nil, nil
}
