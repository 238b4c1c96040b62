package api

import (
	"strings"

	"github.com/danielgtaylor/huma/v2"
)

// envelopeVersion is the wire version of the response envelope. Bump only
// on a breaking change to the envelope shape itself.
const envelopeVersion = 1

// Envelope is the uniform response wrapper: every response carries a
// version, a success flag, and either data or an error.
type Envelope struct {
	V       int       `json:"v"`
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   string    `json:"error,omitempty"`
	Details *APIError `json:"details,omitempty"`
}

// EnvelopeTransformer wraps every huma response body in the envelope.
// Status is huma's string status code; anything from 400 up is an error.
func EnvelopeTransformer(_ huma.Context, status string, v any) (any, error) {
	if isErrorStatus(status) {
		if apiErr, ok := v.(*APIError); ok {
			return &Envelope{
				V:       envelopeVersion,
				Success: false,
				Error:   apiErr.Message,
				Details: apiErr,
			}, nil
		}
		if err, ok := v.(error); ok {
			return &Envelope{
				V:       envelopeVersion,
				Success: false,
				Error:   err.Error(),
			}, nil
		}
		return &Envelope{
			V:       envelopeVersion,
			Success: false,
			Error:   "request failed",
		}, nil
	}

	return &Envelope{
		V:       envelopeVersion,
		Success: true,
		Data:    v,
	}, nil
}

func isErrorStatus(status string) bool {
	return strings.HasPrefix(status, "4") || strings.HasPrefix(status, "5")
}
