package api

import (
	"strconv"

	"github.com/danielgtaylor/huma/v2"

	"github.com/shelfnote/shelfnote-server/internal/http/response"
)

// EnvelopeTransformer wraps every huma response body in the envelope:
// {"v":1,"success":true,"data":...} or {"v":1,"success":false,"error":{...}}.
func EnvelopeTransformer(_ huma.Context, status string, v any) (any, error) {
	switch body := v.(type) {
	case response.Envelope:
		return body, nil
	case *APIError:
		return response.WrapError(body.Code, body.Message, body.Details), nil
	case error:
		code, _ := strconv.Atoi(status)
		return response.WrapError(statusToCode(code), body.Error(), nil), nil
	}
	return response.Wrap(v), nil
}
