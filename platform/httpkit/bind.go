// Package httpkit provides HTTP request binding utilities.
package httpkit

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"lostpaws_backend/platform/apperr"

	"github.com/gin-gonic/gin"
)

// BindStrictJSON decodes the request body into dst, rejecting unknown fields.
// The write path is strict so a misspelled field fails loudly instead of being
// silently dropped; the read path (query decoding) stays lenient for old
// bookmarked URLs.
func BindStrictJSON(c *gin.Context, dst interface{}) error {
	dec := json.NewDecoder(c.Request.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return apperr.ValidationFields("invalid request body", []apperr.FieldError{
			decodeFieldError(err),
		})
	}

	// A body with trailing content after the JSON value is malformed.
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return apperr.Validation("invalid request body")
	}

	return nil
}

func decodeFieldError(err error) apperr.FieldError {
	var unmarshalErr *json.UnmarshalTypeError
	if errors.As(err, &unmarshalErr) {
		return apperr.FieldError{
			Field:   unmarshalErr.Field,
			Message: fmt.Sprintf("must be of type %s", unmarshalErr.Type),
		}
	}

	msg := err.Error()
	if strings.Contains(msg, "unknown field") {
		field := strings.Trim(strings.TrimPrefix(msg, "json: unknown field "), `"`)
		return apperr.FieldError{Field: field, Message: "unknown field"}
	}

	return apperr.FieldError{Field: "body", Message: "malformed JSON"}
}
