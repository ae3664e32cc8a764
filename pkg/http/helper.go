package http

import (
	"errors"
	"io"
	"net/http"
	"strings"

	apperrors "medassist/pkg/errors"

	"github.com/goccy/go-json"
)

// DecodeJSON reads a JSON request body into target, rejecting unknown fields.
func DecodeJSON(r *http.Request, target any) error {
	if r.Body == nil {
		return apperrors.InvalidInput("request body is required")
	}

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		if errors.Is(err, io.EOF) {
			return apperrors.InvalidInput("request body is required")
		}
		return apperrors.InvalidInput("invalid JSON body: " + err.Error())
	}
	return nil
}

// RequiredQuery returns a trimmed query parameter or an InvalidInput error.
func RequiredQuery(r *http.Request, name string) (string, error) {
	value := strings.TrimSpace(r.URL.Query().Get(name))
	if value == "" {
		return "", apperrors.InvalidInput("missing query parameter: " + name)
	}
	return value, nil
}
