package model

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// Validation errors
var (
	ErrMissingRequired = goerr.New("required field is missing")
	ErrInvalidValue    = goerr.New("invalid field value")
)

// Context keys for error values
const (
	FieldKey = "field"
	ValueKey = "value"
)

func requireText(field, v string) error {
	if strings.TrimSpace(v) == "" {
		return goerr.Wrap(ErrMissingRequired, "required field not provided", goerr.V(FieldKey, field))
	}
	return nil
}

func requireID(field string, id int64) error {
	if id <= 0 {
		return goerr.Wrap(ErrMissingRequired, "required field not provided", goerr.V(FieldKey, field))
	}
	return nil
}

func requireDate(field string, d Date) error {
	if d.IsZero() {
		return goerr.Wrap(ErrMissingRequired, "required field not provided", goerr.V(FieldKey, field))
	}
	return nil
}

func invalidValue(field string, v any) error {
	return goerr.Wrap(ErrInvalidValue, "field value is not allowed", goerr.V(FieldKey, field), goerr.V(ValueKey, v))
}
