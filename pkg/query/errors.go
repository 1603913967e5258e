package query

import "github.com/m-mizutani/goerr/v2"

var (
	ErrDuplicateEndpoint = goerr.New("endpoint is already registered")
	ErrUnknownEndpoint   = goerr.New("endpoint is not registered")
	ErrMissingParam      = goerr.New("path parameter is missing")
)

// Context keys for error values
const (
	EndpointKey = "endpoint"
	ParamKey    = "param"
)
