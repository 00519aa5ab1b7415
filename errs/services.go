package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// External Service Errors
var (
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrServiceRejected    = errors.New("service rejected request")
)

// Configuration & Environment Errors
var (
	ErrConfigMissing       = errors.New("configuration missing")
	ErrEnvironmentVariable = errors.New("environment variable error")
)

// NewServiceError reports a failed call to an outbound provider. status is
// the provider's HTTP status, 0 when the request never got an answer.
func NewServiceError(service string, status int, cause error) *ApiErr {
	if status == 0 {
		return &ApiErr{
			StatusCode: http.StatusBadGateway,
			err:        ErrServiceUnavailable,
			Details:    fmt.Sprintf("%s did not respond", service),
			Cause:      cause,
		}
	}
	return &ApiErr{
		StatusCode: http.StatusBadGateway,
		err:        ErrServiceRejected,
		Details:    fmt.Sprintf("%s answered with status %d", service, status),
		Cause:      cause,
	}
}

// Configuration & Environment Error Constructors
func NewConfigError(configName string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrConfigMissing,
		Details:    fmt.Sprintf("Configuration error for %s", configName),
		Cause:      cause,
	}
}

func NewEnvironmentVariableError(varName string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrEnvironmentVariable,
		Details:    fmt.Sprintf("Environment variable %s is not set or invalid", varName),
		Field:      varName,
	}
}

func IsServiceUnavailableError(err error) bool {
	return errors.Is(err, ErrServiceUnavailable)
}

func IsServiceRejectedError(err error) bool {
	return errors.Is(err, ErrServiceRejected)
}

func IsConfigError(err error) bool {
	return errors.Is(err, ErrConfigMissing)
}
