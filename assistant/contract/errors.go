package contract

import (
	"errors"
	"fmt"
)

var (
	ErrValidation        = errors.New("validation failed")
	ErrEmptyQuery        = fmt.Errorf("%w: query text is empty", ErrValidation)
	ErrQueryTooLong      = fmt.Errorf("%w: query text exceeds maximum length", ErrValidation)
	ErrProviderDisabled  = errors.New("provider is disabled")
	ErrRemoteCall        = errors.New("remote call failed")
	ErrMalformedResponse = errors.New("remote response is malformed")
)
