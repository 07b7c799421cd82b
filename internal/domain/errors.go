package domain

import "errors"

var ErrMalformedPayload = errors.New("malformed quote payload")
