package chatmodel

import "github.com/arashivan/agentrt/rterr"

// op names used when a ChatModel implementation wraps a failure into
// the shared rterr.Error taxonomy, following sdk-go/errors.go's
// helper-constructor pattern (NewInvalidInputError, etc.) but built on
// rterr.Kind rather than a package-local Kind, since chatmodel is just
// another boundary this module's single error taxonomy crosses.
const (
	opGenerate = "chatmodel.generate"
)

// NewTransportError wraps a transport-level failure (connection reset,
// non-2xx status, malformed body) encountered while calling out to a
// model provider.
func NewTransportError(cause error) *rterr.Error {
	return rterr.New(rterr.KindIO, opGenerate, cause)
}

// NewTimeoutError reports that a Generate call exceeded its deadline.
func NewTimeoutError(cause error) *rterr.Error {
	return rterr.New(rterr.KindTimeout, opGenerate, cause)
}

// NewCancelledError reports that a Generate call's context was
// cancelled before completion.
func NewCancelledError(cause error) *rterr.Error {
	return rterr.New(rterr.KindCancelled, opGenerate, cause)
}
