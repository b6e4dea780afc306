// Package rterr defines the single error taxonomy shared by every
// component of the agent runtime (path normalisation, sandboxing, policy
// evaluation, tool execution, MCP transport/client, and the ReAct agent).
// No component returns a bare error across its public boundary; every
// fault is wrapped into an *Error carrying one of the Kinds below.
package rterr

import (
	"errors"
	"fmt"
)

// Kind classifies the error taxonomy from spec §7. It is not an
// identifier for a specific error value, only a classification a caller
// can branch on with Is.
type Kind string

const (
	// KindOutsideSandbox is raised by the sandbox when a validated path
	// resolves outside the configured root.
	KindOutsideSandbox Kind = "outside_sandbox"
	// KindReadOnly is raised when a write targets a path under the
	// sandbox's read-only set.
	KindReadOnly Kind = "read_only"
	// KindFileTooLarge is raised when a read exceeds the configured size cap.
	KindFileTooLarge Kind = "file_too_large"
	// KindTooManyResults is raised when an enumeration exceeds its result cap.
	KindTooManyResults Kind = "too_many_results"
	// KindEmptyPath is raised by the path normaliser on an empty input.
	KindEmptyPath Kind = "empty_path"
	// KindInvalidDriveLetter is raised when a drive letter is not ASCII-alpha.
	KindInvalidDriveLetter Kind = "invalid_drive_letter"
	// KindInvalidFormat is raised when a path matches no known dialect rule.
	KindInvalidFormat Kind = "invalid_format"
	// KindPathTooLong is raised when a path exceeds the host length limit
	// and cannot be rescued by a long-path prefix.
	KindPathTooLong Kind = "path_too_long"
	// KindInvalidComponent is raised for malformed path components,
	// including a ".." that would rise above an absolute root.
	KindInvalidComponent Kind = "invalid_component"
	// KindInvalidPath is a catch-all for otherwise-unclassifiable path errors.
	KindInvalidPath Kind = "invalid_path"
	// KindIO wraps an underlying OS/filesystem error.
	KindIO Kind = "io"
	// KindAlreadyExists is raised by write when overwrite is disallowed.
	KindAlreadyExists Kind = "already_exists"
	// KindPolicyViolation is raised by the security policy evaluator.
	KindPolicyViolation Kind = "policy_violation"
	// KindRateLimited is raised when a rate-limit sub-policy trips.
	KindRateLimited Kind = "rate_limited"
	// KindRPCError wraps a JSON-RPC error response from an MCP server.
	KindRPCError Kind = "rpc_error"
	// KindTimeout is raised when a deadline expires before completion.
	KindTimeout Kind = "timeout"
	// KindTransportClosed is raised when a transport is used after close
	// or loses its connection without a reconnect policy.
	KindTransportClosed Kind = "transport_closed"
	// KindResourceExhausted is raised by the resource monitor when a cap
	// (connections, in-flight requests) is reached.
	KindResourceExhausted Kind = "resource_exhausted"
	// KindExceededIterations is raised by the agent loop at its iteration cap.
	KindExceededIterations Kind = "exceeded_iterations"
	// KindCancelled is raised when a caller-supplied context is cancelled.
	KindCancelled Kind = "cancelled"
)

// Error is the single error type crossing every component boundary in
// this module. It follows the stdlib os.PathError shape (Op/Path/Err)
// extended with a Kind for programmatic dispatch, and an optional Code
// for JSON-RPC error codes.
type Error struct {
	Kind Kind
	// Op names the operation that failed, e.g. "sandbox.validate_write".
	Op string
	// Path is the path under evaluation, when applicable.
	Path string
	// Code carries a JSON-RPC error code for KindRPCError.
	Code int
	// Err is the wrapped cause, if any.
	Err error
}

func (e *Error) Error() string {
	msg := string(e.Kind)
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Path != "" {
		msg += fmt.Sprintf(" (path=%q)", e.Path)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New constructs an *Error of the given Kind for operation op, wrapping
// cause (which may be nil).
func New(kind Kind, op string, cause error) *Error {
	return &Error{Kind: kind, Op: op, Err: cause}
}

// WithPath attaches path context to a copy of the error.
func (e *Error) WithPath(path string) *Error {
	cp := *e
	cp.Path = path
	return &cp
}

// WithCode attaches a JSON-RPC error code to a copy of the error.
func (e *Error) WithCode(code int) *Error {
	cp := *e
	cp.Code = code
	return &cp
}

// Is reports whether err (or any error it wraps) is an *Error of kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// KindOf returns the Kind of err if it is (or wraps) an *Error, and ok=false
// otherwise.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}
