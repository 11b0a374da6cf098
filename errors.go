package grove

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/xraph/go-utils/errs"
)

// =============================================================================
// ERROR CODES
// =============================================================================

const (
	// CodeDisposed indicates an operation on a disposed injector
	CodeDisposed = "INJECTOR_DISPOSED"

	// CodeNoProvider indicates a token reached the root unbound
	CodeNoProvider = "NO_PROVIDER"

	// CodeMissingToken indicates a provider was registered without a token
	CodeMissingToken = "MISSING_TOKEN"

	// CodeKindMismatch indicates a class was used as a function or the other way around
	CodeKindMismatch = "KIND_MISMATCH"

	// CodeInvalidInjectable indicates an injectable cannot be invoked with its tokens
	CodeInvalidInjectable = "INVALID_INJECTABLE"

	// CodeTypeMismatch indicates a resolved value has an unexpected type
	CodeTypeMismatch = "TYPE_MISMATCH"
)

// =============================================================================
// SENTINEL ERRORS
// =============================================================================

// ErrDisposed is a sentinel error for operations on a disposed injector (for error checking).
var ErrDisposed = errs.NewError(CodeDisposed, "injector is already disposed", nil)

// ErrNoProvider is a sentinel error for unbound tokens (for error checking).
var ErrNoProvider = errs.NewError(CodeNoProvider, "no provider found", nil)

// ErrMissingToken is returned when a provider is registered without a token
// and the injectable carries no known-as token either.
var ErrMissingToken = errs.NewError(CodeMissingToken, "no token given and injectable has no known-as token", nil)

// ErrKindMismatch is the cause of an injection failure when a function is
// injected as a class or the other way around.
var ErrKindMismatch = errs.NewError(CodeKindMismatch, "injectable kind mismatch", nil)

// ErrInvalidInjectable is the cause of an injection failure when the
// injectable cannot be invoked with its declared tokens.
var ErrInvalidInjectable = errs.NewError(CodeInvalidInjectable, "invalid injectable", nil)

// ErrTypeMismatchSentinel is a sentinel error for type mismatch during resolution.
var ErrTypeMismatchSentinel = errs.NewError(CodeTypeMismatch, "type mismatch", nil)

// =============================================================================
// ERROR CONSTRUCTORS
// =============================================================================

// errMissingToken creates an error for a provider registered without a token.
func errMissingToken(target InjectionTarget) *errs.Error {
	return errs.NewError(
		CodeMissingToken,
		fmt.Sprintf("no token given for %s and it has no known-as token", target),
		nil,
	).WithContext("target", target.String()).(*errs.Error)
}

// errKindMismatch creates an error for an injectable used as the wrong kind.
func errKindMismatch(in *Injectable, want Kind) *errs.Error {
	return errs.NewError(
		CodeKindMismatch,
		fmt.Sprintf("%s cannot be used as a %s", in, want),
		nil,
	).WithContext("injectable", in.String()).
		WithContext("expected_kind", want.String()).(*errs.Error)
}

// errInvalidInjectable creates an error for an injectable that cannot be
// invoked.
func errInvalidInjectable(name string, reason string) *errs.Error {
	return errs.NewError(
		CodeInvalidInjectable,
		fmt.Sprintf("invalid injectable %s: %s", name, reason),
		nil,
	).WithContext("injectable", name).
		WithContext("reason", reason).(*errs.Error)
}

// errArgumentMismatch creates an error for a resolved argument that cannot be
// passed to its parameter.
func errArgumentMismatch(token Token, index int, expected, actual string) *errs.Error {
	return errs.NewError(
		CodeTypeMismatch,
		fmt.Sprintf("%s for parameter %d: expected %s, got %s", token, index, expected, actual),
		nil,
	).WithContext("token", token.String()).
		WithContext("parameter", index).
		WithContext("expected_type", expected).
		WithContext("actual_type", actual).(*errs.Error)
}

// InjectionTarget is one hop of an injection path: either a Name or an
// *Injectable.
type InjectionTarget interface {
	isTarget()
	String() string
}

// =============================================================================
// TYPED ERRORS
// =============================================================================

// DisposedError is returned by every entry point of an injector once its
// disposal has started.
type DisposedError struct {
	// Op is the attempted operation: "resolve", "inject" or "provide".
	Op string

	// Target is what the caller tried to resolve, inject or provide.
	Target InjectionTarget

	// Node describes the disposed injector.
	Node string
}

func newDisposedError(op string, target InjectionTarget, node *Injector) *DisposedError {
	return &DisposedError{Op: op, Target: target, Node: node.describe()}
}

// Error implements the error interface.
func (e *DisposedError) Error() string {
	return fmt.Sprintf("%s is already disposed, tried to %s %s", e.Node, e.Op, e.Target)
}

// Unwrap returns the coded error carrying op, target and node as context.
func (e *DisposedError) Unwrap() error {
	return errs.NewError(CodeDisposed, e.Error(), nil).
		WithContext("op", e.Op).
		WithContext("target", e.Target.String()).
		WithContext("node", e.Node).(*errs.Error)
}

// NoProviderError is the leaf cause when a token reaches the root without
// any node binding it.
type NoProviderError struct {
	Token Name
}

// Error implements the error interface.
func (e *NoProviderError) Error() string {
	return "no provider found for " + strconv.Quote(string(e.Token))
}

// Unwrap returns the coded error carrying the token as context.
func (e *NoProviderError) Unwrap() error {
	return errs.NewError(CodeNoProvider, e.Error(), nil).
		WithContext("token", string(e.Token)).(*errs.Error)
}

// InjectionError is returned when resolving a token or constructing an
// injectable fails. Path lists every injectable and token between the
// caller and the failure, outermost first.
type InjectionError struct {
	Path  []InjectionTarget
	Cause error
}

// newInjectionError wraps cause with target. An InjectionError cause is
// flattened: target is prepended to its path and its root cause is kept.
func newInjectionError(target InjectionTarget, cause error) *InjectionError {
	var inner *InjectionError
	if errors.As(cause, &inner) {
		path := make([]InjectionTarget, 0, len(inner.Path)+1)
		path = append(path, target)
		path = append(path, inner.Path...)

		return &InjectionError{Path: path, Cause: inner.Cause}
	}

	return &InjectionError{Path: []InjectionTarget{target}, Cause: cause}
}

// Error implements the error interface.
func (e *InjectionError) Error() string {
	hops := make([]string, len(e.Path))
	for i, hop := range e.Path {
		hops[i] = hop.String()
	}

	return "could not inject " + strings.Join(hops, " -> ") + ": " + e.causeMessage()
}

func (e *InjectionError) causeMessage() string {
	if e.Cause == nil {
		return "unknown cause"
	}

	return e.Cause.Error()
}

// Unwrap returns the root cause.
func (e *InjectionError) Unwrap() error { return e.Cause }

// TypeMismatchError is returned by the typed helpers when a resolved value
// is not of the requested type.
type TypeMismatchError struct {
	Token    Name
	Expected string
	Actual   string
}

func newTypeMismatchError[T any](token Name, actual any) *TypeMismatchError {
	var zero T

	return &TypeMismatchError{
		Token:    token,
		Expected: fmt.Sprintf("%T", &zero)[1:],
		Actual:   fmt.Sprintf("%T", actual),
	}
}

// Error implements the error interface.
func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("token %q type mismatch: expected %s, got %s", string(e.Token), e.Expected, e.Actual)
}

// Unwrap returns the coded error carrying token and types as context.
func (e *TypeMismatchError) Unwrap() error {
	return errs.NewError(CodeTypeMismatch, e.Error(), nil).
		WithContext("token", string(e.Token)).
		WithContext("expected_type", e.Expected).
		WithContext("actual_type", e.Actual).(*errs.Error)
}
