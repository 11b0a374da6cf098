package grove

import (
	"errors"
	"fmt"
	"reflect"
	"runtime"
	"strings"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// Kind distinguishes classes, which construct an instance, from functions,
// which are invoked for their result.
type Kind int

const (
	KindClass Kind = iota
	KindFunction
)

// String returns "class" or "function".
func (k Kind) String() string {
	if k == KindClass {
		return "class"
	}

	return "function"
}

// Injectable is a constructible: a Go function (or, for classes, a typed nil
// pointer) together with the ordered tokens it needs.
//
// The function must take exactly one parameter per token and return either
// T or (T, error). Injectables are immutable; the With* methods return
// modified copies.
type Injectable struct {
	kind    Kind
	name    string
	fn      reflect.Value
	alloc   reflect.Type
	tokens  []Token
	knownAs Name
	err     error
}

// Class returns a class injectable. ctor is either a constructor function or
// a typed nil pointer such as (*Foo)(nil), in which case a zero Foo is
// allocated on every construction and no tokens may be declared.
//
//	grove.Class(NewUserService, grove.Name("repo"), grove.Name("logger"))
func Class(ctor any, tokens ...Token) *Injectable {
	return newInjectable(KindClass, ctor, tokens)
}

// Func returns a function injectable.
//
//	grove.Func(func(cfg *Config) (*sql.DB, error) { ... }, grove.Name("config"))
func Func(fn any, tokens ...Token) *Injectable {
	return newInjectable(KindFunction, fn, tokens)
}

func newInjectable(kind Kind, v any, tokens []Token) *Injectable {
	in := &Injectable{
		kind:   kind,
		tokens: append([]Token(nil), tokens...),
	}

	rv := reflect.ValueOf(v)

	var reason string

	switch {
	case !rv.IsValid():
		reason = "nil " + kind.String()
	case rv.Kind() == reflect.Func:
		if rv.IsNil() {
			reason = "nil " + kind.String()
			break
		}
		in.fn = rv
		reason = validateFunc(rv.Type(), len(tokens))
	case kind == KindClass && rv.Kind() == reflect.Pointer && rv.IsNil():
		in.alloc = rv.Type().Elem()
		if len(tokens) > 0 {
			reason = fmt.Sprintf("%s declares %d tokens but has no constructor", in.alloc, len(tokens))
		}
	default:
		reason = fmt.Sprintf("%s must be a function, got %T", kind, v)
	}

	in.name = displayName(rv, in.alloc)
	if reason != "" {
		in.err = errInvalidInjectable(in.String(), reason)
	}

	return in
}

// validateFunc returns why fnType cannot be invoked with numTokens
// arguments, or "".
func validateFunc(fnType reflect.Type, numTokens int) string {
	if fnType.IsVariadic() {
		return "variadic functions are not supported"
	}

	if fnType.NumIn() != numTokens {
		return fmt.Sprintf("function expects %d parameters, got %d tokens", fnType.NumIn(), numTokens)
	}

	switch fnType.NumOut() {
	case 1:
		return ""
	case 2:
		if !fnType.Out(1).Implements(errorType) {
			return "second return value must implement error"
		}

		return ""
	default:
		return fmt.Sprintf("function must return (T) or (T, error), got %d return values", fnType.NumOut())
	}
}

// displayName derives "NewParent" from "github.com/acme/app.NewParent".
func displayName(rv reflect.Value, alloc reflect.Type) string {
	if alloc != nil {
		if alloc.Name() != "" {
			return alloc.Name()
		}

		return alloc.String()
	}

	if !rv.IsValid() || rv.Kind() != reflect.Func || rv.IsNil() {
		return "anonymous"
	}

	fn := runtime.FuncForPC(rv.Pointer())
	if fn == nil {
		return "anonymous"
	}

	name := fn.Name()
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}

	if i := strings.Index(name, "."); i >= 0 {
		name = name[i+1:]
	}

	return strings.TrimSuffix(name, "-fm")
}

func (*Injectable) isTarget() {}

// String returns e.g. [class Parent] or [function newLogger].
func (in *Injectable) String() string {
	return "[" + in.kind.String() + " " + in.name + "]"
}

// DisplayName returns the name used in diagnostics.
func (in *Injectable) DisplayName() string { return in.name }

// Kind returns whether this is a class or a function.
func (in *Injectable) Kind() Kind { return in.kind }

// Tokens returns a copy of the declared tokens.
func (in *Injectable) Tokens() []Token { return append([]Token(nil), in.tokens...) }

// KnownAs returns the token used when the injectable is provided without an
// explicit one.
func (in *Injectable) KnownAs() Name { return in.knownAs }

// WithKnownAs returns a copy known as token.
func (in *Injectable) WithKnownAs(token Name) *Injectable {
	cp := *in
	cp.knownAs = token

	return &cp
}

// WithName returns a copy with the given display name.
func (in *Injectable) WithName(name string) *Injectable {
	cp := *in
	cp.name = name

	return &cp
}

// invoke calls the underlying function with args, one per token. A nil arg
// is passed as the zero value of the parameter type. Panics are recovered
// and returned as errors.
func (in *Injectable) invoke(args []any) (result any, err error) {
	if in.err != nil {
		return nil, in.err
	}

	if in.alloc != nil {
		return reflect.New(in.alloc).Interface(), nil
	}

	defer func() {
		if r := recover(); r != nil {
			if rerr, ok := r.(error); ok {
				err = fmt.Errorf("panic: %w", rerr)
				return
			}
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	fnType := in.fn.Type()
	callArgs := make([]reflect.Value, len(args))

	for i, arg := range args {
		paramType := fnType.In(i)
		if arg == nil {
			callArgs[i] = reflect.Zero(paramType)
			continue
		}

		v := reflect.ValueOf(arg)
		if !v.Type().AssignableTo(paramType) {
			return nil, errArgumentMismatch(in.tokens[i], i, paramType.String(), v.Type().String())
		}
		callArgs[i] = v
	}

	results := in.fn.Call(callArgs)
	if len(results) == 2 && !results[1].IsNil() {
		resErr, _ := results[1].Interface().(error)
		if resErr == nil {
			resErr = errors.New("constructor returned a non-nil error value")
		}

		return nil, resErr
	}

	return results[0].Interface(), nil
}
