package grove

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Parent struct{}

func NewParent() *Parent { return &Parent{} }

func (p *Parent) build() *Parent { return p }

func TestInjectable_DisplayName(t *testing.T) {
	tests := []struct {
		name       string
		injectable *Injectable
		want       string
	}{
		{"named function", Class(NewParent), "[class NewParent]"},
		{"method value", Func((&Parent{}).build), "[function (*Parent).build]"},
		{"typed nil", Class((*Parent)(nil)), "[class Parent]"},
		{"explicit name", Func(NewParent).WithName("parentFactory"), "[function parentFactory]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.injectable.String())
		})
	}
}

func TestInjectable_AnonymousFunctionName(t *testing.T) {
	in := Func(func() int { return 1 })
	assert.Contains(t, in.DisplayName(), "func")
}

func TestInjectable_Accessors(t *testing.T) {
	in := Class(func(a, b string) string { return a + b }, Name("a"), Target)

	assert.Equal(t, KindClass, in.Kind())
	assert.Equal(t, []Token{Name("a"), Target}, in.Tokens())
	assert.Equal(t, Name(""), in.KnownAs())

	known := in.WithKnownAs("ab")
	assert.Equal(t, Name("ab"), known.KnownAs())
	assert.Equal(t, Name(""), in.KnownAs(), "WithKnownAs must not modify the receiver")

	tokens := in.Tokens()
	tokens[0] = Name("changed")
	assert.Equal(t, Name("a"), in.Tokens()[0])
}

func TestInjectable_TypedNilAllocatesEveryTime(t *testing.T) {
	in := Class((*Parent)(nil))

	v1, err := in.invoke(nil)
	require.NoError(t, err)
	v2, err := in.invoke(nil)
	require.NoError(t, err)

	assert.IsType(t, &Parent{}, v1)
	assert.NotSame(t, v1, v2)
}

func TestInjectable_Validation(t *testing.T) {
	tests := []struct {
		name       string
		injectable *Injectable
	}{
		{"nil", Class(nil)},
		{"nil func", Func((func() int)(nil))},
		{"not a function", Func(42)},
		{"typed nil as function", Func((*Parent)(nil))},
		{"typed nil with tokens", Class((*Parent)(nil), Name("x"))},
		{"variadic", Func(func(xs ...int) int { return len(xs) }, Name("xs"))},
		{"too few tokens", Func(func(a, b int) int { return a + b }, Name("a"))},
		{"too many tokens", Func(func() int { return 0 }, Name("a"))},
		{"no result", Func(func() {})},
		{"second result not error", Func(func() (int, int) { return 0, 0 })},
		{"three results", Func(func() (int, int, error) { return 0, 0, nil })},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.injectable.invoke(make([]any, len(tt.injectable.tokens)))
			assert.ErrorIs(t, err, ErrInvalidInjectable)
		})
	}
}

func TestInjectable_InvokeReturnsError(t *testing.T) {
	cause := errors.New("boom")
	in := Func(func() (*Parent, error) { return nil, cause })

	_, err := in.invoke(nil)
	assert.Same(t, cause, err)
}

func TestInjectable_InvokeRecoversErrorPanic(t *testing.T) {
	cause := errors.New("boom")
	in := Func(func() int { panic(cause) })

	_, err := in.invoke(nil)
	assert.ErrorIs(t, err, cause)
	assert.EqualError(t, err, "panic: boom")
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "class", KindClass.String())
	assert.Equal(t, "function", KindFunction.String())
}
