package grove

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware_BeforeAfterResolve(t *testing.T) {
	// Track middleware calls
	var calls []string

	mw := &FuncMiddleware{
		BeforeResolveFunc: func(token Name) error {
			calls = append(calls, "before:"+string(token))
			return nil
		},
		AfterResolveFunc: func(token Name, value any, err error) error {
			calls = append(calls, "after:"+string(token))
			return nil
		},
	}

	root := New(WithMiddleware(mw))
	sut := mustProvideClass(t, root, "test", Class(func() *testService {
		return &testService{value: "test"}
	}))

	svc, err := Resolve[*testService](sut, "test")
	require.NoError(t, err)
	assert.NotNil(t, svc)

	assert.Equal(t, []string{"before:test", "after:test"}, calls)
}

func TestMiddleware_NestedResolution(t *testing.T) {
	var calls []string

	mw := &FuncMiddleware{
		BeforeResolveFunc: func(token Name) error {
			calls = append(calls, "before:"+string(token))
			return nil
		},
		AfterResolveFunc: func(token Name, value any, err error) error {
			calls = append(calls, "after:"+string(token))
			return nil
		},
	}

	root := New(WithMiddleware(mw))
	sut := mustProvideValue(t, root, "config", "dsn")
	sut = mustProvideFactory(t, sut, "db", Func(func(dsn string) string { return "db:" + dsn }, Name("config")))

	v, err := sut.Resolve("db")
	require.NoError(t, err)
	assert.Equal(t, "db:dsn", v)

	assert.Equal(t, []string{"before:db", "before:config", "after:config", "after:db"}, calls)
}

func TestMiddleware_BeforeResolveError(t *testing.T) {
	expectedErr := errors.New("access denied")
	constructed := false

	mw := &FuncMiddleware{
		BeforeResolveFunc: func(token Name) error {
			return expectedErr
		},
	}

	root := New(WithMiddleware(mw))
	sut := mustProvideClass(t, root, "test", Class(func() *testService {
		constructed = true
		return &testService{}
	}))

	// Resolve should fail due to middleware
	_, err := Resolve[*testService](sut, "test")
	assert.ErrorIs(t, err, expectedErr)
	assert.EqualError(t, err, `could not inject [token "test"]: access denied`)
	assert.False(t, constructed)
}

func TestMiddleware_AfterResolveError(t *testing.T) {
	expectedErr := errors.New("post-resolve validation failed")

	mw := &FuncMiddleware{
		AfterResolveFunc: func(token Name, value any, err error) error {
			return expectedErr
		},
	}

	root := New(WithMiddleware(mw))
	sut := mustProvideValue(t, root, "test", 1)

	_, err := sut.Resolve("test")
	assert.ErrorIs(t, err, expectedErr)
}

func TestMiddleware_AfterResolveSeesFailure(t *testing.T) {
	cause := errors.New("boom")
	var seen error

	mw := &FuncMiddleware{
		AfterResolveFunc: func(token Name, value any, err error) error {
			seen = err
			return nil
		},
	}

	root := New(WithMiddleware(mw))
	sut := mustProvideFactory(t, root, "test", Func(func() (int, error) { return 0, cause }))

	_, err := sut.Resolve("test")
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, seen, cause)
}

func TestMiddleware_MultipleInOrder(t *testing.T) {
	var calls []string

	mw1 := &FuncMiddleware{
		BeforeResolveFunc: func(token Name) error {
			calls = append(calls, "mw1")
			return nil
		},
	}
	mw2 := &FuncMiddleware{
		BeforeResolveFunc: func(token Name) error {
			calls = append(calls, "mw2")
			return nil
		},
	}

	root := New(WithMiddleware(mw1, nil), WithMiddleware(mw2))
	sut := mustProvideValue(t, root, "test", 1)

	_, err := sut.Resolve("test")
	require.NoError(t, err)
	assert.Equal(t, []string{"mw1", "mw2"}, calls)
}

func TestMiddleware_DisposeHooks(t *testing.T) {
	var (
		mu     sync.Mutex
		before []NodeInfo
		after  []NodeInfo
		errs   []error
	)

	mw := &FuncMiddleware{
		BeforeDisposeFunc: func(info NodeInfo) {
			mu.Lock()
			defer mu.Unlock()
			before = append(before, info)
		},
		AfterDisposeFunc: func(info NodeInfo, err error) {
			mu.Lock()
			defer mu.Unlock()
			after = append(after, info)
			errs = append(errs, err)
		},
	}

	root := New(WithMiddleware(mw))
	sut := mustProvideClass(t, root, "res", Class(func() *resource { return &resource{} }))
	_, err := sut.Resolve("res")
	require.NoError(t, err)

	require.NoError(t, root.Dispose())

	require.Len(t, before, 2)
	require.Len(t, after, 2)

	assert.True(t, before[0].Root)
	assert.True(t, before[0].Disposed)
	assert.Equal(t, Name("res"), before[1].Token)
	assert.Equal(t, StrategyClass, before[1].Strategy)
	assert.Equal(t, 1, before[1].Disposables)

	assert.Equal(t, Name("res"), after[0].Token)
	assert.Equal(t, 0, after[0].Disposables)
	assert.True(t, after[1].Root)
	assert.Equal(t, []error{nil, nil}, errs)
}

func TestFuncMiddleware_NilFuncs(t *testing.T) {
	mw := &FuncMiddleware{}

	assert.NoError(t, mw.BeforeResolve("x"))
	assert.NoError(t, mw.AfterResolve("x", nil, nil))
	assert.NotPanics(t, func() {
		mw.BeforeDispose(NodeInfo{})
		mw.AfterDispose(NodeInfo{}, nil)
	})
}
