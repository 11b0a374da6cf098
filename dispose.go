package grove

import (
	"fmt"
	"io"
	"reflect"
	"sync"

	"github.com/xraph/go-utils/di"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Disposable is implemented by values that hold resources. A value produced
// by a factory or class provider is released when its provider is disposed
// if it implements Disposable, a plain Dispose(), or io.Closer.
type Disposable = di.Disposable

// disposable is a registered value and its release operation.
type disposable struct {
	value   any
	release func() error
}

// asDisposable reports whether v can be released and how.
func asDisposable(v any) (disposable, bool) {
	if isNil(v) {
		return disposable{}, false
	}

	switch d := v.(type) {
	case Disposable:
		return disposable{value: v, release: d.Dispose}, true
	case interface{ Dispose() }:
		return disposable{value: v, release: func() error {
			d.Dispose()
			return nil
		}}, true
	case io.Closer:
		return disposable{value: v, release: d.Close}, true
	default:
		return disposable{}, false
	}
}

func isNil(v any) bool {
	if v == nil {
		return true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}

// sameValue reports whether a and b refer to the same object. Only
// reference kinds have an identity; values are never the same.
func sameValue(a, b any) bool {
	ra, rb := reflect.ValueOf(a), reflect.ValueOf(b)
	if ra.Type() != rb.Type() {
		return false
	}

	switch ra.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Chan, reflect.UnsafePointer:
		return ra.Pointer() == rb.Pointer()
	default:
		return false
	}
}

// run releases d, turning a panic into an error.
func (d disposable) run() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	return d.release()
}

// track registers a value produced by i's own binding. Values produced after
// i released its disposables are released right away.
func (i *Injector) track(value any) {
	d, ok := asDisposable(value)
	if !ok {
		return
	}

	if i.register(d) {
		return
	}

	i.log.Warn("value produced during disposal, releasing immediately", zap.String("type", fmt.Sprintf("%T", value)))

	if err := d.run(); err != nil {
		i.log.Warn("release failed", zap.Error(err))
	}
}

// register adds d to i's disposables unless it is already there. It reports
// false once i has released its disposables.
func (i *Injector) register(d disposable) bool {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.released {
		return false
	}

	for _, existing := range i.disposables {
		if sameValue(existing.value, d.value) {
			return true
		}
	}

	i.disposables = append(i.disposables, d)

	return true
}

// Dispose tears down i and everything below it:
//
//  1. i stops accepting provide, inject and resolve calls;
//  2. i is detached from its parent;
//  3. all children are disposed concurrently, and awaited;
//  4. every disposable value produced by i's own binding is released
//     concurrently, and awaited.
//
// Dispose is idempotent. Later or concurrent calls wait for the first one and
// return its result. Release errors of all siblings are combined.
func (i *Injector) Dispose() error {
	i.mu.Lock()
	if i.disposed {
		done := i.done
		i.mu.Unlock()
		<-done

		return i.disposeErr
	}

	i.disposed = true
	i.done = make(chan struct{})

	children := make([]handle, 0, len(i.children))
	for h := range i.children {
		children = append(children, h)
	}
	i.mu.Unlock()

	i.disposeErr = i.dispose(children)
	close(i.done)

	return i.disposeErr
}

func (i *Injector) dispose(children []handle) error {
	if parent, ok := i.parentNode(); ok {
		parent.removeChild(i.id)
	}

	chain := i.arena.cfg.middleware
	chain.beforeDispose(i.Info())
	i.log.Debug("disposing", zap.Int("children", len(children)))

	err := multierr.Combine(
		i.disposeChildren(children),
		i.releaseDisposables(),
	)

	i.arena.release(i.id)

	if err != nil {
		i.log.Warn("disposed with errors", zap.Error(err))
	} else {
		i.log.Debug("disposed")
	}
	chain.afterDispose(i.Info(), err)

	return err
}

// disposeChildren disposes every child in its own goroutine and waits for
// all of them.
func (i *Injector) disposeChildren(children []handle) error {
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs error
	)

	for _, h := range children {
		child, ok := i.arena.get(h)
		if !ok {
			continue
		}

		wg.Add(1)

		go func() {
			defer wg.Done()

			if err := child.Dispose(); err != nil {
				mu.Lock()
				errs = multierr.Append(errs, err)
				mu.Unlock()
			}
		}()
	}

	wg.Wait()

	return errs
}

// releaseDisposables releases i's own disposables concurrently.
func (i *Injector) releaseDisposables() error {
	i.mu.Lock()
	disposables := i.disposables
	i.disposables = nil
	i.released = true
	i.mu.Unlock()

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs error
	)

	for _, d := range disposables {
		wg.Add(1)

		go func() {
			defer wg.Done()

			if err := d.run(); err != nil {
				mu.Lock()
				errs = multierr.Append(errs, fmt.Errorf("dispose %T from %s: %w", d.value, i.describe(), err))
				mu.Unlock()
			}
		}()
	}

	wg.Wait()

	return errs
}
