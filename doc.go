// Package grove provides hierarchical dependency injection with scoped
// caching and ordered disposal.
//
// An object graph is a tree of injectors. The root is created with [New].
// Every Provide call returns a new child that binds one token, so a chain of
// Provide calls builds a path from the root down to the injector you use:
//
//	root := grove.New()
//	app, _ := root.ProvideValue("config", cfg)
//	app, _ = app.ProvideFactory("db", grove.Func(openDB, grove.Name("config")))
//	app, _ = app.ProvideClass("users", grove.Class(NewUserService, grove.Name("db")))
//
//	users, err := grove.Resolve[*UserService](app, "users")
//
// # Resolution
//
// A token is answered by the nearest injector on the path to the root that
// binds it. A binding added below an existing one shadows it, and because
// factories and classes are injected by their provider's parent, a binding
// may ask for its own token to decorate the previous one.
//
// Two reserved tokens are answered structurally: [Target] yields the
// injectable on whose behalf the current injection happens and
// [InjectorToken] yields the injector performing it.
//
// # Scopes
//
// [Singleton] (default) - the strategy runs once per provider, on first
// demand.
//
// [Transient] - the strategy runs on every resolution.
//
// A singleton holds its construction lock while its strategy runs. A
// constructor that resolves its own singleton again, for example through an
// injector captured from below the provider, blocks forever instead of
// failing. Cycles are not detected.
//
// Coded errors are built with github.com/xraph/go-utils/errs. Match them
// with errors.Is against the Err* sentinels, or errors.As into *errs.Error
// to read the code and context.
//
// # Disposal
//
// [Injector.Dispose] disposes every child first, then releases values its own
// binding produced that implement [Disposable], Dispose() or io.Closer.
// Values passed to [Injector.ProvideValue] are never released. After
// disposal has started every entry point returns a [*DisposedError].
//
// # Errors
//
// Failures are returned as [*InjectionError] carrying the path of
// injectables and tokens from the caller down to the root cause:
//
//	could not inject [class Parent] -> [token "child"] -> [class Child]: boom
package grove
