package grove

import "strconv"

// Token identifies a dependency an Injectable asks for.
//
// The set of tokens is closed: a Token is either one of the two reserved
// tokens, Target and InjectorToken, or a Name. Reserved tokens are answered
// by the injector itself and can never be bound by a provider.
type Token interface {
	isToken()
	String() string
}

// Name is a token that providers can bind.
type Name string

func (Name) isToken() {}

// String returns the quoted token, e.g. [token "logger"].
func (n Name) String() string {
	return "[token " + strconv.Quote(string(n)) + "]"
}

func (Name) isTarget() {}

type targetToken struct{}

func (targetToken) isToken()       {}
func (targetToken) String() string { return "[target]" }

type injectorToken struct{}

func (injectorToken) isToken()       {}
func (injectorToken) String() string { return "[injector]" }

var (
	// Target resolves to the Injectable on whose behalf the current
	// injection happens, or nil when there is none.
	Target Token = targetToken{}

	// InjectorToken resolves to the *Injector performing the injection.
	InjectorToken Token = injectorToken{}
)
