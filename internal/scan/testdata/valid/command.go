package valid

import (
	"time"

	ctx "context"
)

// Command describes a process to start.
// +builder:gen=true
type Command struct {
	Executable string
	Args       []string `builder:"each=arg"`
	Timeout    *time.Duration
	_          struct{}
	Env, Extra []string
	Ctx        ctx.Context
}

// Unmarked is not derived.
type Unmarked struct{ Name string }

// +builder:gen=true
type Pair[K comparable, V any] struct {
	Key   K
	Value V
}
