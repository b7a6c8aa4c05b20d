package usecase

import (
	"io"

	"github.com/3-lines-studio/prerender/internal/adapters/fs"
	"github.com/3-lines-studio/prerender/internal/core"
)

// Sandbox evaluates compiled JavaScript for one build. A sandbox is used from
// a single goroutine and discarded when the build ends.
type Sandbox interface {
	// RunScript executes source with scope as its global namespace. Globals
	// the script defines are written back into scope.
	RunScript(name, source string, scope *core.Scope) error
	// EvalModule evaluates source as a module body with the bindings of scope
	// installed as globals and returns its exports. Globals left by earlier
	// scripts that are not in scope are not visible to the module.
	EvalModule(name, source string, scope *core.Scope) (Value, error)
	// Settle calls issue and returns once every asynchronous completion it
	// started has run. Render functions may only be called from issue.
	Settle(issue func()) error
	Close() error
}

// Value is an evaluated JavaScript value.
type Value interface {
	// Property returns an own property of an object value.
	Property(name string) (Value, bool)
	// RenderFunc returns the value as a render function when it is callable.
	RenderFunc() (core.RenderFunc, bool)
}

type CLIOutput interface {
	PrintHeader(msg string)
	PrintStep(emoji, msg string, args ...any)
	PrintSuccess(msg string, args ...any)
	PrintWarning(msg string, args ...any)
	PrintError(msg string, args ...any)
	PrintFile(path string)
	PrintDone(msg string)
	Green(text string) string
	Yellow(text string) string
	Red(text string) string
	Gray(text string) string
	Stdout() io.Writer
	Stderr() io.Writer
}

// SandboxFactory starts a fresh sandbox for one build.
type SandboxFactory func() (Sandbox, error)

type FileSystem = fs.FileSystem
