package core

import (
	"errors"
	"fmt"
)

var (
	ErrRenderUnsettled = errors.New("render never completed")
	ErrEmptyRender     = errors.New("render returned no output")
)

type EntryNotFoundError struct {
	Entry string
}

func (e *EntryNotFoundError) Error() string {
	return fmt.Sprintf("source file not found: %q", e.Entry)
}

type InvalidEntryExportError struct {
	Entry string
}

func (e *InvalidEntryExportError) Error() string {
	return fmt.Sprintf("export from %q must be a function that returns an HTML string; is the bundle's library target set to \"umd\"?", e.Entry)
}

// ScriptError is a failure while evaluating compiled source text.
type ScriptError struct {
	Script string
	Err    error
}

func (e *ScriptError) Error() string {
	return fmt.Sprintf("script %q: %v", e.Script, e.Err)
}

func (e *ScriptError) Unwrap() error {
	return e.Err
}

// RenderError is a failed render of one output path.
type RenderError struct {
	Path string
	Err  error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render %q: %v", e.Path, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// Diagnostic formats err for the build's error list, appending the script
// stack when the error carries one.
func Diagnostic(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()

	var st interface{ Stack() string }
	if errors.As(err, &st) {
		if stack := st.Stack(); stack != "" {
			return msg + "\n" + stack
		}
	}
	return msg
}
