package js

import (
	"errors"

	"github.com/dop251/goja"
)

var ErrClosed = errors.New("sandbox closed")

// jsError is a value thrown, rejected or passed to a callback by evaluated
// code.
type jsError struct {
	message string
	stack   string
}

func (e *jsError) Error() string {
	return e.message
}

func (e *jsError) Stack() string {
	return e.stack
}

func exceptionError(err error) error {
	var ex *goja.Exception
	if !errors.As(err, &ex) {
		return err
	}
	if v := ex.Value(); v != nil {
		if e, ok := valueError(v).(*jsError); ok {
			if stack, err := exceptionStack(ex); err == nil {
				e.stack = stack
			}
			return e
		}
	}
	return &jsError{message: ex.Error()}
}

// exceptionStack formats ex with its stack trace. Formatting converts the
// thrown value to a string, which can itself throw.
func exceptionStack(ex *goja.Exception) (stack string, err error) {
	defer recoverJS(&err)
	return ex.String(), nil
}

func valueError(v goja.Value) error {
	if isNullish(v) {
		return &jsError{message: "rejected without a reason"}
	}

	e := &jsError{message: describe(v)}
	if obj, ok := v.(*goja.Object); ok {
		e.stack = stackProperty(obj)
	}
	return e
}

func stackProperty(obj *goja.Object) (stack string) {
	defer func() {
		if recover() != nil {
			stack = ""
		}
	}()
	if v := obj.Get("stack"); !isNullish(v) {
		return v.String()
	}
	return ""
}

// toString converts v the way String(v) does in JavaScript and returns the
// exception instead of panicking when the conversion throws.
func toString(v goja.Value) (s string, err error) {
	defer recoverJS(&err)
	return v.String(), nil
}

// describe is toString falling back to the object class for values that
// have no string form, such as objects without a prototype.
func describe(v goja.Value) string {
	if s, err := toString(v); err == nil {
		return s
	}
	if obj, ok := v.(*goja.Object); ok {
		return "[object " + obj.ClassName() + "]"
	}
	if t := v.ExportType(); t != nil {
		return "[" + t.String() + "]"
	}
	return "[unknown]"
}

// recoverJS turns a JavaScript exception raised as a panic by goja's value
// conversions into *errp. Go panics are left alone.
func recoverJS(errp *error) {
	r := recover()
	if r == nil {
		return
	}
	switch x := r.(type) {
	case *goja.Exception:
		*errp = exceptionError(x)
	case goja.Value:
		*errp = valueError(x)
	default:
		panic(r)
	}
}

func isNullish(v goja.Value) bool {
	return v == nil || goja.IsUndefined(v) || goja.IsNull(v)
}
