package foreign

import (
	"fmt"

	"monkey/internal/object"
)

func newError(kind object.ErrorKind, format string, a ...interface{}) *object.Error {
	return &object.Error{Kind: kind, Message: fmt.Sprintf(format, a...)}
}

// unpackString narrows obj to a string value, naming the argument in the
// error when it is something else.
func unpackString(obj object.Object, what string) (string, *object.Error) {
	str, ok := obj.(*object.String)
	if !ok {
		return "", newError(object.ARGUMENT_TYPE_MISMATCH, "%s must be STRING, got %s", what, obj.Type())
	}
	return str.Value, nil
}

func unpackInteger(obj object.Object, what string) (int64, *object.Error) {
	n, ok := obj.(*object.Integer)
	if !ok {
		return 0, newError(object.ARGUMENT_TYPE_MISMATCH, "%s must be INTEGER, got %s", what, obj.Type())
	}
	return n.Value, nil
}
