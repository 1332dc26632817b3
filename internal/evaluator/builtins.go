package evaluator

import (
	"fmt"

	"monkey/internal/foreign"
	"monkey/internal/object"
)

// newBuiltins assembles the builtin table for one evaluator. Builtins that
// produce output close over e so they follow its Out writer.
func newBuiltins(e *Evaluator) map[string]*object.Builtin {
	builtins := map[string]*object.Builtin{
		"len":  funcLen(),
		"puts": funcPuts(e),
		"type": funcType(),

		// array functions
		"first": funcFirst(),
		"last":  funcLast(),
		"rest":  funcRest(),
		"push":  funcPush(),

		// hash functions
		"keys": funcKeys(),
	}

	for name, fn := range foreign.GetForeignFunctions() {
		builtins[name] = fn
	}

	for name, fn := range builtins {
		fn.Name = name
	}

	return builtins
}

func funcLen() *object.Builtin {
	return &object.Builtin{
		Fn: func(args ...object.Object) object.Object {
			if len(args) != 1 {
				return newError(object.ARGUMENT_COUNT_MISMATCH, "wrong number of arguments. got=%d, want=1",
					len(args))
			}

			switch arg := args[0].(type) {
			case *object.String:
				return &object.Integer{Value: int64(len(arg.Value))}
			case *object.Array:
				return &object.Integer{Value: int64(len(arg.Elements))}
			default:
				return newError(object.ARGUMENT_TYPE_MISMATCH, "argument to `len` not supported, got %s",
					args[0].Type())
			}
		},
	}
}

// funcPuts writes each argument's display form on its own line. It always
// returns NIL, not the printed value.
func funcPuts(e *Evaluator) *object.Builtin {
	return &object.Builtin{
		Fn: func(args ...object.Object) object.Object {
			for _, arg := range args {
				fmt.Fprintln(e.Out, arg.Inspect())
			}

			return NIL
		},
	}
}

func funcType() *object.Builtin {
	return &object.Builtin{
		Fn: func(args ...object.Object) object.Object {
			if len(args) != 1 {
				return newError(object.ARGUMENT_COUNT_MISMATCH, "wrong number of arguments. got=%d, want=1",
					len(args))
			}

			return &object.String{Value: string(args[0].Type())}
		},
	}
}

func funcFirst() *object.Builtin {
	return &object.Builtin{
		Fn: func(args ...object.Object) object.Object {
			if len(args) != 1 {
				return newError(object.ARGUMENT_COUNT_MISMATCH, "wrong number of arguments. got=%d, want=1",
					len(args))
			}
			if args[0].Type() != object.ARRAY_OBJ {
				return newError(object.ARGUMENT_TYPE_MISMATCH, "argument to `first` must be ARRAY, got %s",
					args[0].Type())
			}

			arr := args[0].(*object.Array)
			if len(arr.Elements) > 0 {
				return arr.Elements[0]
			}

			return NIL
		},
	}
}

func funcLast() *object.Builtin {
	return &object.Builtin{
		Fn: func(args ...object.Object) object.Object {
			if len(args) != 1 {
				return newError(object.ARGUMENT_COUNT_MISMATCH, "wrong number of arguments. got=%d, want=1",
					len(args))
			}
			if args[0].Type() != object.ARRAY_OBJ {
				return newError(object.ARGUMENT_TYPE_MISMATCH, "argument to `last` must be ARRAY, got %s",
					args[0].Type())
			}

			arr := args[0].(*object.Array)
			length := len(arr.Elements)
			if length > 0 {
				return arr.Elements[length-1]
			}

			return NIL
		},
	}
}

func funcRest() *object.Builtin {
	return &object.Builtin{
		Fn: func(args ...object.Object) object.Object {
			if len(args) != 1 {
				return newError(object.ARGUMENT_COUNT_MISMATCH, "wrong number of arguments. got=%d, want=1",
					len(args))
			}
			if args[0].Type() != object.ARRAY_OBJ {
				return newError(object.ARGUMENT_TYPE_MISMATCH, "argument to `rest` must be ARRAY, got %s",
					args[0].Type())
			}

			arr := args[0].(*object.Array)
			length := len(arr.Elements)
			if length > 0 {
				newElements := make([]object.Object, length-1)
				copy(newElements, arr.Elements[1:length])
				return &object.Array{Elements: newElements}
			}

			return NIL
		},
	}
}

func funcPush() *object.Builtin {
	return &object.Builtin{
		Fn: func(args ...object.Object) object.Object {
			if len(args) != 2 {
				return newError(object.ARGUMENT_COUNT_MISMATCH, "wrong number of arguments. got=%d, want=2",
					len(args))
			}
			if args[0].Type() != object.ARRAY_OBJ {
				return newError(object.ARGUMENT_TYPE_MISMATCH, "argument to `push` must be ARRAY, got %s",
					args[0].Type())
			}

			arr := args[0].(*object.Array)
			length := len(arr.Elements)

			newElements := make([]object.Object, length+1)
			copy(newElements, arr.Elements)
			newElements[length] = args[1]

			return &object.Array{Elements: newElements}
		},
	}
}

func funcKeys() *object.Builtin {
	return &object.Builtin{
		Fn: func(args ...object.Object) object.Object {
			if len(args) != 1 {
				return newError(object.ARGUMENT_COUNT_MISMATCH, "wrong number of arguments. got=%d, want=1",
					len(args))
			}
			if args[0].Type() != object.HASH_OBJ {
				return newError(object.ARGUMENT_TYPE_MISMATCH, "argument to `keys` must be HASH, got %s",
					args[0].Type())
			}

			hash := args[0].(*object.Hash)
			keys := make([]object.Object, 0, len(hash.Pairs))
			for _, pair := range hash.Pairs {
				keys = append(keys, pair.Key)
			}

			return &object.Array{Elements: keys}
		},
	}
}
