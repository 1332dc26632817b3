package evaluator

import (
	"fmt"
	"io"
	"math"
	"os"

	"monkey/internal/ast"
	"monkey/internal/object"
)

// DefaultMaxDepth bounds how many function applications may be live at once.
const DefaultMaxDepth = 10000

// Shared singletons from the object package under their usual short names.
var (
	NIL   = object.NIL
	TRUE  = object.TRUE
	FALSE = object.FALSE
)

// Evaluator walks an AST and computes values. A single Evaluator is not
// safe for concurrent use; each session owns one.
type Evaluator struct {
	Out      io.Writer // destination for output-producing builtins
	MaxDepth int       // live function application limit

	builtins map[string]*object.Builtin
	depth    int
}

// New returns an Evaluator with the full builtin set, writing to stdout.
func New() *Evaluator {
	e := &Evaluator{
		Out:      os.Stdout,
		MaxDepth: DefaultMaxDepth,
	}
	e.builtins = newBuiltins(e)
	return e
}

func (e *Evaluator) Eval(node ast.Node, env *object.Environment) object.Object {
	switch node := node.(type) {

	// Statements
	case *ast.Program:
		return e.evalProgram(node, env)

	case *ast.BlockStatement:
		return e.evalBlockStatement(node, env)

	case *ast.ExpressionStatement:
		return e.Eval(node.Expression, env)

	case *ast.ReturnStatement:
		val := e.Eval(node.ReturnValue, env)
		if e.isError(val) {
			return val
		}
		return &object.ReturnValue{Value: val}

	case *ast.LetStatement:
		val := e.Eval(node.Value, env)
		if e.isError(val) {
			return val
		}
		env.Set(node.Name.Value, val)

	// Expressions
	case *ast.IntegerLiteral:
		return &object.Integer{Value: node.Value}

	case *ast.StringLiteral:
		return &object.String{Value: node.Value}

	case *ast.BooleanLiteral:
		return nativeBoolToBooleanObject(node.Value)

	case *ast.NilLiteral:
		return NIL

	case *ast.PrefixExpression:
		right := e.Eval(node.Right, env)
		if e.isError(right) {
			return right
		}
		return e.evalPrefixExpression(node.Operator, right)

	case *ast.InfixExpression:
		left := e.Eval(node.Left, env)
		if e.isError(left) {
			return left
		}

		right := e.Eval(node.Right, env)
		if e.isError(right) {
			return right
		}

		return e.evalInfixExpression(node.Operator, left, right)

	case *ast.IfExpression:
		return e.evalIfExpression(node, env)

	case *ast.Identifier:
		return e.evalIdentifier(node, env)

	case *ast.FunctionLiteral:
		return &object.Function{
			Parameters: node.Parameters,
			Env:        env,
			Body:       node.Body,
		}

	case *ast.CallExpression:
		function := e.Eval(node.Function, env)
		if e.isError(function) {
			return function
		}

		args := e.evalExpressions(node.Arguments, env)
		if len(args) == 1 && e.isError(args[0]) {
			return args[0]
		}

		return e.applyFunction(function, args)

	case *ast.ArrayLiteral:
		elements := e.evalExpressions(node.Elements, env)
		if len(elements) == 1 && e.isError(elements[0]) {
			return elements[0]
		}
		return &object.Array{Elements: elements}

	case *ast.IndexExpression:
		left := e.Eval(node.Left, env)
		if e.isError(left) {
			return left
		}
		index := e.Eval(node.Index, env)
		if e.isError(index) {
			return index
		}
		return e.evalIndexExpression(left, index)

	case *ast.HashLiteral:
		return e.evalHashLiteral(node, env)

	}

	return nil
}

func (e *Evaluator) evalProgram(program *ast.Program, env *object.Environment) object.Object {
	var result object.Object

	for _, statement := range program.Statements {
		result = e.Eval(statement, env)

		switch result := result.(type) {
		case *object.ReturnValue:
			return result.Value
		case *object.Error:
			return result
		}
	}

	return result
}

// evalBlockStatement runs statements in the caller's environment. Blocks do
// not introduce a scope; only function application does.
func (e *Evaluator) evalBlockStatement(block *ast.BlockStatement, env *object.Environment) object.Object {
	var result object.Object

	for _, statement := range block.Statements {
		result = e.Eval(statement, env)

		if result != nil {
			rt := result.Type()
			if rt == object.RETURN_VALUE_OBJ || rt == object.ERROR_OBJ {
				return result
			}
		}
	}

	return result
}

func nativeBoolToBooleanObject(input bool) *object.Boolean {
	if input {
		return TRUE
	}
	return FALSE
}

func (e *Evaluator) evalPrefixExpression(operator string, right object.Object) object.Object {
	switch operator {
	case "!":
		return e.evalBangOperatorExpression(right)
	case "-":
		return e.evalMinusPrefixOperatorExpression(right)
	default:
		return newError(object.UNKNOWN_OPERATOR, "unknown operator: %s%s", operator, right.Type())
	}
}

func (e *Evaluator) evalBangOperatorExpression(right object.Object) object.Object {
	switch right {
	case TRUE:
		return FALSE
	case FALSE:
		return TRUE
	case NIL:
		return TRUE
	default:
		return FALSE
	}
}

func (e *Evaluator) evalMinusPrefixOperatorExpression(right object.Object) object.Object {
	if right.Type() != object.INTEGER_OBJ {
		return newError(object.UNKNOWN_OPERATOR, "unknown operator: -%s", right.Type())
	}

	value := right.(*object.Integer).Value
	if value == math.MinInt64 {
		return newError(object.INTEGER_OVERFLOW, "integer overflow: -(%d)", value)
	}
	return &object.Integer{Value: -value}
}

func (e *Evaluator) evalInfixExpression(
	operator string,
	left, right object.Object,
) object.Object {
	switch {
	case left.Type() == object.INTEGER_OBJ && right.Type() == object.INTEGER_OBJ:
		return e.evalIntegerInfixExpression(operator, left, right)
	case left.Type() == object.STRING_OBJ && right.Type() == object.STRING_OBJ:
		return e.evalStringInfixExpression(operator, left, right)
	// Booleans and nil are singletons, equality is pointer identity
	case operator == "==":
		return nativeBoolToBooleanObject(left == right)
	case operator == "!=":
		return nativeBoolToBooleanObject(left != right)
	case left.Type() != right.Type():
		return newError(object.TYPE_MISMATCH, "type mismatch: %s %s %s",
			left.Type(), operator, right.Type())
	default:
		return newError(object.UNKNOWN_OPERATOR, "unknown operator: %s %s %s",
			left.Type(), operator, right.Type())
	}
}

// evalIntegerInfixExpression applies operator to two integers. Results that
// cannot be represented in 64 bits yield an INTEGER_OVERFLOW error rather
// than wrapping around.
func (e *Evaluator) evalIntegerInfixExpression(
	operator string,
	left, right object.Object,
) object.Object {
	leftVal := left.(*object.Integer).Value
	rightVal := right.(*object.Integer).Value

	switch operator {
	case "+":
		res := leftVal + rightVal
		if (res > leftVal) != (rightVal > 0) {
			return newError(object.INTEGER_OVERFLOW, "integer overflow: %d + %d", leftVal, rightVal)
		}
		return &object.Integer{Value: res}
	case "-":
		res := leftVal - rightVal
		if (res < leftVal) != (rightVal > 0) {
			return newError(object.INTEGER_OVERFLOW, "integer overflow: %d - %d", leftVal, rightVal)
		}
		return &object.Integer{Value: res}
	case "*":
		if leftVal == 0 || rightVal == 0 {
			return &object.Integer{Value: 0}
		}
		// MinInt64 * -1 wraps to itself and would slip past the division check
		if (leftVal == math.MinInt64 && rightVal == -1) || (rightVal == math.MinInt64 && leftVal == -1) {
			return newError(object.INTEGER_OVERFLOW, "integer overflow: %d * %d", leftVal, rightVal)
		}
		res := leftVal * rightVal
		if res/rightVal != leftVal {
			return newError(object.INTEGER_OVERFLOW, "integer overflow: %d * %d", leftVal, rightVal)
		}
		return &object.Integer{Value: res}
	case "/":
		if rightVal == 0 {
			return newError(object.DIVISION_BY_ZERO, "division by zero: %d / %d", leftVal, rightVal)
		}
		if leftVal == math.MinInt64 && rightVal == -1 {
			return newError(object.INTEGER_OVERFLOW, "integer overflow: %d / %d", leftVal, rightVal)
		}
		return &object.Integer{Value: leftVal / rightVal}
	case "%":
		if rightVal == 0 {
			return newError(object.DIVISION_BY_ZERO, "division by zero: %d %% %d", leftVal, rightVal)
		}
		if leftVal == math.MinInt64 && rightVal == -1 {
			return newError(object.INTEGER_OVERFLOW, "integer overflow: %d %% %d", leftVal, rightVal)
		}
		return &object.Integer{Value: leftVal % rightVal}
	case "<":
		return nativeBoolToBooleanObject(leftVal < rightVal)
	case "<=":
		return nativeBoolToBooleanObject(leftVal <= rightVal)
	case ">":
		return nativeBoolToBooleanObject(leftVal > rightVal)
	case ">=":
		return nativeBoolToBooleanObject(leftVal >= rightVal)
	case "==":
		return nativeBoolToBooleanObject(leftVal == rightVal)
	case "!=":
		return nativeBoolToBooleanObject(leftVal != rightVal)
	default:
		return newError(object.UNKNOWN_OPERATOR, "unknown operator: %s %s %s",
			left.Type(), operator, right.Type())
	}
}

func (e *Evaluator) evalStringInfixExpression(
	operator string,
	left, right object.Object,
) object.Object {
	leftVal := left.(*object.String).Value
	rightVal := right.(*object.String).Value

	switch operator {
	case "+":
		return &object.String{Value: leftVal + rightVal}
	case "==":
		return nativeBoolToBooleanObject(leftVal == rightVal)
	case "!=":
		return nativeBoolToBooleanObject(leftVal != rightVal)
	default:
		return newError(object.UNKNOWN_OPERATOR, "unknown operator: %s %s %s",
			left.Type(), operator, right.Type())
	}
}

func (e *Evaluator) evalIfExpression(
	ie *ast.IfExpression,
	env *object.Environment,
) object.Object {
	condition := e.Eval(ie.Condition, env)
	if e.isError(condition) {
		return condition
	}

	if e.isTruthy(condition) {
		return e.Eval(ie.Consequence, env)
	} else if ie.Alternative != nil {
		return e.Eval(ie.Alternative, env)
	} else {
		return NIL
	}
}

func (e *Evaluator) evalIdentifier(
	node *ast.Identifier,
	env *object.Environment,
) object.Object {
	if val, ok := env.Get(node.Value); ok {
		return val
	}

	if builtin, ok := e.builtins[node.Value]; ok {
		return builtin
	}

	return newError(object.IDENTIFIER_NOT_FOUND, "identifier not found: %s", node.Value)
}

func (e *Evaluator) isTruthy(obj object.Object) bool {
	switch obj {
	case NIL:
		return false
	case TRUE:
		return true
	case FALSE:
		return false
	default:
		return true
	}
}

func newError(kind object.ErrorKind, format string, a ...interface{}) *object.Error {
	return &object.Error{Kind: kind, Message: fmt.Sprintf(format, a...)}
}

func (e *Evaluator) isError(obj object.Object) bool {
	if obj != nil {
		return obj.Type() == object.ERROR_OBJ
	}
	return false
}

func (e *Evaluator) evalExpressions(
	exps []ast.Expression,
	env *object.Environment,
) []object.Object {
	var result []object.Object

	for _, exp := range exps {
		evaluated := e.Eval(exp, env)
		if e.isError(evaluated) {
			return []object.Object{evaluated}
		}
		result = append(result, evaluated)
	}

	return result
}

func (e *Evaluator) applyFunction(fnObj object.Object, args []object.Object) object.Object {
	switch fn := fnObj.(type) {
	case *object.Function:
		if len(args) != len(fn.Parameters) {
			return newError(object.ARGUMENT_COUNT_MISMATCH, "wrong number of arguments. got=%d, want=%d",
				len(args), len(fn.Parameters))
		}

		if e.depth >= e.MaxDepth {
			return newError(object.RECURSION_LIMIT, "maximum recursion depth of %d exceeded", e.MaxDepth)
		}
		e.depth++
		defer func() { e.depth-- }()

		extendedEnv := e.extendFunctionEnv(fn, args)
		evaluated := e.Eval(fn.Body, extendedEnv)
		return e.unwrapReturnValue(evaluated)

	case *object.Builtin:
		return fn.Fn(args...)

	default:
		return newError(object.NOT_A_FUNCTION, "not a function: %s", fnObj.Type())
	}
}

func (e *Evaluator) extendFunctionEnv(
	fn *object.Function,
	args []object.Object,
) *object.Environment {
	env := object.NewEnclosedEnvironment(fn.Env)

	for i, param := range fn.Parameters {
		env.Set(param.Value, args[i])
	}

	return env
}

func (e *Evaluator) unwrapReturnValue(obj object.Object) object.Object {
	if returnValue, ok := obj.(*object.ReturnValue); ok {
		return returnValue.Value
	}

	return obj
}

func (e *Evaluator) evalHashLiteral(
	node *ast.HashLiteral,
	env *object.Environment,
) object.Object {
	pairs := make(map[object.HashKey]object.HashPair)

	for _, pair := range node.Pairs {
		key := e.Eval(pair.Key, env)
		if e.isError(key) {
			return key
		}

		hashKey, ok := key.(object.Hashable)
		if !ok {
			return newError(object.INDEX_TYPE_MISMATCH, "unusable as hash key: %s", key.Type())
		}

		value := e.Eval(pair.Value, env)
		if e.isError(value) {
			return value
		}

		pairs[hashKey.HashKey()] = object.HashPair{Key: key, Value: value}
	}

	return &object.Hash{Pairs: pairs}
}

func (e *Evaluator) evalIndexExpression(left, index object.Object) object.Object {
	switch {
	case left.Type() == object.ARRAY_OBJ:
		return e.evalArrayIndexExpression(left, index)
	case left.Type() == object.HASH_OBJ:
		return e.evalHashIndexExpression(left, index)
	default:
		return newError(object.UNKNOWN_OPERATOR, "index operator not supported: %s", left.Type())
	}
}

func (e *Evaluator) evalArrayIndexExpression(array, index object.Object) object.Object {
	arrayObject := array.(*object.Array)
	if index.Type() != object.INTEGER_OBJ {
		return newError(object.INDEX_TYPE_MISMATCH, "array index must be INTEGER, got %s", index.Type())
	}

	idx := index.(*object.Integer).Value
	max := int64(len(arrayObject.Elements) - 1)

	if idx < 0 || idx > max {
		return NIL
	}

	return arrayObject.Elements[idx]
}

func (e *Evaluator) evalHashIndexExpression(hash, index object.Object) object.Object {
	hashObject := hash.(*object.Hash)

	key, ok := index.(object.Hashable)
	if !ok {
		return newError(object.INDEX_TYPE_MISMATCH, "unusable as hash key: %s", index.Type())
	}

	pair, ok := hashObject.Pairs[key.HashKey()]
	if !ok {
		return NIL
	}

	return pair.Value
}
