package parser

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"monkey/internal/ast"
	"monkey/internal/lexer"
)

func parseProgram(t *testing.T, input string) *ast.Program {
	t.Helper()
	p := New(lexer.New(input), input)
	program := p.ParseProgram()
	require.Empty(t, p.Errors(), "parser errors for %q", input)
	return program
}

func parseWithErrors(t *testing.T, input string) (*ast.Program, *Parser) {
	t.Helper()
	p := New(lexer.New(input), input)
	return p.ParseProgram(), p
}

func testIntegerLiteral(t *testing.T, exp ast.Expression, value int64) {
	t.Helper()
	integ, ok := exp.(*ast.IntegerLiteral)
	require.Truef(t, ok, "exp not *ast.IntegerLiteral. got=%T", exp)
	assert.Equal(t, value, integ.Value)
	assert.Equal(t, fmt.Sprintf("%d", value), integ.TokenLiteral())
}

func testIdentifier(t *testing.T, exp ast.Expression, value string) {
	t.Helper()
	ident, ok := exp.(*ast.Identifier)
	require.Truef(t, ok, "exp not *ast.Identifier. got=%T", exp)
	assert.Equal(t, value, ident.Value)
	assert.Equal(t, value, ident.TokenLiteral())
}

func testBooleanLiteral(t *testing.T, exp ast.Expression, value bool) {
	t.Helper()
	bl, ok := exp.(*ast.BooleanLiteral)
	require.Truef(t, ok, "exp not *ast.BooleanLiteral. got=%T", exp)
	assert.Equal(t, value, bl.Value)
}

func testLiteralExpression(t *testing.T, exp ast.Expression, expected interface{}) {
	t.Helper()
	switch v := expected.(type) {
	case int:
		testIntegerLiteral(t, exp, int64(v))
	case int64:
		testIntegerLiteral(t, exp, v)
	case string:
		testIdentifier(t, exp, v)
	case bool:
		testBooleanLiteral(t, exp, v)
	default:
		t.Fatalf("type of exp not handled. got=%T", expected)
	}
}

func testInfixExpression(t *testing.T, exp ast.Expression, left interface{}, operator string, right interface{}) {
	t.Helper()
	opExp, ok := exp.(*ast.InfixExpression)
	require.Truef(t, ok, "exp is not *ast.InfixExpression. got=%T(%s)", exp, exp)
	testLiteralExpression(t, opExp.Left, left)
	assert.Equal(t, operator, opExp.Operator)
	testLiteralExpression(t, opExp.Right, right)
}

func firstExpression(t *testing.T, program *ast.Program) ast.Expression {
	t.Helper()
	require.Len(t, program.Statements, 1)
	stmt, ok := program.Statements[0].(*ast.ExpressionStatement)
	require.Truef(t, ok, "program.Statements[0] is not *ast.ExpressionStatement. got=%T", program.Statements[0])
	return stmt.Expression
}

func TestLetStatements(t *testing.T) {
	tests := []struct {
		input              string
		expectedIdentifier string
		expectedValue      interface{}
	}{
		{"let x = 5;", "x", 5},
		{"let y = true;", "y", true},
		{"let foobar = y;", "foobar", "y"},
	}

	for _, tt := range tests {
		program := parseProgram(t, tt.input)
		require.Len(t, program.Statements, 1)

		stmt, ok := program.Statements[0].(*ast.LetStatement)
		require.Truef(t, ok, "statement not *ast.LetStatement. got=%T", program.Statements[0])
		assert.Equal(t, "let", stmt.TokenLiteral())
		assert.Equal(t, tt.expectedIdentifier, stmt.Name.Value)
		testLiteralExpression(t, stmt.Value, tt.expectedValue)
	}
}

func TestReturnStatements(t *testing.T) {
	tests := []struct {
		input         string
		expectedValue interface{}
	}{
		{"return 5;", 5},
		{"return true;", true},
		{"return foobar;", "foobar"},
	}

	for _, tt := range tests {
		program := parseProgram(t, tt.input)
		require.Len(t, program.Statements, 1)

		stmt, ok := program.Statements[0].(*ast.ReturnStatement)
		require.Truef(t, ok, "statement not *ast.ReturnStatement. got=%T", program.Statements[0])
		assert.Equal(t, "return", stmt.TokenLiteral())
		testLiteralExpression(t, stmt.ReturnValue, tt.expectedValue)
	}
}

func TestIdentifierExpression(t *testing.T) {
	exp := firstExpression(t, parseProgram(t, "foobar;"))
	testIdentifier(t, exp, "foobar")
}

func TestIntegerLiteralExpression(t *testing.T) {
	exp := firstExpression(t, parseProgram(t, "5;"))
	testIntegerLiteral(t, exp, 5)
}

func TestStringLiteralExpression(t *testing.T) {
	exp := firstExpression(t, parseProgram(t, `"hello world";`))
	literal, ok := exp.(*ast.StringLiteral)
	require.Truef(t, ok, "exp not *ast.StringLiteral. got=%T", exp)
	assert.Equal(t, "hello world", literal.Value)
}

func TestBooleanExpression(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"true;", true},
		{"false;", false},
	}

	for _, tt := range tests {
		exp := firstExpression(t, parseProgram(t, tt.input))
		testBooleanLiteral(t, exp, tt.expected)
	}
}

func TestNilLiteralExpression(t *testing.T) {
	exp := firstExpression(t, parseProgram(t, "nil;"))
	_, ok := exp.(*ast.NilLiteral)
	require.Truef(t, ok, "exp not *ast.NilLiteral. got=%T", exp)
}

func TestParsingPrefixExpressions(t *testing.T) {
	tests := []struct {
		input    string
		operator string
		value    interface{}
	}{
		{"!5;", "!", 5},
		{"-15;", "-", 15},
		{"!true;", "!", true},
		{"!false;", "!", false},
	}

	for _, tt := range tests {
		exp := firstExpression(t, parseProgram(t, tt.input))
		prefix, ok := exp.(*ast.PrefixExpression)
		require.Truef(t, ok, "exp not *ast.PrefixExpression. got=%T", exp)
		assert.Equal(t, tt.operator, prefix.Operator)
		testLiteralExpression(t, prefix.Right, tt.value)
	}
}

func TestParsingInfixExpressions(t *testing.T) {
	tests := []struct {
		input      string
		leftValue  interface{}
		operator   string
		rightValue interface{}
	}{
		{"5 + 5;", 5, "+", 5},
		{"5 - 5;", 5, "-", 5},
		{"5 * 5;", 5, "*", 5},
		{"5 / 5;", 5, "/", 5},
		{"5 % 5;", 5, "%", 5},
		{"5 > 5;", 5, ">", 5},
		{"5 < 5;", 5, "<", 5},
		{"5 >= 5;", 5, ">=", 5},
		{"5 <= 5;", 5, "<=", 5},
		{"5 == 5;", 5, "==", 5},
		{"5 != 5;", 5, "!=", 5},
		{"true == true", true, "==", true},
		{"true != false", true, "!=", false},
	}

	for _, tt := range tests {
		exp := firstExpression(t, parseProgram(t, tt.input))
		testInfixExpression(t, exp, tt.leftValue, tt.operator, tt.rightValue)
	}
}

func TestOperatorPrecedenceParsing(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"-a * b", "((-a) * b)"},
		{"!-a", "(!(-a))"},
		{"a + b + c", "((a + b) + c)"},
		{"a + b - c", "((a + b) - c)"},
		{"a * b * c", "((a * b) * c)"},
		{"a * b / c", "((a * b) / c)"},
		{"a + b / c", "(a + (b / c))"},
		{"a + b * c + d / e - f", "(((a + (b * c)) + (d / e)) - f)"},
		{"3 + 4; -5 * 5", "(3 + 4)((-5) * 5)"},
		{"5 > 4 == 3 < 4", "((5 > 4) == (3 < 4))"},
		{"5 < 4 != 3 > 4", "((5 < 4) != (3 > 4))"},
		{"3 + 4 * 5 == 3 * 1 + 4 * 5", "((3 + (4 * 5)) == ((3 * 1) + (4 * 5)))"},
		{"1 + 2 * 3", "(1 + (2 * 3))"},
		{"(1 + 2) * 3", "((1 + 2) * 3)"},
		{"-1 + 2", "((-1) + 2)"},
		{"5 % 3 + 2", "((5 % 3) + 2)"},
		{"a <= b == c >= d", "((a <= b) == (c >= d))"},
		{"true", "true"},
		{"false", "false"},
		{"3 > 5 == false", "((3 > 5) == false)"},
		{"3 < 5 == true", "((3 < 5) == true)"},
		{"1 + (2 + 3) + 4", "((1 + (2 + 3)) + 4)"},
		{"(5 + 5) * 2", "((5 + 5) * 2)"},
		{"2 / (5 + 5)", "(2 / (5 + 5))"},
		{"-(5 + 5)", "(-(5 + 5))"},
		{"!(true == true)", "(!(true == true))"},
		{"a + add(b * c) + d", "((a + add((b * c))) + d)"},
		{"add(a, b, 1, 2 * 3, 4 + 5, add(6, 7 * 8))", "add(a, b, 1, (2 * 3), (4 + 5), add(6, (7 * 8)))"},
		{"add(a + b + c * d / f + g)", "add((((a + b) + ((c * d) / f)) + g))"},
		{"a * [1, 2, 3, 4][b * c] * d", "((a * ([1, 2, 3, 4][(b * c)])) * d)"},
		{"add(a * b[2], b[1], 2 * [1, 2][1])", "add((a * (b[2])), (b[1]), (2 * ([1, 2][1])))"},
		{"f(1)(2)[0]", "(f(1)(2)[0])"},
	}

	for _, tt := range tests {
		program := parseProgram(t, tt.input)
		assert.Equalf(t, tt.expected, program.String(), "input %q", tt.input)
	}
}

func TestIfExpression(t *testing.T) {
	exp := firstExpression(t, parseProgram(t, "if (x < y) { x }"))

	ifExp, ok := exp.(*ast.IfExpression)
	require.Truef(t, ok, "exp not *ast.IfExpression. got=%T", exp)

	testInfixExpression(t, ifExp.Condition, "x", "<", "y")
	require.Len(t, ifExp.Consequence.Statements, 1)

	consequence, ok := ifExp.Consequence.Statements[0].(*ast.ExpressionStatement)
	require.True(t, ok)
	testIdentifier(t, consequence.Expression, "x")
	assert.Nil(t, ifExp.Alternative)
}

func TestIfElseExpression(t *testing.T) {
	exp := firstExpression(t, parseProgram(t, "if (x < y) { x } else { y }"))

	ifExp, ok := exp.(*ast.IfExpression)
	require.Truef(t, ok, "exp not *ast.IfExpression. got=%T", exp)
	require.NotNil(t, ifExp.Alternative)
	require.Len(t, ifExp.Alternative.Statements, 1)

	alternative, ok := ifExp.Alternative.Statements[0].(*ast.ExpressionStatement)
	require.True(t, ok)
	testIdentifier(t, alternative.Expression, "y")
}

func TestElseIfChainDesugarsToNestedIf(t *testing.T) {
	exp := firstExpression(t, parseProgram(t, "if (a) { 1 } else if (b) { 2 } else { 3 }"))

	outer, ok := exp.(*ast.IfExpression)
	require.Truef(t, ok, "exp not *ast.IfExpression. got=%T", exp)
	require.NotNil(t, outer.Alternative)
	require.Len(t, outer.Alternative.Statements, 1)

	wrapper, ok := outer.Alternative.Statements[0].(*ast.ExpressionStatement)
	require.True(t, ok)

	inner, ok := wrapper.Expression.(*ast.IfExpression)
	require.Truef(t, ok, "alternative does not hold a nested if. got=%T", wrapper.Expression)
	testIdentifier(t, inner.Condition, "b")
	require.NotNil(t, inner.Alternative)
}

func TestFunctionLiteralParsing(t *testing.T) {
	exp := firstExpression(t, parseProgram(t, "fn(x, y) { x + y; }"))

	function, ok := exp.(*ast.FunctionLiteral)
	require.Truef(t, ok, "exp not *ast.FunctionLiteral. got=%T", exp)
	require.Len(t, function.Parameters, 2)

	testIdentifier(t, function.Parameters[0], "x")
	testIdentifier(t, function.Parameters[1], "y")

	require.Len(t, function.Body.Statements, 1)
	body, ok := function.Body.Statements[0].(*ast.ExpressionStatement)
	require.True(t, ok)
	testInfixExpression(t, body.Expression, "x", "+", "y")
}

func TestFunctionParameterParsing(t *testing.T) {
	tests := []struct {
		input          string
		expectedParams []string
	}{
		{"fn() {};", []string{}},
		{"fn(x) {};", []string{"x"}},
		{"fn(x, y, z) {};", []string{"x", "y", "z"}},
	}

	for _, tt := range tests {
		exp := firstExpression(t, parseProgram(t, tt.input))
		function, ok := exp.(*ast.FunctionLiteral)
		require.True(t, ok)
		require.Len(t, function.Parameters, len(tt.expectedParams))
		for i, ident := range tt.expectedParams {
			testIdentifier(t, function.Parameters[i], ident)
		}
	}
}

func TestFunctionParameterMustBeIdentifier(t *testing.T) {
	_, p := parseWithErrors(t, "fn(1) { 1 }")
	require.Len(t, p.Errors(), 1)
	assert.Contains(t, p.Errors()[0], "expected next token to be IDENT, got INT instead")
}

func TestCallExpressionParsing(t *testing.T) {
	exp := firstExpression(t, parseProgram(t, "add(1, 2 * 3, 4 + 5);"))

	call, ok := exp.(*ast.CallExpression)
	require.Truef(t, ok, "exp not *ast.CallExpression. got=%T", exp)

	testIdentifier(t, call.Function, "add")
	require.Len(t, call.Arguments, 3)
	testLiteralExpression(t, call.Arguments[0], 1)
	testInfixExpression(t, call.Arguments[1], 2, "*", 3)
	testInfixExpression(t, call.Arguments[2], 4, "+", 5)
}

func TestParsingArrayLiterals(t *testing.T) {
	exp := firstExpression(t, parseProgram(t, "[1, 2 * 2, 3 + 3]"))

	array, ok := exp.(*ast.ArrayLiteral)
	require.Truef(t, ok, "exp not *ast.ArrayLiteral. got=%T", exp)
	require.Len(t, array.Elements, 3)

	testIntegerLiteral(t, array.Elements[0], 1)
	testInfixExpression(t, array.Elements[1], 2, "*", 2)
	testInfixExpression(t, array.Elements[2], 3, "+", 3)
}

func TestParsingEmptyArrayLiteral(t *testing.T) {
	exp := firstExpression(t, parseProgram(t, "[]"))

	array, ok := exp.(*ast.ArrayLiteral)
	require.True(t, ok)
	assert.Empty(t, array.Elements)
}

func TestParsingIndexExpressions(t *testing.T) {
	exp := firstExpression(t, parseProgram(t, "myArray[1 + 1]"))

	indexExp, ok := exp.(*ast.IndexExpression)
	require.Truef(t, ok, "exp not *ast.IndexExpression. got=%T", exp)

	testIdentifier(t, indexExp.Left, "myArray")
	testInfixExpression(t, indexExp.Index, 1, "+", 1)
}

func TestParsingHashLiteralsStringKeys(t *testing.T) {
	exp := firstExpression(t, parseProgram(t, `{"one": 1, "two": 2, "three": 3}`))

	hash, ok := exp.(*ast.HashLiteral)
	require.Truef(t, ok, "exp not *ast.HashLiteral. got=%T", exp)
	require.Len(t, hash.Pairs, 3)

	expected := []struct {
		key   string
		value int64
	}{
		{"one", 1},
		{"two", 2},
		{"three", 3},
	}

	for i, want := range expected {
		key, ok := hash.Pairs[i].Key.(*ast.StringLiteral)
		require.Truef(t, ok, "key not *ast.StringLiteral. got=%T", hash.Pairs[i].Key)
		assert.Equal(t, want.key, key.Value)
		testIntegerLiteral(t, hash.Pairs[i].Value, want.value)
	}
}

func TestParsingHashLiteralKeepsSourceOrder(t *testing.T) {
	exp := firstExpression(t, parseProgram(t, `{"b": 2, "a": 1}`))

	hash, ok := exp.(*ast.HashLiteral)
	require.True(t, ok)
	require.Len(t, hash.Pairs, 2)

	first, ok := hash.Pairs[0].Key.(*ast.StringLiteral)
	require.True(t, ok)
	assert.Equal(t, "b", first.Value)

	second, ok := hash.Pairs[1].Key.(*ast.StringLiteral)
	require.True(t, ok)
	assert.Equal(t, "a", second.Value)
}

func TestParsingEmptyHashLiteral(t *testing.T) {
	exp := firstExpression(t, parseProgram(t, "{}"))

	hash, ok := exp.(*ast.HashLiteral)
	require.True(t, ok)
	assert.Empty(t, hash.Pairs)
}

func TestParsingHashLiteralsWithExpressions(t *testing.T) {
	exp := firstExpression(t, parseProgram(t, `{"one": 0 + 1, "two": 10 - 8}`))

	hash, ok := exp.(*ast.HashLiteral)
	require.True(t, ok)
	require.Len(t, hash.Pairs, 2)

	testInfixExpression(t, hash.Pairs[0].Value, 0, "+", 1)
	testInfixExpression(t, hash.Pairs[1].Value, 10, "-", 8)
}

func TestParserRecoversAtStatementBoundary(t *testing.T) {
	program, p := parseWithErrors(t, "let x 5; let y = 10;")

	require.Len(t, p.Errors(), 1)
	assert.Equal(t, "[  1: 7] expected next token to be =, got INT instead", p.Errors()[0])

	require.Len(t, program.Statements, 1)
	stmt, ok := program.Statements[0].(*ast.LetStatement)
	require.True(t, ok)
	assert.Equal(t, "y", stmt.Name.Value)
}

func TestParserReportsEveryBadStatement(t *testing.T) {
	program, p := parseWithErrors(t, "let x 5; let 7 = y; let z = 3;")

	require.Len(t, p.Errors(), 2)
	assert.Contains(t, p.Errors()[0], "expected next token to be =, got INT instead")
	assert.Contains(t, p.Errors()[1], "expected next token to be IDENT, got INT instead")

	require.Len(t, program.Statements, 1)
	stmt, ok := program.Statements[0].(*ast.LetStatement)
	require.True(t, ok)
	assert.Equal(t, "z", stmt.Name.Value)
}

func TestErrorsCarryLineAndColumn(t *testing.T) {
	_, p := parseWithErrors(t, "let a = 1;\nlet b 2;")

	require.Len(t, p.Errors(), 1)
	assert.Equal(t, "[  2: 7] expected next token to be =, got INT instead", p.Errors()[0])
}

func TestIllegalTokenSurfacesAsParseError(t *testing.T) {
	_, p := parseWithErrors(t, "@")

	require.Len(t, p.Errors(), 1)
	assert.Equal(t, `[  1: 1] illegal token "@" in input`, p.Errors()[0])
}

func TestIntegerLiteralOutOfRange(t *testing.T) {
	_, p := parseWithErrors(t, "9223372036854775808;")

	require.Len(t, p.Errors(), 1)
	assert.Contains(t, p.Errors()[0], `could not parse "9223372036854775808" as integer`)
}

func TestIncompleteInput(t *testing.T) {
	tests := []struct {
		input      string
		incomplete bool
	}{
		{"if (x) {", true},
		{"let x =", true},
		{"fn(x", true},
		{"fn(x) {", true},
		{"[1, 2", true},
		{`{"a": 1`, true},
		{"(1 + 2", true},
		{"let x 5", false},
		{"5 + @", false},
		{"let x = 5;", false},
		{"", false},
	}

	for _, tt := range tests {
		_, p := parseWithErrors(t, tt.input)
		assert.Equalf(t, tt.incomplete, p.IncompleteInput(), "input %q, errors %v", tt.input, p.Errors())
	}
}

func TestRenderASTAsJSON(t *testing.T) {
	program := parseProgram(t, "let x = 1 + 2;")

	out, err := RenderASTAsJSON(program)
	require.NoError(t, err)

	assert.Contains(t, out, `"type": "Program"`)
	assert.Contains(t, out, `"type": "LetStatement"`)
	assert.Contains(t, out, `"type": "InfixExpression"`)
	assert.Contains(t, out, `"operator": "+"`)
}

func TestRenderASTAsText(t *testing.T) {
	program := parseProgram(t, "let x = 1 + 2 * 3;")

	out := RenderASTAsText(program, 0)
	assert.Equal(t, "let x = (1 + (2 * 3))", out)
}
