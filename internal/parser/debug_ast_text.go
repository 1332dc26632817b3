package parser

import (
	"fmt"
	"reflect"
	"strings"

	"monkey/internal/ast"
)

// RenderASTAsText produces a human-centric, indented representation of the AST.
// It is optimized for eyeballing precedence and binding structure.
func RenderASTAsText(node ast.Node, indent int) string {
	if node == nil || (reflect.ValueOf(node).Kind() == reflect.Ptr && reflect.ValueOf(node).IsNil()) {
		return "nil"
	}

	sp := strings.Repeat("  ", indent)

	switch n := node.(type) {
	case *ast.Program:
		var sb strings.Builder
		for i, s := range n.Statements {
			if i > 0 {
				sb.WriteString("\n")
			}
			// Root level statements start at indent 0
			sb.WriteString(RenderASTAsText(s, 0))
		}
		return sb.String()

	case *ast.LetStatement:
		return fmt.Sprintf("%slet %s = %s", sp, n.Name.Value, RenderASTAsText(n.Value, indent))

	case *ast.ReturnStatement:
		return fmt.Sprintf("%sreturn %s", sp, RenderASTAsText(n.ReturnValue, indent))

	case *ast.ExpressionStatement:
		// The statement handles the line's starting indentation
		return sp + RenderASTAsText(n.Expression, indent)

	case *ast.BlockStatement:
		var sb strings.Builder
		sb.WriteString("{\n")
		for _, s := range n.Statements {
			// Statements inside the block are indented +1
			sb.WriteString(RenderASTAsText(s, indent+1))
			sb.WriteString("\n")
		}
		// The closing brace aligns with the parent's indent
		sb.WriteString(sp + "}")
		return sb.String()

	case *ast.FunctionLiteral:
		params := []string{}
		for _, p := range n.Parameters {
			params = append(params, p.Value)
		}
		return fmt.Sprintf("fn(%s) %s", strings.Join(params, ", "), RenderASTAsText(n.Body, indent))

	case *ast.CallExpression:
		args := []string{}
		for _, a := range n.Arguments {
			args = append(args, RenderASTAsText(a, 0))
		}
		return fmt.Sprintf("%s(%s)", RenderASTAsText(n.Function, 0), strings.Join(args, ", "))

	case *ast.InfixExpression:
		return fmt.Sprintf("(%s %s %s)", RenderASTAsText(n.Left, 0), n.Operator, RenderASTAsText(n.Right, 0))

	case *ast.PrefixExpression:
		return fmt.Sprintf("(%s%s)", n.Operator, RenderASTAsText(n.Right, 0))

	case *ast.IfExpression:
		res := fmt.Sprintf("if %s %s", RenderASTAsText(n.Condition, 0), RenderASTAsText(n.Consequence, indent))
		if n.Alternative != nil {
			res += " else " + RenderASTAsText(n.Alternative, indent)
		}
		return res

	case *ast.IndexExpression:
		return fmt.Sprintf("%s[%s]", RenderASTAsText(n.Left, 0), RenderASTAsText(n.Index, 0))

	case *ast.Identifier:
		return n.Value
	case *ast.IntegerLiteral:
		return fmt.Sprintf("%d", n.Value)
	case *ast.StringLiteral:
		return fmt.Sprintf("%q", n.Value)
	case *ast.BooleanLiteral:
		return fmt.Sprintf("%v", n.Value)
	case *ast.NilLiteral:
		return "nil"

	case *ast.ArrayLiteral:
		elems := []string{}
		for _, e := range n.Elements {
			elems = append(elems, RenderASTAsText(e, 0))
		}
		return "[" + strings.Join(elems, ", ") + "]"

	case *ast.HashLiteral:
		pairs := []string{}
		for _, pair := range n.Pairs {
			pairs = append(pairs, fmt.Sprintf("%s: %s", RenderASTAsText(pair.Key, 0), RenderASTAsText(pair.Value, 0)))
		}
		return "{" + strings.Join(pairs, ", ") + "}"

	default:
		return fmt.Sprintf("<unknown:%T>", n)
	}
}
