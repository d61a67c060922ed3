package parser

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Encode converts an AST into an ordered YAML mapping tree. Every node becomes
// a mapping whose first key is "kind", followed by its fields in declaration
// order. Positions are emitted as "line:column" under "pos".
func Encode(n Node) *yaml.Node {
	if n == nil {
		return scalar("!!null", "null")
	}

	m := mapping()
	addPair(m, "kind", str(string(n.Kind())))
	addPair(m, "pos", str(n.Pos().String()))

	switch node := n.(type) {
	case *Program:
		addPair(m, "statements", encodeStatements(node.Statements))
	case *VariableDeclaration:
		addPair(m, "name", str(node.Name))
		addPair(m, "constant", boolean(node.Constant))
		if node.Type != "" {
			addPair(m, "type", str(node.Type))
		}
		addPair(m, "init", Encode(node.Init))
	case *FunctionDeclaration:
		addPair(m, "name", str(node.Name))
		params := sequence()
		for _, param := range node.Params {
			pm := mapping()
			addPair(pm, "name", str(param.Name))
			if param.Type != "" {
				addPair(pm, "type", str(param.Type))
			}
			params.Content = append(params.Content, pm)
		}
		addPair(m, "params", params)
		if node.ReturnType != "" {
			addPair(m, "returnType", str(node.ReturnType))
		}
		addPair(m, "body", encodeStatements(node.Body))
	case *IfStatement:
		addPair(m, "test", Encode(node.Test))
		addPair(m, "consequent", encodeStatements(node.Consequent))
		if node.Alternate != nil {
			addPair(m, "alternate", encodeStatements(node.Alternate))
		}
	case *ReturnStatement:
		if node.Value != nil {
			addPair(m, "value", Encode(node.Value))
		}
	case *ExpressionStatement:
		addPair(m, "expression", Encode(node.Expr))
	case *AssignmentExpression:
		addPair(m, "target", Encode(node.Target))
		addPair(m, "value", Encode(node.Value))
	case *CallExpression:
		addPair(m, "callee", Encode(node.Callee))
		addPair(m, "arguments", encodeExpressions(node.Args))
	case *ArrayExpression:
		addPair(m, "elements", encodeExpressions(node.Elements))
	case *ObjectExpression:
		props := sequence()
		for _, prop := range node.Properties {
			pm := mapping()
			addPair(pm, "key", str(prop.Key))
			addPair(pm, "value", Encode(prop.Value))
			props.Content = append(props.Content, pm)
		}
		addPair(m, "properties", props)
	case *MemberExpression:
		addPair(m, "object", Encode(node.Object))
		addPair(m, "property", Encode(node.Property))
		addPair(m, "computed", boolean(node.Computed))
	case *BinaryExpression:
		addPair(m, "operator", str(node.Operator))
		addPair(m, "left", Encode(node.Left))
		addPair(m, "right", Encode(node.Right))
	case *Literal:
		switch v := node.Value.(type) {
		case float64:
			addPair(m, "value", scalar("!!float", strconv.FormatFloat(v, 'g', -1, 64)))
		case string:
			addPair(m, "value", str(v))
		default:
			addPair(m, "value", str(fmt.Sprint(v)))
		}
	case *Identifier:
		addPair(m, "name", str(node.Name))
	}
	return m
}

// EncodeValue converts an AST into plain Go maps and slices, suitable for
// encoding/json.
func EncodeValue(n Node) (any, error) {
	var v any
	if err := Encode(n).Decode(&v); err != nil {
		return nil, fmt.Errorf("decode ast tree: %w", err)
	}
	return v, nil
}

func encodeStatements(stmts []Statement) *yaml.Node {
	seq := sequence()
	for _, s := range stmts {
		seq.Content = append(seq.Content, Encode(s))
	}
	return seq
}

func encodeExpressions(exprs []Expression) *yaml.Node {
	seq := sequence()
	for _, e := range exprs {
		seq.Content = append(seq.Content, Encode(e))
	}
	return seq
}

func mapping() *yaml.Node  { return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"} }
func sequence() *yaml.Node { return &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"} }

func scalar(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

func str(s string) *yaml.Node { return scalar("!!str", s) }

func boolean(b bool) *yaml.Node { return scalar("!!bool", strconv.FormatBool(b)) }

func addPair(m *yaml.Node, key string, value *yaml.Node) {
	m.Content = append(m.Content, str(key), value)
}
