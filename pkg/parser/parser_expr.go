package parser

import (
	"strconv"

	"github.com/leapstack-labs/vela/pkg/token"
)

// parseExpression parses a flat, left-associative binary chain followed by
// any number of call, member and index suffixes:
//
//	expression → primary (binop primary)* suffix*
//
// Every binary operator has the same precedence: 1 + 2 * 3 is (1 + 2) * 3.
func (p *Parser) parseExpression() (Expression, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	for token.IsBinaryOperator(p.peek()) {
		op := p.consume()
		right, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpression{
			exprBase: exprAt(op.Pos),
			Operator: op.Text,
			Left:     left,
			Right:    right,
		}
	}

	return p.parseSuffixes(left)
}

// parseSuffixes applies call, member and index suffixes in a loop so chains
// like a.b[0](x) parse left to right.
func (p *Parser) parseSuffixes(expr Expression) (Expression, error) {
	for {
		tok := p.peek()
		switch {
		case tok.Is(token.Separator, "("):
			p.consume()
			call := &CallExpression{exprBase: exprAt(tok.Pos), Callee: expr}
			err := p.parseList(")", func() error {
				arg, err := p.parseExpression()
				if err != nil {
					return err
				}
				call.Args = append(call.Args, arg)
				return nil
			})
			if err != nil {
				return nil, err
			}
			expr = call

		case tok.Is(token.Separator, "."):
			p.consume()
			name, err := p.expect(token.Identifier, "")
			if err != nil {
				return nil, err
			}
			expr = &MemberExpression{
				exprBase: exprAt(tok.Pos),
				Object:   expr,
				Property: &Literal{exprBase: exprAt(name.Pos), Value: name.Text},
			}

		case tok.Is(token.Separator, "["):
			p.consume()
			index, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.Separator, "]"); err != nil {
				return nil, err
			}
			expr = &MemberExpression{
				exprBase: exprAt(tok.Pos),
				Object:   expr,
				Property: index,
				Computed: true,
			}

		default:
			return expr, nil
		}
	}
}

// parsePrimary parses an object literal, array literal, number, string or
// identifier. There are no unary operators and no parenthesized groups.
func (p *Parser) parsePrimary() (Expression, error) {
	tok := p.peek()

	switch {
	case tok.Is(token.Separator, "{"):
		return p.parseObject()
	case tok.Is(token.Separator, "["):
		return p.parseArray()
	case tok.Kind == token.Number:
		p.consume()
		n, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil {
			return nil, p.errorf(tok, ErrMalformedNumber, tok.Text)
		}
		return &Literal{exprBase: exprAt(tok.Pos), Value: n}, nil
	case tok.Kind == token.String:
		p.consume()
		return &Literal{exprBase: exprAt(tok.Pos), Value: tok.Text}, nil
	case tok.Kind == token.Identifier:
		p.consume()
		return &Identifier{exprBase: exprAt(tok.Pos), Name: tok.Text}, nil
	}

	return nil, p.errorf(tok, ErrUnexpectedExpression, tok)
}

// parseObject parses "{" [IDENT ":" expression ("," ...)*] "}".
func (p *Parser) parseObject() (*ObjectExpression, error) {
	open := p.consume()
	obj := &ObjectExpression{exprBase: exprAt(open.Pos)}

	err := p.parseList("}", func() error {
		key, err := p.expect(token.Identifier, "")
		if err != nil {
			return err
		}
		if _, err := p.expect(token.Separator, ":"); err != nil {
			return err
		}
		value, err := p.parseExpression()
		if err != nil {
			return err
		}
		obj.Properties = append(obj.Properties, Property{Key: key.Text, Value: value})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return obj, nil
}

// parseArray parses "[" [expression ("," expression)*] "]".
func (p *Parser) parseArray() (*ArrayExpression, error) {
	open := p.consume()
	arr := &ArrayExpression{exprBase: exprAt(open.Pos)}

	err := p.parseList("]", func() error {
		elem, err := p.parseExpression()
		if err != nil {
			return err
		}
		arr.Elements = append(arr.Elements, elem)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return arr, nil
}

// parseList parses comma-separated items up to and including the closing
// separator. The opening separator has already been consumed.
func (p *Parser) parseList(closing string, item func() error) error {
	if p.match(token.Separator, closing) {
		return nil
	}
	for {
		if err := item(); err != nil {
			return err
		}
		if p.match(token.Separator, ",") {
			continue
		}
		_, err := p.expect(token.Separator, closing)
		return err
	}
}
