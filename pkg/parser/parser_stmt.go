package parser

import (
	"github.com/leapstack-labs/vela/pkg/token"
)

// parseStatement dispatches on a leading keyword, falling back to an
// expression statement.
func (p *Parser) parseStatement() (Statement, error) {
	tok := p.peek()

	if tok.Kind == token.Keyword {
		switch tok.Text {
		case token.Var, token.Val:
			return p.parseVariableDeclaration()
		case token.Fun, token.Function:
			return p.parseFunctionDeclaration()
		case token.If:
			return p.parseIfStatement()
		case token.Return:
			return p.parseReturnStatement()
		default:
			// else, while, for, async, await
			return nil, p.errorf(tok, ErrUnexpectedToken, tok)
		}
	}

	return p.parseExpressionStatement()
}

// parseVariableDeclaration parses:
//
//	("var"|"val") IDENT [":" IDENT] "=" expression ";"
func (p *Parser) parseVariableDeclaration() (*VariableDeclaration, error) {
	kw := p.consume()
	decl := &VariableDeclaration{
		stmtBase: stmtAt(kw.Pos),
		Constant: kw.Text == token.Val,
	}

	name, err := p.expect(token.Identifier, "")
	if err != nil {
		return nil, err
	}
	decl.Name = name.Text

	if decl.Type, err = p.parseTypeAnnotation(); err != nil {
		return nil, err
	}

	if _, err := p.expect(token.Operator, "="); err != nil {
		return nil, err
	}

	if decl.Init, err = p.parseExpression(); err != nil {
		return nil, err
	}

	if _, err := p.expect(token.Separator, ";"); err != nil {
		return nil, err
	}
	return decl, nil
}

// parseFunctionDeclaration parses:
//
//	("fun"|"function") IDENT "(" [param ("," param)*] ")" [":" IDENT] block
func (p *Parser) parseFunctionDeclaration() (*FunctionDeclaration, error) {
	kw := p.consume()
	decl := &FunctionDeclaration{stmtBase: stmtAt(kw.Pos)}

	name, err := p.expect(token.Identifier, "")
	if err != nil {
		return nil, err
	}
	decl.Name = name.Text

	if _, err := p.expect(token.Separator, "("); err != nil {
		return nil, err
	}
	err = p.parseList(")", func() error {
		param, err := p.expect(token.Identifier, "")
		if err != nil {
			return err
		}
		typ, err := p.parseTypeAnnotation()
		if err != nil {
			return err
		}
		decl.Params = append(decl.Params, Param{Name: param.Text, Type: typ})
		return nil
	})
	if err != nil {
		return nil, err
	}

	if decl.ReturnType, err = p.parseTypeAnnotation(); err != nil {
		return nil, err
	}

	if decl.Body, err = p.parseBlock(); err != nil {
		return nil, err
	}
	return decl, nil
}

// parseIfStatement parses:
//
//	"if" "(" expression ")" block ["else" block]
//
// There is no else-if form; chains nest an if inside the else block.
func (p *Parser) parseIfStatement() (*IfStatement, error) {
	kw := p.consume()
	stmt := &IfStatement{stmtBase: stmtAt(kw.Pos)}

	if _, err := p.expect(token.Separator, "("); err != nil {
		return nil, err
	}
	var err error
	if stmt.Test, err = p.parseExpression(); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Separator, ")"); err != nil {
		return nil, err
	}

	if stmt.Consequent, err = p.parseBlock(); err != nil {
		return nil, err
	}

	if p.match(token.Keyword, token.Else) {
		if stmt.Alternate, err = p.parseBlock(); err != nil {
			return nil, err
		}
		if stmt.Alternate == nil {
			stmt.Alternate = []Statement{}
		}
	}
	return stmt, nil
}

// parseReturnStatement parses:
//
//	"return" [expression] ";"
func (p *Parser) parseReturnStatement() (*ReturnStatement, error) {
	kw := p.consume()
	stmt := &ReturnStatement{stmtBase: stmtAt(kw.Pos)}

	if !p.check(token.Separator, ";") {
		value, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		stmt.Value = value
	}

	if _, err := p.expect(token.Separator, ";"); err != nil {
		return nil, err
	}
	return stmt, nil
}

// parseExpressionStatement parses an expression, turning `IDENT = expr` into
// an assignment, followed by a mandatory ";".
func (p *Parser) parseExpressionStatement() (*ExpressionStatement, error) {
	start := p.peek()
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	if ident, ok := expr.(*Identifier); ok && p.check(token.Operator, "=") {
		eq := p.consume()
		value, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		expr = &AssignmentExpression{exprBase: exprAt(eq.Pos), Target: ident, Value: value}
	}

	if _, err := p.expect(token.Separator, ";"); err != nil {
		return nil, err
	}
	return &ExpressionStatement{stmtBase: stmtAt(start.Pos), Expr: expr}, nil
}

// parseBlock parses "{" statement* "}".
func (p *Parser) parseBlock() ([]Statement, error) {
	if _, err := p.expect(token.Separator, "{"); err != nil {
		return nil, err
	}

	var body []Statement
	for !p.check(token.Separator, "}") {
		if p.peek().Kind == token.EndOfInput {
			_, err := p.expect(token.Separator, "}")
			return nil, err
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		body = append(body, stmt)
	}
	p.consume() // }
	return body, nil
}

// parseTypeAnnotation parses an optional ":" IDENT.
func (p *Parser) parseTypeAnnotation() (string, error) {
	if !p.match(token.Separator, ":") {
		return "", nil
	}
	typ, err := p.expect(token.Identifier, "")
	if err != nil {
		return "", err
	}
	return typ.Text, nil
}
