package script

import "fmt"

// Parser builds a Program from tokens
type Parser struct {
	tokens []Token
	pos    int
	loops  int
}

// Parse lexes and parses source
func Parse(source string) (*Program, error) {
	tokens, err := Lex(source)
	if err != nil {
		return nil, err
	}
	p := &Parser{tokens: tokens}
	return p.parseProgram()
}

func (p *Parser) cur() Token {
	return p.tokens[p.pos]
}

func (p *Parser) advance() Token {
	t := p.tokens[p.pos]
	if t.Kind != TokEOF {
		p.pos++
	}
	return t
}

func (p *Parser) is(kind TokenKind, text string) bool {
	t := p.cur()
	return t.Kind == kind && (text == "" || t.Text == text)
}

func (p *Parser) accept(kind TokenKind, text string) bool {
	if p.is(kind, text) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) errorf(line int, format string, args ...any) error {
	return &ScriptError{Message: fmt.Sprintf(format, args...), Line: line}
}

func (p *Parser) expect(kind TokenKind, text string) (Token, error) {
	if p.is(kind, text) {
		return p.advance(), nil
	}
	want := kind.String()
	if text != "" {
		want = fmt.Sprintf("%q", text)
	}
	return Token{}, p.errorf(p.cur().Line, "expected %s, found %s", want, p.cur().describe())
}

func (p *Parser) skipNewlines() {
	for p.is(TokNewline, "") {
		p.advance()
	}
}

func (p *Parser) parseProgram() (*Program, error) {
	prog := &Program{}
	for {
		p.skipNewlines()
		if p.is(TokEOF, "") {
			return prog, nil
		}
		if p.is(TokRBrace, "") {
			return nil, p.errorf(p.cur().Line, "unexpected '}'")
		}
		s, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		prog.Body = append(prog.Body, s)
	}
}

// parseBlock reads "{ stmts }"
func (p *Parser) parseBlock() ([]Stmt, error) {
	if _, err := p.expect(TokLBrace, ""); err != nil {
		return nil, err
	}
	var body []Stmt
	for {
		p.skipNewlines()
		if p.accept(TokRBrace, "") {
			return body, nil
		}
		if p.is(TokEOF, "") {
			return nil, p.errorf(p.cur().Line, "missing '}' before end of script")
		}
		s, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		body = append(body, s)
	}
}

// endStmt requires a statement terminator; a closing brace also ends a statement
func (p *Parser) endStmt() error {
	if p.accept(TokNewline, "") || p.is(TokRBrace, "") || p.is(TokEOF, "") {
		return nil
	}
	return p.errorf(p.cur().Line, "unexpected %s after statement", p.cur().describe())
}

func (p *Parser) parseStmt() (Stmt, error) {
	t := p.cur()

	if t.Kind == TokKeyword {
		switch t.Text {
		case "if":
			return p.parseIf()
		case "while":
			p.advance()
			cond, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			body, err := p.parseLoopBody()
			if err != nil {
				return nil, err
			}
			return &WhileStmt{Line: t.Line, Cond: cond, Body: body}, nil
		case "repeat":
			p.advance()
			count, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			body, err := p.parseLoopBody()
			if err != nil {
				return nil, err
			}
			return &RepeatStmt{Line: t.Line, Count: count, Body: body}, nil
		case "break", "continue":
			p.advance()
			if p.loops == 0 {
				return nil, p.errorf(t.Line, "'%s' outside loop", t.Text)
			}
			if err := p.endStmt(); err != nil {
				return nil, err
			}
			if t.Text == "break" {
				return &BreakStmt{Line: t.Line}, nil
			}
			return &ContinueStmt{Line: t.Line}, nil
		case "else":
			return nil, p.errorf(t.Line, "'else' without 'if'")
		}
	}

	if t.Kind == TokIdent {
		next := p.tokens[p.pos+1]
		if next.Kind == TokOp && (next.Text == "=" || next.Text == "+=" || next.Text == "-=") {
			p.advance()
			p.advance()
			value, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if err := p.endStmt(); err != nil {
				return nil, err
			}
			op := ""
			if next.Text != "=" {
				op = next.Text[:1]
			}
			return &AssignStmt{Line: t.Line, Name: t.Text, Op: op, Value: value}, nil
		}
	}

	x, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.endStmt(); err != nil {
		return nil, err
	}
	return &ExprStmt{Line: t.Line, X: x}, nil
}

func (p *Parser) parseLoopBody() ([]Stmt, error) {
	p.loops++
	defer func() { p.loops-- }()
	return p.parseBlock()
}

func (p *Parser) parseIf() (Stmt, error) {
	stmt := &IfStmt{Line: p.advance().Line}
	for {
		cond, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		body, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		stmt.Branches = append(stmt.Branches, CondBranch{Cond: cond, Body: body})

		mark := p.pos
		p.skipNewlines()
		if !p.accept(TokKeyword, "else") {
			p.pos = mark
			break
		}
		if p.accept(TokKeyword, "if") {
			continue
		}
		stmt.Else, err = p.parseBlock()
		if err != nil {
			return nil, err
		}
		break
	}
	return stmt, p.endStmt()
}

// Precedence, loosest first: || && equality comparison additive multiplicative unary postfix
var binaryLevels = [][]string{
	{"||", "or"},
	{"&&", "and"},
	{"==", "!="},
	{"<", "<=", ">", ">="},
	{"+", "-"},
	{"*", "/", "%"},
}

func (p *Parser) parseExpr() (Expr, error) {
	return p.parseBinary(0)
}

func (p *Parser) matchOp(ops []string) (Token, bool) {
	t := p.cur()
	if t.Kind != TokOp && t.Kind != TokKeyword {
		return t, false
	}
	for _, op := range ops {
		if t.Text == op {
			return p.advance(), true
		}
	}
	return t, false
}

func (p *Parser) parseBinary(level int) (Expr, error) {
	if level == len(binaryLevels) {
		return p.parseUnary()
	}
	x, err := p.parseBinary(level + 1)
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.matchOp(binaryLevels[level])
		if !ok {
			return x, nil
		}
		y, err := p.parseBinary(level + 1)
		if err != nil {
			return nil, err
		}
		name := op.Text
		switch name {
		case "or":
			name = "||"
		case "and":
			name = "&&"
		}
		x = &BinaryExpr{Line: op.Line, Op: name, X: x, Y: y}
	}
}

func (p *Parser) parseUnary() (Expr, error) {
	if op, ok := p.matchOp([]string{"-", "!", "not"}); ok {
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		name := op.Text
		if name == "not" {
			name = "!"
		}
		return &UnaryExpr{Line: op.Line, Op: name, X: x}, nil
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() (Expr, error) {
	x, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.is(TokDot, ""):
			p.advance()
			name, err := p.expect(TokIdent, "")
			if err != nil {
				return nil, err
			}
			x = &MemberExpr{Line: name.Line, X: x, Name: name.Text}
		case p.is(TokLBracket, ""):
			line := p.advance().Line
			idx, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(TokRBracket, ""); err != nil {
				return nil, err
			}
			x = &IndexExpr{Line: line, X: x, Index: idx}
		default:
			return x, nil
		}
	}
}

func (p *Parser) parsePrimary() (Expr, error) {
	t := p.cur()
	switch t.Kind {
	case TokNumber:
		p.advance()
		return &Literal{Line: t.Line, Value: t.Num}, nil

	case TokString:
		p.advance()
		if len(t.Parts) == 0 {
			return &Literal{Line: t.Line, Value: ""}, nil
		}
		if len(t.Parts) == 1 && !t.Parts[0].ident {
			return &Literal{Line: t.Line, Value: t.Parts[0].text}, nil
		}
		return &StringExpr{Line: t.Line, Parts: t.Parts}, nil

	case TokKeyword:
		switch t.Text {
		case "true", "false":
			p.advance()
			return &Literal{Line: t.Line, Value: t.Text == "true"}, nil
		case "none":
			p.advance()
			return &Literal{Line: t.Line, Value: nil}, nil
		}

	case TokIdent:
		p.advance()
		if !p.is(TokLParen, "") {
			return &Ident{Line: t.Line, Name: t.Text}, nil
		}
		p.advance()
		call := &CallExpr{Line: t.Line, Name: t.Text}
		if p.accept(TokRParen, "") {
			return call, nil
		}
		for {
			arg, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			call.Args = append(call.Args, arg)
			if p.accept(TokRParen, "") {
				return call, nil
			}
			if _, err := p.expect(TokComma, ""); err != nil {
				return nil, err
			}
		}

	case TokLParen:
		p.advance()
		x, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokRParen, ""); err != nil {
			return nil, err
		}
		return x, nil
	}

	if t.Kind == TokNewline || t.Kind == TokEOF {
		return nil, p.errorf(t.Line, "unexpected end of line, expected an expression")
	}
	return nil, p.errorf(t.Line, "unexpected %s", t.describe())
}
