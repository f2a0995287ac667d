package script

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// TokenKind classifies a lexical token
type TokenKind int

const (
	TokEOF TokenKind = iota
	TokNewline
	TokIdent
	TokNumber
	TokString
	TokKeyword
	TokOp
	TokLParen
	TokRParen
	TokLBrace
	TokRBrace
	TokLBracket
	TokRBracket
	TokComma
	TokDot
)

// String returns a human-readable representation of the TokenKind
func (k TokenKind) String() string {
	switch k {
	case TokEOF:
		return "end of script"
	case TokNewline:
		return "newline"
	case TokIdent:
		return "identifier"
	case TokNumber:
		return "number"
	case TokString:
		return "string"
	case TokKeyword:
		return "keyword"
	case TokOp:
		return "operator"
	case TokLParen:
		return "'('"
	case TokRParen:
		return "')'"
	case TokLBrace:
		return "'{'"
	case TokRBrace:
		return "'}'"
	case TokLBracket:
		return "'['"
	case TokRBracket:
		return "']'"
	case TokComma:
		return "','"
	case TokDot:
		return "'.'"
	default:
		return "unknown"
	}
}

var keywords = map[string]bool{
	"if": true, "else": true, "while": true, "repeat": true,
	"break": true, "continue": true,
	"true": true, "false": true, "none": true,
	"and": true, "or": true, "not": true,
}

// strPart is a literal run or a ${name} reference inside a string literal
type strPart struct {
	text  string
	ident bool
}

// Token is one lexical token with its source line
type Token struct {
	Kind  TokenKind
	Text  string
	Num   float64
	Parts []strPart
	Line  int
}

func (t Token) describe() string {
	switch t.Kind {
	case TokIdent, TokKeyword, TokOp, TokNumber:
		return fmt.Sprintf("%s %q", t.Kind, t.Text)
	default:
		return t.Kind.String()
	}
}

type lexer struct {
	src    []rune
	pos    int
	line   int
	tokens []Token
	depth  int // open ( and [ suppress newlines
}

// Lex splits source into tokens. Newlines inside parentheses or brackets are
// dropped so calls may span lines.
func Lex(source string) ([]Token, error) {
	lx := &lexer{src: []rune(source), line: 1}
	if err := lx.run(); err != nil {
		return nil, err
	}
	return lx.tokens, nil
}

func (lx *lexer) emit(kind TokenKind, text string) {
	lx.tokens = append(lx.tokens, Token{Kind: kind, Text: text, Line: lx.line})
}

func (lx *lexer) peek(off int) rune {
	if lx.pos+off >= len(lx.src) {
		return 0
	}
	return lx.src[lx.pos+off]
}

func (lx *lexer) errorf(format string, args ...any) error {
	return &ScriptError{Message: fmt.Sprintf(format, args...), Line: lx.line}
}

func (lx *lexer) run() error {
	for lx.pos < len(lx.src) {
		c := lx.src[lx.pos]
		switch {
		case c == '\n':
			if lx.depth == 0 {
				lx.emit(TokNewline, "\n")
			}
			lx.line++
			lx.pos++
		case c == ';':
			lx.emit(TokNewline, ";")
			lx.pos++
		case c == ' ' || c == '\t' || c == '\r':
			lx.pos++
		case c == '#':
			for lx.pos < len(lx.src) && lx.src[lx.pos] != '\n' {
				lx.pos++
			}
		case c == '"' || c == '\'':
			if err := lx.lexString(c); err != nil {
				return err
			}
		case unicode.IsDigit(c) || (c == '.' && unicode.IsDigit(lx.peek(1))):
			if err := lx.lexNumber(); err != nil {
				return err
			}
		case c == '_' || unicode.IsLetter(c):
			start := lx.pos
			for lx.pos < len(lx.src) && (lx.src[lx.pos] == '_' || unicode.IsLetter(lx.src[lx.pos]) || unicode.IsDigit(lx.src[lx.pos])) {
				lx.pos++
			}
			word := string(lx.src[start:lx.pos])
			if keywords[word] {
				lx.emit(TokKeyword, word)
			} else {
				lx.emit(TokIdent, word)
			}
		default:
			if err := lx.lexPunct(c); err != nil {
				return err
			}
		}
	}
	lx.emit(TokNewline, "")
	lx.emit(TokEOF, "")
	return nil
}

func (lx *lexer) lexPunct(c rune) error {
	two := string(c) + string(lx.peek(1))
	switch two {
	case "==", "!=", "<=", ">=", "&&", "||", "+=", "-=":
		lx.emit(TokOp, two)
		lx.pos += 2
		return nil
	}

	switch c {
	case '(':
		lx.depth++
		lx.emit(TokLParen, "(")
	case ')':
		lx.depth--
		lx.emit(TokRParen, ")")
	case '[':
		lx.depth++
		lx.emit(TokLBracket, "[")
	case ']':
		lx.depth--
		lx.emit(TokRBracket, "]")
	case '{':
		lx.emit(TokLBrace, "{")
	case '}':
		lx.emit(TokRBrace, "}")
	case ',':
		lx.emit(TokComma, ",")
	case '.':
		lx.emit(TokDot, ".")
	case '+', '-', '*', '/', '%', '<', '>', '=', '!':
		lx.emit(TokOp, string(c))
	default:
		return lx.errorf("unexpected character %q", c)
	}
	if lx.depth < 0 {
		lx.depth = 0
	}
	lx.pos++
	return nil
}

func (lx *lexer) lexNumber() error {
	start := lx.pos
	for lx.pos < len(lx.src) && (unicode.IsDigit(lx.src[lx.pos]) || lx.src[lx.pos] == '.' || lx.src[lx.pos] == '_') {
		lx.pos++
	}
	text := string(lx.src[start:lx.pos])
	n, err := strconv.ParseFloat(strings.ReplaceAll(text, "_", ""), 64)
	if err != nil {
		return lx.errorf("invalid number %q", text)
	}
	lx.tokens = append(lx.tokens, Token{Kind: TokNumber, Text: text, Num: n, Line: lx.line})
	return nil
}

// lexString reads a quoted literal. Supported escapes are \n \t \\ \" \' and
// \$; ${name} interpolates a variable.
func (lx *lexer) lexString(quote rune) error {
	line := lx.line
	lx.pos++

	var parts []strPart
	var buf strings.Builder
	flush := func() {
		if buf.Len() > 0 {
			parts = append(parts, strPart{text: buf.String()})
			buf.Reset()
		}
	}

	for {
		if lx.pos >= len(lx.src) || lx.src[lx.pos] == '\n' {
			return &ScriptError{Message: "unterminated string", Line: line}
		}
		c := lx.src[lx.pos]
		switch {
		case c == quote:
			lx.pos++
			flush()
			lx.tokens = append(lx.tokens, Token{Kind: TokString, Parts: parts, Line: line})
			return nil

		case c == '\\':
			next := lx.peek(1)
			switch next {
			case 'n':
				buf.WriteRune('\n')
			case 't':
				buf.WriteRune('\t')
			case '\\', '"', '\'', '$':
				buf.WriteRune(next)
			default:
				return lx.errorf("unknown escape \\%c", next)
			}
			lx.pos += 2

		case c == '$' && lx.peek(1) == '{':
			end := lx.pos + 2
			for end < len(lx.src) && lx.src[end] != '}' && lx.src[end] != '\n' {
				end++
			}
			if end >= len(lx.src) || lx.src[end] != '}' {
				return lx.errorf("unterminated ${ in string")
			}
			name := strings.TrimSpace(string(lx.src[lx.pos+2 : end]))
			if !isIdentifier(name) {
				return lx.errorf("invalid variable name %q in string", name)
			}
			flush()
			parts = append(parts, strPart{text: name, ident: true})
			lx.pos = end + 1

		default:
			buf.WriteRune(c)
			lx.pos++
		}
	}
}

func isIdentifier(name string) bool {
	if name == "" || keywords[name] {
		return false
	}
	for i, r := range name {
		if r == '_' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r)) {
			continue
		}
		return false
	}
	return true
}
