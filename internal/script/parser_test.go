package script

import (
	"errors"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLexTracksLinesAndSkipsComments(t *testing.T) {
	tokens, err := Lex("# header\nx = 1 # trailing\nprint(\n  x,\n  'a'\n)\n")
	require.NoError(t, err)

	var kinds []TokenKind
	var lines []int
	for _, tok := range tokens {
		if tok.Kind == TokNewline {
			continue
		}
		kinds = append(kinds, tok.Kind)
		lines = append(lines, tok.Line)
	}
	assert.Equal(t, []TokenKind{
		TokIdent, TokOp, TokNumber,
		TokIdent, TokLParen, TokIdent, TokComma, TokString, TokRParen,
		TokEOF,
	}, kinds)
	assert.Equal(t, []int{2, 2, 2, 3, 3, 4, 4, 5, 6, 7}, lines)
}

func TestLexStringInterpolationAndEscapes(t *testing.T) {
	tokens, err := Lex(`"a\t${name}\$x\"q"`)
	require.NoError(t, err)
	require.Equal(t, TokString, tokens[0].Kind)
	assert.Equal(t, []strPart{
		{text: "a\t"},
		{text: "name", ident: true},
		{text: "$x\"q"},
	}, tokens[0].Parts)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		line int
	}{
		{"unterminated string", "x = 1\nprint(\"abc)\n", 2},
		{"missing brace", "if true {\n  print(1)\n", 3},
		{"stray else", "x = 1\nelse { }\n", 2},
		{"break outside loop", "break\n", 1},
		{"dangling operator", "x = 1 +\n", 1},
		{"bad character", "x = 1 @ 2", 1},
		{"two expressions", "print(1) print(2)", 1},
		{"unclosed interpolation", `print("${x")`, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.src)
			require.Error(t, err)
			var se *ScriptError
			require.True(t, errors.As(err, &se), "got %T", err)
			assert.Equal(t, tt.line, se.Line, se.Message)
		})
	}
}

func TestParseStatementShapes(t *testing.T) {
	src := `
target = waitForImage("ok.png", 0.9, 5)
if target != none {
    clickOnImage(target, "right", true)
} else if cancelled() {
    print("stopping")
}
else {
    n += 1
}
repeat 3 { continue }
while !cancelled() && n < 10 { break }
`
	prog, err := Parse(src)
	require.NoError(t, err)
	require.Len(t, prog.Body, 4)

	assign, ok := prog.Body[0].(*AssignStmt)
	require.True(t, ok)
	assert.Equal(t, "target", assign.Name)
	call := assign.Value.(*CallExpr)
	assert.Len(t, call.Args, 3)

	ifs := prog.Body[1].(*IfStmt)
	assert.Len(t, ifs.Branches, 2)
	require.Len(t, ifs.Else, 1)
	assert.Equal(t, "+", ifs.Else[0].(*AssignStmt).Op)

	_, ok = prog.Body[2].(*RepeatStmt)
	assert.True(t, ok)
	w := prog.Body[3].(*WhileStmt)
	assert.Equal(t, "&&", w.Cond.(*BinaryExpr).Op)
	assert.Equal(t, 12, w.Line)
}

func TestParsePrecedence(t *testing.T) {
	prog, err := Parse("x = 1 + 2 * 3 == 7 or false")
	require.NoError(t, err)

	or := prog.Body[0].(*AssignStmt).Value.(*BinaryExpr)
	assert.Equal(t, "||", or.Op)
	eq := or.X.(*BinaryExpr)
	assert.Equal(t, "==", eq.Op)
	add := eq.X.(*BinaryExpr)
	assert.Equal(t, "+", add.Op)
	assert.Equal(t, "*", add.Y.(*BinaryExpr).Op)
}

func TestCheck(t *testing.T) {
	res := Check("m = detectImage('a.png')\nclickOnImage(m)\nprint(missing)\nfoo(1)\nsleep()\n")
	assert.False(t, res.Valid)
	require.Len(t, res.Errors, 2)
	assert.Equal(t, 4, res.Errors[0].LineNumber)
	assert.Contains(t, res.Errors[0].Message, "unknown function")
	assert.NotEmpty(t, res.Errors[0].Suggestion)
	assert.Equal(t, 5, res.Errors[1].LineNumber)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0].Message, "missing")
	assert.Equal(t, []string{"m"}, res.Variables)
	assert.Equal(t, []string{"clickOnImage", "detectImage", "foo", "print", "sleep"}, res.Calls)

	ok := Check("print('hi')")
	assert.True(t, ok.Valid)

	bad := Check("print(")
	assert.False(t, bad.Valid)
	assert.Equal(t, 1, bad.Errors[0].LineNumber)
}

func TestBuiltinsListsUsageSortedByName(t *testing.T) {
	usages := Builtins()
	require.NotEmpty(t, usages)
	assert.Contains(t, usages, "waitForImage(path[, confidence[, timeout[, interval]]])")
	assert.Contains(t, usages, "clickOnImage(target[, button[, double]])")
	assert.True(t, sort.StringsAreSorted(usages))
}
