package script

// Node is any syntax tree node
type Node interface {
	Pos() int
}

// Stmt is a statement node
type Stmt interface {
	Node
	stmt()
}

// Expr is an expression node
type Expr interface {
	Node
	expr()
}

// Program is a parsed script
type Program struct {
	Body []Stmt
}

type (
	// AssignStmt binds Name, optionally combining with the old value via Op
	// ("+" for +=, "-" for -=)
	AssignStmt struct {
		Line  int
		Name  string
		Op    string
		Value Expr
	}

	// ExprStmt evaluates an expression for its effect
	ExprStmt struct {
		Line int
		X    Expr
	}

	// IfStmt chains condition/body pairs with an optional else body
	IfStmt struct {
		Line     int
		Branches []CondBranch
		Else     []Stmt
	}

	// WhileStmt loops while Cond is truthy
	WhileStmt struct {
		Line int
		Cond Expr
		Body []Stmt
	}

	// RepeatStmt runs Body Count times
	RepeatStmt struct {
		Line  int
		Count Expr
		Body  []Stmt
	}

	// BreakStmt leaves the innermost loop
	BreakStmt struct{ Line int }

	// ContinueStmt skips to the next loop iteration
	ContinueStmt struct{ Line int }
)

// CondBranch is one if / else if arm
type CondBranch struct {
	Cond Expr
	Body []Stmt
}

func (s *AssignStmt) Pos() int   { return s.Line }
func (s *ExprStmt) Pos() int     { return s.Line }
func (s *IfStmt) Pos() int       { return s.Line }
func (s *WhileStmt) Pos() int    { return s.Line }
func (s *RepeatStmt) Pos() int   { return s.Line }
func (s *BreakStmt) Pos() int    { return s.Line }
func (s *ContinueStmt) Pos() int { return s.Line }

func (*AssignStmt) stmt()   {}
func (*ExprStmt) stmt()     {}
func (*IfStmt) stmt()       {}
func (*WhileStmt) stmt()    {}
func (*RepeatStmt) stmt()   {}
func (*BreakStmt) stmt()    {}
func (*ContinueStmt) stmt() {}

type (
	// Literal is a constant none, bool, number or plain string
	Literal struct {
		Line  int
		Value Value
	}

	// StringExpr is a string literal containing ${name} references
	StringExpr struct {
		Line  int
		Parts []strPart
	}

	// Ident reads a variable
	Ident struct {
		Line int
		Name string
	}

	// UnaryExpr applies "-" or "!"
	UnaryExpr struct {
		Line int
		Op   string
		X    Expr
	}

	// BinaryExpr applies an arithmetic, comparison or logical operator
	BinaryExpr struct {
		Line int
		Op   string
		X, Y Expr
	}

	// CallExpr invokes a builtin by name
	CallExpr struct {
		Line int
		Name string
		Args []Expr
	}

	// MemberExpr reads a named field such as match.x
	MemberExpr struct {
		Line int
		X    Expr
		Name string
	}

	// IndexExpr reads match[0] or a character of a string
	IndexExpr struct {
		Line  int
		X     Expr
		Index Expr
	}
)

func (e *Literal) Pos() int    { return e.Line }
func (e *StringExpr) Pos() int { return e.Line }
func (e *Ident) Pos() int      { return e.Line }
func (e *UnaryExpr) Pos() int  { return e.Line }
func (e *BinaryExpr) Pos() int { return e.Line }
func (e *CallExpr) Pos() int   { return e.Line }
func (e *MemberExpr) Pos() int { return e.Line }
func (e *IndexExpr) Pos() int  { return e.Line }

func (*Literal) expr()    {}
func (*StringExpr) expr() {}
func (*Ident) expr()      {}
func (*UnaryExpr) expr()  {}
func (*BinaryExpr) expr() {}
func (*CallExpr) expr()   {}
func (*MemberExpr) expr() {}
func (*IndexExpr) expr()  {}

// Walk visits every node depth-first, stopping a branch when fn returns false
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	switch n := n.(type) {
	case *AssignStmt:
		Walk(n.Value, fn)
	case *ExprStmt:
		Walk(n.X, fn)
	case *IfStmt:
		for _, b := range n.Branches {
			Walk(b.Cond, fn)
			walkList(b.Body, fn)
		}
		walkList(n.Else, fn)
	case *WhileStmt:
		Walk(n.Cond, fn)
		walkList(n.Body, fn)
	case *RepeatStmt:
		Walk(n.Count, fn)
		walkList(n.Body, fn)
	case *UnaryExpr:
		Walk(n.X, fn)
	case *BinaryExpr:
		Walk(n.X, fn)
		Walk(n.Y, fn)
	case *CallExpr:
		for _, a := range n.Args {
			Walk(a, fn)
		}
	case *MemberExpr:
		Walk(n.X, fn)
	case *IndexExpr:
		Walk(n.X, fn)
		Walk(n.Index, fn)
	}
}

func walkList(body []Stmt, fn func(Node) bool) {
	for _, s := range body {
		Walk(s, fn)
	}
}
