package ast

import "go/token"

// BadStmt is a placeholder for a statement the front end could not convert.
type BadStmt struct {
	From Position
}

func (s *BadStmt) stmtNode()     {}
func (s *BadStmt) Pos() Position { return s.From }

// DeclStmt is a const, type or var declaration inside a function body.
type DeclStmt struct {
	Decl *GenDecl
}

func (s *DeclStmt) stmtNode()     {}
func (s *DeclStmt) Pos() Position { return s.Decl.Pos() }

// EmptyStmt is an explicit or implicit semicolon.
type EmptyStmt struct {
	Semicolon Position
}

func (s *EmptyStmt) stmtNode()     {}
func (s *EmptyStmt) Pos() Position { return s.Semicolon }

// LabeledStmt is a statement preceded by a label.
type LabeledStmt struct {
	Label *Ident
	Stmt  Stmt
}

func (s *LabeledStmt) stmtNode()     {}
func (s *LabeledStmt) Pos() Position { return s.Label.Pos() }

// ExprStmt is an expression evaluated for its side effects.
type ExprStmt struct {
	X Expr
}

func (s *ExprStmt) stmtNode()     {}
func (s *ExprStmt) Pos() Position { return s.X.Pos() }

// SendStmt is a channel send "Chan <- Value".
type SendStmt struct {
	Chan  Expr
	Arrow Position
	Value Expr
}

func (s *SendStmt) stmtNode()     {}
func (s *SendStmt) Pos() Position { return s.Chan.Pos() }

// IncDecStmt is "X++" or "X--".
type IncDecStmt struct {
	X      Expr
	TokPos Position
	Tok    token.Token // token.INC or token.DEC
}

func (s *IncDecStmt) stmtNode()     {}
func (s *IncDecStmt) Pos() Position { return s.X.Pos() }

// AssignStmt is an assignment or a short variable declaration. Tok is
// token.ASSIGN, token.DEFINE or one of the operator assignments such as
// token.ADD_ASSIGN.
type AssignStmt struct {
	Lhs    []Expr
	TokPos Position
	Tok    token.Token
	Rhs    []Expr
}

func (s *AssignStmt) stmtNode()     {}
func (s *AssignStmt) Pos() Position { return s.Lhs[0].Pos() }

// GoStmt is a "go" statement.
type GoStmt struct {
	Go   Position
	Call *CallExpr
}

func (s *GoStmt) stmtNode()     {}
func (s *GoStmt) Pos() Position { return s.Go }

// DeferStmt is a "defer" statement.
type DeferStmt struct {
	Defer Position
	Call  *CallExpr
}

func (s *DeferStmt) stmtNode()     {}
func (s *DeferStmt) Pos() Position { return s.Defer }

// ReturnStmt is a "return" statement.
type ReturnStmt struct {
	Return  Position
	Results []Expr
}

func (s *ReturnStmt) stmtNode()     {}
func (s *ReturnStmt) Pos() Position { return s.Return }

// BranchStmt is a break, continue, goto or fallthrough statement.
type BranchStmt struct {
	TokPos Position
	Tok    token.Token
	Label  *Ident
}

func (s *BranchStmt) stmtNode()     {}
func (s *BranchStmt) Pos() Position { return s.TokPos }

// BlockStmt is a braced statement list.
type BlockStmt struct {
	Lbrace Position
	List   []Stmt
}

func (s *BlockStmt) stmtNode()     {}
func (s *BlockStmt) Pos() Position { return s.Lbrace }

// IfStmt is an "if" statement.
type IfStmt struct {
	If   Position
	Init Stmt
	Cond Expr
	Body *BlockStmt
	Else Stmt // nil, *BlockStmt or *IfStmt
}

func (s *IfStmt) stmtNode()     {}
func (s *IfStmt) Pos() Position { return s.If }

// CaseClause is a case of an expression or type switch.
type CaseClause struct {
	Case Position
	List []Expr // nil for default
	Body []Stmt
}

func (s *CaseClause) stmtNode()     {}
func (s *CaseClause) Pos() Position { return s.Case }

// SwitchStmt is an expression switch.
type SwitchStmt struct {
	Switch Position
	Init   Stmt
	Tag    Expr
	Body   *BlockStmt
}

func (s *SwitchStmt) stmtNode()     {}
func (s *SwitchStmt) Pos() Position { return s.Switch }

// TypeSwitchStmt is a type switch.
type TypeSwitchStmt struct {
	Switch Position
	Init   Stmt
	Assign Stmt // x := y.(type) or y.(type)
	Body   *BlockStmt
}

func (s *TypeSwitchStmt) stmtNode()     {}
func (s *TypeSwitchStmt) Pos() Position { return s.Switch }

// CommClause is a case of a select statement.
type CommClause struct {
	Case Position
	Comm Stmt // nil for default
	Body []Stmt
}

func (s *CommClause) stmtNode()     {}
func (s *CommClause) Pos() Position { return s.Case }

// SelectStmt is a "select" statement.
type SelectStmt struct {
	Select Position
	Body   *BlockStmt
}

func (s *SelectStmt) stmtNode()     {}
func (s *SelectStmt) Pos() Position { return s.Select }

// ForStmt is a "for" loop.
type ForStmt struct {
	For  Position
	Init Stmt
	Cond Expr
	Post Stmt
	Body *BlockStmt
}

func (s *ForStmt) stmtNode()     {}
func (s *ForStmt) Pos() Position { return s.For }

// RangeStmt is a "for ... range" loop.
type RangeStmt struct {
	For   Position
	Key   Expr
	Value Expr
	Tok   token.Token // token.ILLEGAL if Key is nil
	X     Expr
	Body  *BlockStmt
}

func (s *RangeStmt) stmtNode()     {}
func (s *RangeStmt) Pos() Position { return s.For }
