package ir

import "github.com/MrShadowKiller/c-slang/internal/ctypes"

// StatementP is the closed sum of processed statement nodes (spec §3.3).
type StatementP interface {
	implStatementP()
}

// MemoryStore writes Value, a scalar of type ValueType, to the address Addr
// evaluates to.
type MemoryStore struct {
	Addr      ExpressionP
	Value     ExpressionP
	ValueType ctypes.DataType
}

func (*MemoryStore) implStatementP() {}

// CaseP is one switch arm. Body is the suffix of the switch's flattened
// statement list starting at this case's label, so C fallthrough falls out
// for free: a case's body naturally runs into the next case's statements
// unless a Break JumpStatementP is reached first (spec §4.6).
type CaseP struct {
	Value int64
	Body  []StatementP
}

// SelectionStatementP covers both `if`/`else` and a lowered `switch`
// (spec §4.6: "switch lowers to a selection over integer constant cases").
// When Cases is nil this is a plain if/else over Then/Else; when Cases is
// set, Then is unused and Default holds the default arm's suffix (nil if
// the switch has no default).
type SelectionStatementP struct {
	Cond    ExpressionP
	Then    []StatementP
	Else    []StatementP
	Cases   []CaseP
	Default []StatementP
}

func (*SelectionStatementP) implStatementP() {}

// IterationStatementP covers `while`, `do-while`, and `for`. Init and Post
// are empty for while/do-while. IsDoWhile controls whether Cond is tested
// before or after the first execution of Body.
type IterationStatementP struct {
	Init      []StatementP
	Cond      ExpressionP // nil means "always true" (e.g. `for (;;)`)
	Post      []StatementP
	Body      []StatementP
	IsDoWhile bool
}

func (*IterationStatementP) implStatementP() {}

// JumpKind discriminates break/continue/return.
type JumpKind int

const (
	JumpBreak JumpKind = iota
	JumpContinue
	JumpReturn
)

// JumpStatementP is break, continue, or return (with an optional value).
type JumpStatementP struct {
	Kind  JumpKind
	Value *ExpressionWrapperP // non-nil only for a value-returning JumpReturn
}

func (*JumpStatementP) implStatementP() {}

// FunctionCallP is a function call used in statement position (spec §3.3).
// It is also how a call nested inside a larger expression is lowered: the
// Expression Processor emits the FunctionCallP into the enclosing
// statement list first, then represents the call's value as MemoryLoads
// from ReturnAreaOffset (spec §4.5's "subsequent set of loads from the
// return area").
type FunctionCallP struct {
	Callee          ExpressionP // decays to pointer-to-function
	Args            []ExpressionP
	ReturnType      ctypes.DataType
	ReturnAreaOffset int // local-frame offset the return value is written to; unused for a void call
}

func (*FunctionCallP) implStatementP() {}
