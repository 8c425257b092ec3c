package sema

import (
	"fmt"

	"github.com/MrShadowKiller/c-slang/ast"
	"github.com/MrShadowKiller/c-slang/cerr"
	"github.com/MrShadowKiller/c-slang/internal/consteval"
	"github.com/MrShadowKiller/c-slang/internal/ctypes"
	"github.com/MrShadowKiller/c-slang/ir"
)

// ProcessStatement dispatches one statement node (spec §4.6), attaching the
// node's own position to any error that escapes without one already set.
func (p *Processor) ProcessStatement(s ast.Statement) error {
	if err := p.processStatement(s); err != nil {
		return cerr.At(s.Pos(), err)
	}
	return nil
}

func (p *Processor) processStatement(s ast.Statement) error {
	switch v := s.(type) {
	case *ast.BlockStmt:
		return p.processBlock(v)
	case *ast.ExprStmt:
		return p.processExprStmt(v)
	case *ast.IfStmt:
		return p.processIf(v)
	case *ast.SwitchStmt:
		return p.processSwitch(v)
	case *ast.WhileStmt:
		return p.processWhile(v)
	case *ast.DoWhileStmt:
		return p.processDoWhile(v)
	case *ast.ForStmt:
		return p.processFor(v)
	case *ast.BreakStmt:
		return p.processBreak(v)
	case *ast.ContinueStmt:
		return p.processContinue(v)
	case *ast.ReturnStmt:
		return p.processReturn(v)
	default:
		return fmt.Errorf("sema: unrecognized statement %T", s)
	}
}

// processBlock opens a lexical scope and processes each item in order. A
// block is not itself represented in the IR (ir.StatementP has no block
// node): its items simply append to whichever accumulator is currently
// active, the same one a surrounding if/loop arm captured via withStatements.
func (p *Processor) processBlock(b *ast.BlockStmt) error {
	p.Table.PushScope()
	defer p.Table.PopScope()

	for _, item := range b.Items {
		if item.Decl != nil {
			if err := p.processBlockDeclaration(item.Decl); err != nil {
				return err
			}
			continue
		}
		if err := p.ProcessStatement(item.Stmt); err != nil {
			return err
		}
	}
	return nil
}

// flushExpressionValue emits the store side effect of a bare pre/post
// increment-or-decrement or scalar assignment used as a full statement, whose
// loaded result is otherwise discarded. Every other expression shape already emits
// its side effects (calls, struct assignment, ternary/short-circuit
// lowering) directly via p.emit while it is being processed.
func (p *Processor) flushExpressionValue(wrapper *ir.ExpressionWrapperP) {
	for _, e := range wrapper.Exprs {
		switch ex := e.(type) {
		case *ir.PreStatementExpressionP:
			p.emit(ex.Update)
		case *ir.PostStatementExpressionP:
			p.emit(ex.Update)
		}
	}
}

func (p *Processor) processExprStmt(v *ast.ExprStmt) error {
	if v.Expr == nil {
		return nil
	}
	wrapper, err := p.ProcessExpression(v.Expr)
	if err != nil {
		return err
	}
	p.flushExpressionValue(wrapper)
	return nil
}

func (p *Processor) checkScalarCondition(e ast.Expression) (*ir.ExpressionWrapperP, error) {
	w, err := p.ProcessExpression(e)
	if err != nil {
		return nil, err
	}
	ct := ctypes.Decay(w.OriginalDataType)
	if !ctypes.IsScalar(ct) {
		return nil, cerr.At(e.Pos(), scalarRequiredError(ct))
	}
	return w, nil
}

func (p *Processor) processIf(v *ast.IfStmt) error {
	cond, err := p.checkScalarCondition(v.Cond)
	if err != nil {
		return err
	}

	then, err := p.withStatements(func() error { return p.ProcessStatement(v.Then) })
	if err != nil {
		return err
	}

	var els []ir.StatementP
	if v.Else != nil {
		els, err = p.withStatements(func() error { return p.ProcessStatement(v.Else) })
		if err != nil {
			return err
		}
	}

	p.emit(&ir.SelectionStatementP{Cond: cond.Exprs[0], Then: then, Else: els})
	return nil
}

// processSwitch lowers to a SelectionStatementP over integer constant cases
// (spec §4.6). Every case's statements are processed into one flattened
// statement list so that C fallthrough falls out for free: a CaseP.Body is
// just the suffix of that list starting at the case's label.
func (p *Processor) processSwitch(v *ast.SwitchStmt) error {
	tag, err := p.ProcessExpression(v.Tag)
	if err != nil {
		return err
	}
	tt := ctypes.Decay(tag.OriginalDataType)
	if !isIntegerType(tt) {
		return cerr.At(v.Tag.Pos(), cerr.New(cerr.PhaseStmt, cerr.KindStatement, "switch quantity is not an integer"))
	}
	promoted := ctypes.PromoteInteger(tt)
	tagValue := convertIfNeeded(tag.Exprs[0], tt, promoted)

	p.loopOrSwitchDepth++
	defer func() { p.loopOrSwitchDepth-- }()

	type label struct {
		value     int64
		isDefault bool
		stmtIndex int
	}
	var labels []label
	seen := make(map[int64]bool)
	defaultSeen := false

	flat, err := p.withStatements(func() error {
		for _, c := range v.Cases {
			if c.Expr == nil {
				if defaultSeen {
					return cerr.New(cerr.PhaseStmt, cerr.KindStatement, "multiple default labels in one switch")
				}
				defaultSeen = true
				labels = append(labels, label{isDefault: true, stmtIndex: len(p.stmts)})
			} else {
				cv, err := p.Eval(c.Expr)
				if err != nil || cv.Kind != consteval.KindInt {
					return cerr.At(c.Expr.Pos(), cerr.New(cerr.PhaseStmt, cerr.KindStatement, "case value not an integer constant expression"))
				}
				val := cv.Int.Int64()
				if seen[val] {
					return cerr.At(c.Expr.Pos(), cerr.Newf(cerr.PhaseStmt, cerr.KindStatement, "duplicate case value '%d'", val))
				}
				seen[val] = true
				labels = append(labels, label{value: val, stmtIndex: len(p.stmts)})
			}
			for _, st := range c.Stmts {
				if err := p.ProcessStatement(st); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	var cases []ir.CaseP
	var defaultBody []ir.StatementP
	for _, l := range labels {
		body := flat[l.stmtIndex:]
		if l.isDefault {
			defaultBody = body
		} else {
			cases = append(cases, ir.CaseP{Value: l.value, Body: body})
		}
	}

	p.emit(&ir.SelectionStatementP{Cond: tagValue, Cases: cases, Default: defaultBody})
	return nil
}

func (p *Processor) processWhile(v *ast.WhileStmt) error {
	cond, err := p.checkScalarCondition(v.Cond)
	if err != nil {
		return err
	}

	p.loopDepth++
	p.loopOrSwitchDepth++
	body, err := p.withStatements(func() error { return p.ProcessStatement(v.Body) })
	p.loopDepth--
	p.loopOrSwitchDepth--
	if err != nil {
		return err
	}

	p.emit(&ir.IterationStatementP{Cond: cond.Exprs[0], Body: body})
	return nil
}

func (p *Processor) processDoWhile(v *ast.DoWhileStmt) error {
	p.loopDepth++
	p.loopOrSwitchDepth++
	body, err := p.withStatements(func() error { return p.ProcessStatement(v.Body) })
	p.loopDepth--
	p.loopOrSwitchDepth--
	if err != nil {
		return err
	}

	cond, err := p.checkScalarCondition(v.Cond)
	if err != nil {
		return err
	}

	p.emit(&ir.IterationStatementP{Cond: cond.Exprs[0], Body: body, IsDoWhile: true})
	return nil
}

func (p *Processor) processFor(v *ast.ForStmt) error {
	// The init clause's own scope encloses the condition, post and body, so
	// a declared loop variable (`for (int i = 0; ...)`) is visible to all
	// three and nowhere else.
	p.Table.PushScope()
	defer p.Table.PopScope()

	init, err := p.withStatements(func() error {
		switch {
		case v.InitDecl != nil:
			return p.processBlockDeclaration(v.InitDecl)
		case v.InitExpr != nil:
			wrapper, err := p.ProcessExpression(v.InitExpr)
			if err != nil {
				return err
			}
			p.flushExpressionValue(wrapper)
			return nil
		default:
			return nil
		}
	})
	if err != nil {
		return err
	}

	var cond ir.ExpressionP
	if v.Cond != nil {
		cw, err := p.checkScalarCondition(v.Cond)
		if err != nil {
			return err
		}
		cond = cw.Exprs[0]
	}

	p.loopDepth++
	p.loopOrSwitchDepth++
	body, err := p.withStatements(func() error { return p.ProcessStatement(v.Body) })
	p.loopDepth--
	p.loopOrSwitchDepth--
	if err != nil {
		return err
	}

	var post []ir.StatementP
	if v.Post != nil {
		post, err = p.withStatements(func() error {
			wrapper, err := p.ProcessExpression(v.Post)
			if err != nil {
				return err
			}
			p.flushExpressionValue(wrapper)
			return nil
		})
		if err != nil {
			return err
		}
	}

	p.emit(&ir.IterationStatementP{Init: init, Cond: cond, Post: post, Body: body})
	return nil
}

func (p *Processor) processBreak(v *ast.BreakStmt) error {
	if p.loopOrSwitchDepth == 0 {
		return cerr.New(cerr.PhaseStmt, cerr.KindStatement, "break statement not within a switch or loop body")
	}
	p.emit(&ir.JumpStatementP{Kind: ir.JumpBreak})
	return nil
}

func (p *Processor) processContinue(v *ast.ContinueStmt) error {
	if p.loopDepth == 0 {
		return cerr.New(cerr.PhaseStmt, cerr.KindStatement, "continue statement not within a loop body")
	}
	p.emit(&ir.JumpStatementP{Kind: ir.JumpContinue})
	return nil
}

func (p *Processor) processReturn(v *ast.ReturnStmt) error {
	isVoidFn := p.currentReturnType != nil && p.currentReturnType.Kind() == ctypes.KindVoid

	if v.Value == nil {
		if !isVoidFn {
			return cerr.New(cerr.PhaseStmt, cerr.KindStatement, "non-void function should return a value")
		}
		p.emit(&ir.JumpStatementP{Kind: ir.JumpReturn})
		return nil
	}

	if isVoidFn {
		return cerr.New(cerr.PhaseStmt, cerr.KindStatement, "void function should not return a value")
	}

	wrapper, err := p.ProcessExpression(v.Value)
	if err != nil {
		return err
	}
	rt := ctypes.Decay(wrapper.OriginalDataType)
	isNull := p.IsNullPointerConstant(v.Value)
	if !ctypes.CanAssign(p.currentReturnType, rt, isNull) {
		return cerr.Newf(cerr.PhaseStmt, cerr.KindStatement,
			"incompatible types when returning type '%s' but '%s' was expected",
			rt.String(), p.currentReturnType.String())
	}

	result := wrapper
	if p.currentReturnType.Kind() != ctypes.KindStruct {
		value := convertIfNeeded(wrapper.Exprs[0], rt, p.currentReturnType)
		result = &ir.ExpressionWrapperP{OriginalDataType: p.currentReturnType, Exprs: []ir.ExpressionP{value}}
	}

	p.emit(&ir.JumpStatementP{Kind: ir.JumpReturn, Value: result})
	return nil
}
