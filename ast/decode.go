package ast

import (
	"encoding/json"
	"fmt"
)

// UnmarshalJSON reconstructs a Root from the CLI's AST interchange format
// (spec §6: standing in for the out-of-scope tokenizer/parser's output).
// Every polymorphic field (TopLevel, TypeSpec, Expression, Statement,
// Initializer) carries a "kind" string naming the concrete Go type, so
// decoding it is the same closed-sum dispatch this package's own
// processing code performs with type switches — just keyed by string
// instead of by Go type.
func (r *Root) UnmarshalJSON(data []byte) error {
	var wire struct {
		IncludedModules []ModuleName
		Children        []json.RawMessage
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	r.IncludedModules = wire.IncludedModules
	r.Children = make([]TopLevel, len(wire.Children))
	for i, raw := range wire.Children {
		tl, err := decodeTopLevel(raw)
		if err != nil {
			return fmt.Errorf("ast: children[%d]: %w", i, err)
		}
		r.Children[i] = tl
	}
	return nil
}

func kindOf(raw json.RawMessage) (string, error) {
	// Looked up by exact key: encoding/json matches struct fields
	// case-insensitively, which would confuse "kind" with a node's own
	// "Kind" field (PrimaryTypeSpec's).
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return "", err
	}
	var kind string
	if v, ok := fields["kind"]; ok {
		if err := json.Unmarshal(v, &kind); err != nil {
			return "", err
		}
	}
	if kind == "" {
		return "", fmt.Errorf(`ast: node missing "kind" discriminator: %s`, raw)
	}
	return kind, nil
}

func decodeTopLevel(raw json.RawMessage) (TopLevel, error) {
	kind, err := kindOf(raw)
	if err != nil {
		return nil, err
	}
	switch kind {
	case "Declaration":
		var w struct {
			Storage     StorageClass
			Declarators []json.RawMessage
			Position    Position
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, err
		}
		decls := make([]Declarator, len(w.Declarators))
		for i, d := range w.Declarators {
			dd, err := decodeDeclarator(d)
			if err != nil {
				return nil, err
			}
			decls[i] = dd
		}
		return &Declaration{Storage: w.Storage, Declarators: decls, Position: w.Position}, nil

	case "EnumDeclaration":
		var w struct {
			Tag      string
			Members  []json.RawMessage
			Position Position
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, err
		}
		members := make([]EnumMember, len(w.Members))
		for i, m := range w.Members {
			var mw struct {
				Name  string
				Value json.RawMessage
			}
			if err := json.Unmarshal(m, &mw); err != nil {
				return nil, err
			}
			val, err := decodeOptionalExpression(mw.Value)
			if err != nil {
				return nil, err
			}
			members[i] = EnumMember{Name: mw.Name, Value: val}
		}
		return &EnumDeclaration{Tag: w.Tag, Members: members, Position: w.Position}, nil

	case "FunctionDefinition":
		var w struct {
			Name       string
			ReturnType json.RawMessage
			Params     []json.RawMessage
			Body       []json.RawMessage
			Position   Position
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, err
		}
		ret, err := decodeTypeSpec(w.ReturnType)
		if err != nil {
			return nil, err
		}
		params := make([]Param, len(w.Params))
		for i, pr := range w.Params {
			p, err := decodeParam(pr)
			if err != nil {
				return nil, err
			}
			params[i] = p
		}
		body := make([]Statement, len(w.Body))
		for i, s := range w.Body {
			st, err := decodeStatement(s)
			if err != nil {
				return nil, err
			}
			body[i] = st
		}
		return &FunctionDefinition{Name: w.Name, ReturnType: ret, Params: params, Body: body, Position: w.Position}, nil

	default:
		return nil, fmt.Errorf("ast: unrecognized top-level kind %q", kind)
	}
}

func decodeDeclarator(raw json.RawMessage) (Declarator, error) {
	var w struct {
		Name        string
		Type        json.RawMessage
		Initializer json.RawMessage
		Position    Position
	}
	if err := json.Unmarshal(raw, &w); err != nil {
		return Declarator{}, err
	}
	t, err := decodeTypeSpec(w.Type)
	if err != nil {
		return Declarator{}, err
	}
	init, err := decodeOptionalInitializer(w.Initializer)
	if err != nil {
		return Declarator{}, err
	}
	return Declarator{Name: w.Name, Type: t, Initializer: init, Position: w.Position}, nil
}

func decodeParam(raw json.RawMessage) (Param, error) {
	var w struct {
		Name string
		Type json.RawMessage
	}
	if err := json.Unmarshal(raw, &w); err != nil {
		return Param{}, err
	}
	t, err := decodeTypeSpec(w.Type)
	if err != nil {
		return Param{}, err
	}
	return Param{Name: w.Name, Type: t}, nil
}

func decodeTypeSpec(raw json.RawMessage) (TypeSpec, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	kind, err := kindOf(raw)
	if err != nil {
		return nil, err
	}
	switch kind {
	case "Primary":
		var w struct{ IsConst bool }
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, err
		}
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(raw, &fields); err != nil {
			return nil, err
		}
		var pk PrimaryKind
		if v, ok := fields["Kind"]; ok {
			if err := json.Unmarshal(v, &pk); err != nil {
				return nil, err
			}
		}
		return &PrimaryTypeSpec{Kind: pk, IsConst: w.IsConst}, nil

	case "Pointer":
		var w struct {
			Pointee json.RawMessage
			IsConst bool
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, err
		}
		pointee, err := decodeTypeSpec(w.Pointee)
		if err != nil {
			return nil, err
		}
		return &PointerTypeSpec{Pointee: pointee, IsConst: w.IsConst}, nil

	case "Array":
		var w struct {
			Element     json.RawMessage
			NumElements json.RawMessage
			IsConst     bool
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, err
		}
		elem, err := decodeTypeSpec(w.Element)
		if err != nil {
			return nil, err
		}
		n, err := decodeOptionalExpression(w.NumElements)
		if err != nil {
			return nil, err
		}
		return &ArrayTypeSpec{Element: elem, NumElements: n, IsConst: w.IsConst}, nil

	case "StructSelf":
		return &StructSelfSpec{}, nil

	case "Struct":
		var w struct {
			Tag     string
			Fields  []json.RawMessage
			IsConst bool
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, err
		}
		var fields []StructFieldSpec
		if w.Fields != nil {
			fields = make([]StructFieldSpec, len(w.Fields))
			for i, f := range w.Fields {
				var fw struct {
					Name string
					Type json.RawMessage
				}
				if err := json.Unmarshal(f, &fw); err != nil {
					return nil, err
				}
				ft, err := decodeTypeSpec(fw.Type)
				if err != nil {
					return nil, err
				}
				fields[i] = StructFieldSpec{Name: fw.Name, Type: ft}
			}
		}
		return &StructTypeSpec{Tag: w.Tag, Fields: fields, IsConst: w.IsConst}, nil

	case "Enum":
		var w struct{ Tag string }
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, err
		}
		return &EnumTypeSpec{Tag: w.Tag}, nil

	case "Function":
		var w struct {
			Return json.RawMessage
			Params []json.RawMessage
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, err
		}
		ret, err := decodeTypeSpec(w.Return)
		if err != nil {
			return nil, err
		}
		params := make([]TypeSpec, len(w.Params))
		for i, pr := range w.Params {
			pt, err := decodeTypeSpec(pr)
			if err != nil {
				return nil, err
			}
			params[i] = pt
		}
		return &FunctionTypeSpec{Return: ret, Params: params}, nil

	case "TypedefName":
		var w struct{ Name string }
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, err
		}
		return &TypedefNameSpec{Name: w.Name}, nil

	default:
		return nil, fmt.Errorf("ast: unrecognized type-spec kind %q", kind)
	}
}

func decodeOptionalExpression(raw json.RawMessage) (Expression, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	return decodeExpression(raw)
}

func decodeExpression(raw json.RawMessage) (Expression, error) {
	kind, err := kindOf(raw)
	if err != nil {
		return nil, err
	}
	switch kind {
	case "Identifier":
		var w struct {
			Position Position
			Name     string
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, err
		}
		return &IdentifierExpr{exprBase: exprBase{Position: w.Position}, Name: w.Name}, nil

	case "IntLiteral":
		var w struct {
			Position   Position
			Text       string
			IsHexOrOct bool
			Unsigned   bool
			LongCount  int
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, err
		}
		return &IntLiteralExpr{exprBase: exprBase{Position: w.Position}, Text: w.Text, IsHexOrOct: w.IsHexOrOct, Unsigned: w.Unsigned, LongCount: w.LongCount}, nil

	case "FloatLiteral":
		var w struct {
			Position Position
			Text     string
			IsFloat  bool
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, err
		}
		return &FloatLiteralExpr{exprBase: exprBase{Position: w.Position}, Text: w.Text, IsFloat: w.IsFloat}, nil

	case "CharLiteral":
		var w struct {
			Position Position
			Value    int64
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, err
		}
		return &CharLiteralExpr{exprBase: exprBase{Position: w.Position}, Value: w.Value}, nil

	case "StringLiteral":
		var w struct {
			Position Position
			Value    string
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, err
		}
		return &StringLiteralExpr{exprBase: exprBase{Position: w.Position}, Value: w.Value}, nil

	case "Unary":
		var w struct {
			Position Position
			Op       UnaryOp
			Operand  json.RawMessage
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, err
		}
		operand, err := decodeExpression(w.Operand)
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{exprBase: exprBase{Position: w.Position}, Op: w.Op, Operand: operand}, nil

	case "SizeofType":
		var w struct {
			Position Position
			Type     json.RawMessage
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, err
		}
		t, err := decodeTypeSpec(w.Type)
		if err != nil {
			return nil, err
		}
		return &SizeofTypeExpr{exprBase: exprBase{Position: w.Position}, Type: t}, nil

	case "SizeofExpr":
		var w struct {
			Position Position
			Operand  json.RawMessage
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, err
		}
		operand, err := decodeExpression(w.Operand)
		if err != nil {
			return nil, err
		}
		return &SizeofExprExpr{exprBase: exprBase{Position: w.Position}, Operand: operand}, nil

	case "Cast":
		var w struct {
			Position Position
			Type     json.RawMessage
			Operand  json.RawMessage
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, err
		}
		t, err := decodeTypeSpec(w.Type)
		if err != nil {
			return nil, err
		}
		operand, err := decodeExpression(w.Operand)
		if err != nil {
			return nil, err
		}
		return &CastExpr{exprBase: exprBase{Position: w.Position}, Type: t, Operand: operand}, nil

	case "Binary":
		var w struct {
			Position Position
			Op       BinaryOp
			Left     json.RawMessage
			Right    json.RawMessage
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, err
		}
		left, err := decodeExpression(w.Left)
		if err != nil {
			return nil, err
		}
		right, err := decodeExpression(w.Right)
		if err != nil {
			return nil, err
		}
		return &BinaryExpr{exprBase: exprBase{Position: w.Position}, Op: w.Op, Left: left, Right: right}, nil

	case "Conditional":
		var w struct {
			Position Position
			Cond     json.RawMessage
			Then     json.RawMessage
			Else     json.RawMessage
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, err
		}
		cond, err := decodeExpression(w.Cond)
		if err != nil {
			return nil, err
		}
		then, err := decodeExpression(w.Then)
		if err != nil {
			return nil, err
		}
		els, err := decodeExpression(w.Else)
		if err != nil {
			return nil, err
		}
		return &ConditionalExpr{exprBase: exprBase{Position: w.Position}, Cond: cond, Then: then, Else: els}, nil

	case "Assign":
		var w struct {
			Position Position
			Op       AssignOp
			LHS      json.RawMessage
			RHS      json.RawMessage
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, err
		}
		lhs, err := decodeExpression(w.LHS)
		if err != nil {
			return nil, err
		}
		rhs, err := decodeExpression(w.RHS)
		if err != nil {
			return nil, err
		}
		return &AssignExpr{exprBase: exprBase{Position: w.Position}, Op: w.Op, LHS: lhs, RHS: rhs}, nil

	case "Call":
		var w struct {
			Position Position
			Callee   json.RawMessage
			Args     []json.RawMessage
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, err
		}
		callee, err := decodeExpression(w.Callee)
		if err != nil {
			return nil, err
		}
		args := make([]Expression, len(w.Args))
		for i, a := range w.Args {
			ae, err := decodeExpression(a)
			if err != nil {
				return nil, err
			}
			args[i] = ae
		}
		return &CallExpr{exprBase: exprBase{Position: w.Position}, Callee: callee, Args: args}, nil

	case "Index":
		var w struct {
			Position Position
			Base     json.RawMessage
			Index    json.RawMessage
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, err
		}
		base, err := decodeExpression(w.Base)
		if err != nil {
			return nil, err
		}
		idx, err := decodeExpression(w.Index)
		if err != nil {
			return nil, err
		}
		return &IndexExpr{exprBase: exprBase{Position: w.Position}, Base: base, Index: idx}, nil

	case "Member":
		var w struct {
			Position Position
			Object   json.RawMessage
			Field    string
			IsArrow  bool
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, err
		}
		obj, err := decodeExpression(w.Object)
		if err != nil {
			return nil, err
		}
		return &MemberExpr{exprBase: exprBase{Position: w.Position}, Object: obj, Field: w.Field, IsArrow: w.IsArrow}, nil

	default:
		return nil, fmt.Errorf("ast: unrecognized expression kind %q", kind)
	}
}

func decodeOptionalInitializer(raw json.RawMessage) (Initializer, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	return decodeInitializer(raw)
}

func decodeInitializer(raw json.RawMessage) (Initializer, error) {
	kind, err := kindOf(raw)
	if err != nil {
		return nil, err
	}
	switch kind {
	case "Single":
		var w struct{ Value json.RawMessage }
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, err
		}
		v, err := decodeExpression(w.Value)
		if err != nil {
			return nil, err
		}
		return &InitializerSingle{Value: v}, nil

	case "List":
		var w struct{ Elements []json.RawMessage }
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, err
		}
		elems := make([]Initializer, len(w.Elements))
		for i, e := range w.Elements {
			ie, err := decodeInitializer(e)
			if err != nil {
				return nil, err
			}
			elems[i] = ie
		}
		return &InitializerList{Elements: elems}, nil

	default:
		return nil, fmt.Errorf("ast: unrecognized initializer kind %q", kind)
	}
}

func decodeStatement(raw json.RawMessage) (Statement, error) {
	kind, err := kindOf(raw)
	if err != nil {
		return nil, err
	}
	switch kind {
	case "Block":
		var w struct {
			Position Position
			Items    []json.RawMessage
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, err
		}
		items := make([]BlockItem, len(w.Items))
		for i, it := range w.Items {
			bi, err := decodeBlockItem(it)
			if err != nil {
				return nil, err
			}
			items[i] = bi
		}
		return &BlockStmt{stmtBase: stmtBase{Position: w.Position}, Items: items}, nil

	case "Expr":
		var w struct {
			Position Position
			Expr     json.RawMessage
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, err
		}
		e, err := decodeOptionalExpression(w.Expr)
		if err != nil {
			return nil, err
		}
		return &ExprStmt{stmtBase: stmtBase{Position: w.Position}, Expr: e}, nil

	case "If":
		var w struct {
			Position Position
			Cond     json.RawMessage
			Then     json.RawMessage
			Else     json.RawMessage
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, err
		}
		cond, err := decodeExpression(w.Cond)
		if err != nil {
			return nil, err
		}
		then, err := decodeStatement(w.Then)
		if err != nil {
			return nil, err
		}
		var els Statement
		if len(w.Else) > 0 && string(w.Else) != "null" {
			els, err = decodeStatement(w.Else)
			if err != nil {
				return nil, err
			}
		}
		return &IfStmt{stmtBase: stmtBase{Position: w.Position}, Cond: cond, Then: then, Else: els}, nil

	case "Switch":
		var w struct {
			Position Position
			Tag      json.RawMessage
			Cases    []json.RawMessage
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, err
		}
		tag, err := decodeExpression(w.Tag)
		if err != nil {
			return nil, err
		}
		cases := make([]SwitchCase, len(w.Cases))
		for i, c := range w.Cases {
			var cw struct {
				Expr  json.RawMessage
				Stmts []json.RawMessage
			}
			if err := json.Unmarshal(c, &cw); err != nil {
				return nil, err
			}
			expr, err := decodeOptionalExpression(cw.Expr)
			if err != nil {
				return nil, err
			}
			stmts := make([]Statement, len(cw.Stmts))
			for j, s := range cw.Stmts {
				st, err := decodeStatement(s)
				if err != nil {
					return nil, err
				}
				stmts[j] = st
			}
			cases[i] = SwitchCase{Expr: expr, Stmts: stmts}
		}
		return &SwitchStmt{stmtBase: stmtBase{Position: w.Position}, Tag: tag, Cases: cases}, nil

	case "While":
		var w struct {
			Position Position
			Cond     json.RawMessage
			Body     json.RawMessage
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, err
		}
		cond, err := decodeExpression(w.Cond)
		if err != nil {
			return nil, err
		}
		body, err := decodeStatement(w.Body)
		if err != nil {
			return nil, err
		}
		return &WhileStmt{stmtBase: stmtBase{Position: w.Position}, Cond: cond, Body: body}, nil

	case "DoWhile":
		var w struct {
			Position Position
			Body     json.RawMessage
			Cond     json.RawMessage
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, err
		}
		body, err := decodeStatement(w.Body)
		if err != nil {
			return nil, err
		}
		cond, err := decodeExpression(w.Cond)
		if err != nil {
			return nil, err
		}
		return &DoWhileStmt{stmtBase: stmtBase{Position: w.Position}, Body: body, Cond: cond}, nil

	case "For":
		var w struct {
			Position Position
			InitDecl json.RawMessage
			InitExpr json.RawMessage
			Cond     json.RawMessage
			Post     json.RawMessage
			Body     json.RawMessage
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, err
		}
		var initDecl *Declaration
		if len(w.InitDecl) > 0 && string(w.InitDecl) != "null" {
			tl, err := decodeTopLevel(w.InitDecl)
			if err != nil {
				return nil, err
			}
			d, ok := tl.(*Declaration)
			if !ok {
				return nil, fmt.Errorf("ast: for-loop initDecl must be a Declaration")
			}
			initDecl = d
		}
		initExpr, err := decodeOptionalExpression(w.InitExpr)
		if err != nil {
			return nil, err
		}
		cond, err := decodeOptionalExpression(w.Cond)
		if err != nil {
			return nil, err
		}
		post, err := decodeOptionalExpression(w.Post)
		if err != nil {
			return nil, err
		}
		body, err := decodeStatement(w.Body)
		if err != nil {
			return nil, err
		}
		return &ForStmt{stmtBase: stmtBase{Position: w.Position}, InitDecl: initDecl, InitExpr: initExpr, Cond: cond, Post: post, Body: body}, nil

	case "Break":
		var w struct{ Position Position }
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, err
		}
		return &BreakStmt{stmtBase{Position: w.Position}}, nil

	case "Continue":
		var w struct{ Position Position }
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, err
		}
		return &ContinueStmt{stmtBase{Position: w.Position}}, nil

	case "Return":
		var w struct {
			Position Position
			Value    json.RawMessage
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, err
		}
		v, err := decodeOptionalExpression(w.Value)
		if err != nil {
			return nil, err
		}
		return &ReturnStmt{stmtBase: stmtBase{Position: w.Position}, Value: v}, nil

	default:
		return nil, fmt.Errorf("ast: unrecognized statement kind %q", kind)
	}
}

func decodeBlockItem(raw json.RawMessage) (BlockItem, error) {
	var w struct {
		Decl json.RawMessage
		Stmt json.RawMessage
	}
	if err := json.Unmarshal(raw, &w); err != nil {
		return BlockItem{}, err
	}
	if len(w.Decl) > 0 && string(w.Decl) != "null" {
		tl, err := decodeTopLevel(w.Decl)
		if err != nil {
			return BlockItem{}, err
		}
		d, ok := tl.(*Declaration)
		if !ok {
			return BlockItem{}, fmt.Errorf("ast: block item decl must be a Declaration")
		}
		return BlockItem{Decl: d}, nil
	}
	st, err := decodeStatement(w.Stmt)
	if err != nil {
		return BlockItem{}, err
	}
	return BlockItem{Stmt: st}, nil
}
