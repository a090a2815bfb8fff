package catkin

import "github.com/jward/catkin/internal/syntax"

// lookupLocals returns the variable-like symbols named name that are
// lexically visible at the given node, nearest scope first. It covers locals
// (including destructuring entries), for-loop variables, lambda parameters,
// and function parameters. Declarations after the use site do not count.
func lookupLocals(name string, at syntax.Node) []Symbol {
	var out []Symbol
	pos := at.StartByte()

	for anc := at.Parent(); anc.Valid(); anc = anc.Parent() {
		switch anc.Kind() {
		case syntax.KindStatements, syntax.KindSourceFile:
			for i := 0; i < anc.NamedChildCount(); i++ {
				stmt := anc.NamedChild(i)
				if stmt.StartByte() >= pos || stmt.Kind() != syntax.KindPropertyDecl {
					continue
				}
				for _, entry := range declarationEntries(stmt) {
					if entryName(entry) == name {
						out = append(out, localSymbol(name, entry, anc.Kind() == syntax.KindSourceFile))
					}
				}
			}
		case syntax.KindForLoop:
			for _, entry := range declarationEntries(anc) {
				if entry.StartByte() < pos && entryName(entry) == name {
					out = append(out, localSymbol(name, entry, false))
				}
			}
		case syntax.KindFunctionDecl:
			for _, param := range functionParameters(anc) {
				pname, ptype := parameterParts(param)
				if pname == name {
					sym := Symbol{
						Name: name,
						Kind: SymbolParameter,
						Decl: param,
						Line: param.StartLine(),
						Col:  param.StartCol(),
						sig:  Signature{Return: ptype},
					}
					out = append(out, sym)
				}
			}
		default:
			if anc.RawKind() == "lambda_literal" {
				for _, entry := range lambdaParameters(anc) {
					if entryName(entry) == name {
						out = append(out, localSymbol(name, entry, false))
					}
				}
			}
		}
	}
	return out
}

// declarationEntries returns the variable_declaration entries a statement
// introduces: one for `val x = ...`, several for `val (a, b) = ...`, the
// loop variable(s) for a for statement.
func declarationEntries(stmt syntax.Node) []syntax.Node {
	var out []syntax.Node
	for i := 0; i < stmt.NamedChildCount(); i++ {
		c := stmt.NamedChild(i)
		switch c.Kind() {
		case syntax.KindVariableDecl:
			out = append(out, c)
		case syntax.KindMultiVariableDecl:
			for j := 0; j < c.NamedChildCount(); j++ {
				if e := c.NamedChild(j); e.Kind() == syntax.KindVariableDecl {
					out = append(out, e)
				}
			}
		}
	}
	return out
}

func entryName(entry syntax.Node) string {
	name, _ := variableDeclParts(entry)
	return name
}

func localSymbol(name string, entry syntax.Node, topLevel bool) Symbol {
	_, typeExpr := variableDeclParts(entry)
	kind := SymbolLocalVariable
	if topLevel {
		kind = SymbolProperty
	}
	return Symbol{
		Name: name,
		Kind: kind,
		Decl: entry,
		Line: entry.StartLine(),
		Col:  entry.StartCol(),
		sig:  Signature{Return: typeExpr},
	}
}

// functionParameters returns the parameter nodes of a function declaration.
func functionParameters(fn syntax.Node) []syntax.Node {
	var out []syntax.Node
	for i := 0; i < fn.NamedChildCount(); i++ {
		c := fn.NamedChild(i)
		if c.RawKind() != "function_value_parameters" {
			continue
		}
		var scan func(n syntax.Node)
		scan = func(n syntax.Node) {
			for j := 0; j < n.NamedChildCount(); j++ {
				p := n.NamedChild(j)
				if p.Kind() == syntax.KindParameter {
					out = append(out, p)
				} else {
					scan(p)
				}
			}
		}
		scan(c)
	}
	return out
}

// lambdaParameters returns the declared parameters of a lambda literal.
func lambdaParameters(lambda syntax.Node) []syntax.Node {
	var out []syntax.Node
	for i := 0; i < lambda.NamedChildCount(); i++ {
		c := lambda.NamedChild(i)
		if c.RawKind() != "lambda_parameters" {
			continue
		}
		for j := 0; j < c.NamedChildCount(); j++ {
			p := c.NamedChild(j)
			switch p.Kind() {
			case syntax.KindVariableDecl:
				out = append(out, p)
			case syntax.KindMultiVariableDecl:
				for k := 0; k < p.NamedChildCount(); k++ {
					if e := p.NamedChild(k); e.Kind() == syntax.KindVariableDecl {
						out = append(out, e)
					}
				}
			}
		}
	}
	return out
}
