package catkin

import (
	"strings"

	"github.com/jward/catkin/internal/store"
	"github.com/jward/catkin/internal/syntax"
)

// extractedDecl is one declaration found in a tree, with its parameters,
// ready for insertion into the store.
type extractedDecl struct {
	decl   store.Decl
	params []store.DeclParam
}

// extractDecls walks a parsed file and collects its indexable declarations:
// functions, classes and objects (with their constructors), and properties
// outside function bodies. Locals are deliberately not indexed; the lexical
// scope walk resolves those from the live tree.
func extractDecls(root syntax.Node) []extractedDecl {
	var out []extractedDecl

	var walk func(n syntax.Node, container string, inFunction bool)
	walk = func(n syntax.Node, container string, inFunction bool) {
		switch n.Kind() {
		case syntax.KindFunctionDecl:
			out = append(out, functionDecl(n, container))
			for i := 0; i < n.NamedChildCount(); i++ {
				walk(n.NamedChild(i), container, true)
			}
			return
		case syntax.KindClassDecl:
			name := classDeclName(n)
			if name != "" {
				out = append(out, classDecl(n, name, container))
				out = append(out, constructorDecl(n, name, container))
			}
			for i := 0; i < n.NamedChildCount(); i++ {
				walk(n.NamedChild(i), name, inFunction)
			}
			return
		case syntax.KindPropertyDecl:
			if !inFunction {
				out = append(out, propertyDecls(n, container)...)
			}
		}
		for i := 0; i < n.NamedChildCount(); i++ {
			walk(n.NamedChild(i), container, inFunction)
		}
	}
	walk(root, "", false)

	return out
}

// functionDecl builds a function declaration from a function_declaration
// node: name, optional extension receiver, operator modifier, parameters,
// and declared return type.
func functionDecl(n syntax.Node, container string) extractedDecl {
	var (
		name, receiver, ret string
		operator            bool
		params              []store.DeclParam
		sawName             bool
	)
	for i := 0; i < n.NamedChildCount(); i++ {
		c := n.NamedChild(i)
		switch {
		case c.RawKind() == "modifiers":
			if strings.Contains(c.Text(), "operator") {
				operator = true
			}
		case c.Kind() == syntax.KindSimpleName && !sawName:
			name = c.Text()
			sawName = true
		case c.Kind() == syntax.KindTypeRef && !sawName:
			// A type before the name is the extension receiver: fun Int.twice().
			receiver = c.Text()
		case c.Kind() == syntax.KindTypeRef && sawName && ret == "":
			ret = c.Text()
		case c.RawKind() == "function_value_parameters":
			params = parameterList(c)
		}
	}
	return extractedDecl{
		decl: store.Decl{
			Name:       name,
			Kind:       store.KindFunction,
			Container:  container,
			Receiver:   receiver,
			ReturnType: ret,
			IsOperator: operator,
			StartLine:  n.StartLine(),
			StartCol:   n.StartCol(),
			EndLine:    n.EndLine(),
			EndCol:     n.EndCol(),
		},
		params: params,
	}
}

// classDeclName returns the type_identifier of a class or object declaration.
func classDeclName(n syntax.Node) string {
	for i := 0; i < n.NamedChildCount(); i++ {
		c := n.NamedChild(i)
		if c.RawKind() == "type_identifier" {
			return c.Text()
		}
	}
	return ""
}

func classDecl(n syntax.Node, name, container string) extractedDecl {
	return extractedDecl{
		decl: store.Decl{
			Name:      name,
			Kind:      store.KindClass,
			Container: container,
			StartLine: n.StartLine(),
			StartCol:  n.StartCol(),
			EndLine:   n.EndLine(),
			EndCol:    n.EndCol(),
		},
	}
}

// constructorDecl builds the class's primary constructor: same name as the
// class, parameters from the primary_constructor clause when present, none
// otherwise (the implicit zero-argument constructor).
func constructorDecl(n syntax.Node, name, container string) extractedDecl {
	var params []store.DeclParam
	for i := 0; i < n.NamedChildCount(); i++ {
		c := n.NamedChild(i)
		if c.RawKind() == "primary_constructor" {
			params = parameterList(c)
			break
		}
	}
	return extractedDecl{
		decl: store.Decl{
			Name:       name,
			Kind:       store.KindConstructor,
			Container:  container,
			ReturnType: name,
			StartLine:  n.StartLine(),
			StartCol:   n.StartCol(),
			EndLine:    n.EndLine(),
			EndCol:     n.EndCol(),
		},
		params: params,
	}
}

// propertyDecls builds property declarations from a property_declaration
// node. Destructuring properties contribute one declaration per entry.
func propertyDecls(n syntax.Node, container string) []extractedDecl {
	var out []extractedDecl
	emit := func(entry syntax.Node) {
		name, typeExpr := variableDeclParts(entry)
		if name == "" {
			return
		}
		out = append(out, extractedDecl{
			decl: store.Decl{
				Name:       name,
				Kind:       store.KindProperty,
				Container:  container,
				ReturnType: typeExpr,
				StartLine:  entry.StartLine(),
				StartCol:   entry.StartCol(),
				EndLine:    entry.EndLine(),
				EndCol:     entry.EndCol(),
			},
		})
	}
	for i := 0; i < n.NamedChildCount(); i++ {
		c := n.NamedChild(i)
		switch c.Kind() {
		case syntax.KindVariableDecl:
			emit(c)
		case syntax.KindMultiVariableDecl:
			for j := 0; j < c.NamedChildCount(); j++ {
				if e := c.NamedChild(j); e.Kind() == syntax.KindVariableDecl {
					emit(e)
				}
			}
		}
	}
	return out
}

// variableDeclParts returns the name and declared type of a
// variable_declaration node (`x: Int` yields "x", "Int").
func variableDeclParts(n syntax.Node) (name, typeExpr string) {
	for i := 0; i < n.NamedChildCount(); i++ {
		c := n.NamedChild(i)
		switch {
		case c.Kind() == syntax.KindSimpleName && name == "":
			name = c.Text()
		case c.Kind() == syntax.KindTypeRef && typeExpr == "":
			typeExpr = c.Text()
		}
	}
	return name, typeExpr
}

// parameterList collects parameters from a function_value_parameters,
// primary_constructor, or similar parameter-bearing node.
func parameterList(n syntax.Node) []store.DeclParam {
	var params []store.DeclParam
	ordinal := 0
	var scan func(n syntax.Node)
	scan = func(n syntax.Node) {
		for i := 0; i < n.NamedChildCount(); i++ {
			c := n.NamedChild(i)
			switch c.Kind() {
			case syntax.KindParameter:
				name, typeExpr := parameterParts(c)
				params = append(params, store.DeclParam{
					Name:       name,
					Ordinal:    ordinal,
					TypeExpr:   typeExpr,
					HasDefault: parameterHasDefault(c),
				})
				ordinal++
			default:
				scan(c)
			}
		}
	}
	scan(n)
	return params
}

// parameterParts returns the name and type of a parameter or class_parameter
// node.
func parameterParts(n syntax.Node) (name, typeExpr string) {
	for i := 0; i < n.NamedChildCount(); i++ {
		c := n.NamedChild(i)
		switch {
		case c.Kind() == syntax.KindSimpleName && name == "":
			name = c.Text()
		case c.Kind() == syntax.KindTypeRef && typeExpr == "":
			typeExpr = c.Text()
		}
	}
	return name, typeExpr
}

// parameterHasDefault reports whether the parameter carries a default value
// expression. Class parameters hold the "=" token themselves; for function
// parameters the grammar attaches it next to the parameter node, either inside
// a function_value_parameter wrapper or as the immediately following sibling.
func parameterHasDefault(n syntax.Node) bool {
	for i := 0; i < n.ChildCount(); i++ {
		if n.Child(i).Text() == "=" {
			return true
		}
	}
	parent := n.Parent()
	if parent.RawKind() == "function_value_parameter" {
		for i := 0; i < parent.ChildCount(); i++ {
			if parent.Child(i).Text() == "=" {
				return true
			}
		}
		return false
	}
	for i := 0; i < parent.ChildCount(); i++ {
		if parent.Child(i).Equal(n) {
			next := parent.Child(i + 1)
			return next.Valid() && next.Text() == "="
		}
	}
	return false
}
