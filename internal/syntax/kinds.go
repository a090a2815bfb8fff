package syntax

// Kind classifies raw tree-sitter Kotlin grammar node types into the closed
// set of shapes the resolver cares about. Raw grammar names appear only in
// this file; everything above works in terms of Kind.
type Kind int

const (
	KindUnknown Kind = iota

	// Call-like shapes.
	KindSimpleName  // simple_identifier
	KindCallExpr    // call_expression
	KindIndexExpr   // indexing_expression
	KindPrefixExpr  // prefix_expression
	KindPostfixExpr // postfix_expression
	KindBinaryExpr  // additive_expression, infix_expression, ...
	KindAssignment  // assignment (plain and augmented)
	KindForLoop     // for_statement

	// Declarations.
	KindMultiVariableDecl // multi_variable_declaration
	KindVariableDecl      // variable_declaration
	KindPropertyDecl      // property_declaration
	KindFunctionDecl      // function_declaration
	KindClassDecl         // class_declaration, object_declaration
	KindParameter         // parameter, class_parameter

	// Structural shapes the router and filter need to see through.
	KindNavigation       // navigation_expression (a.b chains)
	KindNavigationSuffix // navigation_suffix (".b" part)
	KindParenExpr        // parenthesized_expression
	KindCallableRef      // callable_reference (::f)
	KindCallSuffix       // call_suffix
	KindValueArgument    // value_argument
	KindTypeArguments    // type_arguments

	// Ignored contexts for bare references.
	KindTypeRef       // user_type, type_identifier, ...
	KindImportHeader  // import_header, import_list
	KindPackageHeader // package_header
	KindComment       // comment, line_comment, multiline_comment

	KindSourceFile // source_file
	KindStatements // statements
)

// rawKinds maps tree-sitter-kotlin node type strings to Kinds. Binary
// expressions span many raw types; they all collapse to KindBinaryExpr so the
// router has a single arm for operator overloads.
var rawKinds = map[string]Kind{
	"simple_identifier": KindSimpleName,

	"call_expression":             KindCallExpr,
	"constructor_delegation_call": KindCallExpr,
	"indexing_expression":         KindIndexExpr,
	"prefix_expression":           KindPrefixExpr,
	"postfix_expression":          KindPostfixExpr,
	"assignment":                  KindAssignment,
	"for_statement":               KindForLoop,

	"additive_expression":       KindBinaryExpr,
	"multiplicative_expression": KindBinaryExpr,
	"comparison_expression":     KindBinaryExpr,
	"equality_expression":       KindBinaryExpr,
	"conjunction_expression":    KindBinaryExpr,
	"disjunction_expression":    KindBinaryExpr,
	"elvis_expression":          KindBinaryExpr,
	"range_expression":          KindBinaryExpr,
	"infix_expression":          KindBinaryExpr,
	"check_expression":          KindBinaryExpr,

	"multi_variable_declaration": KindMultiVariableDecl,
	"variable_declaration":       KindVariableDecl,
	"property_declaration":       KindPropertyDecl,
	"function_declaration":       KindFunctionDecl,
	"class_declaration":          KindClassDecl,
	"object_declaration":         KindClassDecl,
	"parameter":                  KindParameter,
	"class_parameter":            KindParameter,

	"navigation_expression":    KindNavigation,
	"navigation_suffix":        KindNavigationSuffix,
	"parenthesized_expression": KindParenExpr,
	"callable_reference":       KindCallableRef,
	"call_suffix":              KindCallSuffix,
	"value_argument":           KindValueArgument,
	"type_arguments":           KindTypeArguments,

	"user_type":          KindTypeRef,
	"type_identifier":    KindTypeRef,
	"nullable_type":      KindTypeRef,
	"function_type":      KindTypeRef,
	"parenthesized_type": KindTypeRef,
	"type_projection":    KindTypeRef,
	"import_header":      KindImportHeader,
	"import_list":        KindImportHeader,
	"package_header":     KindPackageHeader,
	"comment":            KindComment,
	"line_comment":       KindComment,
	"multiline_comment":  KindComment,
	"shebang_line":       KindComment,

	"source_file": KindSourceFile,
	"statements":  KindStatements,
}

var kindNames = map[Kind]string{
	KindUnknown:           "unknown",
	KindSimpleName:        "simple_name",
	KindCallExpr:          "call",
	KindIndexExpr:         "index",
	KindPrefixExpr:        "prefix",
	KindPostfixExpr:       "postfix",
	KindBinaryExpr:        "binary",
	KindAssignment:        "assignment",
	KindForLoop:           "for",
	KindMultiVariableDecl: "destructuring",
	KindVariableDecl:      "variable_declaration",
	KindPropertyDecl:      "property_declaration",
	KindFunctionDecl:      "function_declaration",
	KindClassDecl:         "class_declaration",
	KindParameter:         "parameter",
	KindNavigation:        "navigation",
	KindNavigationSuffix:  "navigation_suffix",
	KindParenExpr:         "paren",
	KindCallableRef:       "callable_reference",
	KindCallSuffix:        "call_suffix",
	KindValueArgument:     "value_argument",
	KindTypeArguments:     "type_arguments",
	KindTypeRef:           "type",
	KindImportHeader:      "import",
	KindPackageHeader:     "package",
	KindComment:           "comment",
	KindSourceFile:        "source_file",
	KindStatements:        "statements",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// kindOf translates a raw grammar node type to a Kind.
func kindOf(raw string) Kind {
	return rawKinds[raw]
}

// expressionKinds are the kinds CollectExpressions gathers. This is a
// superset of what the resolver handles; irrelevant kinds cost one router
// dispatch each and nothing more.
var expressionKinds = map[Kind]bool{
	KindSimpleName:        true,
	KindCallExpr:          true,
	KindIndexExpr:         true,
	KindPrefixExpr:        true,
	KindPostfixExpr:       true,
	KindBinaryExpr:        true,
	KindAssignment:        true,
	KindForLoop:           true,
	KindMultiVariableDecl: true,
	KindVariableDecl:      true,
	KindNavigation:        true,
	KindParenExpr:         true,
	KindCallableRef:       true,
}
