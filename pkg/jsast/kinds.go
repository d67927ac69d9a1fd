package jsast

// DefaultRegistry is the kind table for the JavaScript AST subset this
// codec exercises: scripts/modules, a handful of statements, and a handful
// of expressions and literals. It is deliberately small — the codec's job
// is compressing structure, not covering the full ECMAScript grammar.
//
//nolint:gochecknoglobals // shared construction contract, mirrors a compiled-in schema table
var DefaultRegistry = buildDefaultRegistry()

func buildDefaultRegistry() *Registry {
	r := NewRegistry()

	r.Register("Script", "directives", "statements")
	r.Register("Module", "directives", "items")
	r.Register("Directive", "rawValue")

	r.Register("BlockStatement", "statements")
	r.Register("ExpressionStatement", "expression")
	r.Register("ReturnStatement", "expression")
	r.Register("IfStatement", "alternate", "consequent", "test")
	r.Register("VariableDeclarationStatement", "declaration")

	r.Register("VariableDeclaration", "declarators", "kind")
	r.Register("VariableDeclarator", "binding", "init")
	r.Register("BindingIdentifier", "name")

	r.Register("IdentifierExpression", "name")
	r.Register("LiteralNumericExpression", "value")
	r.Register("LiteralStringExpression", "value")
	r.Register("LiteralBooleanExpression", "value")
	r.Register("LiteralNullExpression")
	r.Register("BinaryExpression", "left", "operator", "right")
	r.Register("CallExpression", "arguments", "callee")

	return r
}

func mustObject(kind string, props map[string]Value) Node {
	n, err := newObject(kind, props)
	if err != nil {
		panic(err)
	}

	return n
}

// NewScript builds a Script root node.
func NewScript(directives, statements List) Node {
	return mustObject("Script", map[string]Value{"directives": directives, "statements": statements})
}

// NewModule builds a Module root node.
func NewModule(directives, items List) Node {
	return mustObject("Module", map[string]Value{"directives": directives, "items": items})
}

// NewDirective builds a prologue directive, e.g. "use strict".
func NewDirective(rawValue string) Node {
	return mustObject("Directive", map[string]Value{"rawValue": String{V: rawValue}})
}

// NewBlockStatement builds a { ... } statement block.
func NewBlockStatement(statements List) Node {
	return mustObject("BlockStatement", map[string]Value{"statements": statements})
}

// NewExpressionStatement wraps an expression as a statement.
func NewExpressionStatement(expression Node) Node {
	return mustObject("ExpressionStatement", map[string]Value{"expression": expression})
}

// NewReturnStatement builds a return statement. expression is Missing{}
// for a bare "return;".
func NewReturnStatement(expression Value) Node {
	return mustObject("ReturnStatement", map[string]Value{"expression": expression})
}

// NewIfStatement builds an if/else statement. alternate is Missing{} when
// there is no else branch.
func NewIfStatement(test, consequent Node, alternate Value) Node {
	return mustObject("IfStatement", map[string]Value{"test": test, "consequent": consequent, "alternate": alternate})
}

// NewVariableDeclarationStatement wraps a declaration as a statement.
func NewVariableDeclarationStatement(declaration Node) Node {
	return mustObject("VariableDeclarationStatement", map[string]Value{"declaration": declaration})
}

// NewVariableDeclaration builds a var/let/const declaration list.
func NewVariableDeclaration(kind string, declarators List) Node {
	return mustObject("VariableDeclaration", map[string]Value{"kind": String{V: kind}, "declarators": declarators})
}

// NewVariableDeclarator builds a single binding = init pair. init is
// Missing{} when the declarator has no initializer.
func NewVariableDeclarator(binding Node, init Value) Node {
	return mustObject("VariableDeclarator", map[string]Value{"binding": binding, "init": init})
}

// NewBindingIdentifier builds a binding-position identifier.
func NewBindingIdentifier(name string) Node {
	return mustObject("BindingIdentifier", map[string]Value{"name": String{V: name}})
}

// NewIdentifierExpression builds an identifier reference.
func NewIdentifierExpression(name string) Node {
	return mustObject("IdentifierExpression", map[string]Value{"name": String{V: name}})
}

// NewLiteralNumericExpression builds a numeric literal.
func NewLiteralNumericExpression(value float64) Node {
	return mustObject("LiteralNumericExpression", map[string]Value{"value": Number{V: value}})
}

// NewLiteralStringExpression builds a string literal.
func NewLiteralStringExpression(value string) Node {
	return mustObject("LiteralStringExpression", map[string]Value{"value": String{V: value}})
}

// NewLiteralBooleanExpression builds a boolean literal.
func NewLiteralBooleanExpression(value bool) Node {
	return mustObject("LiteralBooleanExpression", map[string]Value{"value": Bool{V: value}})
}

// NewLiteralNullExpression builds a "null" literal expression node
// (distinct from the Null property value: this is a rank-0 AST node kind,
// with no properties at all).
func NewLiteralNullExpression() Node {
	return mustObject("LiteralNullExpression", map[string]Value{})
}

// NewBinaryExpression builds a binary operator expression.
func NewBinaryExpression(left Node, operator string, right Node) Node {
	return mustObject("BinaryExpression", map[string]Value{"left": left, "operator": String{V: operator}, "right": right})
}

// NewCallExpression builds a function call expression.
func NewCallExpression(callee Node, arguments List) Node {
	return mustObject("CallExpression", map[string]Value{"callee": callee, "arguments": arguments})
}
