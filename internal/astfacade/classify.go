package astfacade

import sitter "github.com/smacker/go-tree-sitter"

// The classification helpers below are the narrow subset of the
// JS/TS grammar that leaks past the facade boundary, per spec: callers
// never switch on raw node.Type() strings themselves.

func IsCallExpression(n *sitter.Node) bool { return n != nil && n.Type() == "call_expression" }

func IsNewExpression(n *sitter.Node) bool { return n != nil && n.Type() == "new_expression" }

func IsMemberExpression(n *sitter.Node) bool { return n != nil && n.Type() == "member_expression" }

func IsSubscriptExpression(n *sitter.Node) bool { return n != nil && n.Type() == "subscript_expression" }

func IsIdentifier(n *sitter.Node) bool {
	return n != nil && (n.Type() == "identifier" || n.Type() == "property_identifier" || n.Type() == "shorthand_property_identifier")
}

func IsVariableDeclarator(n *sitter.Node) bool { return n != nil && n.Type() == "variable_declarator" }

func IsAssignmentExpression(n *sitter.Node) bool { return n != nil && n.Type() == "assignment_expression" }

func IsTemplateString(n *sitter.Node) bool { return n != nil && n.Type() == "template_string" }

func IsString(n *sitter.Node) bool { return n != nil && (n.Type() == "string" || n.Type() == "string_fragment") }

func IsFunctionLike(n *sitter.Node) bool {
	if n == nil {
		return false
	}
	switch n.Type() {
	case "function_declaration", "function_expression", "arrow_function", "method_definition":
		return true
	default:
		return false
	}
}

func IsComment(n *sitter.Node) bool { return n != nil && n.Type() == "comment" }

// Callee returns the callee sub-expression of a call/new expression.
func Callee(n *sitter.Node) *sitter.Node {
	if n == nil {
		return nil
	}
	return n.ChildByFieldName("function")
}

// CallArguments returns the argument list node's named children.
func CallArguments(n *sitter.Node) []*sitter.Node {
	if n == nil {
		return nil
	}
	args := n.ChildByFieldName("arguments")
	if args == nil {
		return nil
	}
	out := make([]*sitter.Node, 0, args.NamedChildCount())
	for i := 0; i < int(args.NamedChildCount()); i++ {
		out = append(out, args.NamedChild(i))
	}
	return out
}

// MemberParts splits a member expression `object.property` into its
// object and property sub-nodes. Returns nil, nil if n is not a member
// expression.
func MemberParts(n *sitter.Node) (object, property *sitter.Node) {
	if n == nil || n.Type() != "member_expression" {
		return nil, nil
	}
	return n.ChildByFieldName("object"), n.ChildByFieldName("property")
}

// DeclaratorParts splits a variable_declarator into its name and value
// sub-nodes.
func DeclaratorParts(n *sitter.Node) (name, value *sitter.Node) {
	if n == nil || n.Type() != "variable_declarator" {
		return nil, nil
	}
	return n.ChildByFieldName("name"), n.ChildByFieldName("value")
}

// AssignmentParts splits an assignment_expression into its left and right
// sub-nodes.
func AssignmentParts(n *sitter.Node) (left, right *sitter.Node) {
	if n == nil || n.Type() != "assignment_expression" {
		return nil, nil
	}
	return n.ChildByFieldName("left"), n.ChildByFieldName("right")
}
