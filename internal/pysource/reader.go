package pysource

import (
	"context"
	"errors"
	"os"
	"strings"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	ferrors "git.home.luguber.info/inful/mdxgen/internal/foundation/errors"
)

// ErrSyntax is the cause of every module parse failure.
var ErrSyntax = errors.New("syntax error")

// Node types of the tree-sitter Python grammar used by the walk.
const (
	nodeModule             = "module"
	nodeBlock              = "block"
	nodeClass              = "class_definition"
	nodeFunction           = "function_definition"
	nodeDecorated          = "decorated_definition"
	nodeExpressionStmt     = "expression_statement"
	nodeString             = "string"
	nodeConcatenatedString = "concatenated_string"
	nodeComment            = "comment"
	nodeIdentifier         = "identifier"
	nodeParenthesized      = "parenthesized_expression"
	nodeElif               = "elif_clause"
	nodeElse               = "else_clause"
)

// Nodes whose statements Python's own syntax tree lists directly under the
// enclosing statement; the walk looks through them. Except and case clauses
// are not listed: their bodies sit one level below the clause.
var transparentNodes = map[string]bool{
	nodeBlock:        true,
	nodeDecorated:    true,
	nodeElse:         true,
	"finally_clause": true,
}

// Python 2 statements the grammar still accepts but Python 3 rejects.
var legacyStatements = map[string]bool{
	"print_statement": true,
	"exec_statement":  true,
}

// Reader parses Python modules. A Reader is not safe for concurrent use.
type Reader struct {
	parser *sitter.Parser
}

// NewReader creates a Reader backed by the tree-sitter Python grammar.
func NewReader() *Reader {
	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())
	return &Reader{parser: parser}
}

// Close releases the underlying parser.
func (r *Reader) Close() {
	r.parser.Close()
}

// ParseFile reads and parses the module at path.
func (r *Reader) ParseFile(ctx context.Context, path string) (*ModuleDescription, error) {
	// #nosec G304 -- path comes from package discovery.
	src, err := os.ReadFile(path)
	if err != nil {
		return &ModuleDescription{}, ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to read module").
			WithContext("path", path).
			Build()
	}
	desc, err := r.Parse(ctx, src)
	if err != nil {
		if classified, ok := ferrors.AsClassified(err); ok {
			return desc, classified.WithContext("path", path)
		}
		return desc, err
	}
	return desc, nil
}

// Parse extracts the module description from source. On a syntax error it
// returns an empty description together with an error wrapping ErrSyntax.
func (r *Reader) Parse(ctx context.Context, src []byte) (*ModuleDescription, error) {
	if !utf8.Valid(src) {
		return &ModuleDescription{}, ferrors.MalformedInputError("module source is not valid UTF-8").WithCause(ErrSyntax).Build()
	}

	tree, err := r.parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return &ModuleDescription{}, ferrors.InternalError("module parse aborted").WithCause(err).Build()
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return &ModuleDescription{}, syntaxError(firstErrorNode(root))
	}
	if legacy := firstLegacyStatement(root); legacy != nil {
		return &ModuleDescription{}, syntaxError(legacy)
	}

	return describeModule(root, src), nil
}

func syntaxError(bad *sitter.Node) error {
	builder := ferrors.MalformedInputError("invalid module syntax").WithCause(ErrSyntax)
	if bad != nil {
		p := bad.StartPoint()
		builder = builder.
			WithContext("line", int(p.Row)+1).
			WithContext("column", int(p.Column)+1)
	}
	return builder.Build()
}

func firstErrorNode(n *sitter.Node) *sitter.Node {
	if n.Type() == "ERROR" || n.IsMissing() {
		return n
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child == nil || !child.HasError() && !child.IsMissing() {
			continue
		}
		if bad := firstErrorNode(child); bad != nil {
			return bad
		}
	}
	return nil
}

func firstLegacyStatement(n *sitter.Node) *sitter.Node {
	if legacyStatements[n.Type()] {
		return n
	}
	for _, child := range namedChildren(n) {
		if bad := firstLegacyStatement(child); bad != nil {
			return bad
		}
	}
	return nil
}

func describeModule(root *sitter.Node, src []byte) *ModuleDescription {
	desc := &ModuleDescription{
		Docstring: docstringOf(root, src),
		Classes:   []ClassDescription{},
		Functions: []FunctionDescription{},
	}

	// Classes at any depth, breadth-first like Python's ast.walk.
	queue := []*sitter.Node{root}
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		for _, child := range statementChildren(node) {
			if child.Type() == nodeClass {
				if class := describeClass(child, src); !class.IsPrivate {
					desc.Classes = append(desc.Classes, class)
				}
			}
			queue = append(queue, child)
		}
	}

	for _, stmt := range statementChildren(root) {
		if stmt.Type() != nodeFunction || isAsync(stmt) {
			continue
		}
		fn := describeFunction(stmt, src)
		if strings.HasPrefix(fn.Name, privacyMarker) {
			continue
		}
		desc.Functions = append(desc.Functions, fn)
	}
	return desc
}

func describeClass(node *sitter.Node, src []byte) ClassDescription {
	name := node.ChildByFieldName("name").Content(src)
	class := ClassDescription{
		Name:      name,
		IsPrivate: IsPrivateName(name),
		Methods:   []MethodDescription{},
	}
	body := node.ChildByFieldName("body")
	if body == nil {
		return class
	}
	class.Docstring = docstringOf(body, src)
	for _, stmt := range unwrapDecorated(namedChildren(body)) {
		if stmt.Type() != nodeFunction || isAsync(stmt) {
			continue
		}
		method := describeFunction(stmt, src)
		if isMagicMethodName(method.Name) {
			continue
		}
		class.Methods = append(class.Methods, method)
	}
	return class
}

func describeFunction(node *sitter.Node, src []byte) FunctionDescription {
	name := node.ChildByFieldName("name").Content(src)
	fn := FunctionDescription{
		Name:       name,
		Parameters: parameterNames(node.ChildByFieldName("parameters"), src),
		IsPrivate:  IsPrivateName(name),
	}
	if body := node.ChildByFieldName("body"); body != nil {
		fn.Docstring = docstringOf(body, src)
	}
	return fn
}

// parameterNames returns positional-or-keyword parameter names: positional-only
// parameters (before "/") and everything from the first "*" on are excluded.
func parameterNames(params *sitter.Node, src []byte) []string {
	names := []string{}
	if params == nil {
		return names
	}
	for i := 0; i < int(params.NamedChildCount()); i++ {
		p := params.NamedChild(i)
		switch p.Type() {
		case nodeIdentifier:
			names = append(names, p.Content(src))
		case "default_parameter", "typed_default_parameter":
			if n := p.ChildByFieldName("name"); n != nil {
				names = append(names, n.Content(src))
			}
		case "typed_parameter":
			first := p.NamedChild(0)
			if first == nil || first.Type() != nodeIdentifier {
				// *args: T or **kwargs: T
				return names
			}
			names = append(names, first.Content(src))
		case "positional_separator":
			names = names[:0]
		case "list_splat_pattern", "dictionary_splat_pattern", "keyword_separator":
			return names
		}
	}
	return names
}

// docstringOf returns the cleaned docstring of a module or block: the first
// statement, when it is a plain string expression.
func docstringOf(container *sitter.Node, src []byte) string {
	for i := 0; i < int(container.NamedChildCount()); i++ {
		stmt := container.NamedChild(i)
		if stmt.Type() == nodeComment {
			continue
		}
		if stmt.Type() != nodeExpressionStmt || stmt.NamedChildCount() != 1 {
			return ""
		}
		text, ok := literalText(stmt.NamedChild(0), src)
		if !ok {
			return ""
		}
		return cleanDocstring(text)
	}
	return ""
}

func literalText(expr *sitter.Node, src []byte) (string, bool) {
	switch expr.Type() {
	case nodeString:
		return stringLiteralValue(expr.Content(src))
	case nodeConcatenatedString:
		var out string
		for i := 0; i < int(expr.NamedChildCount()); i++ {
			part := expr.NamedChild(i)
			if part.Type() == nodeComment {
				continue
			}
			text, ok := literalText(part, src)
			if !ok {
				return "", false
			}
			out += text
		}
		return out, true
	case nodeParenthesized:
		var inner *sitter.Node
		for _, child := range namedChildren(expr) {
			if child.Type() == nodeComment {
				continue
			}
			if inner != nil {
				return "", false
			}
			inner = child
		}
		if inner == nil {
			return "", false
		}
		return literalText(inner, src)
	default:
		return "", false
	}
}

// statementChildren lists the statements directly owned by n, looking
// through blocks, decorators and clause wrappers. An elif chain nests: the
// first elif stands for everything after it, and each elif owns the next
// alternative, so a trailing else belongs to the last elif.
func statementChildren(n *sitter.Node) []*sitter.Node {
	var out []*sitter.Node
	for _, child := range namedChildren(n) {
		if child.Type() == nodeElif {
			return append(out, child)
		}
		out = appendStatement(out, child)
	}
	if n.Type() == nodeElif {
		if next := nextAlternative(n); next != nil {
			out = appendStatement(out, next)
		}
	}
	return out
}

func appendStatement(out []*sitter.Node, child *sitter.Node) []*sitter.Node {
	switch {
	case child.Type() == nodeDecorated:
		if def := child.ChildByFieldName("definition"); def != nil {
			out = append(out, def)
		}
	case transparentNodes[child.Type()]:
		out = append(out, statementChildren(child)...)
	default:
		out = append(out, child)
	}
	return out
}

// nextAlternative returns the elif or else clause following an elif.
func nextAlternative(elif *sitter.Node) *sitter.Node {
	for sib := elif.NextNamedSibling(); sib != nil; sib = sib.NextNamedSibling() {
		switch sib.Type() {
		case nodeComment:
			continue
		case nodeElif, nodeElse:
			return sib
		}
		return nil
	}
	return nil
}

func unwrapDecorated(nodes []*sitter.Node) []*sitter.Node {
	out := make([]*sitter.Node, 0, len(nodes))
	for _, n := range nodes {
		if n.Type() == nodeDecorated {
			if def := n.ChildByFieldName("definition"); def != nil {
				out = append(out, def)
			}
			continue
		}
		out = append(out, n)
	}
	return out
}

func namedChildren(n *sitter.Node) []*sitter.Node {
	count := int(n.NamedChildCount())
	out := make([]*sitter.Node, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, n.NamedChild(i))
	}
	return out
}

func isAsync(fn *sitter.Node) bool {
	first := fn.Child(0)
	return first != nil && first.Type() == "async"
}
