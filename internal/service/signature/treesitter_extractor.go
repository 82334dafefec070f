package signature

import (
	"fmt"
	"strings"

	sigmodel "sigscope/internal/model/signature"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

var functionKinds = map[string]bool{
	"function_declaration":           true,
	"generator_function_declaration": true,
	"function_expression":            true,
	"function":                       true,
	"generator_function":             true,
	"arrow_function":                 true,
	"method_definition":              true,
}

var classKinds = map[string]bool{
	"class_declaration":          true,
	"abstract_class_declaration": true,
	"class":                      true,
}

// TreeSitterExtractor reads names and parameter spans from a tree-sitter syntax tree.
// Sources the grammar cannot parse cleanly (method shorthand, anonymous declarations)
// are rejected so the next extractor in the chain handles them.
type TreeSitterExtractor struct {
	language *tree_sitter.Language
	langName string
}

// NewTreeSitterExtractor creates an extractor for "javascript" or "typescript" source
func NewTreeSitterExtractor(language string) (*TreeSitterExtractor, error) {
	var lang *tree_sitter.Language
	switch language {
	case "", "javascript":
		language = "javascript"
		lang = tree_sitter.NewLanguage(javascript.Language())
	case "typescript":
		lang = tree_sitter.NewLanguage(typescript.LanguageTypescript())
	default:
		return nil, fmt.Errorf("unsupported language: %s", language)
	}

	// fail at construction rather than on every call if the grammar is incompatible
	parser := tree_sitter.NewParser()
	defer parser.Close()
	if err := parser.SetLanguage(lang); err != nil {
		return nil, fmt.Errorf("failed to set %s language: %w", language, err)
	}

	return &TreeSitterExtractor{
		language: lang,
		langName: language,
	}, nil
}

func (e *TreeSitterExtractor) Name() string {
	return ExtractorTreeSitter
}

// Language returns the grammar the extractor parses with
func (e *TreeSitterExtractor) Language() string {
	return e.langName
}

func (e *TreeSitterExtractor) Extract(source string, shape sigmodel.Shape) (sigmodel.Parts, error) {
	parts := sigmodel.Parts{Shape: shape}

	// tree-sitter parsers are not thread-safe, so each call gets its own
	parser := tree_sitter.NewParser()
	defer parser.Close()
	if err := parser.SetLanguage(e.language); err != nil {
		return parts, fmt.Errorf("failed to set %s language: %w", e.langName, err)
	}

	src := []byte(source)
	tree := parser.Parse(src, nil)
	if tree == nil {
		return parts, fmt.Errorf("failed to parse %s source", e.langName)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return parts, fmt.Errorf("%s syntax tree has errors: %w", e.langName, ErrUnrecognizedShape)
	}

	kinds := functionKinds
	if shape == sigmodel.ShapeClass {
		kinds = classKinds
	}
	node := findFirst(root, kinds)
	if node == nil {
		return parts, fmt.Errorf("no %s node in %s syntax tree: %w", shape, e.langName, ErrUnrecognizedShape)
	}
	// the declaration must be the source itself, not something nested in a body
	if node.StartByte() != uint(skipSpace(source, 0)) {
		return parts, fmt.Errorf("%s node does not open the source: %w", node.Kind(), ErrUnrecognizedShape)
	}

	if name := node.ChildByFieldName("name"); name != nil {
		parts.Name = name.Utf8Text(src)
	}

	if shape == sigmodel.ShapeClass {
		parts.Params = classParams(node, src)
		parts.Complete = true
		return parts, nil
	}

	params, ok := functionParams(node, src)
	if !ok {
		return parts, fmt.Errorf("%s node without parameters: %w", node.Kind(), ErrUnrecognizedShape)
	}
	parts.Params = params
	parts.Complete = true
	return parts, nil
}

// findFirst returns the top-most node, in source order, whose kind is in kinds
func findFirst(node *tree_sitter.Node, kinds map[string]bool) *tree_sitter.Node {
	if node == nil {
		return nil
	}
	if kinds[node.Kind()] {
		return node
	}
	for i := uint(0); i < node.NamedChildCount(); i++ {
		if found := findFirst(node.NamedChild(i), kinds); found != nil {
			return found
		}
	}
	return nil
}

func functionParams(node *tree_sitter.Node, src []byte) (string, bool) {
	if params := node.ChildByFieldName("parameters"); params != nil {
		return stripParens(params.Utf8Text(src)), true
	}
	// single bare arrow parameter
	if param := node.ChildByFieldName("parameter"); param != nil {
		return param.Utf8Text(src), true
	}
	return "", false
}

// classParams returns the parameter text of the constructor declared directly in the class body
func classParams(node *tree_sitter.Node, src []byte) string {
	body := node.ChildByFieldName("body")
	if body == nil {
		return ""
	}
	for i := uint(0); i < body.NamedChildCount(); i++ {
		member := body.NamedChild(i)
		if member == nil || member.Kind() != "method_definition" {
			continue
		}
		name := member.ChildByFieldName("name")
		if name == nil || strings.Trim(name.Utf8Text(src), `'"`) != "constructor" || isStatic(member) {
			continue
		}
		if params, ok := functionParams(member, src); ok {
			return params
		}
	}
	return ""
}

func isStatic(member *tree_sitter.Node) bool {
	for i := uint(0); i < member.ChildCount(); i++ {
		if child := member.Child(i); child != nil && child.Kind() == "static" {
			return true
		}
	}
	return false
}

func stripParens(text string) string {
	if strings.HasPrefix(text, "(") && strings.HasSuffix(text, ")") {
		return text[1 : len(text)-1]
	}
	return text
}
