package signature

import "strings"

// Shape classifies a callable's source as function-like or class-like
type Shape string

const (
	ShapeFunction Shape = "function"
	ShapeClass    Shape = "class"
)

// Keyword returns the literal used in front of the name in a rendered signature
func (s Shape) Keyword() string {
	if s == ShapeClass {
		return "class"
	}
	return "function"
}

// Callable is any function or class value whose declaration can be rendered as source text
type Callable interface {
	// Source returns the full declaration text, body included
	Source() string
}

// Named is implemented by callables that know their runtime name.
// It is consulted only when the source itself carries no name.
type Named interface {
	Name() string
}

// Overrider is implemented by callables that carry an explicit signature.
// When ok is true the value is authoritative and the source is never parsed.
type Overrider interface {
	SignatureOverride() (value string, ok bool)
}

// Function is the plain data form of a Callable
type Function struct {
	FuncName string  `json:"name,omitempty" yaml:"name,omitempty"`
	Text     string  `json:"source" yaml:"source"`
	Override *string `json:"override,omitempty" yaml:"override,omitempty"`
}

func (f *Function) Source() string {
	if f == nil {
		return ""
	}
	return f.Text
}

func (f *Function) Name() string {
	if f == nil {
		return ""
	}
	return f.FuncName
}

func (f *Function) SignatureOverride() (string, bool) {
	if f == nil || f.Override == nil {
		return "", false
	}
	return *f.Override, true
}

// Parts holds what an extractor recovered from a callable's source
type Parts struct {
	Shape  Shape
	Name   string
	Params string
	// Complete is false when no parameter list could be located
	Complete bool
}

// Signature renders the parts as "<keyword> <name>(<params>)"
func (p Parts) Signature() string {
	var b strings.Builder
	b.WriteString(p.Shape.Keyword())
	if p.Name != "" {
		b.WriteByte(' ')
		b.WriteString(p.Name)
	}
	b.WriteByte('(')
	b.WriteString(p.Params)
	b.WriteByte(')')
	return strings.TrimSpace(b.String())
}
