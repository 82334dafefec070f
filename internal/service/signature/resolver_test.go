package signature

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"sigscope/internal/errs"
	sigmodel "sigscope/internal/model/signature"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func fn(source string) *sigmodel.Function {
	return &sigmodel.Function{Text: source}
}

// resolvers returns a scan-only resolver and a tree-sitter-first resolver
func resolvers(t *testing.T) map[string]*Resolver {
	t.Helper()
	ts, err := NewTreeSitterExtractor("javascript")
	require.NoError(t, err)
	return map[string]*Resolver{
		"scan":       NewResolver(zap.NewNop()),
		"treesitter": NewResolver(zap.NewNop(), ts),
	}
}

func TestResolve_Shapes(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"plain function", "function add(a, b) { return a + b }", "function add(a, b)"},
		{"comments inside parameter list", "function connect(\n  host, // server host\n  port /* tcp */\n) {}", "function connect(host, port)"},
		{"class with constructor", "class Point { constructor(x, y) { this.x = x } }", "class Point(x, y)"},
		{"class without constructor", "class Empty { greet() { return 'hi' } }", "class Empty()"},
		{"whitespace runs collapse", "function spread(a,\n   b,\n\tc) {}", "function spread(a, b, c)"},
		{"nested default parentheses", "function f(a = g(h(1)), b = [1, 2]) { }", "function f(a = g(h(1)), b = [1, 2])"},
		{"string default containing slashes", `function url(base = "http://example.com") {}`, `function url(base = "http://example.com")`},
		{"arrow function", "(a, b) => a + b", "function(a, b)"},
		{"bare arrow parameter", "x => x * 2", "function(x)"},
		{"async arrow", "async (req, res) => { res.end() }", "function(req, res)"},
		{"async function with destructuring", "async function load(url, { retries = 3 } = {}) {}", "function load(url, { retries = 3 } = {})"},
		{"generator", "function* ids(start) { yield start }", "function ids(start)"},
		{"method shorthand", "area(width, height) { return width * height }", "function area(width, height)"},
		{"getter", "get size() { return this.n }", "function size()"},
		{"method named get", "get(key) { return this.m[key] }", "function get(key)"},
		{"static async method", "static async create(opts) { }", "function create(opts)"},
		{"computed method name", "[Symbol.iterator]() { }", "function [Symbol.iterator]()"},
		{"private method", "#secret(a) { return a }", "function #secret(a)"},
		{"class extending a call", "class Service extends mixin(Base, Logger) {\n  constructor(db, cache) { super() }\n}", "class Service(db, cache)"},
		{"nested class constructor ignored", "class Outer {\n  build() {\n    return class Inner { constructor(z) {} }\n  }\n}", "class Outer()"},
		{"quoted constructor", "class Q { 'constructor'(a) {} }", "class Q(a)"},
		{"static method named constructor ignored", "class A { static constructor(q) {} constructor(a) {} }", "class A(a)"},
		{"static quoted constructor ignored", "class B { static 'constructor'(q) {} }", "class B()"},
		{"async generic arrow", "async <T>(x: T) => x", "function(x: T)"},
		{"leading comment before class", "/* doc */ class Doc { constructor(a /* first */, b) {} }", "class Doc(a , b)"},
		{"unrecognized source", "42", "function()"},
		{"empty source", "", "function()"},
		{"class without body", "class Broken", "class Broken()"},
	}

	for resolverName, r := range resolvers(t) {
		for _, tt := range tests {
			t.Run(resolverName+"/"+tt.name, func(t *testing.T) {
				assert.Equal(t, tt.want, r.Resolve(fn(tt.source)))
			})
		}
	}
}

func TestResolve_NamedFallback(t *testing.T) {
	r := NewResolver(zap.NewNop())

	arrow := &sigmodel.Function{FuncName: "sum", Text: "(a, b) => a + b"}
	assert.Equal(t, "function sum(a, b)", r.Resolve(arrow))

	anonClass := &sigmodel.Function{FuncName: "Anon", Text: "class { constructor(v) {} }"}
	assert.Equal(t, "class Anon(v)", r.Resolve(anonClass))

	named := &sigmodel.Function{FuncName: "alias", Text: "function real(a) {}"}
	assert.Equal(t, "function real(a)", r.Resolve(named))

	unparsed := &sigmodel.Function{FuncName: "answer", Text: "42"}
	assert.Equal(t, "function answer()", r.Resolve(unparsed))
}

func TestResolve_FieldOverrideIsVerbatim(t *testing.T) {
	r := NewResolver(zap.NewNop())

	for _, source := range []string{
		"function add(a, b) { return a + b }",
		"class Point { constructor(x, y) {} }",
		"not even code",
	} {
		override := "  custom(sig)\n  with  spacing "
		c := &sigmodel.Function{Text: source, Override: &override}
		assert.Equal(t, override, r.Resolve(c))
	}
}

type panickingExtractor struct{}

func (panickingExtractor) Name() string { return "panicky" }

func (panickingExtractor) Extract(string, sigmodel.Shape) (sigmodel.Parts, error) {
	panic("boom")
}

func TestResolve_OverrideSkipsParsing(t *testing.T) {
	r := NewResolver(zap.NewNop(), panickingExtractor{})
	c := fn("function add(a, b) {}")

	require.NoError(t, r.Attach(c, "add :: a -> b"))
	assert.Equal(t, "add :: a -> b", r.Resolve(c))
}

func TestResolve_ExtractorPanicDegrades(t *testing.T) {
	r := NewResolver(zap.NewNop(), panickingExtractor{})

	assert.Equal(t, []string{"panicky", ExtractorScan}, r.Extractors())
	assert.Equal(t, "function add(a, b)", r.Resolve(fn("function add(a, b) {}")))
}

type countStringer int

func (c countStringer) String() string { return strings.Repeat("*", int(c)) }

func TestAttach_SideTable(t *testing.T) {
	r := NewResolver(zap.NewNop())
	c := fn("function a(x) {}")
	other := fn("function a(x) {}")

	require.NoError(t, r.Attach(c, 42))
	assert.Equal(t, "42", r.Resolve(c))
	assert.Equal(t, "function a(x)", r.Resolve(other), "overrides are keyed by identity")

	require.NoError(t, r.Attach(c, countStringer(3)))
	assert.Equal(t, "***", r.Resolve(c))

	r.Detach(c)
	assert.Equal(t, "function a(x)", r.Resolve(c))
}

type sliceCallable []string

func (s sliceCallable) Source() string { return strings.Join(s, "\n") }

func TestAttach_RejectsCallablesWithoutIdentity(t *testing.T) {
	r := NewResolver(zap.NewNop())
	c := sliceCallable{"function lines(a,", "b) {}"}

	err := r.Attach(c, "nope")
	var objErr *errs.InvalidObjectError
	require.True(t, errors.As(err, &objErr))

	assert.Equal(t, "function lines(a, b)", r.Resolve(c))
	r.Detach(c)
}

type metaCallable struct {
	Meta any
	Text string
}

func (m metaCallable) Source() string { return m.Text }

func TestAttach_StructWithUnhashableField(t *testing.T) {
	r := NewResolver(zap.NewNop())
	c := metaCallable{Meta: []int{1}, Text: "function f(a) {}"}

	assert.Equal(t, "function f(a)", r.Resolve(c))

	err := r.Attach(c, "f :: a")
	var objErr *errs.InvalidObjectError
	require.True(t, errors.As(err, &objErr))
	assert.Equal(t, "function f(a)", r.Resolve(c))
	r.Detach(c)

	keyed := metaCallable{Meta: "tag", Text: "function f(a) {}"}
	require.NoError(t, r.Attach(keyed, "f :: a"))
	assert.Equal(t, "f :: a", r.Resolve(keyed))
}

func TestResolve_NilCallables(t *testing.T) {
	r := NewResolver(nil)

	assert.Equal(t, "", r.Resolve(nil))
	var nilFn *sigmodel.Function
	assert.Equal(t, "function()", r.Resolve(nilFn))
}

func TestResolve_OutputGuarantees(t *testing.T) {
	sources := []string{
		"function a(\n  x, // one\n  y /* two\n three */,\n  z\n) {}",
		"class K {\n  // ctor\n  constructor(\n    a,   /* a */\n\t\tb\n  ) {}\n}",
		"async  function   spaced ( a ,  b ) {}",
		"(\n  first, // c\n  second\n) => first",
	}

	for name, r := range resolvers(t) {
		for _, source := range sources {
			got := r.Resolve(fn(source))
			assert.NotContains(t, got, "\n", "%s: %q", name, source)
			assert.NotContains(t, got, "  ", "%s: %q", name, source)
			assert.NotContains(t, got, "//", "%s: %q", name, source)
			assert.NotContains(t, got, "/*", "%s: %q", name, source)
			assert.Equal(t, strings.TrimSpace(got), got)
		}
	}
}

func TestResolve_Idempotent(t *testing.T) {
	source := "class Point {\n  constructor(x, // x\n    y) {}\n}"
	c := fn(source)

	for _, r := range resolvers(t) {
		first := r.Resolve(c)
		second := r.Resolve(c)
		assert.Equal(t, first, second)
		assert.Equal(t, "class Point(x, y)", first)
	}
	assert.Equal(t, source, c.Source())
}

func TestResolve_Concurrent(t *testing.T) {
	ts, err := NewTreeSitterExtractor("javascript")
	require.NoError(t, err)
	r := NewResolver(zap.NewNop(), ts)
	shared := fn("function shared(a, b) {}")

	var wg sync.WaitGroup
	results := make([]string, 32)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%4 == 0 {
				_ = r.Attach(fn("function other() {}"), i)
			}
			results[i] = r.Resolve(shared)
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, "function shared(a, b)", got)
	}
}

func TestBound_Signature(t *testing.T) {
	r := NewResolver(zap.NewNop())
	c := fn("function greet(name) {}")
	b := r.Bind(c)

	assert.Equal(t, "function greet(name)", b.Signature())
	assert.Equal(t, "function greet(name)", b.String())
	assert.Same(t, c, b.Callable())

	require.NoError(t, r.Attach(c, "greet/1"))
	assert.Equal(t, "greet/1", b.Signature())
}
