package signature

import (
	"fmt"

	sigmodel "sigscope/internal/model/signature"
)

// modifiers may precede a function or method name without being the name
var modifiers = map[string]bool{
	"async":  true,
	"static": true,
	"get":    true,
	"set":    true,
}

// ScanExtractor locates names and parameter spans with a small tokenizer and balanced
// bracket scans. It understands declarations, expressions, generators, method
// shorthand, computed names and arrow functions, and never fails on input shape: when
// no parameter list is found it returns the partial parts with ErrUnrecognizedShape.
type ScanExtractor struct{}

// NewScanExtractor creates the tokenizer-based extractor
func NewScanExtractor() *ScanExtractor {
	return &ScanExtractor{}
}

func (e *ScanExtractor) Name() string {
	return ExtractorScan
}

func (e *ScanExtractor) Extract(source string, shape sigmodel.Shape) (sigmodel.Parts, error) {
	var parts sigmodel.Parts
	if shape == sigmodel.ShapeClass {
		parts = scanClass(source)
	} else {
		parts = scanFunction(source)
	}
	if !parts.Complete {
		return parts, fmt.Errorf("no parameter list in %s source: %w", shape, ErrUnrecognizedShape)
	}
	return parts, nil
}

func scanFunction(src string) sigmodel.Parts {
	parts := sigmodel.Parts{Shape: sigmodel.ShapeFunction}
	i := skipSpace(src, 0)
	for i < len(src) {
		c := src[i]
		switch {
		case c == '(':
			end := matchClose(src, i)
			if end < 0 {
				return parts
			}
			parts.Params = src[i+1 : end]
			parts.Complete = true
			return parts
		case c == '*':
			i = skipSpace(src, i+1)
		case c == '#':
			word, j := readIdent(src, i+1)
			if word == "" {
				return parts
			}
			parts.Name = "#" + word
			i = skipSpace(src, j)
		case c == '[' && parts.Name == "":
			end := matchClose(src, i)
			if end < 0 {
				return parts
			}
			parts.Name = src[i : end+1]
			i = skipSpace(src, end+1)
		case c == '<' && parts.Name != "":
			// type parameters between name and parameter list
			end := matchClose(src, i)
			if end < 0 {
				return parts
			}
			i = skipSpace(src, end+1)
		case (c == '\'' || c == '"') && parts.Name == "":
			end := skipLiteral(src, i)
			parts.Name = src[i:end]
			i = skipSpace(src, end)
		case isIdentStart(c):
			word, j := readIdent(src, i)
			next := skipSpace(src, j)
			if word == "function" {
				i = next
				continue
			}
			if hasArrow(src, j) {
				// bare single-parameter arrow: x => ...
				parts.Params = word
				parts.Complete = true
				return parts
			}
			if word == "async" {
				// "async (a) => ..." and "async <T>(a: T) => ..." are modifiers
				if open, ok := arrowParamsAt(src, next); ok {
					i = open
					continue
				}
			}
			if modifiers[word] && next < len(src) && src[next] == '(' {
				// "get(a) {}" is a method named get
				parts.Name = word
				i = next
				continue
			}
			if modifiers[word] && next < len(src) && src[next] != '=' && src[next] != '<' {
				i = next
				continue
			}
			parts.Name = word
			i = next
		default:
			return parts
		}
	}
	return parts
}

// arrowParamsAt reports whether optional type parameters, a parameter list and "=>"
// start at i, returning the index of the parameter list's '('
func arrowParamsAt(src string, i int) (int, bool) {
	if i < len(src) && src[i] == '<' {
		end := matchClose(src, i)
		if end < 0 {
			return 0, false
		}
		i = skipSpace(src, end+1)
	}
	if i >= len(src) || src[i] != '(' {
		return 0, false
	}
	end := matchClose(src, i)
	if end < 0 || !hasArrow(src, end+1) {
		return 0, false
	}
	return i, true
}

func scanClass(src string) sigmodel.Parts {
	parts := sigmodel.Parts{Shape: sigmodel.ShapeClass}
	_, i := readIdent(src, skipSpace(src, 0))
	i = skipSpace(src, i)
	if word, j := readIdent(src, i); word != "" && word != "extends" && word != "implements" {
		parts.Name = word
		i = j
	}

	body := findBody(src, i)
	if body < 0 {
		return parts
	}
	end := matchClose(src, body)
	if end < 0 {
		end = len(src)
	}
	parts.Params = constructorParams(src[body+1 : end])
	parts.Complete = true
	return parts
}

// findBody returns the index of the first '{' outside parentheses, brackets and type arguments
func findBody(src string, i int) int {
	for i < len(src) {
		c := src[i]
		switch {
		case isQuote(c):
			i = skipLiteral(src, i)
			continue
		case c == '(' || c == '[' || c == '<':
			end := matchClose(src, i)
			if end < 0 {
				return -1
			}
			i = end + 1
			continue
		case c == '{':
			return i
		}
		i++
	}
	return -1
}

// constructorParams scans a class body for a constructor declared at the top level of
// the body and returns its raw parameter text, or "" when the class has none.
// A static method named constructor is not the constructor.
func constructorParams(body string) string {
	depth := 0
	prev := byte(0)
	afterStatic := false
	for i := 0; i < len(body); {
		c := body[i]
		switch {
		case isQuote(c):
			end := skipLiteral(body, i)
			lit := body[i:end]
			if depth == 0 && !afterStatic && c != '`' && len(lit) > 2 && lit[1:len(lit)-1] == "constructor" {
				if params, ok := paramsAt(body, end); ok {
					return params
				}
			}
			i = end
			prev = c
			afterStatic = false
			continue
		case c == '(' || c == '[' || c == '{':
			depth++
		case c == ')' || c == ']' || c == '}':
			depth--
		case isIdentStart(c):
			word, j := readIdent(body, i)
			if depth == 0 && word == "constructor" && prev != '.' && !afterStatic {
				if params, ok := paramsAt(body, j); ok {
					return params
				}
			}
			afterStatic = depth == 0 && word == "static"
			i = j
			prev = 'a'
			continue
		}
		if !isSpace(c) {
			prev = c
			afterStatic = false
		}
		i++
	}
	return ""
}

func paramsAt(src string, i int) (string, bool) {
	i = skipSpace(src, i)
	if i >= len(src) || src[i] != '(' {
		return "", false
	}
	end := matchClose(src, i)
	if end < 0 {
		return "", false
	}
	return src[i+1 : end], true
}
