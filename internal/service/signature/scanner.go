package signature

import (
	"strings"

	sigmodel "sigscope/internal/model/signature"
)

// StripComments removes // line comments and /* */ block comments from JavaScript source.
// String and template literals are copied untouched. A block comment becomes a single
// space; a line comment keeps its terminating newline.
func StripComments(src string) string {
	s := &stripper{src: src}
	s.out.Grow(len(src))
	s.code(false)
	return s.out.String()
}

type stripper struct {
	src string
	i   int
	out strings.Builder
}

// code copies source text until the end of input, or, when nested is set, until the
// '}' closing a template substitution.
func (s *stripper) code(nested bool) {
	depth := 0
	for s.i < len(s.src) {
		c := s.src[s.i]
		switch {
		case c == '/' && s.peek(1) == '/':
			end := strings.IndexByte(s.src[s.i:], '\n')
			if end < 0 {
				s.i = len(s.src)
				return
			}
			s.i += end
		case c == '/' && s.peek(1) == '*':
			end := strings.Index(s.src[s.i+2:], "*/")
			if end < 0 {
				s.i = len(s.src)
				return
			}
			s.i += end + 4
			s.out.WriteByte(' ')
		case c == '\'' || c == '"':
			s.quoted(c)
		case c == '`':
			s.template()
		case nested && c == '{':
			depth++
			s.copy(1)
		case nested && c == '}':
			s.copy(1)
			if depth == 0 {
				return
			}
			depth--
		default:
			s.copy(1)
		}
	}
}

func (s *stripper) quoted(quote byte) {
	s.copy(1)
	for s.i < len(s.src) {
		c := s.src[s.i]
		switch c {
		case '\\':
			s.copy(2)
		case quote, '\n':
			s.copy(1)
			return
		default:
			s.copy(1)
		}
	}
}

func (s *stripper) template() {
	s.copy(1)
	for s.i < len(s.src) {
		c := s.src[s.i]
		switch {
		case c == '\\':
			s.copy(2)
		case c == '`':
			s.copy(1)
			return
		case c == '$' && s.peek(1) == '{':
			s.copy(2)
			s.code(true)
		default:
			s.copy(1)
		}
	}
}

func (s *stripper) peek(offset int) byte {
	if s.i+offset < len(s.src) {
		return s.src[s.i+offset]
	}
	return 0
}

func (s *stripper) copy(n int) {
	end := s.i + n
	if end > len(s.src) {
		end = len(s.src)
	}
	s.out.WriteString(s.src[s.i:end])
	s.i = end
}

// NormalizeWhitespace collapses every whitespace run, newlines included, to one space and trims the result
func NormalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Classify reports the shape of comment-free source: class when it opens with the class keyword
func Classify(cleaned string) sigmodel.Shape {
	i := skipSpace(cleaned, 0)
	if word, _ := readIdent(cleaned, i); word == "class" {
		return sigmodel.ShapeClass
	}
	return sigmodel.ShapeFunction
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || c >= 0x80 ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

func skipSpace(src string, i int) int {
	for i < len(src) && isSpace(src[i]) {
		i++
	}
	return i
}

// readIdent returns the identifier starting at i and the index just past it
func readIdent(src string, i int) (string, int) {
	if i >= len(src) || !isIdentStart(src[i]) {
		return "", i
	}
	j := i + 1
	for j < len(src) && isIdentPart(src[j]) {
		j++
	}
	return src[i:j], j
}

// skipLiteral returns the index just past the string or template literal opening at i
func skipLiteral(src string, i int) int {
	quote := src[i]
	j := i + 1
	for j < len(src) {
		c := src[j]
		switch {
		case c == '\\':
			j += 2
			continue
		case c == quote:
			return j + 1
		case quote != '`' && c == '\n':
			return j + 1
		case quote == '`' && c == '$' && j+1 < len(src) && src[j+1] == '{':
			end := matchClose(src, j+1)
			if end < 0 {
				return len(src)
			}
			j = end + 1
			continue
		}
		j++
	}
	return len(src)
}

func isQuote(c byte) bool {
	return c == '\'' || c == '"' || c == '`'
}

var closers = map[byte]byte{'(': ')', '[': ']', '{': '}', '<': '>'}

// matchClose returns the index of the bracket balancing the one at open, or -1.
// Literals are skipped so brackets inside strings are not counted.
func matchClose(src string, open int) int {
	opener := src[open]
	closer := closers[opener]
	depth := 0
	for i := open; i < len(src); {
		c := src[i]
		switch {
		case isQuote(c):
			i = skipLiteral(src, i)
			continue
		case c == opener:
			depth++
		case c == closer:
			if opener == '<' && i > 0 && src[i-1] == '=' {
				break
			}
			depth--
			if depth == 0 {
				return i
			}
		}
		i++
	}
	return -1
}

// hasArrow reports whether "=>" follows index i after optional whitespace
func hasArrow(src string, i int) bool {
	i = skipSpace(src, i)
	return strings.HasPrefix(src[i:], "=>")
}
