package syntax

import (
	"io"
	"unicode"
	"unicode/utf8"
)

// source reads UTF-8 input one rune at a time and tracks positions.
type source struct {
	buf []byte

	filename string
	line     uint32
	col      uint32

	ch   rune // current character, -1 at EOF
	offs int  // byte offset of the next character

	errh func(pos Pos, msg string)
}

// init reads all of r. Position (line, col) always describes s.ch.
func (s *source) init(filename string, r io.Reader, errh func(Pos, string)) {
	s.filename = filename
	s.line, s.col = 1, 0
	s.ch = -1
	s.errh = errh

	var err error
	if s.buf, err = io.ReadAll(r); err != nil {
		s.error("error reading source file: " + err.Error())
		return
	}
	s.nextch()
}

func (s *source) nextch() {
	if s.ch == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}

	if s.offs >= len(s.buf) {
		s.ch = -1
		return
	}

	r, w := utf8.DecodeRune(s.buf[s.offs:])
	if r == utf8.RuneError && w == 1 {
		s.error("invalid UTF-8 encoding")
	}
	s.ch = r
	s.offs += w
}

func (s *source) pos() Pos {
	return NewPos(s.filename, s.line, s.col)
}

func (s *source) error(msg string) {
	if s.errh != nil {
		s.errh(s.pos(), msg)
	}
}

func isLetter(r rune) bool {
	return 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' || r == '_' ||
		r >= utf8.RuneSelf && unicode.IsLetter(r)
}

// isIdentRest reports whether r may continue an identifier. Combining marks
// are accepted so that decomposed spellings scan as one name.
func isIdentRest(r rune) bool {
	return isLetter(r) || isDigit(r) ||
		r >= utf8.RuneSelf && (unicode.IsDigit(r) || unicode.Is(unicode.Mn, r))
}

func isDigit(r rune) bool       { return '0' <= r && r <= '9' }
func isOctalDigit(r rune) bool  { return '0' <= r && r <= '7' }
func isBinaryDigit(r rune) bool { return r == '0' || r == '1' }
func isHexDigit(r rune) bool {
	return isDigit(r) || 'a' <= lower(r) && lower(r) <= 'f'
}

// lower maps ASCII upper case letters to lower case; it is only meaningful
// for letters.
func lower(r rune) rune { return ('a' - 'A') | r }

// newline is not whitespace: it may insert a semicolon.
func isWhitespace(r rune) bool { return r == ' ' || r == '\t' || r == '\r' }
