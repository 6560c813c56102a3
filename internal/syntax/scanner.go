package syntax

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Scanner tokenizes swarm source. Call Next to advance; Token, Literal,
// LitKind and Pos describe the current token.
type Scanner struct {
	source

	tok    Token
	lit    string
	kind   LitKind
	tokPos Pos

	nlsemi     bool // insert a semicolon before the next newline or EOF
	asiEnabled bool

	litBuf strings.Builder
}

// NewScanner returns a scanner reading src. errh receives lexical errors and
// may be nil.
func NewScanner(filename string, src io.Reader, errh func(pos Pos, msg string)) *Scanner {
	s := &Scanner{asiEnabled: true}
	s.init(filename, src, errh)
	return s
}

// SetASIEnabled turns automatic semicolon insertion on or off.
func (s *Scanner) SetASIEnabled(enabled bool) {
	s.asiEnabled = enabled
}

func (s *Scanner) Token() Token     { return s.tok }
func (s *Scanner) Literal() string  { return s.lit }
func (s *Scanner) LitKind() LitKind { return s.kind }
func (s *Scanner) Pos() Pos         { return s.tokPos }

// Next advances to the next token.
func (s *Scanner) Next() {
	nlsemi := s.nlsemi
	s.nlsemi = false

redo:
	for isWhitespace(s.ch) {
		s.nextch()
	}

	if s.asiEnabled && nlsemi && (s.ch == '\n' || s.ch < 0) {
		s.tokPos = s.pos()
		s.tok = _Semi
		s.lit = "newline"
		if s.ch < 0 {
			s.lit = "EOF"
		} else {
			s.nextch()
		}
		return
	}

	if s.ch == '\n' {
		s.nextch()
		goto redo
	}

	s.tokPos = s.pos()

	switch {
	case s.ch < 0:
		s.tok = _EOF
		s.lit = ""
	case isLetter(s.ch):
		s.ident()
	case isDigit(s.ch):
		s.number()
	case s.ch == '"':
		s.stdString()
	case s.ch == '/':
		s.nextch()
		if s.ch == '/' {
			for s.ch != '\n' && s.ch >= 0 {
				s.nextch()
			}
			goto redo
		}
		s.tok, s.lit = _Div, "/"
	default:
		if !s.operator() {
			s.error(fmt.Sprintf("unexpected character %q", s.ch))
			s.nextch()
			goto redo
		}
	}

	s.nlsemi = s.endsStatement()
}

// endsStatement reports whether a newline after the current token
// terminates a statement.
func (s *Scanner) endsStatement() bool {
	switch s.tok {
	case _Name, _Literal, _Break, _Continue, _Return, _Rparen, _Rbrack, _Rbrace:
		return true
	}
	return false
}

// ident scans an identifier or keyword. Non-ASCII identifiers are
// normalized to NFC.
func (s *Scanner) ident() {
	s.litBuf.Reset()
	ascii := true
	for isIdentRest(s.ch) {
		if s.ch >= utf8.RuneSelf {
			ascii = false
		}
		s.litBuf.WriteRune(s.ch)
		s.nextch()
	}
	s.lit = s.litBuf.String()
	if !ascii {
		s.lit = norm.NFC.String(s.lit)
	}
	s.tok = LookupKeyword(s.lit)
}

func (s *Scanner) take() {
	s.litBuf.WriteRune(s.ch)
	s.nextch()
}

func (s *Scanner) digits(ok func(rune) bool, what string) {
	if !ok(s.ch) {
		s.error("invalid " + what + " digit")
		return
	}
	for ok(s.ch) {
		s.take()
	}
}

func (s *Scanner) number() {
	s.litBuf.Reset()
	s.kind = IntLit
	s.tok = _Literal

	if s.ch == '0' {
		s.take()
		switch lower(s.ch) {
		case 'x':
			s.take()
			s.digits(isHexDigit, "hex")
			s.lit = s.litBuf.String()
			return
		case 'o':
			s.take()
			s.digits(isOctalDigit, "octal")
			s.lit = s.litBuf.String()
			return
		case 'b':
			s.take()
			s.digits(isBinaryDigit, "binary")
			if isDigit(s.ch) {
				s.error("invalid binary digit")
			}
			s.lit = s.litBuf.String()
			return
		}
	}

	for isDigit(s.ch) {
		s.take()
	}
	if s.ch == '.' {
		s.kind = FloatLit
		s.take()
		for isDigit(s.ch) {
			s.take()
		}
	}
	if lower(s.ch) == 'e' {
		s.kind = FloatLit
		s.take()
		if s.ch == '+' || s.ch == '-' {
			s.take()
		}
		if !isDigit(s.ch) {
			s.error("exponent has no digits")
		}
		for isDigit(s.ch) {
			s.take()
		}
	}
	s.lit = s.litBuf.String()
}

// stdString scans a double-quoted string; the literal is the decoded value.
func (s *Scanner) stdString() {
	s.nextch()
	var b strings.Builder
	s.tok = _Literal
	s.kind = StringLit
	for {
		switch {
		case s.ch == '"':
			s.nextch()
			s.lit = b.String()
			return
		case s.ch == '\n' || s.ch < 0:
			s.error("string not terminated")
			s.lit = b.String()
			return
		case s.ch == '\\':
			if r, ok := s.escape(); ok {
				b.WriteRune(r)
			}
		default:
			b.WriteRune(s.ch)
			s.nextch()
		}
	}
}

func (s *Scanner) escape() (rune, bool) {
	s.nextch()
	c := s.ch
	s.nextch()
	switch c {
	case 'n':
		return '\n', true
	case 't':
		return '\t', true
	case 'r':
		return '\r', true
	case '\\', '"':
		return c, true
	case '0':
		return 0, true
	case 'x':
		var v rune
		for i := 0; i < 2; i++ {
			if !isHexDigit(s.ch) {
				s.error("invalid hex escape")
				return 0, false
			}
			if isDigit(s.ch) {
				v = v*16 + s.ch - '0'
			} else {
				v = v*16 + lower(s.ch) - 'a' + 10
			}
			s.nextch()
		}
		return v, true
	}
	s.error(fmt.Sprintf("unknown escape sequence: \\%c", c))
	return 0, false
}

// operator scans an operator or delimiter. It reports false if the current
// character starts neither.
func (s *Scanner) operator() bool {
	ch := s.ch
	if d, ok := doubleOps[ch]; ok {
		s.nextch()
		if s.ch == d.next {
			s.nextch()
			s.tok = d.tok
			s.lit = d.tok.String()
			return true
		}
		if t, ok := singleOps[ch]; ok {
			s.tok = t
			s.lit = t.String()
			return true
		}
		s.error(fmt.Sprintf("unexpected character %q", ch))
		s.tok = _Error
		s.lit = string(ch)
		return true
	}
	if t, ok := singleOps[ch]; ok {
		s.nextch()
		s.tok = t
		s.lit = t.String()
		return true
	}
	return false
}

var singleOps = map[rune]Token{
	'+': _Add, '-': _Sub, '*': _Mul, '%': _Rem,
	'<': _Lss, '>': _Gtr, '=': _Assign, '!': _Not,
	'(': _Lparen, ')': _Rparen, '[': _Lbrack, ']': _Rbrack,
	'{': _Lbrace, '}': _Rbrace, ',': _Comma, ';': _Semi,
}

// doubleOps lists characters that may start a two-character operator.
var doubleOps = map[rune]struct {
	next rune
	tok  Token
}{
	'<': {'=', _Leq},
	'>': {'=', _Geq},
	'=': {'=', _Eql},
	'!': {'=', _Neq},
	':': {'=', _Define},
	'&': {'&', _AndAnd},
	'|': {'|', _OrOr},
}
