package syntax

import (
	"errors"
	"io"

	"github.com/you-not-fish/swarm/internal/diag"
)

// DefaultMaxErrors is the number of errors after which parsing stops.
const DefaultMaxErrors = 10

// Parser performs syntax analysis on swarm source code.
type Parser struct {
	scanner *Scanner
	scopes  scopeStack

	// current token, cached from the scanner
	tok Token
	lit string
	pos Pos

	errh      diag.Handler
	errcnt    int
	first     error
	abort     bool
	maxErrors int
}

// NewParser creates a Parser for src. Diagnostics are passed to errh,
// which may be nil.
func NewParser(filename string, src io.Reader, errh diag.Handler) *Parser {
	p := &Parser{errh: errh, maxErrors: DefaultMaxErrors}
	p.scanner = NewScanner(filename, src, func(pos Pos, msg string) {
		p.report(diag.Errorf(pos, diag.Syntax, "%s", msg))
	})
	p.next()
	return p
}

// ParseFile parses a complete file. It returns the first error reported,
// if any, together with the (possibly partial) tree.
func ParseFile(filename string, src io.Reader, errh diag.Handler) (f *File, err error) {
	defer diag.Recover(&err)
	p := NewParser(filename, src, errh)
	f = p.Parse()
	return f, p.FirstError()
}

// SetASIEnabled passes the ASI setting to the underlying scanner.
func (p *Parser) SetASIEnabled(enabled bool) {
	p.scanner.SetASIEnabled(enabled)
}

// SetMaxErrors sets the error limit. A limit <= 0 disables it.
func (p *Parser) SetMaxErrors(n int) {
	p.maxErrors = n
}

// ----------------------------------------------------------------------------
// Token navigation

func (p *Parser) next() {
	p.scanner.Next()
	p.tok = p.scanner.Token()
	p.lit = p.scanner.Literal()
	p.pos = p.scanner.Pos()
}

// got consumes the current token if it is tok.
func (p *Parser) got(tok Token) bool {
	if p.tok == tok {
		p.next()
		return true
	}
	return false
}

// want consumes tok or reports an error.
func (p *Parser) want(tok Token) {
	if !p.got(tok) {
		p.syntaxError("expected " + tok.String())
	}
}

// expect is like want but returns the position of the expected token.
func (p *Parser) expect(tok Token) Pos {
	pos := p.pos
	p.want(tok)
	return pos
}

// tokDesc describes the current token for error messages.
func (p *Parser) tokDesc() string {
	switch p.tok {
	case _Name:
		return "name " + p.lit
	case _Literal:
		return "literal " + p.lit
	case _Semi:
		if p.lit == "newline" || p.lit == "EOF" {
			return p.lit
		}
	}
	return p.tok.String()
}

// explicitSemi reports whether the current semicolon was written in the source.
func (p *Parser) explicitSemi() bool {
	return p.tok == _Semi && p.lit != "newline" && p.lit != "EOF"
}

// ----------------------------------------------------------------------------
// Error handling

// syntaxError reports msg at the current token, naming what was found.
func (p *Parser) syntaxError(msg string) {
	p.syntaxErrorAt(p.pos, msg+", found "+p.tokDesc())
}

func (p *Parser) syntaxErrorAt(pos Pos, msg string) {
	p.report(diag.Errorf(pos, diag.Syntax, "%s", msg))
}

func (p *Parser) errorAt(pos Pos, code diag.Code, format string, args ...interface{}) {
	p.report(diag.Errorf(pos, code, format, args...))
}

func (p *Parser) report(d diag.Diagnostic) {
	if p.abort {
		return
	}
	if d.Severity != diag.Caution {
		if p.errcnt == 0 {
			p.first = d
		}
		p.errcnt++
	}
	if p.errh != nil {
		p.errh(d)
	}
	if p.maxErrors > 0 && p.errcnt >= p.maxErrors {
		p.abort = true
		if p.errh != nil {
			p.errh(diag.Errorf(d.Pos, diag.Syntax, "too many errors; aborting parse"))
		}
		p.tok = _EOF
	}
}

// Errors returns the number of errors encountered during parsing.
func (p *Parser) Errors() int {
	return p.errcnt
}

// FirstError returns the first error encountered, or nil if none.
func (p *Parser) FirstError() error {
	return p.first
}

// skipStmt skips tokens up to the next semicolon or the closing brace of
// the enclosing block, ignoring those nested in brackets. The terminator is
// not consumed. It returns the position of the last token skipped.
func (p *Parser) skipStmt() Pos {
	last := p.pos
	depth := 0
	for p.tok != _EOF {
		switch p.tok {
		case _Lparen, _Lbrack, _Lbrace:
			depth++
		case _Rparen, _Rbrack:
			if depth > 0 {
				depth--
			}
		case _Rbrace:
			if depth == 0 {
				return last
			}
			depth--
		case _Semi:
			if depth == 0 {
				return last
			}
		}
		last = p.pos
		p.next()
	}
	return last
}

// skipDecl skips to the start of the next top-level declaration.
func (p *Parser) skipDecl() {
	for p.tok != _EOF && p.tok != _Type && p.tok != _Var && p.tok != _Func {
		p.next()
	}
}

// skipHeader skips past the closing parenthesis of a malformed header.
// It stops early at a brace.
func (p *Parser) skipHeader() {
	depth := 0
	for p.tok != _EOF && p.tok != _Lbrace && p.tok != _Rbrace {
		switch p.tok {
		case _Lparen:
			depth++
		case _Rparen:
			if depth == 0 {
				p.next()
				return
			}
			depth--
		}
		p.next()
	}
}

func (p *Parser) badStmt(pos Pos) *BadStmt {
	s := &BadStmt{To: p.skipStmt()}
	s.pos = pos
	return s
}

// ----------------------------------------------------------------------------
// Parsing entry point

// Parse parses a complete source file and returns the AST.
func (p *Parser) Parse() *File {
	f := &File{}
	f.pos = p.pos

	p.want(_Package)
	f.PkgName = p.name()
	p.want(_Semi)

	for !p.abort && p.tok != _EOF {
		if p.got(_Semi) {
			continue
		}
		d := p.decl()
		if d != nil {
			f.Decls = append(f.Decls, d)
		}
		if p.tok != _EOF && !p.got(_Semi) {
			p.syntaxError("after top level declaration")
			p.skipDecl()
		}
	}

	if p.scopes.depth() != 0 {
		diag.ICE(p.pos, "unbalanced parse scopes: %d left open", p.scopes.depth())
	}
	return f
}

func (p *Parser) name() *Name {
	n := &Name{Value: "_"}
	n.pos = p.pos
	if p.tok != _Name {
		p.syntaxError("expected name")
		return n
	}
	n.Value = p.lit
	p.next()
	return n
}

// ----------------------------------------------------------------------------
// Declarations

func (p *Parser) decl() Decl {
	switch p.tok {
	case _Type:
		return p.typeDecl()
	case _Var:
		return p.varDecl()
	case _Func:
		return p.funcDecl()
	}
	p.syntaxError("expected declaration")
	p.skipDecl()
	return nil
}

// typeDecl parses: type Name Type | type Name enum { ... }
func (p *Parser) typeDecl() *TypeDecl {
	d := &TypeDecl{}
	d.pos = p.pos

	p.want(_Type)
	d.Name = p.name()
	if p.tok == _Enum {
		d.Type = p.enumType()
	} else {
		d.Type = p.type_()
	}
	return d
}

func (p *Parser) enumType() *EnumType {
	t := &EnumType{}
	t.pos = p.pos

	p.want(_Enum)
	p.want(_Lbrace)
	for p.tok != _Rbrace && p.tok != _EOF {
		t.Members = append(t.Members, p.name())
		if !p.got(_Comma) && !p.got(_Semi) {
			break
		}
	}
	t.Rbrace = p.expect(_Rbrace)
	if len(t.Members) == 0 {
		p.syntaxErrorAt(t.pos, "enum type without members")
	}
	return t
}

// type_ parses a type expression. Only named types are written in source.
func (p *Parser) type_() Expr {
	if p.tok != _Name {
		p.syntaxError("expected type")
		x := &BadExpr{}
		x.pos = p.pos
		return x
	}
	return p.name()
}

// varDecl parses: var Name [Type] [= Value]
func (p *Parser) varDecl() *VarDecl {
	d := &VarDecl{}
	d.pos = p.pos

	p.want(_Var)
	d.Name = p.name()
	if p.tok != _Assign {
		d.Type = p.type_()
	}
	if p.got(_Assign) {
		d.Value = p.expr()
	}
	return d
}

// funcDecl parses: func Name [TypeParams] (Params) [Result] Block
func (p *Parser) funcDecl() *FuncDecl {
	d := &FuncDecl{}
	d.pos = p.pos

	p.want(_Func)
	d.Name = p.name()
	if p.tok == _Lbrack {
		d.TParams = p.typeParams()
	}
	d.Params = p.paramList()
	if p.tok != _Lbrace {
		d.Result = p.type_()
	}

	p.scopes.push(fnScope | declScope)
	d.Body = p.blockStmt()
	p.scopes.pop()
	return d
}

// typeParams parses [T any, U any].
func (p *Parser) typeParams() []*Field {
	p.want(_Lbrack)
	var list []*Field
	for p.tok != _Rbrack && p.tok != _EOF {
		f := &Field{}
		f.pos = p.pos
		f.Name = p.name()
		f.Type = p.type_()
		list = append(list, f)
		if !p.got(_Comma) {
			break
		}
	}
	p.want(_Rbrack)
	if len(list) == 0 {
		p.syntaxError("empty type parameter list")
	}
	return list
}

// paramList parses (p1 T1, p2 T2, ...)
func (p *Parser) paramList() []*Field {
	p.want(_Lparen)
	var params []*Field
	for p.tok != _Rparen && p.tok != _EOF {
		f := &Field{}
		f.pos = p.pos
		f.Name = p.name()
		f.Type = p.type_()
		params = append(params, f)
		if !p.got(_Comma) {
			break
		}
	}
	p.want(_Rparen)
	return params
}

// ----------------------------------------------------------------------------
// Statements

// stmtList parses statements up to the closing brace. Statements are
// terminated by a semicolon unless followed by the brace.
func (p *Parser) stmtList() []Stmt {
	var list []Stmt
	for !p.abort && p.tok != _Rbrace && p.tok != _EOF {
		if p.tok == _Semi {
			if p.explicitSemi() {
				s := &EmptyStmt{}
				s.pos = p.pos
				list = append(list, s)
			}
			p.next()
			continue
		}
		list = append(list, p.stmt())
		if p.tok == _Semi {
			p.next()
		} else if p.tok != _Rbrace && p.tok != _EOF {
			p.syntaxError("at end of statement")
			p.skipStmt()
			p.got(_Semi)
		}
	}
	return list
}

// stmt parses a single statement. It does not consume the terminator.
func (p *Parser) stmt() Stmt {
	switch p.tok {
	case _Lbrace:
		return p.blockStmt()
	case _If:
		return p.ifStmt()
	case _For:
		return p.forStmt()
	case _Return:
		return p.returnStmt()
	case _Break, _Continue:
		return p.branchStmt()
	case _Spawn, _SpawnSub, _SpawnSuper:
		return p.spawnStmt()
	case _Var:
		d := p.varDecl()
		s := &DeclStmt{Decl: d}
		s.pos = d.Pos()
		return s
	case _Semi:
		s := &EmptyStmt{}
		s.pos = p.pos
		return s
	case _Name, _Literal, _Lparen, _Not, _Sub:
		return p.simpleStmt()
	}
	pos := p.pos
	p.syntaxError("expected statement")
	return p.badStmt(pos)
}

// simpleStmt parses an expression statement or assignment.
func (p *Parser) simpleStmt() SimpleStmt {
	pos := p.pos
	x := p.expr()

	switch p.tok {
	case _Assign, _Define:
		s := &AssignStmt{Op: p.tok, LHS: x}
		s.pos = pos
		if p.tok == _Define {
			if _, ok := x.(*Name); !ok {
				p.syntaxErrorAt(x.Pos(), "non-name on left side of :=")
			}
		}
		p.next()
		s.RHS = p.expr()
		return s
	}
	s := &ExprStmt{X: x}
	s.pos = pos
	return s
}

// blockStmt parses { stmts... }
func (p *Parser) blockStmt() *BlockStmt {
	b := &BlockStmt{}
	b.pos = p.pos

	p.want(_Lbrace)
	p.scopes.push(declScope)
	b.Stmts = p.stmtList()
	p.scopes.pop()
	b.Rbrace = p.expect(_Rbrace)
	return b
}

// ifStmt parses: if cond { then } [else { else }]
func (p *Parser) ifStmt() *IfStmt {
	s := &IfStmt{}
	s.pos = p.pos

	p.want(_If)
	p.scopes.push(declScope | controlScope)
	s.Cond = p.expr()
	s.Then = p.blockStmt()
	p.scopes.pop()

	if p.got(_Else) {
		switch p.tok {
		case _If:
			s.Else = p.ifStmt()
		case _Lbrace:
			s.Else = p.blockStmt()
		default:
			p.syntaxError("else must be followed by if or block")
		}
	}
	return s
}

// forStmt parses: for [cond] { body }
func (p *Parser) forStmt() *ForStmt {
	s := &ForStmt{}
	s.pos = p.pos

	p.want(_For)
	sc := p.scopes.push(declScope | controlScope | breakScope | continueScope)
	if p.tok != _Lbrace {
		s.Cond = p.expr()
	}
	s.Body = p.blockStmt()
	p.scopes.pop()
	sc.resolve(s)
	return s
}

// returnStmt parses: return [expr]
func (p *Parser) returnStmt() *ReturnStmt {
	s := &ReturnStmt{}
	s.pos = p.pos

	p.want(_Return)
	if p.tok != _Semi && p.tok != _Rbrace && p.tok != _EOF {
		s.Result = p.expr()
	}
	return s
}

// branchStmt parses break or continue and binds it to its target.
func (p *Parser) branchStmt() *BranchStmt {
	s := &BranchStmt{Tok: p.tok}
	s.pos = p.pos
	p.next()

	if !p.scopes.bind(s) {
		if s.Tok == _Break {
			p.errorAt(s.pos, diag.Syntax, "break is not in a loop or spawn")
		} else {
			p.errorAt(s.pos, diag.Syntax, "continue is not in a loop")
		}
	}
	return s
}

// ----------------------------------------------------------------------------
// Expressions

func (p *Parser) expr() Expr {
	return p.binaryExpr(0)
}

// binaryExpr parses a binary expression whose operators bind tighter than prec.
func (p *Parser) binaryExpr(prec int) Expr {
	x := p.unaryExpr()
	for {
		oprec := p.tok.Precedence()
		if oprec <= prec {
			return x
		}
		op := &Operation{Op: p.tok, X: x}
		op.pos = x.Pos()
		p.next()
		op.Y = p.binaryExpr(oprec)
		x = op
	}
}

func (p *Parser) unaryExpr() Expr {
	switch p.tok {
	case _Not, _Sub:
		op := &Operation{Op: p.tok}
		op.pos = p.pos
		p.next()
		op.X = p.unaryExpr()
		return op
	}
	return p.primaryExpr()
}

// primaryExpr parses an operand followed by any number of calls.
func (p *Parser) primaryExpr() Expr {
	x := p.operand()
	for p.tok == _Lparen {
		x = p.callExpr(x)
	}
	return x
}

func (p *Parser) operand() Expr {
	switch p.tok {
	case _Name:
		return p.name()

	case _Literal:
		lit := &BasicLit{Value: p.lit, Kind: p.scanner.LitKind()}
		lit.pos = p.pos
		p.next()
		return lit

	case _Lparen:
		x := &ParenExpr{}
		x.pos = p.pos
		p.next()
		x.X = p.expr()
		x.Rparen = p.expect(_Rparen)
		return x
	}

	x := &BadExpr{}
	x.pos = p.pos
	p.syntaxError("expected operand")
	if p.tok != _Semi && p.tok != _Rbrace && p.tok != _EOF {
		p.next()
	}
	return x
}

// callExpr parses Fun(args...)
func (p *Parser) callExpr(fun Expr) *CallExpr {
	call := &CallExpr{Fun: fun}
	call.pos = fun.Pos()

	p.want(_Lparen)
	for p.tok != _Rparen && p.tok != _EOF {
		call.Args = append(call.Args, p.expr())
		if !p.got(_Comma) {
			break
		}
	}
	call.Rparen = p.expect(_Rparen)
	return call
}

// ----------------------------------------------------------------------------
// Spawn statements

// spawnStmt parses both spawn forms:
//
//	SpawnKw Stmt
//	SpawnKw "(" [ SimpleStmt ";" ] Cond ")" Stmt
func (p *Parser) spawnStmt() Stmt {
	parts := SpawnParts{
		Pos:     p.pos,
		Keyword: p.tok,
		Sub:     p.tok == _SpawnSub,
		Super:   p.tok == _SpawnSuper,
	}
	p.next()

	if p.tok != _Lparen {
		if parts.Sub || parts.Super {
			// the builder reports the missing timestamp
			return p.buildSpawn(parts, nil)
		}
		sc := p.scopes.push(breakScope | spawnScope)
		parts.Body = p.stmt()
		p.scopes.pop()
		return p.buildSpawn(parts, sc)
	}

	parts.Header = true
	hdr := p.scopes.push(declScope | controlScope)
	ok := p.spawnHeader(&parts)
	if !ok {
		p.scopes.pop()
		p.skipHeader()
		return p.badStmt(parts.Pos)
	}
	p.scopes.addFlags(breakScope | spawnScope)
	p.scopes.push(declScope)
	parts.Body = p.stmt()
	p.scopes.pop()
	p.scopes.pop()
	return p.buildSpawn(parts, hdr)
}

// spawnHeader parses "(" [ SimpleStmt ";" ] Cond ")" into parts.
func (p *Parser) spawnHeader(parts *SpawnParts) bool {
	lparen := p.pos
	p.want(_Lparen)

	if p.tok == _Rparen {
		p.errorAt(lparen, diag.BadSpawnHeader, "missing timestamp in spawn header")
		return false
	}

	if p.tok == _Var {
		if !p.condVarDecl(parts) {
			return false
		}
	} else {
		var first SimpleStmt
		if p.tok != _Semi {
			first = p.simpleStmt()
		}
		if p.got(_Semi) {
			parts.Init = first
			if p.tok == _Var {
				if !p.condVarDecl(parts) {
					return false
				}
			} else if p.tok == _Rparen {
				p.errorAt(p.pos, diag.BadSpawnHeader, "missing timestamp in spawn header")
				return false
			} else if !p.cond(p.simpleStmt(), parts) {
				return false
			}
		} else if first == nil || !p.cond(first, parts) {
			return false
		}
	}

	if p.tok != _Rparen {
		p.errorAt(p.pos, diag.BadSpawnHeader, "expected ) after spawn header, found %s", p.tokDesc())
		return false
	}
	parts.Rparen = p.pos
	p.next()
	return true
}

// condVarDecl parses var Name [Type] = Value as the condition variable.
func (p *Parser) condVarDecl(parts *SpawnParts) bool {
	d := p.varDecl()
	if d.Value == nil {
		p.errorAt(d.Pos(), diag.BadSpawnHeader, "spawn condition variable %s must be initialized", d.Name.Value)
		return false
	}
	parts.CondVar = d
	return true
}

// cond converts a parsed simple statement into the spawn condition.
func (p *Parser) cond(s SimpleStmt, parts *SpawnParts) bool {
	switch s := s.(type) {
	case *ExprStmt:
		parts.Cond = s.X
		return true
	case *AssignStmt:
		if name, ok := s.LHS.(*Name); ok && s.IsDefine() {
			d := &VarDecl{Name: name, Value: s.RHS}
			d.pos = s.pos
			parts.CondVar = d
			return true
		}
		p.errorAt(s.Pos(), diag.BadSpawnHeader, "cannot use assignment as spawn timestamp")
	default:
		p.errorAt(s.Pos(), diag.BadSpawnHeader, "invalid spawn timestamp")
	}
	return false
}

// buildSpawn hands parts to NewSpawnStmt. Diagnostics from the builder are
// reported and the statement is skipped; contract violations propagate as
// internal compiler errors.
func (p *Parser) buildSpawn(parts SpawnParts, sc *parseScope) Stmt {
	s, err := NewSpawnStmt(parts)
	if err != nil {
		var d diag.Diagnostic
		if !errors.As(err, &d) {
			panic(err)
		}
		p.report(d)
		if parts.Body != nil {
			bad := &BadStmt{To: parts.Body.End()}
			bad.pos = parts.Pos
			return bad
		}
		return p.badStmt(parts.Pos)
	}
	if sc != nil {
		sc.resolve(s)
	}
	return s
}
