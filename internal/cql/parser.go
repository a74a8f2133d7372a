package cql

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lgbarn/chessql-go/internal/chess"
	"github.com/lgbarn/chessql-go/internal/errors"
)

// Boolean precedence, tightest first: NOT, AND, OR. AND and OR associate
// to the left.

var reserved = map[string]bool{
	"SELECT": true, "FROM": true, "WHERE": true, "AND": true, "OR": true,
	"NOT": true, "IS": true, "NULL": true, "LIKE": true, "GROUP": true,
	"ORDER": true, "BY": true, "LIMIT": true, "OFFSET": true, "AS": true,
	"ASC": true, "DESC": true,
}

var aggregates = map[string]bool{
	"COUNT": true, "AVG": true, "MIN": true, "MAX": true, "SUM": true,
}

var castTypes = map[string]string{
	"INTEGER": "INTEGER",
	"INT":     "INTEGER",
	"REAL":    "REAL",
	"FLOAT":   "REAL",
	"NUMERIC": "REAL",
	"TEXT":    "TEXT",
}

type verb int

const (
	verbNone verb = iota
	verbWon
	verbLost
	verbDrew
	verbSacrificed
	verbExchanged
	verbCaptured
	verbPromoted
)

var verbs = map[string]verb{
	"won":        verbWon,
	"win":        verbWon,
	"lost":       verbLost,
	"loss":       verbLost,
	"drew":       verbDrew,
	"draw":       verbDrew,
	"sacrificed": verbSacrificed,
	"exchanged":  verbExchanged,
	"captured":   verbCaptured,
	"promoted":   verbPromoted,
}

func verbOf(tok Token) verb {
	if tok.Type != IDENT {
		return verbNone
	}
	return verbs[strings.ToLower(tok.Literal)]
}

// pieceOf reads a piece word. "piece" and "pieces" mean any piece and come
// back as Empty with ok set.
func pieceOf(tok Token) (chess.Piece, bool) {
	if tok.Type != IDENT {
		return chess.Empty, false
	}
	switch strings.ToLower(tok.Literal) {
	case "piece", "pieces":
		return chess.Empty, true
	}
	return chess.ParsePieceName(tok.Literal)
}

// Parser turns query text into a Query.
type Parser struct {
	input  string
	tokens []Token
	pos    int
	match  map[int]int // index of '(' -> index of its ')'
}

// NewParser creates a parser for the given input.
func NewParser(input string) *Parser {
	return &Parser{
		input:  input,
		tokens: NewLexer(input).Tokens(),
		match:  make(map[int]int),
	}
}

// Parse parses query text. Every failure is an *errors.SyntaxError.
func Parse(input string) (*Query, error) {
	return NewParser(input).ParseQuery()
}

func (p *Parser) current() Token {
	return p.tokens[p.pos]
}

func (p *Parser) peek() Token {
	if p.pos+1 < len(p.tokens) {
		return p.tokens[p.pos+1]
	}
	return p.tokens[len(p.tokens)-1]
}

func (p *Parser) nextToken() {
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
}

func (p *Parser) errorAt(tok Token, format string, args ...interface{}) error {
	return p.errorSpan(tok, tok, format, args...)
}

func (p *Parser) errorSpan(from, to Token, format string, args ...interface{}) error {
	return &errors.SyntaxError{
		Msg:      fmt.Sprintf(format, args...),
		Pos:      from.Pos,
		End:      to.End,
		Fragment: p.input[from.Pos:to.End],
	}
}

// scan rejects illegal characters and unbalanced parentheses before any
// grammar rule runs.
func (p *Parser) scan() error {
	var open []int
	for i, tok := range p.tokens {
		switch tok.Type {
		case ILLEGAL:
			if strings.HasPrefix(tok.Literal, "'") || strings.HasPrefix(tok.Literal, `"`) {
				return p.errorAt(tok, "unterminated string")
			}
			return p.errorAt(tok, "unexpected character %q", tok.Literal)
		case LPAREN:
			open = append(open, i)
		case RPAREN:
			if len(open) == 0 {
				return p.errorAt(tok, "unmatched ')'")
			}
			p.match[open[len(open)-1]] = i
			open = open[:len(open)-1]
		}
	}
	if len(open) > 0 {
		return p.errorAt(p.tokens[open[len(open)-1]], "unmatched '('")
	}
	return nil
}

// ParseQuery parses a full SELECT statement or a short-form condition.
func (p *Parser) ParseQuery() (*Query, error) {
	if err := p.scan(); err != nil {
		return nil, err
	}
	if p.current().Type == EOF {
		return nil, p.errorAt(p.current(), "empty query")
	}

	q := &Query{Text: p.input}
	if p.current().Is("SELECT") {
		p.nextToken()
		if err := p.parseSelectList(q); err != nil {
			return nil, err
		}
		if !p.current().Is("FROM") {
			return nil, p.errorAt(p.current(), "expected FROM")
		}
		p.nextToken()
		table := p.current()
		if table.Type != IDENT || !strings.EqualFold(table.Literal, "games") {
			return nil, p.errorAt(table, "unknown table %q; only games can be queried", table.Literal)
		}
		p.nextToken()
		if p.current().Is("WHERE") {
			p.nextToken()
			where, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			q.Where = where
		}
	} else {
		q.Star = true
		explicitWhere := p.current().Is("WHERE")
		if explicitWhere {
			p.nextToken()
		}
		if explicitWhere || !p.atClause() {
			where, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			q.Where = where
		}
	}

	if err := p.parseTail(q); err != nil {
		return nil, err
	}
	if p.current().Type != EOF {
		return nil, p.errorAt(p.current(), "unexpected %q", p.current().Literal)
	}
	return q, nil
}

// atClause reports whether the current token starts a trailing clause.
func (p *Parser) atClause() bool {
	cur := p.current()
	switch {
	case cur.Type == EOF, cur.Is("LIMIT"), cur.Is("OFFSET"):
		return true
	case cur.Is("GROUP"), cur.Is("ORDER"):
		return p.peek().Is("BY")
	}
	return false
}

func (p *Parser) parseSelectList(q *Query) error {
	if p.current().Type == STAR {
		q.Star = true
		p.nextToken()
		return nil
	}
	for {
		v, err := p.parseValue(true)
		if err != nil {
			return err
		}
		item := SelectItem{Value: v}
		if p.current().Is("AS") {
			p.nextToken()
			alias := p.current()
			if (alias.Type != IDENT && alias.Type != STRING) || reserved[strings.ToUpper(alias.Literal)] {
				return p.errorAt(alias, "expected alias after AS")
			}
			item.Alias = alias.Literal
			p.nextToken()
		}
		q.Select = append(q.Select, item)
		if p.current().Type != COMMA {
			return nil
		}
		p.nextToken()
	}
}

func (p *Parser) parseTail(q *Query) error {
	if p.current().Is("GROUP") {
		p.nextToken()
		if err := p.expectKeyword("BY"); err != nil {
			return err
		}
		for {
			f, err := p.parseField()
			if err != nil {
				return err
			}
			q.GroupBy = append(q.GroupBy, f)
			if p.current().Type != COMMA {
				break
			}
			p.nextToken()
		}
	}

	if p.current().Is("ORDER") {
		p.nextToken()
		if err := p.expectKeyword("BY"); err != nil {
			return err
		}
		for {
			v, err := p.parseValue(true)
			if err != nil {
				return err
			}
			item := OrderItem{Value: v}
			switch {
			case p.current().Is("DESC"):
				item.Desc = true
				p.nextToken()
			case p.current().Is("ASC"):
				p.nextToken()
			}
			q.OrderBy = append(q.OrderBy, item)
			if p.current().Type != COMMA {
				break
			}
			p.nextToken()
		}
	}

	if p.current().Is("LIMIT") {
		p.nextToken()
		n, err := p.parseCount("LIMIT", 0)
		if err != nil {
			return err
		}
		q.Limit = &n
	}
	if p.current().Is("OFFSET") {
		p.nextToken()
		n, err := p.parseCount("OFFSET", 0)
		if err != nil {
			return err
		}
		q.Offset = &n
	}
	return nil
}

func (p *Parser) expectKeyword(kw string) error {
	if !p.current().Is(kw) {
		return p.errorAt(p.current(), "expected %s", kw)
	}
	p.nextToken()
	return nil
}

// parseCount reads a whole number no smaller than least.
func (p *Parser) parseCount(what string, least int) (int, error) {
	tok := p.current()
	if tok.Type != NUMBER {
		return 0, p.errorAt(tok, "expected a number after %s", what)
	}
	n, err := strconv.Atoi(tok.Literal)
	if err != nil {
		return 0, p.errorAt(tok, "%s needs a whole number", what)
	}
	if n < least {
		return 0, p.errorAt(tok, "%s must be at least %d", what, least)
	}
	p.nextToken()
	return n, nil
}

func (p *Parser) parseField() (*Field, error) {
	tok := p.current()
	if tok.Type != IDENT {
		return nil, p.errorAt(tok, "expected field name")
	}
	if reserved[strings.ToUpper(tok.Literal)] {
		return nil, p.errorAt(tok, "unexpected keyword %s", strings.ToUpper(tok.Literal))
	}
	p.nextToken()
	return &Field{Name: tok.Literal, Pos: tok.Pos}, nil
}

// parseValue reads a field, a CAST, or an aggregate call when allowed.
func (p *Parser) parseValue(allowAggregate bool) (Value, error) {
	tok := p.current()
	name := strings.ToUpper(tok.Literal)
	if tok.Type == IDENT && p.peek().Type == LPAREN {
		switch {
		case name == "CAST":
			return p.parseCast()
		case aggregates[name]:
			if !allowAggregate {
				return nil, p.errorAt(tok, "%s is only allowed in SELECT and ORDER BY", name)
			}
			return p.parseAggregate()
		}
	}
	return p.parseField()
}

func (p *Parser) parseCast() (Value, error) {
	p.nextToken() // CAST
	p.nextToken() // (
	f, err := p.parseField()
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("AS"); err != nil {
		return nil, err
	}
	tok := p.current()
	typ, ok := castTypes[strings.ToUpper(tok.Literal)]
	if tok.Type != IDENT || !ok {
		return nil, p.errorAt(tok, "unknown CAST type %q", tok.Literal)
	}
	p.nextToken()
	if p.current().Type != RPAREN {
		return nil, p.errorAt(p.current(), "expected ')' to close CAST")
	}
	p.nextToken()
	return &Cast{Field: f, Type: typ}, nil
}

func (p *Parser) parseAggregate() (Value, error) {
	tok := p.current()
	agg := &Aggregate{Func: strings.ToUpper(tok.Literal), Pos: tok.Pos}
	p.nextToken() // name
	p.nextToken() // (
	if p.current().Type == STAR {
		if agg.Func != "COUNT" {
			return nil, p.errorAt(p.current(), "only COUNT accepts *")
		}
		p.nextToken()
	} else {
		arg, err := p.parseValue(false)
		if err != nil {
			return nil, err
		}
		agg.Arg = arg
	}
	if p.current().Type != RPAREN {
		return nil, p.errorAt(p.current(), "expected ')' to close %s", agg.Func)
	}
	agg.End = p.current().End
	p.nextToken()
	return agg, nil
}

func (p *Parser) parseExpr() (Expr, error) {
	return p.parseOr()
}

func (p *Parser) parseOr() (Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.current().Is("OR") {
		p.nextToken()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: OpOr, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseAnd() (Expr, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for p.current().Is("AND") {
		p.nextToken()
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: OpAnd, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseNot() (Expr, error) {
	if p.current().Is("NOT") {
		p.nextToken()
		x, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return &Not{X: x}, nil
	}
	return p.parsePrimary()
}

type groupKind int

const (
	groupBoolean groupKind = iota
	groupPhrase
	groupWords
)

// classifyGroup decides what the parenthesised group at open holds. A
// group is a chess phrase when a verb appears at its top level and no
// operator or boolean keyword does.
func (p *Parser) classifyGroup(open, end int) groupKind {
	hasVerb, onlyWords := false, true
	words := 0
	depth := 0
	for i := open + 1; i < end; i++ {
		tok := p.tokens[i]
		switch tok.Type {
		case LPAREN:
			depth++
			onlyWords = false
			continue
		case RPAREN:
			depth--
			continue
		}
		if depth > 0 {
			continue
		}
		if tok.Type.IsComparison() || tok.Is("AND") || tok.Is("OR") || tok.Is("NOT") || tok.Is("IS") || tok.Is("LIKE") {
			return groupBoolean
		}
		switch tok.Type {
		case IDENT, STRING, NUMBER:
			words++
		default:
			onlyWords = false
		}
		if verbOf(tok) != verbNone {
			hasVerb = true
		}
	}
	switch {
	case hasVerb:
		return groupPhrase
	case onlyWords && words >= 2:
		return groupWords
	}
	return groupBoolean
}

func (p *Parser) parsePrimary() (Expr, error) {
	tok := p.current()
	switch tok.Type {
	case LPAREN:
		closeIdx := p.match[p.pos]
		switch p.classifyGroup(p.pos, closeIdx) {
		case groupPhrase:
			return p.parsePhrase(closeIdx)
		case groupWords:
			return nil, p.errorSpan(tok, p.tokens[closeIdx],
				"unrecognised chess phrase; expected a verb such as won, lost, drew, sacrificed, exchanged, captured or promoted")
		}
		p.nextToken()
		x, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if p.current().Type != RPAREN {
			return nil, p.errorAt(p.current(), "expected ')'")
		}
		p.nextToken()
		return x, nil
	case IDENT:
		if reserved[strings.ToUpper(tok.Literal)] {
			return nil, p.errorAt(tok, "unexpected keyword %s", strings.ToUpper(tok.Literal))
		}
		return p.parseComparison()
	case EOF:
		return nil, p.errorAt(tok, "expected a condition")
	}
	return nil, p.errorAt(tok, "unexpected %q", tok.Literal)
}

func (p *Parser) parseComparison() (Expr, error) {
	left, err := p.parseValue(false)
	if err != nil {
		return nil, err
	}
	tok := p.current()
	switch {
	case tok.Type.IsComparison():
		op := tok.Literal
		if tok.Type == NEQ {
			op = "!="
		}
		p.nextToken()
		lit, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}
		return &Comparison{Left: left, Op: op, Right: lit}, nil
	case tok.Is("LIKE"):
		p.nextToken()
		lit, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}
		return &Comparison{Left: left, Op: "LIKE", Right: lit}, nil
	case tok.Is("NOT") && p.peek().Is("LIKE"):
		p.nextToken()
		p.nextToken()
		lit, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}
		return &Not{X: &Comparison{Left: left, Op: "LIKE", Right: lit}}, nil
	case tok.Is("IS"):
		p.nextToken()
		check := &NullCheck{Left: left}
		if p.current().Is("NOT") {
			check.Not = true
			p.nextToken()
		}
		if err := p.expectKeyword("NULL"); err != nil {
			return nil, err
		}
		return check, nil
	}
	return nil, p.errorAt(tok, "expected comparison operator after %s", left.String())
}

func (p *Parser) parseLiteral() (*Literal, error) {
	tok := p.current()
	negative := false
	if tok.Type == MINUS {
		negative = true
		p.nextToken()
		if p.current().Type != NUMBER {
			return nil, p.errorAt(p.current(), "expected a number after '-'")
		}
	}
	cur := p.current()
	switch cur.Type {
	case STRING:
		p.nextToken()
		return &Literal{Value: cur.Literal, Pos: tok.Pos}, nil
	case NUMBER:
		p.nextToken()
		if strings.Contains(cur.Literal, ".") {
			f, err := strconv.ParseFloat(cur.Literal, 64)
			if err != nil {
				return nil, p.errorAt(cur, "invalid number")
			}
			if negative {
				f = -f
			}
			return &Literal{Value: f, Pos: tok.Pos}, nil
		}
		n, err := strconv.ParseInt(cur.Literal, 10, 64)
		if err != nil {
			return nil, p.errorAt(cur, "invalid number")
		}
		if negative {
			n = -n
		}
		return &Literal{Value: n, Pos: tok.Pos}, nil
	}
	return nil, p.errorAt(cur, "expected a string or number literal")
}

// parsePhrase reads a chess phrase spanning from the current '(' to the
// token at closeIdx:
//
//	[subject] [piece] verb [piece | to piece] [x N] [before move N] [after move N]
func (p *Parser) parsePhrase(closeIdx int) (Expr, error) {
	open := p.current()
	p.nextToken()

	var subject Subject
	tok := p.current()
	switch {
	case tok.Type == STRING:
		subject = Subject{Kind: SubjectNamed, Name: tok.Literal}
		p.nextToken()
	case tok.Is("opponent"):
		subject = Subject{Kind: SubjectOpponent}
		p.nextToken()
	case tok.Is("player"):
		p.nextToken()
	case tok.Type == IDENT && verbOf(tok) == verbNone:
		if _, isPiece := pieceOf(tok); !isPiece {
			subject = Subject{Kind: SubjectNamed, Name: tok.Literal}
			p.nextToken()
		}
	}

	before, hasBefore := pieceOf(p.current())
	if hasBefore {
		p.nextToken()
	}

	verbTok := p.current()
	v := verbOf(verbTok)
	if v == verbNone {
		return nil, p.errorAt(verbTok, "expected a verb in chess phrase, got %q", verbTok.Literal)
	}
	p.nextToken()

	var after chess.Piece
	hasAfter := false
	switch v {
	case verbWon, verbLost, verbDrew:
		if hasBefore {
			return nil, p.errorAt(verbTok, "%q takes no piece", verbTok.Literal)
		}
	case verbPromoted:
		if hasBefore && before != chess.Pawn {
			return nil, p.errorAt(verbTok, "only pawns are promoted")
		}
		if p.current().Is("to") {
			p.nextToken()
			piece, ok := pieceOf(p.current())
			if !ok {
				return nil, p.errorAt(p.current(), "expected a piece after 'to'")
			}
			after, hasAfter = piece, true
			p.nextToken()
		} else if piece, ok := pieceOf(p.current()); ok {
			after, hasAfter = piece, true
			p.nextToken()
		}
		if hasAfter && (after == chess.Pawn || after == chess.King) {
			return nil, p.errorAt(p.tokens[p.pos-1], "a pawn cannot promote to %s", after)
		}
	default:
		if piece, ok := pieceOf(p.current()); ok {
			after, hasAfter = piece, true
			p.nextToken()
		}
		if v != verbCaptured && hasBefore && hasAfter {
			return nil, p.errorAt(p.tokens[p.pos-1], "piece named twice in %q phrase", verbTok.Literal)
		}
	}

	count := 0
	var timing Timing
	for p.pos < closeIdx {
		tok := p.current()
		switch {
		case tok.Is("x"):
			p.nextToken()
			n, err := p.parseCount("x", 1)
			if err != nil {
				return nil, err
			}
			if count != 0 {
				return nil, p.errorAt(tok, "count given twice")
			}
			count = n
		case tok.Type == IDENT && len(tok.Literal) > 1 && (tok.Literal[0] == 'x' || tok.Literal[0] == 'X'):
			n, err := strconv.Atoi(tok.Literal[1:])
			if err != nil {
				return nil, p.errorAt(tok, "unexpected %q in chess phrase", tok.Literal)
			}
			if n < 1 {
				return nil, p.errorAt(tok, "x must be at least 1")
			}
			if count != 0 {
				return nil, p.errorAt(tok, "count given twice")
			}
			count = n
			p.nextToken()
		case tok.Is("before"), tok.Is("after"):
			p.nextToken()
			if err := p.expectKeyword("move"); err != nil {
				return nil, err
			}
			n, err := p.parseCount("move", 1)
			if err != nil {
				return nil, err
			}
			if tok.Is("before") {
				if timing.Before != 0 {
					return nil, p.errorAt(tok, "before given twice")
				}
				timing.Before = n
			} else {
				if timing.After != 0 {
					return nil, p.errorAt(tok, "after given twice")
				}
				timing.After = n
			}
		default:
			return nil, p.errorAt(tok, "unexpected %q in chess phrase", tok.Literal)
		}
	}
	end := p.tokens[closeIdx].End
	p.nextToken() // )

	switch v {
	case verbWon, verbLost, verbDrew:
		if count != 0 || timing != (Timing{}) {
			return nil, p.errorSpan(open, p.tokens[closeIdx], "a game result takes no count or move bound")
		}
		outcome := Won
		if v == verbLost {
			outcome = Lost
		} else if v == verbDrew {
			outcome = Drew
		}
		return &PlayerResult{Subject: subject, Outcome: outcome, Pos: open.Pos, End: end}, nil
	case verbSacrificed:
		piece := before
		if hasAfter {
			piece = after
		}
		return &Sacrifice{Subject: subject, Piece: piece, Count: count, Timing: timing, Pos: open.Pos, End: end}, nil
	case verbExchanged:
		piece := before
		if hasAfter {
			piece = after
		}
		return &Exchange{Subject: subject, Piece: piece, Count: count, Timing: timing, Pos: open.Pos, End: end}, nil
	case verbCaptured:
		return &Capture{Subject: subject, Piece: before, Captured: after, Count: count, Timing: timing, Pos: open.Pos, End: end}, nil
	}
	return &Promotion{Subject: subject, Piece: after, Count: count, Timing: timing, Pos: open.Pos, End: end}, nil
}
