package cql

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lgbarn/chessql-go/internal/chess"
)

// Node is the interface for all AST nodes.
type Node interface {
	node()
	String() string
}

// Expr is a boolean condition: a relational comparison, a chess phrase or a
// combination of them.
type Expr interface {
	Node
	expr()
}

// Value is something a relational clause reads: a field, a cast field or an
// aggregate call.
type Value interface {
	Node
	value()
}

// Query is a parsed statement. A short-form query has Star set and only a
// Where clause.
type Query struct {
	Text    string // source text; error spans index into it
	Star    bool
	Select  []SelectItem
	Where   Expr // nil when absent
	GroupBy []*Field
	OrderBy []OrderItem
	Limit   *int
	Offset  *int
}

func (q *Query) node() {}
func (q *Query) String() string {
	var sb strings.Builder
	sb.WriteString("SELECT ")
	if q.Star {
		sb.WriteString("*")
	} else {
		for i, item := range q.Select {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(item.String())
		}
	}
	sb.WriteString(" FROM games")
	if q.Where != nil {
		sb.WriteString(" WHERE " + q.Where.String())
	}
	if len(q.GroupBy) > 0 {
		parts := make([]string, len(q.GroupBy))
		for i, f := range q.GroupBy {
			parts[i] = f.String()
		}
		sb.WriteString(" GROUP BY " + strings.Join(parts, ", "))
	}
	if len(q.OrderBy) > 0 {
		parts := make([]string, len(q.OrderBy))
		for i, o := range q.OrderBy {
			parts[i] = o.String()
		}
		sb.WriteString(" ORDER BY " + strings.Join(parts, ", "))
	}
	if q.Limit != nil {
		sb.WriteString(" LIMIT " + strconv.Itoa(*q.Limit))
	}
	if q.Offset != nil {
		sb.WriteString(" OFFSET " + strconv.Itoa(*q.Offset))
	}
	return sb.String()
}

// IsAggregate reports whether the projection contains an aggregate call or
// the query groups rows.
func (q *Query) IsAggregate() bool {
	if len(q.GroupBy) > 0 {
		return true
	}
	for _, item := range q.Select {
		if _, ok := item.Value.(*Aggregate); ok {
			return true
		}
	}
	return false
}

// SelectItem is one projected value.
type SelectItem struct {
	Value Value
	Alias string
}

func (s SelectItem) String() string {
	if s.Alias != "" {
		return s.Value.String() + " AS " + s.Alias
	}
	return s.Value.String()
}

// OrderItem is one ORDER BY key.
type OrderItem struct {
	Value Value
	Desc  bool
}

func (o OrderItem) String() string {
	if o.Desc {
		return o.Value.String() + " DESC"
	}
	return o.Value.String()
}

// Field is a bare identifier in a relational clause. Whether it names a
// known column is decided by the compiler.
type Field struct {
	Name string
	Pos  int
}

func (f *Field) node()          {}
func (f *Field) value()         {}
func (f *Field) String() string { return f.Name }

// Cast is CAST(field AS type).
type Cast struct {
	Field *Field
	Type  string // INTEGER, REAL or TEXT
}

func (c *Cast) node()  {}
func (c *Cast) value() {}
func (c *Cast) String() string {
	return "CAST(" + c.Field.String() + " AS " + c.Type + ")"
}

// Aggregate is COUNT(*), or COUNT, AVG, MIN, MAX or SUM over a value.
type Aggregate struct {
	Func string // upper case
	Arg  Value  // nil for COUNT(*)
	Pos  int
	End  int
}

func (a *Aggregate) node()  {}
func (a *Aggregate) value() {}
func (a *Aggregate) String() string {
	if a.Arg == nil {
		return a.Func + "(*)"
	}
	return a.Func + "(" + a.Arg.String() + ")"
}

// Literal is a string or numeric constant. Value holds a string, int64 or
// float64.
type Literal struct {
	Value any
	Pos   int
}

func (l *Literal) node() {}
func (l *Literal) String() string {
	if s, ok := l.Value.(string); ok {
		return "'" + strings.ReplaceAll(s, "'", "''") + "'"
	}
	return fmt.Sprint(l.Value)
}

// Comparison is "value op literal". Op is one of = != < <= > >= LIKE.
type Comparison struct {
	Left  Value
	Op    string
	Right *Literal
}

func (c *Comparison) node() {}
func (c *Comparison) expr() {}
func (c *Comparison) String() string {
	return c.Left.String() + " " + c.Op + " " + c.Right.String()
}

// NullCheck is "value IS [NOT] NULL".
type NullCheck struct {
	Left Value
	Not  bool
}

func (n *NullCheck) node() {}
func (n *NullCheck) expr() {}
func (n *NullCheck) String() string {
	if n.Not {
		return n.Left.String() + " IS NOT NULL"
	}
	return n.Left.String() + " IS NULL"
}

// BinaryOp is AND or OR.
type BinaryOp int

const (
	OpAnd BinaryOp = iota
	OpOr
)

func (op BinaryOp) String() string {
	if op == OpOr {
		return "OR"
	}
	return "AND"
}

// Binary joins two conditions.
type Binary struct {
	Op          BinaryOp
	Left, Right Expr
}

func (b *Binary) node() {}
func (b *Binary) expr() {}
func (b *Binary) String() string {
	return "(" + b.Left.String() + " " + b.Op.String() + " " + b.Right.String() + ")"
}

// Not negates a condition.
type Not struct {
	X Expr
}

func (n *Not) node()          {}
func (n *Not) expr()          {}
func (n *Not) String() string { return "NOT " + n.X.String() }

// SubjectKind says whose pieces or result a chess phrase talks about.
type SubjectKind int

const (
	// SubjectScoped is an omitted subject: the query's scoped player.
	SubjectScoped SubjectKind = iota
	// SubjectOpponent is the scoped player's opponent in each game.
	SubjectOpponent
	// SubjectNamed is an explicitly named player.
	SubjectNamed
)

// Subject of a chess phrase.
type Subject struct {
	Kind SubjectKind
	Name string
}

func (s Subject) String() string {
	switch s.Kind {
	case SubjectOpponent:
		return "opponent"
	case SubjectNamed:
		return strconv.Quote(s.Name)
	}
	return ""
}

// Timing bounds the move numbers a chess phrase may match. Zero means
// unbounded. Both bounds are exclusive.
type Timing struct {
	Before int
	After  int
}

func (t Timing) String() string {
	var parts []string
	if t.Before > 0 {
		parts = append(parts, "before move "+strconv.Itoa(t.Before))
	}
	if t.After > 0 {
		parts = append(parts, "after move "+strconv.Itoa(t.After))
	}
	return strings.Join(parts, " ")
}

// Outcome is the verb of a PlayerResult.
type Outcome int

const (
	Won Outcome = iota
	Lost
	Drew
)

func (o Outcome) String() string {
	switch o {
	case Lost:
		return "lost"
	case Drew:
		return "drew"
	}
	return "won"
}

// PlayerResult is "(subject won|lost|drew)".
type PlayerResult struct {
	Subject Subject
	Outcome Outcome
	Pos     int
	End     int
}

func (p *PlayerResult) node() {}
func (p *PlayerResult) expr() {}
func (p *PlayerResult) String() string {
	return phrase(p.Subject.String(), p.Outcome.String())
}

// Sacrifice is "(subject [piece] sacrificed)": a capture by the subject
// with the given piece that left a lasting material deficit.
type Sacrifice struct {
	Subject Subject
	Piece   chess.Piece // Empty for any piece
	Count   int         // exact number of matches; 0 for at least one
	Timing  Timing
	Pos     int
	End     int
}

func (s *Sacrifice) node() {}
func (s *Sacrifice) expr() {}
func (s *Sacrifice) String() string {
	return phrase(s.Subject.String(), pieceWord(s.Piece), "sacrificed", countWord(s.Count), s.Timing.String())
}

// Exchange is "(subject [piece] exchanged)": the subject captured the given
// piece and it was traded back on the same square.
type Exchange struct {
	Subject Subject
	Piece   chess.Piece
	Count   int
	Timing  Timing
	Pos     int
	End     int
}

func (e *Exchange) node() {}
func (e *Exchange) expr() {}
func (e *Exchange) String() string {
	return phrase(e.Subject.String(), pieceWord(e.Piece), "exchanged", countWord(e.Count), e.Timing.String())
}

// Capture is "(subject [piece] captured [piece])".
type Capture struct {
	Subject  Subject
	Piece    chess.Piece // capturing piece
	Captured chess.Piece
	Count    int
	Timing   Timing
	Pos      int
	End      int
}

func (c *Capture) node() {}
func (c *Capture) expr() {}
func (c *Capture) String() string {
	return phrase(c.Subject.String(), pieceWord(c.Piece), "captured", pieceWord(c.Captured), countWord(c.Count), c.Timing.String())
}

// Promotion is "(subject [pawn] promoted [to piece] [x N])". A count is an
// exact match on the game's promotion tally for that side and piece.
type Promotion struct {
	Subject Subject
	Piece   chess.Piece // promoted-to piece; Empty for any
	Count   int
	Timing  Timing
	Pos     int
	End     int
}

func (p *Promotion) node() {}
func (p *Promotion) expr() {}
func (p *Promotion) String() string {
	var to string
	if p.Piece != chess.Empty {
		to = "to " + p.Piece.String()
	}
	return phrase(p.Subject.String(), "promoted", to, countWord(p.Count), p.Timing.String())
}

func phrase(words ...string) string {
	var kept []string
	for _, w := range words {
		if w != "" {
			kept = append(kept, w)
		}
	}
	return "(" + strings.Join(kept, " ") + ")"
}

func pieceWord(p chess.Piece) string {
	if p == chess.Empty {
		return ""
	}
	return p.String()
}

func countWord(n int) string {
	if n == 0 {
		return ""
	}
	return "x " + strconv.Itoa(n)
}
