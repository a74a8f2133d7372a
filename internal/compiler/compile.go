package compiler

import (
	"fmt"
	"strings"

	"github.com/lgbarn/chessql-go/internal/chess"
	"github.com/lgbarn/chessql-go/internal/cql"
	"github.com/lgbarn/chessql-go/internal/errors"
)

// Scope restricts a query to one account and platform, and names the
// player that omitted and "opponent" subjects refer to. Zero fields do not
// filter.
type Scope struct {
	AccountID string
	Platform  string
	Player    string
}

// Key identifies the scope in cache keys.
func (s Scope) Key() string {
	return s.AccountID + "\x00" + s.Platform + "\x00" + chess.NormalizeName(s.Player)
}

// Compiled is an executable statement. SQL carries no LIMIT or OFFSET; the
// text's own bounds are kept in Limit and Offset so pagination can be
// applied inside them.
type Compiled struct {
	SQL       string
	Args      []any
	CountSQL  string
	Columns   []string
	Aggregate bool
	Limit     *int
	Offset    *int
}

// Compile builds SQL for q under scope. All literal values are bound as
// parameters.
func Compile(q *cql.Query, scope Scope) (*Compiled, error) {
	c := &compiler{scope: scope, text: q.Text, aliases: make(map[string]string)}
	return c.compile(q)
}

type compiler struct {
	scope   Scope
	text    string
	args    []any
	aliases map[string]string // lower-case alias -> quoted alias
}

func (c *compiler) bind(v any) string {
	c.args = append(c.args, v)
	return "?"
}

// syntaxError reports msg against the query text between pos and end.
func (c *compiler) syntaxError(pos, end int, msg string) *errors.SyntaxError {
	se := &errors.SyntaxError{Msg: msg, Pos: pos, End: end}
	if pos >= 0 && pos <= end && end <= len(c.text) {
		se.Fragment = c.text[pos:end]
	}
	return se
}

func (c *compiler) compile(q *cql.Query) (*Compiled, error) {
	out := &Compiled{Aggregate: q.IsAggregate(), Limit: q.Limit, Offset: q.Offset}

	var groupBy []string
	for _, f := range q.GroupBy {
		col, err := c.column(f)
		if err != nil {
			return nil, err
		}
		groupBy = append(groupBy, col)
	}

	var projection []string
	switch {
	case q.Star && len(q.GroupBy) > 0:
		for i, f := range q.GroupBy {
			projection = append(projection, groupBy[i])
			out.Columns = append(out.Columns, strings.ToLower(f.Name))
		}
		projection = append(projection, `COUNT(*) AS "count"`)
		out.Columns = append(out.Columns, "count")
	case q.Star:
		for _, col := range Columns {
			projection = append(projection, "games."+col.Name)
			out.Columns = append(out.Columns, col.Name)
		}
	default:
		for _, item := range q.Select {
			sql, err := c.value(item.Value)
			if err != nil {
				return nil, err
			}
			name := item.Value.String()
			if f, ok := item.Value.(*cql.Field); ok {
				name = strings.ToLower(f.Name)
			}
			if item.Alias != "" {
				name = item.Alias
				quoted := quoteIdent(item.Alias)
				c.aliases[strings.ToLower(item.Alias)] = quoted
				sql += " AS " + quoted
			}
			projection = append(projection, sql)
			out.Columns = append(out.Columns, name)
		}
	}

	// Projection values carry no parameters, so WHERE arguments start here.
	var conds []string
	if c.scope.AccountID != "" {
		conds = append(conds, "games.account_id = "+c.bind(c.scope.AccountID))
	}
	if c.scope.Platform != "" {
		conds = append(conds, "games.platform = "+c.bind(c.scope.Platform))
	}
	if q.Where != nil {
		where, err := c.expr(q.Where)
		if err != nil {
			return nil, err
		}
		conds = append(conds, where)
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(strings.Join(projection, ", "))
	sb.WriteString(" FROM games")
	if len(conds) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(conds, " AND "))
	}
	if len(groupBy) > 0 {
		sb.WriteString(" GROUP BY ")
		sb.WriteString(strings.Join(groupBy, ", "))
	}
	out.CountSQL = "SELECT COUNT(*) FROM (" + sb.String() + ")"

	order, err := c.orderBy(q, groupBy, out.Aggregate)
	if err != nil {
		return nil, err
	}
	sb.WriteString(" ORDER BY ")
	sb.WriteString(order)

	out.SQL = sb.String()
	out.Args = c.args
	return out, nil
}

// orderBy renders the ORDER BY list. Row queries always end with the game
// id so pages are stable.
func (c *compiler) orderBy(q *cql.Query, groupBy []string, aggregate bool) (string, error) {
	var keys []string
	for _, item := range q.OrderBy {
		var sql string
		if f, ok := item.Value.(*cql.Field); ok {
			if quoted, isAlias := c.aliases[strings.ToLower(f.Name)]; isAlias {
				sql = quoted
			}
		}
		if sql == "" {
			if agg, ok := item.Value.(*cql.Aggregate); ok && !aggregate {
				return "", c.syntaxError(agg.Pos, agg.End, "ordering by "+agg.Func+" needs GROUP BY or an aggregate projection")
			}
			v, err := c.value(item.Value)
			if err != nil {
				return "", err
			}
			sql = v
		}
		if item.Desc {
			sql += " DESC"
		} else {
			sql += " ASC"
		}
		keys = append(keys, sql)
	}

	if aggregate {
		if len(keys) == 0 {
			keys = append(keys, groupBy...)
		}
		if len(keys) == 0 {
			keys = append(keys, "1")
		}
		return strings.Join(keys, ", "), nil
	}
	if len(keys) == 0 {
		keys = append(keys, "games.date_played DESC")
	}
	keys = append(keys, "games.id ASC")
	return strings.Join(keys, ", "), nil
}

func (c *compiler) column(f *cql.Field) (string, error) {
	col, ok := LookupColumn(f.Name)
	if !ok {
		return "", &errors.UnknownFieldError{Field: f.Name, Pos: f.Pos}
	}
	return "games." + col.Name, nil
}

func (c *compiler) value(v cql.Value) (string, error) {
	switch v := v.(type) {
	case *cql.Field:
		return c.column(v)
	case *cql.Cast:
		col, err := c.column(v.Field)
		if err != nil {
			return "", err
		}
		return "CAST(" + col + " AS " + v.Type + ")", nil
	case *cql.Aggregate:
		if v.Arg == nil {
			return v.Func + "(*)", nil
		}
		arg, err := c.value(v.Arg)
		if err != nil {
			return "", err
		}
		return v.Func + "(" + arg + ")", nil
	}
	return "", fmt.Errorf("compile value: unexpected %T", v)
}

func (c *compiler) expr(e cql.Expr) (string, error) {
	switch e := e.(type) {
	case *cql.Binary:
		left, err := c.expr(e.Left)
		if err != nil {
			return "", err
		}
		right, err := c.expr(e.Right)
		if err != nil {
			return "", err
		}
		return "(" + left + " " + e.Op.String() + " " + right + ")", nil
	case *cql.Not:
		x, err := c.expr(e.X)
		if err != nil {
			return "", err
		}
		return "NOT (" + x + ")", nil
	case *cql.Comparison:
		return c.comparison(e)
	case *cql.NullCheck:
		left, err := c.value(e.Left)
		if err != nil {
			return "", err
		}
		if e.Not {
			return left + " IS NOT NULL", nil
		}
		return left + " IS NULL", nil
	case *cql.PlayerResult:
		return c.playerResult(e)
	case *cql.Sacrifice:
		return c.sacrifice(e)
	case *cql.Exchange:
		return c.exchange(e)
	case *cql.Capture:
		return c.capture(e)
	case *cql.Promotion:
		return c.promotion(e)
	}
	return "", fmt.Errorf("compile: unexpected expression %T", e)
}

func (c *compiler) comparison(e *cql.Comparison) (string, error) {
	left, err := c.value(e.Left)
	if err != nil {
		return "", err
	}
	value := e.Right.Value
	collate := ""
	if f, ok := e.Left.(*cql.Field); ok && nameColumns[strings.ToLower(f.Name)] {
		if s, isString := value.(string); isString {
			value = chess.NormalizeName(s)
			if e.Op != "LIKE" {
				collate = " COLLATE NOCASE"
			}
		}
	}
	return left + " " + e.Op + " " + c.bind(value) + collate, nil
}

// sides holds the conditions under which a subject played white and black.
// An empty sides means the subject is not bound to a player.
type sides struct {
	white, black string
	args         []any
}

func (s sides) bound() bool {
	return s.white != ""
}

// subject resolves whose perspective a chess phrase takes. Named subjects
// are never rescoped; omitted and "opponent" subjects use the scoped player.
func (c *compiler) subject(subj cql.Subject, pos, end int) (sides, error) {
	name := ""
	switch subj.Kind {
	case cql.SubjectNamed:
		name = chess.NormalizeName(subj.Name)
	case cql.SubjectScoped, cql.SubjectOpponent:
		name = chess.NormalizeName(c.scope.Player)
	}
	if name == "" {
		if subj.Kind == cql.SubjectOpponent {
			return sides{}, c.syntaxError(pos, end, "opponent subject has no player to oppose; scope the query to a player or name one")
		}
		return sides{}, nil
	}

	white := "games.white_player = ? COLLATE NOCASE"
	black := "games.black_player = ? COLLATE NOCASE"
	if subj.Kind == cql.SubjectOpponent {
		white, black = black, white
	}
	return sides{white: white, black: black, args: []any{name}}, nil
}

// sideFilter restricts rows of a derived table to moves made by the
// subject.
func (c *compiler) sideFilter(s sides, alias string) string {
	c.args = append(c.args, s.args...)
	w := s.white
	c.args = append(c.args, s.args...)
	b := s.black
	return fmt.Sprintf("((%s AND %s.side = 'white') OR (%s AND %s.side = 'black'))", w, alias, b, alias)
}

func (c *compiler) playerResult(e *cql.PlayerResult) (string, error) {
	s, err := c.subject(e.Subject, e.Pos, e.End)
	if err != nil {
		return "", err
	}
	outcome := map[cql.Outcome]string{
		cql.Won:  chess.OutcomeWin,
		cql.Lost: chess.OutcomeLoss,
		cql.Drew: chess.OutcomeDraw,
	}[e.Outcome]

	if !s.bound() {
		if e.Outcome == cql.Drew {
			return "games.white_result = 'draw'", nil
		}
		return "games.result IN ('1-0', '0-1')", nil
	}
	c.args = append(c.args, s.args...)
	w := s.white
	c.args = append(c.args, s.args...)
	b := s.black
	return fmt.Sprintf("((%s AND games.white_result = '%s') OR (%s AND games.black_result = '%s'))", w, outcome, b, outcome), nil
}

// eventQuery renders an existence test, or an exact count test, over one
// of the derived event tables. Counts are per side: without a bound
// subject, one side alone must reach the count.
type eventQuery struct {
	table   string
	alias   string
	filters []string
	count   int
	bound   bool
}

func (c *compiler) finish(q eventQuery) string {
	where := append([]string{q.alias + ".game_id = games.id"}, q.filters...)
	sub := fmt.Sprintf("FROM %s %s WHERE %s", q.table, q.alias, strings.Join(where, " AND "))
	switch {
	case q.count > 0 && q.bound:
		return "(SELECT COUNT(*) " + sub + ") = " + c.bind(q.count)
	case q.count > 0:
		return "EXISTS (SELECT 1 " + sub + " GROUP BY " + q.alias + ".side HAVING COUNT(*) = " + c.bind(q.count) + ")"
	}
	return "EXISTS (SELECT 1 " + sub + ")"
}

func (c *compiler) chessFilters(subj cql.Subject, pos, end int, timing cql.Timing, alias string, filters []string) ([]string, bool, error) {
	s, err := c.subject(subj, pos, end)
	if err != nil {
		return nil, false, err
	}
	if s.bound() {
		filters = append(filters, c.sideFilter(s, alias))
	}
	if timing.Before > 0 {
		filters = append(filters, alias+".move_number < "+c.bind(timing.Before))
	}
	if timing.After > 0 {
		filters = append(filters, alias+".move_number > "+c.bind(timing.After))
	}
	return filters, s.bound(), nil
}

func (c *compiler) pieceFilter(column string, p chess.Piece) string {
	return column + " = " + c.bind(p.String())
}

func (c *compiler) sacrifice(e *cql.Sacrifice) (string, error) {
	filters := []string{"c.is_sacrifice = 1"}
	if e.Piece != chess.Empty {
		filters = append(filters, c.pieceFilter("c.capturing_piece", e.Piece))
	}
	filters, bound, err := c.chessFilters(e.Subject, e.Pos, e.End, e.Timing, "c", filters)
	if err != nil {
		return "", err
	}
	return c.finish(eventQuery{table: "captures", alias: "c", filters: filters, count: e.Count, bound: bound}), nil
}

func (c *compiler) exchange(e *cql.Exchange) (string, error) {
	filters := []string{"c.is_exchange = 1"}
	if e.Piece != chess.Empty {
		filters = append(filters, c.pieceFilter("c.captured_piece", e.Piece))
	}
	filters, bound, err := c.chessFilters(e.Subject, e.Pos, e.End, e.Timing, "c", filters)
	if err != nil {
		return "", err
	}
	return c.finish(eventQuery{table: "captures", alias: "c", filters: filters, count: e.Count, bound: bound}), nil
}

func (c *compiler) capture(e *cql.Capture) (string, error) {
	var filters []string
	if e.Piece != chess.Empty {
		filters = append(filters, c.pieceFilter("c.capturing_piece", e.Piece))
	}
	if e.Captured != chess.Empty {
		filters = append(filters, c.pieceFilter("c.captured_piece", e.Captured))
	}
	filters, bound, err := c.chessFilters(e.Subject, e.Pos, e.End, e.Timing, "c", filters)
	if err != nil {
		return "", err
	}
	return c.finish(eventQuery{table: "captures", alias: "c", filters: filters, count: e.Count, bound: bound}), nil
}

func (c *compiler) promotion(e *cql.Promotion) (string, error) {
	var filters []string
	if e.Piece != chess.Empty {
		filters = append(filters, c.pieceFilter("p.piece", e.Piece))
	}
	filters, bound, err := c.chessFilters(e.Subject, e.Pos, e.End, e.Timing, "p", filters)
	if err != nil {
		return "", err
	}
	return c.finish(eventQuery{table: "promotions", alias: "p", filters: filters, count: e.Count, bound: bound}), nil
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
