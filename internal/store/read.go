package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lgbarn/chessql-go/internal/chess"
	"github.com/lgbarn/chessql-go/internal/classify"
	"github.com/lgbarn/chessql-go/internal/errors"
)

// StoredGame is a game as read back from the store, with the flags derived
// at ingestion.
type StoredGame struct {
	chess.Game
	WhiteResult string
	BlackResult string
	PlyCount    int
	Partial     bool
	Degraded    bool
	UpdatedAt   time.Time
}

// Warning is a stored replay warning.
type Warning struct {
	Ply        int    `json:"ply"`
	MoveNumber int    `json:"move_number"`
	Side       string `json:"side"`
	Token      string `json:"token"`
	Reason     string `json:"reason"`
}

// GetGame reads one game. A missing id returns an error wrapping
// ErrGameNotFound.
func (s *Store) GetGame(ctx context.Context, id string) (*StoredGame, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, account_id, platform, platform_id, reference_player,
		       white_player, black_player, white_elo, black_elo,
		       result, white_result, black_result,
		       date_played, event, site, round, eco_code, opening, time_control, speed,
		       variant, termination, ply_count, partial_moves, degraded,
		       moves, initial_fen, created_at, updated_at
		FROM games WHERE id = ?
	`, id)

	var (
		g                        StoredGame
		whiteElo, blackElo       sql.NullInt64
		date, event, site, round sql.NullString
		eco, opening, tc, speed  sql.NullString
		termination, fen         sql.NullString
		partial, degraded        int
		createdAt, updatedAt     string
	)
	err := row.Scan(
		&g.ID, &g.AccountID, &g.Platform, &g.PlatformID, &g.ReferencePlayer,
		&g.White, &g.Black, &whiteElo, &blackElo,
		&g.Result, &g.WhiteResult, &g.BlackResult,
		&date, &event, &site, &round, &eco, &opening, &tc, &speed,
		&g.Variant, &termination, &g.PlyCount, &partial, &degraded,
		&g.Moves, &fen, &createdAt, &updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, errors.Wrapf(errors.ErrGameNotFound, "game %s", id)
	}
	if err != nil {
		return nil, &errors.OperationalError{Op: "get game " + id, Err: err}
	}

	g.WhiteElo = int(whiteElo.Int64)
	g.BlackElo = int(blackElo.Int64)
	g.DatePlayed = date.String
	g.Event = event.String
	g.Site = site.String
	g.Round = round.String
	g.ECO = eco.String
	g.Opening = opening.String
	g.TimeControl = tc.String
	g.Speed = speed.String
	g.Termination = termination.String
	g.InitialFEN = fen.String
	g.Partial = partial != 0
	g.Degraded = degraded != 0
	g.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	g.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)
	return &g, nil
}

// GameCaptures returns a game's capture records in ply order.
func (s *Store) GameCaptures(ctx context.Context, gameID string) ([]classify.CaptureRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT ply, move_number, side, capturing_piece, captured_piece,
		       from_square, to_square, move_notation, piece_value, captured_value,
		       is_exchange, is_sacrifice, reference_player
		FROM captures WHERE game_id = ? ORDER BY ply
	`, gameID)
	if err != nil {
		return nil, &errors.OperationalError{Op: "read captures", Err: err}
	}
	defer rows.Close()

	var out []classify.CaptureRecord
	for rows.Next() {
		var (
			c                     classify.CaptureRecord
			side, piece, captured string
			from, to              string
			exchange, sacrifice   int
		)
		if err := rows.Scan(&c.Ply, &c.MoveNumber, &side, &piece, &captured,
			&from, &to, &c.SAN, &c.PieceValue, &c.CapturedValue,
			&exchange, &sacrifice, &c.ReferencePlayer); err != nil {
			return nil, fmt.Errorf("scan capture: %w", err)
		}
		c.Side, _ = chess.ParseColour(side)
		c.Piece, _ = chess.ParsePieceName(piece)
		c.Captured, _ = chess.ParsePieceName(captured)
		c.From = chess.ParseSquare(from)
		c.To = chess.ParseSquare(to)
		c.IsExchange = exchange != 0
		c.IsSacrifice = sacrifice != 0
		out = append(out, c)
	}
	return out, rows.Err()
}

// GamePromotions returns a game's promotions in ply order.
func (s *Store) GamePromotions(ctx context.Context, gameID string) ([]classify.PromotionRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT ply, move_number, side, piece, square
		FROM promotions WHERE game_id = ? ORDER BY ply
	`, gameID)
	if err != nil {
		return nil, &errors.OperationalError{Op: "read promotions", Err: err}
	}
	defer rows.Close()

	var out []classify.PromotionRecord
	for rows.Next() {
		var (
			p                   classify.PromotionRecord
			side, piece, square string
		)
		if err := rows.Scan(&p.Ply, &p.MoveNumber, &side, &piece, &square); err != nil {
			return nil, fmt.Errorf("scan promotion: %w", err)
		}
		p.Side, _ = chess.ParseColour(side)
		p.Piece, _ = chess.ParsePieceName(piece)
		p.Square = chess.ParseSquare(square)
		out = append(out, p)
	}
	return out, rows.Err()
}

// GameWarnings returns the move tokens skipped when the game was replayed.
func (s *Store) GameWarnings(ctx context.Context, gameID string) ([]Warning, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT ply, move_number, side, token, reason
		FROM replay_warnings WHERE game_id = ? ORDER BY ply, id
	`, gameID)
	if err != nil {
		return nil, &errors.OperationalError{Op: "read warnings", Err: err}
	}
	defer rows.Close()

	var out []Warning
	for rows.Next() {
		var w Warning
		if err := rows.Scan(&w.Ply, &w.MoveNumber, &w.Side, &w.Token, &w.Reason); err != nil {
			return nil, fmt.Errorf("scan warning: %w", err)
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

// CountGames counts stored games, optionally restricted to one account and
// platform. Empty arguments do not filter.
func (s *Store) CountGames(ctx context.Context, accountID, platform string) (int, error) {
	query := `SELECT COUNT(*) FROM games WHERE 1 = 1`
	var args []any
	if accountID != "" {
		query += ` AND account_id = ?`
		args = append(args, accountID)
	}
	if platform != "" {
		query += ` AND platform = ?`
		args = append(args, platform)
	}
	var n int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, &errors.OperationalError{Op: "count games", Err: err}
	}
	return n, nil
}
