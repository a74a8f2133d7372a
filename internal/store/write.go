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

// Record is a game together with everything derived from it at ingestion.
type Record struct {
	Game       *chess.Game
	PlyCount   int
	Partial    bool
	Degraded   bool
	Captures   []classify.CaptureRecord
	Promotions []classify.PromotionRecord
	Warnings   []*errors.ReplayWarning
}

// ReplaceGame stores rec, replacing any earlier version of the game and
// all of its derived rows. The replacement is one transaction: readers see
// either the old game or the new one, never a mix.
//
// The original created_at is kept when a game is re-ingested.
func (s *Store) ReplaceGame(ctx context.Context, rec *Record) error {
	if rec == nil || rec.Game == nil || rec.Game.ID == "" {
		return fmt.Errorf("replace game: missing game id")
	}
	g := rec.Game

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &errors.OperationalError{Op: "replace game " + g.ID, Err: err}
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	created := g.CreatedAt
	var existing string
	err = tx.QueryRowContext(ctx, `SELECT created_at FROM games WHERE id = ?`, g.ID).Scan(&existing)
	switch {
	case err == nil:
		if t, perr := time.Parse(time.RFC3339Nano, existing); perr == nil {
			created = t
		}
	case err != sql.ErrNoRows:
		return &errors.OperationalError{Op: "replace game " + g.ID, Err: err}
	}
	if created.IsZero() {
		created = now
	}

	for _, table := range []string{"captures", "promotions", "replay_warnings"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE game_id = ?", g.ID); err != nil {
			return fmt.Errorf("replace game %s: clear %s: %w", g.ID, table, err)
		}
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM games WHERE id = ?`, g.ID); err != nil {
		return fmt.Errorf("replace game %s: %w", g.ID, err)
	}

	whiteResult, blackResult := g.Outcomes()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO games
		(id, account_id, platform, platform_id, reference_player,
		 white_player, black_player, white_elo, black_elo,
		 result, white_result, black_result,
		 date_played, event, site, round, eco_code, opening, time_control, speed,
		 variant, termination, ply_count, partial_moves, degraded,
		 moves, initial_fen, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		g.ID,
		g.AccountID,
		g.Platform,
		g.PlatformID,
		chess.NormalizeName(g.ReferencePlayer),
		chess.NormalizeName(g.White),
		chess.NormalizeName(g.Black),
		nullInt(g.WhiteElo),
		nullInt(g.BlackElo),
		resultOrUnknown(g.Result),
		whiteResult,
		blackResult,
		nullString(g.DatePlayed),
		nullString(g.Event),
		nullString(g.Site),
		nullString(g.Round),
		nullString(g.ECO),
		nullString(g.Opening),
		nullString(g.TimeControl),
		nullString(g.Speed),
		variantOrStandard(g.Variant),
		nullString(g.Termination),
		rec.PlyCount,
		boolInt(rec.Partial),
		boolInt(rec.Degraded),
		g.Moves,
		nullString(g.InitialFEN),
		created.UTC().Format(time.RFC3339Nano),
		now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("replace game %s: %w", g.ID, err)
	}

	if err := insertCaptures(ctx, tx, g.ID, rec.Captures); err != nil {
		return fmt.Errorf("replace game %s: %w", g.ID, err)
	}
	if err := insertPromotions(ctx, tx, g.ID, rec.Promotions); err != nil {
		return fmt.Errorf("replace game %s: %w", g.ID, err)
	}
	if err := insertWarnings(ctx, tx, g.ID, rec.Warnings); err != nil {
		return fmt.Errorf("replace game %s: %w", g.ID, err)
	}

	if err := tx.Commit(); err != nil {
		return &errors.OperationalError{Op: "replace game " + g.ID, Err: err}
	}
	return nil
}

func insertCaptures(ctx context.Context, tx *sql.Tx, gameID string, captures []classify.CaptureRecord) error {
	if len(captures) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO captures
		(game_id, ply, move_number, side, capturing_piece, captured_piece,
		 from_square, to_square, move_notation, piece_value, captured_value,
		 is_exchange, is_sacrifice, reference_player)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare captures: %w", err)
	}
	defer stmt.Close()

	for _, c := range captures {
		_, err := stmt.ExecContext(ctx,
			gameID,
			c.Ply,
			c.MoveNumber,
			c.Side.String(),
			c.Piece.String(),
			c.Captured.String(),
			c.From.String(),
			c.To.String(),
			c.SAN,
			c.PieceValue,
			c.CapturedValue,
			boolInt(c.IsExchange),
			boolInt(c.IsSacrifice),
			chess.NormalizeName(c.ReferencePlayer),
		)
		if err != nil {
			return fmt.Errorf("insert capture at ply %d: %w", c.Ply, err)
		}
	}
	return nil
}

func insertPromotions(ctx context.Context, tx *sql.Tx, gameID string, promotions []classify.PromotionRecord) error {
	for _, p := range promotions {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO promotions (game_id, ply, move_number, side, piece, square)
			VALUES (?, ?, ?, ?, ?, ?)
		`, gameID, p.Ply, p.MoveNumber, p.Side.String(), p.Piece.String(), p.Square.String())
		if err != nil {
			return fmt.Errorf("insert promotion at ply %d: %w", p.Ply, err)
		}
	}
	return nil
}

func insertWarnings(ctx context.Context, tx *sql.Tx, gameID string, warnings []*errors.ReplayWarning) error {
	for _, w := range warnings {
		reason := ""
		if w.Err != nil {
			reason = w.Err.Error()
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO replay_warnings (game_id, ply, move_number, side, token, reason)
			VALUES (?, ?, ?, ?, ?, ?)
		`, gameID, w.Ply, w.MoveNumber, w.Side, w.Token, reason)
		if err != nil {
			return fmt.Errorf("insert warning at ply %d: %w", w.Ply, err)
		}
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt(n int) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(n), Valid: n > 0}
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func resultOrUnknown(r string) string {
	if r == "" {
		return "*"
	}
	return r
}

func variantOrStandard(v string) string {
	if v == "" {
		return "standard"
	}
	return v
}
