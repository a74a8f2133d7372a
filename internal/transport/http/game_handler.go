package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/lgbarn/chessql-go/internal/classify"
	"github.com/lgbarn/chessql-go/internal/store"
)

// CreateGame ingests one game and reports what was derived from it.
// Re-posting a game with the same id replaces it.
func (h *Handler) CreateGame(c *fiber.Ctx) error {
	var req GameRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	d, err := h.deps.Ingest.IngestOne(c.UserContext(), h.newGame(&req))
	if err != nil {
		return err
	}

	rec := d.Record
	warnings := make([]store.Warning, 0, len(rec.Warnings))
	for _, w := range rec.Warnings {
		sw := store.Warning{Ply: w.Ply, MoveNumber: w.MoveNumber, Side: w.Side, Token: w.Token}
		if w.Err != nil {
			sw.Reason = w.Err.Error()
		}
		warnings = append(warnings, sw)
	}

	return c.Status(fiber.StatusCreated).JSON(IngestResponse{
		ID:          rec.Game.ID,
		PlyCount:    rec.PlyCount,
		Partial:     rec.Partial,
		Degraded:    rec.Degraded,
		Captures:    len(rec.Captures),
		Promotions:  len(rec.Promotions),
		Ambiguities: len(d.Ambiguities),
		Warnings:    warnings,
	})
}

func (h *Handler) GetGame(c *fiber.Ctx) error {
	ctx := c.UserContext()
	id := c.Params("gameId")

	g, err := h.deps.Games.GetGame(ctx, id)
	if err != nil {
		return err
	}
	captures, err := h.deps.Games.GameCaptures(ctx, id)
	if err != nil {
		return err
	}
	promotions, err := h.deps.Games.GamePromotions(ctx, id)
	if err != nil {
		return err
	}
	warnings, err := h.deps.Games.GameWarnings(ctx, id)
	if err != nil {
		return err
	}

	return c.JSON(gameResponse(g, captures, promotions, warnings))
}

func gameResponse(g *store.StoredGame, captures []classify.CaptureRecord, promotions []classify.PromotionRecord, warnings []store.Warning) GameResponse {
	resp := GameResponse{
		ID:              g.ID,
		AccountID:       g.AccountID,
		Platform:        g.Platform,
		PlatformID:      g.PlatformID,
		ReferencePlayer: g.ReferencePlayer,
		White:           g.White,
		Black:           g.Black,
		WhiteElo:        g.WhiteElo,
		BlackElo:        g.BlackElo,
		Result:          g.Result,
		WhiteResult:     g.WhiteResult,
		BlackResult:     g.BlackResult,
		DatePlayed:      g.DatePlayed,
		Moves:           g.Moves,
		InitialFEN:      g.InitialFEN,
		PlyCount:        g.PlyCount,
		Partial:         g.Partial,
		Degraded:        g.Degraded,
		Captures:        make([]CaptureView, 0, len(captures)),
		Promotions:      make([]PromotionView, 0, len(promotions)),
		Warnings:        warnings,
		Stats:           classify.Summarize(captures),
	}
	if !g.CreatedAt.IsZero() {
		resp.CreatedAt = g.CreatedAt.Format(time.RFC3339)
	}
	if resp.Warnings == nil {
		resp.Warnings = []store.Warning{}
	}
	for _, c := range captures {
		resp.Captures = append(resp.Captures, CaptureView{
			Ply:           c.Ply,
			MoveNumber:    c.MoveNumber,
			Side:          c.Side.String(),
			Piece:         c.Piece.String(),
			Captured:      c.Captured.String(),
			From:          c.From.String(),
			To:            c.To.String(),
			SAN:           c.SAN,
			PieceValue:    c.PieceValue,
			CapturedValue: c.CapturedValue,
			IsExchange:    c.IsExchange,
			IsSacrifice:   c.IsSacrifice,
		})
	}
	for _, p := range promotions {
		resp.Promotions = append(resp.Promotions, PromotionView{
			Ply:        p.Ply,
			MoveNumber: p.MoveNumber,
			Side:       p.Side.String(),
			Piece:      p.Piece.String(),
			Square:     p.Square.String(),
		})
	}
	return resp
}

// Stats counts stored games. The account_id and platform query parameters
// narrow the count.
func (h *Handler) Stats(c *fiber.Ctx) error {
	account, platform := c.Query("account_id"), c.Query("platform")
	n, err := h.deps.Games.CountGames(c.UserContext(), account, platform)
	if err != nil {
		return err
	}
	return c.JSON(StatsResponse{AccountID: account, Platform: platform, Games: n})
}
