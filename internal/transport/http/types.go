package http

import (
	"github.com/lgbarn/chessql-go/internal/classify"
	"github.com/lgbarn/chessql-go/internal/store"
)

// Error codes returned in ErrorResponse.Code.
const (
	ErrInvalidRequest   = "INVALID_REQUEST"
	ErrInvalidContent   = "INVALID_CONTENT_TYPE"
	ErrQuerySyntax      = "QUERY_SYNTAX"
	ErrUnknownField     = "UNKNOWN_FIELD"
	ErrGameNotFound     = "GAME_NOT_FOUND"
	ErrStoreUnavailable = "STORE_UNAVAILABLE"
	ErrQueryTimeout     = "QUERY_TIMEOUT"
	ErrInternalError    = "INTERNAL_ERROR"
)

// Request types

type QueryRequest struct {
	Query     string `json:"query" validate:"required,max=4096"`
	AccountID string `json:"account_id" validate:"max=128"`
	Platform  string `json:"platform" validate:"max=64"`
	Player    string `json:"player" validate:"max=128"`
	Limit     int    `json:"limit" validate:"min=0,max=10000"`
	Page      int    `json:"page" validate:"min=0"`
	Offset    *int   `json:"offset" validate:"omitempty,min=0"`
	CountOnly bool   `json:"count_only"`
}

type GameRequest struct {
	ID              string `json:"id" validate:"max=128"`
	AccountID       string `json:"account_id" validate:"required,max=128"`
	Platform        string `json:"platform" validate:"required,max=64"`
	PlatformID      string `json:"platform_id" validate:"max=128"`
	ReferencePlayer string `json:"reference_player" validate:"max=128"`
	Moves           string `json:"moves" validate:"max=65536"`
	InitialFEN      string `json:"initial_fen" validate:"max=128"`
	White           string `json:"white" validate:"required,max=128"`
	Black           string `json:"black" validate:"required,max=128"`
	WhiteElo        int    `json:"white_elo" validate:"min=0,max=4000"`
	BlackElo        int    `json:"black_elo" validate:"min=0,max=4000"`
	Result          string `json:"result" validate:"omitempty,oneof=1-0 0-1 1/2-1/2 *"`
	DatePlayed      string `json:"date_played" validate:"omitempty,datetime=2006-01-02"`
	Event           string `json:"event" validate:"max=256"`
	Site            string `json:"site" validate:"max=256"`
	Round           string `json:"round" validate:"max=32"`
	ECO             string `json:"eco_code" validate:"omitempty,len=3"`
	Opening         string `json:"opening" validate:"max=256"`
	TimeControl     string `json:"time_control" validate:"max=32"`
	Speed           string `json:"speed" validate:"omitempty,oneof=ultrabullet bullet blitz rapid classical correspondence"`
	Variant         string `json:"variant" validate:"max=64"`
	Termination     string `json:"termination" validate:"max=128"`
}

// Response types

type ErrorResponse struct {
	Error    string `json:"error"`
	Code     string `json:"code"`
	Details  string `json:"details,omitempty"`
	Position *int   `json:"position,omitempty"`
}

type CaptureView struct {
	Ply           int    `json:"ply"`
	MoveNumber    int    `json:"move_number"`
	Side          string `json:"side"`
	Piece         string `json:"capturing_piece"`
	Captured      string `json:"captured_piece"`
	From          string `json:"from_square"`
	To            string `json:"to_square"`
	SAN           string `json:"move_notation"`
	PieceValue    int    `json:"piece_value"`
	CapturedValue int    `json:"captured_value"`
	IsExchange    bool   `json:"is_exchange"`
	IsSacrifice   bool   `json:"is_sacrifice"`
}

type PromotionView struct {
	Ply        int    `json:"ply"`
	MoveNumber int    `json:"move_number"`
	Side       string `json:"side"`
	Piece      string `json:"piece"`
	Square     string `json:"square"`
}

type GameResponse struct {
	ID              string `json:"id"`
	AccountID       string `json:"account_id"`
	Platform        string `json:"platform"`
	PlatformID      string `json:"platform_id,omitempty"`
	ReferencePlayer string `json:"reference_player,omitempty"`
	White           string `json:"white"`
	Black           string `json:"black"`
	WhiteElo        int    `json:"white_elo,omitempty"`
	BlackElo        int    `json:"black_elo,omitempty"`
	Result          string `json:"result"`
	WhiteResult     string `json:"white_result"`
	BlackResult     string `json:"black_result"`
	DatePlayed      string `json:"date_played,omitempty"`
	Moves           string `json:"moves"`
	InitialFEN      string `json:"initial_fen,omitempty"`
	PlyCount        int    `json:"ply_count"`
	Partial         bool   `json:"partial_moves"`
	Degraded        bool   `json:"degraded"`
	CreatedAt       string `json:"created_at,omitempty"`

	Captures   []CaptureView   `json:"captures"`
	Promotions []PromotionView `json:"promotions"`
	Warnings   []store.Warning `json:"warnings"`
	Stats      classify.Stats  `json:"stats"`
}

// StatsResponse counts stored games, optionally for one account and
// platform.
type StatsResponse struct {
	AccountID string `json:"account_id,omitempty"`
	Platform  string `json:"platform,omitempty"`
	Games     int    `json:"games"`
}

type IngestResponse struct {
	ID          string          `json:"id"`
	PlyCount    int             `json:"ply_count"`
	Partial     bool            `json:"partial_moves"`
	Degraded    bool            `json:"degraded"`
	Captures    int             `json:"captures"`
	Promotions  int             `json:"promotions"`
	Ambiguities int             `json:"ambiguities"`
	Warnings    []store.Warning `json:"warnings"`
}
