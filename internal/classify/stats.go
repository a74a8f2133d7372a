package classify

import "github.com/lgbarn/chessql-go/internal/chess"

// Stats summarises a game's captures by the capturing piece.
type Stats struct {
	TotalCaptures       int            `json:"total_captures"`
	Exchanges           int            `json:"exchanges"`
	Sacrifices          int            `json:"sacrifices"`
	CapturesByPiece     map[string]int `json:"captures_by_piece"`
	ExchangesByPiece    map[string]int `json:"exchanges_by_piece"`
	SacrificesByPiece   map[string]int `json:"sacrifices_by_piece"`
	CapturedValueBySide map[string]int `json:"captured_value_by_side"`
}

// Summarize counts captures, exchanges and sacrifices per capturing piece.
func Summarize(captures []CaptureRecord) Stats {
	st := Stats{
		TotalCaptures:       len(captures),
		CapturesByPiece:     make(map[string]int),
		ExchangesByPiece:    make(map[string]int),
		SacrificesByPiece:   make(map[string]int),
		CapturedValueBySide: map[string]int{chess.White.String(): 0, chess.Black.String(): 0},
	}
	for _, c := range captures {
		piece := c.Piece.String()
		st.CapturesByPiece[piece]++
		st.CapturedValueBySide[c.Side.String()] += c.CapturedValue
		if c.IsExchange {
			st.Exchanges++
			st.ExchangesByPiece[piece]++
		}
		if c.IsSacrifice {
			st.Sacrifices++
			st.SacrificesByPiece[piece]++
		}
	}
	return st
}
