package classify

import (
	"fmt"

	"github.com/lgbarn/chessql-go/internal/chess"
)

// CaptureRecord is one classified capture.
type CaptureRecord struct {
	Ply        int
	MoveNumber int
	Side       chess.Colour

	// Piece made the capture; Captured was removed.
	Piece    chess.Piece
	Captured chess.Piece
	From     chess.Square
	To       chess.Square
	SAN      string

	PieceValue    int
	CapturedValue int

	IsExchange  bool
	IsSacrifice bool

	// Player whose perspective the game was classified under.
	ReferencePlayer string
}

// PromotionRecord is one promotion.
type PromotionRecord struct {
	Ply        int
	MoveNumber int
	Side       chess.Colour
	Piece      chess.Piece
	Square     chess.Square
}

// PromotionKey indexes the promotion tally.
type PromotionKey struct {
	Side  chess.Colour
	Piece chess.Piece
}

// Ambiguity notes a capture whose classification could not be settled
// inside the window. The capture keeps the conservative default: not a
// sacrifice.
type Ambiguity struct {
	Ply    int
	Reason string
}

// Result is the derived data for one game.
type Result struct {
	Captures    []CaptureRecord
	Promotions  []PromotionRecord
	Tally       map[PromotionKey]int
	Ambiguities []Ambiguity
}

// CapturedValue returns the summed value of every captured piece.
func (r *Result) CapturedValue() int {
	total := 0
	for _, c := range r.Captures {
		total += c.CapturedValue
	}
	return total
}

// Classify builds capture and promotion records from events. Both sides'
// captures are classified the same way; reference is stamped on every
// record so stored data shows which perspective produced it.
func Classify(events []chess.MoveEvent, reference string, policy Policy) *Result {
	res := &Result{Tally: make(map[PromotionKey]int)}

	// Running balance per side after each event, indexed like events.
	balance := make([][2]int, len(events))
	var running [2]int
	for i, ev := range events {
		running[ev.Side] += ev.MaterialDelta()
		running[ev.Side.Opposite()] -= ev.MaterialDelta()
		balance[i] = running

		if ev.IsPromotion() {
			res.Promotions = append(res.Promotions, PromotionRecord{
				Ply:        ev.Ply,
				MoveNumber: ev.MoveNumber,
				Side:       ev.Side,
				Piece:      ev.Promotion,
				Square:     ev.To,
			})
			res.Tally[PromotionKey{Side: ev.Side, Piece: ev.Promotion}]++
		}
	}

	index := make(map[int]int) // event index -> capture index
	for i, ev := range events {
		if !ev.IsCapture() {
			continue
		}
		index[i] = len(res.Captures)
		res.Captures = append(res.Captures, CaptureRecord{
			Ply:             ev.Ply,
			MoveNumber:      ev.MoveNumber,
			Side:            ev.Side,
			Piece:           ev.Piece,
			Captured:        ev.Captured,
			From:            ev.From,
			To:              ev.To,
			SAN:             ev.SAN,
			PieceValue:      ev.Piece.Value(),
			CapturedValue:   ev.Captured.Value(),
			ReferencePlayer: reference,
		})
	}

	markExchanges(events, index, res, policy)
	markSacrifices(events, balance, index, res, policy)

	return res
}

// markExchanges pairs each capture with the first opposing recapture on
// the same square inside the window when the two captured values are
// within tolerance.
func markExchanges(events []chess.MoveEvent, index map[int]int, res *Result, policy Policy) {
	for i, ev := range events {
		ci, ok := index[i]
		if !ok || ev.Captured == chess.King {
			continue
		}
		for j := i + 1; j < len(events) && events[j].Ply <= ev.Ply+policy.RecaptureWindow; j++ {
			reply := events[j]
			if reply.Side == ev.Side || !reply.IsCapture() || reply.To != ev.To {
				continue
			}
			if abs(reply.Captured.Value()-ev.Captured.Value()) <= policy.ExchangeTolerance {
				res.Captures[ci].IsExchange = true
				res.Captures[index[j]].IsExchange = true
			}
			break
		}
	}
}

// markSacrifices flags captures after which the capturing side's balance,
// measured SacrificeWindow plies later, sits at least SacrificeThreshold
// below where it stood before the capture.
func markSacrifices(events []chess.MoveEvent, balance [][2]int, index map[int]int, res *Result, policy Policy) {
	for i, ev := range events {
		ci, ok := index[i]
		if !ok || res.Captures[ci].IsExchange {
			continue
		}

		if i == len(events)-1 {
			res.Ambiguities = append(res.Ambiguities, Ambiguity{
				Ply:    ev.Ply,
				Reason: "capture is the last move; no reply to measure",
			})
			continue
		}

		var before int
		if i > 0 {
			before = balance[i-1][ev.Side]
		}

		horizon := ev.Ply + policy.SacrificeWindow
		last := i
		for last+1 < len(events) && events[last+1].Ply <= horizon {
			last++
		}
		if last == len(events)-1 && events[last].Ply < horizon {
			res.Ambiguities = append(res.Ambiguities, Ambiguity{
				Ply:    ev.Ply,
				Reason: fmt.Sprintf("game ends %d plies into a %d-ply window", events[last].Ply-ev.Ply, policy.SacrificeWindow),
			})
		}

		if before-balance[last][ev.Side] >= policy.SacrificeThreshold {
			res.Captures[ci].IsSacrifice = true
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
