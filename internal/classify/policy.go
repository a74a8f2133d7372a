// Package classify derives capture records and promotion tallies from a
// game's move events.
package classify

import (
	"fmt"

	"github.com/lgbarn/chessql-go/internal/errors"
)

// Policy holds the classification constants. Windows are counted in plies
// after the capture.
type Policy struct {
	// RecaptureWindow bounds how soon a same-square recapture must follow
	// for the pair to count as an exchange.
	RecaptureWindow int `yaml:"recapture_window"`

	// SacrificeWindow is how far past a capture the material balance is
	// measured.
	SacrificeWindow int `yaml:"sacrifice_window"`

	// SacrificeThreshold is the minimum lasting deficit, in pawns.
	SacrificeThreshold int `yaml:"sacrifice_threshold"`

	// ExchangeTolerance is the largest value difference between the two
	// captured pieces that still counts as an exchange.
	ExchangeTolerance int `yaml:"exchange_tolerance"`
}

// DefaultPolicy returns the standard classification constants.
func DefaultPolicy() Policy {
	return Policy{
		RecaptureWindow:    2,
		SacrificeWindow:    4,
		SacrificeThreshold: 2,
		ExchangeTolerance:  1,
	}
}

// Validate reports an out-of-range constant.
func (p Policy) Validate() error {
	switch {
	case p.RecaptureWindow < 1:
		return fmt.Errorf("recapture window %d must be at least 1: %w", p.RecaptureWindow, errors.ErrInvalidConfig)
	case p.SacrificeWindow < 1:
		return fmt.Errorf("sacrifice window %d must be at least 1: %w", p.SacrificeWindow, errors.ErrInvalidConfig)
	case p.SacrificeThreshold < 1:
		return fmt.Errorf("sacrifice threshold %d must be at least 1: %w", p.SacrificeThreshold, errors.ErrInvalidConfig)
	case p.ExchangeTolerance < 0:
		return fmt.Errorf("exchange tolerance %d must not be negative: %w", p.ExchangeTolerance, errors.ErrInvalidConfig)
	}
	return nil
}
