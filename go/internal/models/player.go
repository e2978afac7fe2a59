package models

import (
	"time"

	"github.com/google/uuid"
)

// Position represents a player's position on the pitch
type Position string

const (
	PositionGoalkeeper Position = "GOALKEEPER"
	PositionDefender   Position = "DEFENDER"
	PositionMidfielder Position = "MIDFIELDER"
	PositionAttacker   Position = "ATTACKER"
)

// Valid reports whether p is one of the four known positions
func (p Position) Valid() bool {
	switch p {
	case PositionGoalkeeper, PositionDefender, PositionMidfielder, PositionAttacker:
		return true
	}
	return false
}

// TransferStatus represents a player's transfer-market listing state
type TransferStatus string

const (
	TransferStatusNotListed TransferStatus = "NOT_LISTED"
	TransferStatusListed    TransferStatus = "LISTED"
)

// Player represents a player owned by a squad
type Player struct {
	ID             uuid.UUID      `json:"id"`
	SquadID        uuid.UUID      `json:"squad_id"`
	Position       Position       `json:"position"`
	FullName       string         `json:"full_name"`
	Value          int64          `json:"value"`                  // market valuation, minor units
	AskingPrice    *int64         `json:"asking_price,omitempty"` // nil unless listed
	TransferStatus TransferStatus `json:"transfer_status"`
	CreatedAt      time.Time      `json:"created_at"`
}

// Listed reports whether the player has an active transfer listing
func (p *Player) Listed() bool {
	return p.TransferStatus == TransferStatusListed && p.AskingPrice != nil
}
