package models

import (
	"time"

	"github.com/google/uuid"
)

// SquadStatus represents the provisioning lifecycle of a squad
type SquadStatus string

const (
	SquadStatusCreating SquadStatus = "CREATING"
	SquadStatusReady    SquadStatus = "READY"
	SquadStatusError    SquadStatus = "ERROR"
)

// Roster size bounds enforced by the transfer market once a squad is ready
const (
	RosterMin = 15
	RosterMax = 25
)

// Squad represents a managed squad owned by an external account
type Squad struct {
	ID        uuid.UUID   `json:"id"`
	AccountID string      `json:"account_id"` // opaque reference owned by the identity service
	Name      string      `json:"name"`
	Budget    int64       `json:"budget"` // monetary minor units, never negative
	Status    SquadStatus `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
}
