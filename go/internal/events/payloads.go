package events

import (
	"time"
)

// Event type names as they appear on the wire
const (
	TypeAccountCreated     = "AccountCreated"
	TypeSquadReady         = "SquadReady"
	TypeProvisioningFailed = "SquadProvisioningFailed"
	TypePlayerListed       = "PlayerListed"
	TypePlayerUnlisted     = "PlayerUnlisted"
	TypePlayerTransferred  = "PlayerTransferred"
)

// AccountCreatedPayload is the payload of an AccountCreated event consumed from
// the identity service. Only the account reference is meaningful to us.
type AccountCreatedPayload struct {
	AccountID string    `json:"account_id"`
	CreatedAt time.Time `json:"created_at"`
}

// SquadReadyPayload is the payload for a SquadReady event
type SquadReadyPayload struct {
	AccountID   string    `json:"account_id"`
	SquadID     string    `json:"squad_id"`
	SquadName   string    `json:"squad_name"`
	PlayerCount int       `json:"player_count"`
	ReadyAt     time.Time `json:"ready_at"`
}

// ProvisioningFailedPayload is the payload for a SquadProvisioningFailed event
type ProvisioningFailedPayload struct {
	AccountID string    `json:"account_id"`
	SquadID   string    `json:"squad_id"`
	Reason    string    `json:"reason"`
	FailedAt  time.Time `json:"failed_at"`
}

// PlayerListedPayload is the payload for a PlayerListed event
type PlayerListedPayload struct {
	PlayerID    string    `json:"player_id"`
	SquadID     string    `json:"squad_id"`
	AskingPrice int64     `json:"asking_price"`
	ListedAt    time.Time `json:"listed_at"`
}

// PlayerUnlistedPayload is the payload for a PlayerUnlisted event
type PlayerUnlistedPayload struct {
	PlayerID   string    `json:"player_id"`
	SquadID    string    `json:"squad_id"`
	UnlistedAt time.Time `json:"unlisted_at"`
}

// PlayerTransferredPayload is the payload for a PlayerTransferred event
type PlayerTransferredPayload struct {
	PlayerID        string    `json:"player_id"`
	FromSquadID     string    `json:"from_squad_id"`
	ToSquadID       string    `json:"to_squad_id"`
	AskingPrice     int64     `json:"asking_price"`
	SettlementPrice int64     `json:"settlement_price"`
	TransferredAt   time.Time `json:"transferred_at"`
}
