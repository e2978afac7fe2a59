package squad

import "errors"

// ErrSquadNotFound is returned when no squad exists for the given id or account
var ErrSquadNotFound = errors.New("squad not found")

// ErrNotReprovisionable is returned when a re-provisioning retry is requested for
// a squad that is not in the ERROR state
var ErrNotReprovisionable = errors.New("squad is not in error state")
