package run

import (
	"errors"

	"github.com/cory-johannsen/scoundrel/internal/game/combat"
	"github.com/cory-johannsen/scoundrel/internal/game/room"
)

// ErrActionAfterTerminal is returned for any action once the run is won or lost.
var ErrActionAfterTerminal = errors.New("the run is over")

// Errors surfaced by the action API. They alias the package that detects them
// so callers only need this package for errors.Is checks.
var (
	ErrSlotEmpty         = room.ErrSlotEmpty
	ErrIndexOutOfRange   = room.ErrIndexOutOfRange
	ErrRepeatedAvoid     = room.ErrRepeatedAvoid
	ErrRoomNotFull       = room.ErrRoomNotFull
	ErrWeaponCapExceeded = combat.ErrWeaponCapExceeded
	ErrNoWeaponEquipped  = combat.ErrNoWeaponEquipped
)
