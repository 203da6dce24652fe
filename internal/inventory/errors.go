package inventory

import (
	"errors"

	"github.com/pixil98/go-loadout/internal/catalog"
)

var (
	ErrInvalidSlotIndex           = errors.New("invalid slot index")
	ErrSlotEmpty                  = errors.New("slot is empty")
	ErrSlotOccupied               = errors.New("slot is occupied")
	ErrNotOwned                   = errors.New("item not owned")
	ErrNoRoom                     = errors.New("no room for item")
	ErrCannotAfford               = errors.New("cannot afford item")
	ErrGateFailed                 = errors.New("location or state gate failed")
	ErrItemUnresolved             = catalog.ErrItemUnresolved
	ErrEffectSubsystemUnavailable = errors.New("effect subsystem unavailable")
	ErrAbilityHandleInvalid       = errors.New("ability handle invalid")
)
