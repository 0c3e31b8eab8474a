package game

import "errors"

var (
	ErrInvalidSlot       = errors.New("slot index out of range")
	ErrSlotOccupied      = errors.New("slot already holds a module")
	ErrSlotEmpty         = errors.New("slot is empty")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrUnknownModuleType = errors.New("unknown module type")
)
