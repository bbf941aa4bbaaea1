package game

import "errors"

// Validation failures reject the single offending action and leave match
// state untouched. All are caller-recoverable; match errors with these
// sentinels via errors.Is.
var (
	ErrInvalidConfig      = errors.New("invalid match config")
	ErrInvalidDeclaration = errors.New("invalid declaration")
	ErrInvalidSwitch      = errors.New("invalid switch")
	ErrInvalidPick        = errors.New("invalid pick")
	ErrModifierTiming     = errors.New("modifier not allowed yet")
	ErrModifierRange      = errors.New("modifier out of range")
	ErrDuplicateMatch     = errors.New("match already active in this context")
	ErrIllegalTransition  = errors.New("illegal transition")
	ErrUnknownParticipant = errors.New("not a participant in this match")
)
