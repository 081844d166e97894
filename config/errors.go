package config

import "errors"

var (
	ErrUnknownDriver = errors.New("unknown driver")
	ErrBadInterval   = errors.New("interval must be positive")
	ErrBadBaudRate   = errors.New("baud rate must be positive")
	ErrBadCANID      = errors.New("can id must fit in 11 bits")
	ErrNoReplayFile  = errors.New("no recording given to replay")
	ErrBadSpeed      = errors.New("replay speed must not be negative")
	ErrBadSkipFrames = errors.New("skip-frames must not be negative")

	ErrNoGraphs       = errors.New("layout has no graphs")
	ErrBadMode        = errors.New("unknown graph mode")
	ErrBadXYSize      = errors.New("xy graph needs exactly 2 variables")
	ErrNoVariables    = errors.New("graph has no variables")
	ErrTooManyColours = errors.New("more than 6 colours")
	ErrBadSource      = errors.New("unknown source kind")
	ErrBadPoints      = errors.New("points must not be negative")
	ErrReservedToken  = errors.New("contains a reserved token")
	ErrColourCount    = errors.New("colour count doesn't match variables")
	ErrBadStep        = errors.New("counter step must be a whole number")
)
