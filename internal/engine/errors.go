package engine

import "errors"

// Configuration errors. Configuration calls fail fast and leave the engine
// unchanged; frame processing never returns these.
var (
	ErrParameterExists   = errors.New("parameter already registered")
	ErrParameterUnknown  = errors.New("unknown parameter")
	ErrSourceExists      = errors.New("source already attached")
	ErrInvalidConstraint = errors.New("constraint min must be less than max")
	ErrInvalidFactor     = errors.New("smoothing factor must be in (0, 1]")
	ErrInvalidPeriod     = errors.New("oscillator period must be positive")
	ErrNonFinite         = errors.New("value must be finite")
	ErrRunning           = errors.New("engine already running")
)
