package repl

import "errors"

// Sentinel errors.
var (
	ErrOutOfBounds     = errors.New("history index out of range")
	ErrEditDeclined    = errors.New("edit declined")
	ErrUnknownCommand  = errors.New("unknown command")
	ErrNoExpression    = errors.New("no expression evaluated yet")
	ErrInvalidArgument = errors.New("invalid argument")
)
