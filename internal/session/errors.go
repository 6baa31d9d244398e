package session

import "errors"

var ErrUnsupportedCommand = errors.New("unsupported command")
var ErrWagerRequired = errors.New("daily double answer needs a wager first")
var ErrOutOfTurn = errors.New("not this player's turn in the final sequence")
var ErrWagersOpen = errors.New("final wagers are still being collected")
var ErrWagersClosed = errors.New("all final wagers are already in")
