package tui

import "errors"

// ErrMissingCoach is returned when the interview coach is not provided.
var ErrMissingCoach = errors.New("tui: interview coach is required")

// ErrMissingEvaluator is returned when the response evaluator is not provided.
var ErrMissingEvaluator = errors.New("tui: response evaluator is required")

// ErrNoActiveSession is returned when an answer arrives before a plan.
var ErrNoActiveSession = errors.New("tui: no active session")
