package repo

import "errors"

var (
	ErrPlotPointNotFound = errors.New("plot point not found")
	ErrSessionNotFound   = errors.New("session not found")
	ErrSessionExists     = errors.New("session already recorded")
)
