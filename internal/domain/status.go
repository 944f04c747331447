package domain

import (
	"errors"
	"fmt"
)

// Status is the lifecycle state of a library entry.
type Status string

// Current lifecycle values.
const (
	StatusReading      Status = "reading"
	StatusFinished     Status = "finished"
	StatusDidNotFinish Status = "did-not-finish"
	StatusReRead       Status = "re-read"
)

// Values written by the first schema revision. Only MigrateStatus accepts them.
const (
	LegacyStatusWantToRead Status = "want-to-read"
	LegacyStatusRead       Status = "read"
)

// ErrUnknownStatus is returned when a stored lifecycle value matches no revision.
var ErrUnknownStatus = errors.New("unknown reading status")

// Statuses lists the current lifecycle values in display order.
var Statuses = []Status{StatusReading, StatusFinished, StatusDidNotFinish, StatusReRead}

// Valid reports whether s is a current lifecycle value.
func (s Status) Valid() bool {
	switch s {
	case StatusReading, StatusFinished, StatusDidNotFinish, StatusReRead:
		return true
	default:
		return false
	}
}

// IsCompleted reports whether the book has been read to the end at least once.
func (s Status) IsCompleted() bool {
	return s == StatusFinished || s == StatusReRead
}

// IsTerminal reports whether entering s closes a reading attempt.
func (s Status) IsTerminal() bool {
	return s == StatusFinished || s == StatusDidNotFinish
}

// MigrateStatus maps a stored lifecycle value onto the current revision.
//
//	want-to-read → reading
//	read         → finished
//
// Current values pass through. Anything else returns ErrUnknownStatus.
func MigrateStatus(raw Status) (Status, error) {
	switch raw {
	case LegacyStatusWantToRead:
		return StatusReading, nil
	case LegacyStatusRead:
		return StatusFinished, nil
	}
	if raw.Valid() {
		return raw, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStatus, string(raw))
}
