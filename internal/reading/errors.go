package reading

import "errors"

// Rule violations. The service layer maps these onto coded errors.
var (
	ErrNoEntry                  = errors.New("reading: no library entry")
	ErrInvalidStatus            = errors.New("reading: invalid status")
	ErrReReadViaEntries         = errors.New("reading: re-read status is set by adding a re-read entry")
	ErrInvalidRating            = errors.New("reading: rating must be between 1 and 5")
	ErrInvalidMinutes           = errors.New("reading: minutes must not be negative")
	ErrReReadCompletionRequired = errors.New("reading: re-read entry needs a completion date")
	ErrReReadIDRequired         = errors.New("reading: re-read entry needs an id")
	ErrDuplicateReRead          = errors.New("reading: re-read entry id already exists")
	ErrReReadNotFound           = errors.New("reading: re-read entry not found")
)
