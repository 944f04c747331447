package domain

import "time"

// ReadingSession is one logged interval of reading.
type ReadingSession struct {
	Date      time.Time `json:"date"`
	Minutes   int       `json:"minutes"`
	PagesRead int       `json:"pagesRead"` // Difference from the previous page; negative when the reader moved back
}
