package core

import "time"

// RefreshEvent describes the outcome of one page refresh.
type RefreshEvent struct {
	ID        string
	Page      string
	Records   int
	Success   bool
	ErrorKind string
	Error     string
	At        time.Time
}
