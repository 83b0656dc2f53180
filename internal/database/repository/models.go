package repository

import "time"

// TapeEntry represents one finished calculation on the session tape.
type TapeEntry struct {
	ID         string
	Expression string
	Result     string
	IsError    bool
	CreatedAt  time.Time
}
