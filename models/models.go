// Package models defines the persisted entities and their input types.
// Every Input struct is an explicit allow-list of writable fields; request
// bodies are never merged into rows wholesale.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateFormat is the wire and storage format for calendar dates.
const DateFormat = "2006-01-02"

func init() {
	// Amounts go over the wire as JSON numbers, matching what the web and
	// mobile clients already parse.
	decimal.MarshalJSONWithoutQuotes = true
}

// ParseDate parses an ISO-8601 calendar date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateFormat, s)
}
