package feed

import (
	"errors"
	"fmt"
)

// Feed error codes
const (
	ErrCodeFeedEmpty        = "ERR_FEED_EMPTY"
	ErrCodeFeedMalformedRow = "ERR_FEED_MALFORMED_ROW"
	ErrCodeFeedFieldCount   = "ERR_FEED_FIELD_COUNT"
	ErrCodeFeedMissingField = "ERR_FEED_MISSING_FIELD"
	ErrCodeFeedBadEnum      = "ERR_FEED_BAD_ENUM"
	ErrCodeFeedBadBool      = "ERR_FEED_BAD_BOOL"
	ErrCodeFeedDuplicateRow = "ERR_FEED_DUPLICATE_ROW"
)

// Common feed errors
var (
	// ErrEmptyFeed is returned when the feed has a header but no data rows
	ErrEmptyFeed = errors.New("reference feed contains no data rows")

	// ErrMissingHeader is returned when the feed is missing its header line
	ErrMissingHeader = errors.New("reference feed missing header line")
)

// MalformedRowError reports a feed row that could not be parsed. It carries
// the raw line so the operator can locate and correct the source record.
// A single malformed row fails the whole feed: partial reference data is
// never accepted.
type MalformedRowError struct {
	Line    int    // 1-based line number in the feed, header included
	Raw     string // the offending line, verbatim
	Code    string
	Message string
}

// Error implements the error interface
func (e *MalformedRowError) Error() string {
	return fmt.Sprintf("malformed feed row at line %d: %s (raw: %q)", e.Line, e.Message, e.Raw)
}

// NewMalformedRowError creates a new MalformedRowError
func NewMalformedRowError(line int, raw, code, message string) *MalformedRowError {
	return &MalformedRowError{
		Line:    line,
		Raw:     raw,
		Code:    code,
		Message: message,
	}
}

// IsMalformedRow reports whether err is (or wraps) a MalformedRowError
func IsMalformedRow(err error) bool {
	var target *MalformedRowError
	return errors.As(err, &target)
}
