package feed

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/bizorder/backend/internal/domain/geo"
)

// ReferenceRecord is one normalized row of the reference-code feed
type ReferenceRecord struct {
	Code     string
	FeeClass geo.FeeClass
	Active   bool
	Address  string
}

// fieldsPerRow is the fixed shape of the tab-separated feed:
// code, fee class, active flag, address. All four are required.
const fieldsPerRow = 4

// ParseReferenceFeed parses the tab-separated reference-code feed.
// The first line is a header and is skipped; blank lines are filtered out.
// Any malformed data row fails the whole parse with a MalformedRowError
// naming the offending raw line. Rows are unique per (code, address) pair;
// a feed repeating a pair is malformed.
func ParseReferenceFeed(r io.Reader) ([]ReferenceRecord, error) {
	scanner := bufio.NewScanner(r)
	// Address lines in the source feed can be long; widen the default limit.
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("failed to read feed header: %w", err)
		}
		return nil, ErrMissingHeader
	}

	var records []ReferenceRecord
	seen := make(map[string]struct{})
	lineNo := 1
	for scanner.Scan() {
		lineNo++
		raw := scanner.Text()
		if strings.TrimSpace(raw) == "" {
			continue
		}

		record, err := parseRow(lineNo, raw)
		if err != nil {
			return nil, err
		}

		key := record.Code + "\x00" + record.Address
		if _, dup := seen[key]; dup {
			return nil, NewMalformedRowError(lineNo, raw, ErrCodeFeedDuplicateRow,
				fmt.Sprintf("duplicate (code, address) pair: %s, %q", record.Code, record.Address))
		}
		seen[key] = struct{}{}
		records = append(records, *record)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read feed: %w", err)
	}

	if len(records) == 0 {
		return nil, ErrEmptyFeed
	}
	return records, nil
}

func parseRow(lineNo int, raw string) (*ReferenceRecord, error) {
	fields := strings.Split(raw, "\t")
	if len(fields) != fieldsPerRow {
		return nil, NewMalformedRowError(lineNo, raw, ErrCodeFeedFieldCount,
			fmt.Sprintf("expected %d tab-separated fields, got %d", fieldsPerRow, len(fields)))
	}

	code := strings.TrimSpace(fields[0])
	feeClassRaw := strings.TrimSpace(fields[1])
	activeRaw := strings.TrimSpace(fields[2])
	address := strings.TrimSpace(fields[3])

	if code == "" {
		return nil, NewMalformedRowError(lineNo, raw, ErrCodeFeedMissingField, "code is required")
	}
	if feeClassRaw == "" {
		return nil, NewMalformedRowError(lineNo, raw, ErrCodeFeedMissingField, "fee class is required")
	}
	if activeRaw == "" {
		return nil, NewMalformedRowError(lineNo, raw, ErrCodeFeedMissingField, "active flag is required")
	}
	if address == "" {
		return nil, NewMalformedRowError(lineNo, raw, ErrCodeFeedMissingField, "address is required")
	}

	feeClass := geo.FeeClass(strings.ToUpper(feeClassRaw))
	if !feeClass.IsValid() {
		return nil, NewMalformedRowError(lineNo, raw, ErrCodeFeedBadEnum,
			fmt.Sprintf("unknown fee class %q", feeClassRaw))
	}

	active, err := parseActive(activeRaw)
	if err != nil {
		return nil, NewMalformedRowError(lineNo, raw, ErrCodeFeedBadBool,
			fmt.Sprintf("unparsable active flag %q", activeRaw))
	}

	return &ReferenceRecord{
		Code:     code,
		FeeClass: feeClass,
		Active:   active,
		Address:  address,
	}, nil
}

func parseActive(s string) (bool, error) {
	switch strings.ToUpper(s) {
	case "TRUE", "T", "1", "Y", "YES":
		return true, nil
	case "FALSE", "F", "0", "N", "NO":
		return false, nil
	}
	return false, fmt.Errorf("not a boolean: %q", s)
}
