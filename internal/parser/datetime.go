package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// JST is the zone occurrence times are interpreted in.
var JST = time.FixedZone("JST", 9*60*60)

// occurDatePattern matches "2025年9月8日午後6時10分" with the time part optional
// and the minute optional within it.
var occurDatePattern = regexp.MustCompile(`^(\d{4})年(\d{1,2})月(\d{1,2})日(?:\s*(午前|午後)(\d{1,2})時(?:(\d{1,2})分)?)?$`)

// DateFormatError reports an occurrence date that does not follow the expected format.
type DateFormatError struct {
	Input  string
	Reason string
}

func (e *DateFormatError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("parser: malformed occurrence date %q", e.Input)
	}
	return fmt.Sprintf("parser: malformed occurrence date %q: %s", e.Input, e.Reason)
}

// ParseOccurDate parses a localized date such as "2025年9月8日午後6時10分".
// Full-width digits are accepted. A blank input yields nil without error.
func ParseOccurDate(s string) (*time.Time, error) {
	normalized := strings.TrimSpace(norm.NFKC.String(s))
	if normalized == "" {
		return nil, nil
	}

	m := occurDatePattern.FindStringSubmatch(normalized)
	if m == nil {
		return nil, &DateFormatError{Input: s}
	}

	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])

	var hour, minute int
	if m[4] != "" {
		hour, _ = strconv.Atoi(m[5])
		if hour > 11 {
			return nil, &DateFormatError{Input: s, Reason: "hour must be between 0 and 11"}
		}
		if m[4] == "午後" {
			hour += 12
		}
		if m[6] != "" {
			minute, _ = strconv.Atoi(m[6])
			if minute > 59 {
				return nil, &DateFormatError{Input: s, Reason: "minute must be between 0 and 59"}
			}
		}
	}

	t := time.Date(year, time.Month(month), day, hour, minute, 0, 0, JST)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return nil, &DateFormatError{Input: s, Reason: "no such calendar date"}
	}
	return &t, nil
}
