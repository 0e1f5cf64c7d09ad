package parser

import (
	"regexp"
	"strings"

	"incident-report-api/internal/models"
)

var (
	lineBreaks     = regexp.MustCompile(`[\r\n]+`)
	valueSeparator = regexp.MustCompile(`\s*[,、，]\s*`)
	colonRemover   = strings.NewReplacer(":", "", "：", "")
)

// SplitLines splits text on any run of CR/LF characters and trims every line.
func SplitLines(text string) []string {
	lines := lineBreaks.Split(text, -1)
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return lines
}

// findLine returns the first raw line whose trimmed content starts with the label prefix.
func findLine(text string, label Label) (string, bool) {
	for _, raw := range lineBreaks.Split(text, -1) {
		if strings.HasPrefix(strings.TrimSpace(raw), label.Prefix) {
			return raw, true
		}
	}
	return "", false
}

// ExtractValue returns the value following the label prefix on its own line.
// A label line with nothing after it yields an empty string and true.
func ExtractValue(text string, label Label) (string, bool) {
	for _, line := range SplitLines(text) {
		if !strings.HasPrefix(line, label.Prefix) {
			continue
		}
		value := strings.TrimSpace(strings.TrimPrefix(line, label.Prefix))
		value = strings.TrimLeft(value, ":：")
		return strings.TrimSpace(value), true
	}
	return "", false
}

// ExtractValues returns the separated values of a multi-valued label line in
// the order they were written. Duplicates are kept, blank tokens are not.
func ExtractValues(text string, label Label) []string {
	line, ok := findLine(text, label)
	if !ok {
		return nil
	}

	var values []string
	for _, token := range valueSeparator.Split(line, -1) {
		token = strings.TrimSpace(token)
		token = strings.TrimPrefix(token, label.Prefix)
		token = strings.TrimSpace(colonRemover.Replace(token))
		if token == "" {
			continue
		}
		values = append(values, token)
	}
	return values
}

// Extract runs every known label against the message text.
func Extract(text string) models.ExtractedFields {
	var fields models.ExtractedFields
	for _, label := range Labels {
		if label.Multi {
			if label == LabelTag {
				fields.Tags = ExtractValues(text, label)
			}
			continue
		}

		value, ok := ExtractValue(text, label)
		if !ok {
			continue
		}
		switch label {
		case LabelOccurDate:
			fields.OccurDate = &value
		case LabelPrefecture:
			fields.Prefecture = &value
		case LabelMunicipality:
			fields.Municipality = &value
		case LabelDistrict:
			fields.District = &value
		case LabelAddressDetails:
			fields.AddressDetails = &value
		case LabelSummary:
			fields.Summary = &value
		}
	}
	return fields
}
