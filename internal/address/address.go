// Package address assembles, normalizes and derives fallback variants of
// Japanese street addresses.
package address

import (
	"strings"

	"incident-report-api/internal/models"

	"golang.org/x/text/unicode/norm"
)

// dashFolder maps dash look-alikes that survive NFKC onto an ASCII hyphen.
var dashFolder = strings.NewReplacer(
	"‐", "-", // hyphen
	"‑", "-", // non-breaking hyphen
	"‒", "-", // figure dash
	"–", "-", // en dash
	"—", "-", // em dash
	"―", "-", // horizontal bar
	"−", "-", // minus sign
)

var spaceRemover = strings.NewReplacer(" ", "", "　", "")

// Assemble concatenates the address parts without separators. The address
// details are appended only when not blank.
func Assemble(parts models.AddressParts) string {
	var sb strings.Builder
	sb.WriteString(parts.Prefecture)
	sb.WriteString(parts.Municipality)
	sb.WriteString(parts.District)
	if strings.TrimSpace(parts.AddressDetails) != "" {
		sb.WriteString(parts.AddressDetails)
	}
	return sb.String()
}

// Normalize canonicalizes character width and strips spaces. It reports
// false when the input is blank.
func Normalize(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	s = norm.NFKC.String(s)
	s = dashFolder.Replace(s)
	return spaceRemover.Replace(s), true
}
