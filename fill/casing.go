package fill

import (
	"strings"
	"unicode"

	"github.com/ritlepage/backend/submission"
)

// TitleCase upper-cases the first letter of every run of letters and
// lower-cases the rest of it. Any non-letter, digits included, ends a run:
// "o'neil" becomes "O'Neil" and "3rd year" becomes "3Rd Year".
func TitleCase(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	inWord := false
	for _, r := range s {
		if !unicode.IsLetter(r) {
			inWord = false
			sb.WriteRune(r)
			continue
		}
		if inWord {
			sb.WriteRune(unicode.ToLower(r))
		} else {
			sb.WriteRune(unicode.ToTitle(r))
		}
		inWord = true
	}
	return sb.String()
}

func UpperCase(s string) string {
	return strings.ToUpper(s)
}

// SubmissionPhrase maps the known submission types to the phrase printed on
// the title page. Any other value is printed as given.
func SubmissionPhrase(submissionType string) string {
	switch strings.ToLower(strings.TrimSpace(submissionType)) {
	case submission.TypeAssignment:
		return "An Assignment"
	case submission.TypeReport:
		return "A Report"
	default:
		return submissionType
	}
}
