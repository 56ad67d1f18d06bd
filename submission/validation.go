package submission

import (
	"fmt"
	"strings"
)

// Limits are the template-dependent bounds a submission is checked against.
type Limits struct {
	// MaxSubmitters is the number of roster slots the template provides.
	MaxSubmitters int
	// RequireConsecutiveYears enforces to_ay == from_ay + 1.
	RequireConsecutiveYears bool
}

const DefaultMaxSubmitters = 7

func DefaultLimits() Limits {
	return Limits{MaxSubmitters: DefaultMaxSubmitters}
}

// Validate reports every invalid field at once. Values are not checked for
// placeholder literals: a value such as "subject_code" would survive into
// the document and be indistinguishable from template text.
func (s *Submission) Validate(limits Limits) error {
	details := make(map[string]string)

	required := []struct {
		field string
		value string
	}{
		{"submission_type", s.SubmissionType},
		{"subject_name", s.SubjectName},
		{"subject_code", s.SubjectCode},
		{"topic_name", s.TopicName},
		{"student_branch", s.StudentBranch},
		{"faculty_branch", s.FacultyBranch},
		{"faculty_name_with_title", s.FacultyNameWithTitle},
		{"designation", s.Designation},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			details[r.field] = "must not be empty"
		} else if msg, bad := checkXMLChars(r.value); bad {
			details[r.field] = msg
		}
	}

	if s.SemesterNumber < 1 {
		details["semester_number"] = "must be a positive integer"
	}
	if s.FromAY < 1 {
		details["from_ay"] = "must be a positive integer"
	}
	if s.ToAY < 1 {
		details["to_ay"] = "must be a positive integer"
	}
	if limits.RequireConsecutiveYears && s.FromAY > 0 && s.ToAY != s.FromAY+1 {
		details["to_ay"] = fmt.Sprintf("must be %d", s.FromAY+1)
	}

	maxSubmitters := limits.MaxSubmitters
	if maxSubmitters <= 0 {
		maxSubmitters = DefaultMaxSubmitters
	}
	switch n := len(s.Submitters); {
	case n == 0:
		details["submitters"] = "at least one submitter is required"
	case n > maxSubmitters:
		details["submitters"] = fmt.Sprintf("at most %d submitters are allowed, got %d", maxSubmitters, n)
	default:
		for i, sub := range s.Submitters {
			if strings.TrimSpace(sub.Name) == "" {
				details["submitters"] = fmt.Sprintf("submitter %d has an empty name", i+1)
				break
			}
			if strings.TrimSpace(sub.ID) == "" {
				details["submitters"] = fmt.Sprintf("submitter %q has an empty registration number", sub.Name)
				break
			}
			if msg, bad := checkXMLChars(sub.Name + sub.ID); bad {
				details["submitters"] = fmt.Sprintf("submitter %d %s", i+1, msg)
				break
			}
		}
	}

	if len(details) > 0 {
		return newErrInvalidSubmission(details)
	}
	return nil
}

// checkXMLChars reports the first character of s that XML 1.0 cannot
// carry. Such a value would make word/document.xml unreadable.
func checkXMLChars(s string) (string, bool) {
	for _, r := range s {
		if !isXMLChar(r) {
			return fmt.Sprintf("contains a character not allowed in documents (U+%04X)", r), true
		}
	}
	return "", false
}

func isXMLChar(r rune) bool {
	switch {
	case r == '\t', r == '\n', r == '\r':
		return true
	case r < 0x20:
		return false
	case r >= 0xD800 && r <= 0xDFFF:
		return false
	case r == 0xFFFE, r == 0xFFFF:
		return false
	}
	return r <= 0x10FFFF
}
