package fill

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/ritlepage/backend/submission"
)

// Entry is one placeholder token and the text that replaces it.
type Entry struct {
	Token string
	Value string
}

// TokenTable holds the derived value of every placeholder of the template.
// Entries are kept longest token first so that, where one token is a prefix
// of another (submitter1, submitter10), the longer one wins.
type TokenTable struct {
	entries []Entry
	byFirst map[byte][]int
}

func NewTokenTableFromEntries(entries []Entry) *TokenTable {
	sorted := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.Token != "" {
			sorted = append(sorted, e)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i].Token) > len(sorted[j].Token)
	})

	t := &TokenTable{entries: sorted, byFirst: make(map[byte][]int)}
	for i, e := range sorted {
		t.byFirst[e.Token[0]] = append(t.byFirst[e.Token[0]], i)
	}
	return t
}

// SubmitterToken is the placeholder of roster slot i, counting from 1.
func SubmitterToken(i int) string {
	return "submitter" + strconv.Itoa(i)
}

// NewTokenTable derives the token values of a submission for a template
// with the given number of roster slots. Slots past the end of the roster
// render as the empty string.
func NewTokenTable(s submission.Submission, slots int) *TokenTable {
	entries := []Entry{
		{"submission_type", SubmissionPhrase(s.SubmissionType)},
		{"topic_name", TitleCase(s.TopicName)},
		{"subject_name", TitleCase(s.SubjectName)},
		{"subject_code", UpperCase(s.SubjectCode)},
		{"semester_number", strconv.Itoa(s.SemesterNumber)},
		{"student_branch", TitleCase(s.StudentBranch)},
		{"faculty_branch", TitleCase(s.FacultyBranch)},
		{"faculty_name", TitleCase(s.FacultyNameWithTitle)},
		{"designation", TitleCase(s.Designation)},
		{"from_ay", strconv.Itoa(s.FromAY)},
		{"to_ay", strconv.Itoa(s.ToAY)},
	}
	for i := 1; i <= slots; i++ {
		value := ""
		if i <= len(s.Submitters) {
			value = RosterLine(s.Submitters[i-1])
		}
		entries = append(entries, Entry{SubmitterToken(i), value})
	}
	return NewTokenTableFromEntries(entries)
}

// RosterLine renders a submitter as "Title Name (UPPER ID)".
func RosterLine(s submission.Submitter) string {
	return fmt.Sprintf("%s (%s)", TitleCase(s.Name), UpperCase(s.ID))
}

func (t *TokenTable) Entries() []Entry {
	return append([]Entry(nil), t.entries...)
}

// Value returns the replacement of token.
func (t *TokenTable) Value(token string) (string, bool) {
	for _, e := range t.entries {
		if e.Token == token {
			return e.Value, true
		}
	}
	return "", false
}

// Replace substitutes every token in text in a single left-to-right pass.
// Replacement values are never rescanned. It returns the new text and the
// number of substitutions made.
func (t *TokenTable) Replace(text string) (string, int) {
	return t.replace(text, nil)
}

func (t *TokenTable) replace(text string, counts map[string]int) (string, int) {
	var sb strings.Builder
	n := 0
	last := 0
	for i := 0; i < len(text); {
		e, ok := t.matchAt(text, i)
		if !ok {
			i++
			continue
		}
		if n == 0 {
			sb.Grow(len(text))
		}
		sb.WriteString(text[last:i])
		sb.WriteString(e.Value)
		if counts != nil {
			counts[e.Token]++
		}
		n++
		i += len(e.Token)
		last = i
	}
	if n == 0 {
		return text, 0
	}
	sb.WriteString(text[last:])
	return sb.String(), n
}

func (t *TokenTable) matchAt(text string, i int) (Entry, bool) {
	for _, idx := range t.byFirst[text[i]] {
		e := t.entries[idx]
		if strings.HasPrefix(text[i:], e.Token) {
			return e, true
		}
	}
	return Entry{}, false
}
