package fill

import (
	"fmt"
	"strings"
)

// Paragraph is the part of a document paragraph the filler needs: the
// text of its runs, and a way to write them back.
type Paragraph interface {
	Runs() []string
	SetRuns(texts []string)
}

// Scope selects how much text a token may span.
type Scope int

const (
	// ScopeParagraph matches tokens against the whole paragraph text, so a
	// token split over runs is still found. A changed paragraph collapses
	// into its first run, whose formatting then applies to all of it.
	ScopeParagraph Scope = iota
	// ScopeRun matches tokens inside single runs only. Formatting is kept
	// exactly but a token split over runs is left in place.
	ScopeRun
)

func (s Scope) String() string {
	switch s {
	case ScopeParagraph:
		return "paragraph"
	case ScopeRun:
		return "run"
	default:
		return fmt.Sprintf("Scope(%d)", int(s))
	}
}

func ParseScope(s string) (Scope, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "paragraph":
		return ScopeParagraph, nil
	case "run":
		return ScopeRun, nil
	default:
		return 0, fmt.Errorf("unknown match scope %q, want \"paragraph\" or \"run\"", s)
	}
}

// Report summarizes one Fill call.
type Report struct {
	Substitutions       int
	ParagraphsRewritten int
	ByToken             map[string]int
}

// Fill replaces the tokens of table in every paragraph. Paragraphs without
// tokens are not written to.
func Fill(paras []Paragraph, table *TokenTable, scope Scope) Report {
	report := Report{ByToken: make(map[string]int)}
	for _, p := range paras {
		runs, n := rewriteRuns(p.Runs(), table, scope, report.ByToken)
		if n == 0 {
			continue
		}
		p.SetRuns(runs)
		report.Substitutions += n
		report.ParagraphsRewritten++
	}
	return report
}

// RewriteRuns is the pure form of Fill for one paragraph. It returns the
// new run texts, always as many as given, and the substitution count. When
// nothing matched the input slice is returned as is.
func RewriteRuns(runs []string, table *TokenTable, scope Scope) ([]string, int) {
	return rewriteRuns(runs, table, scope, nil)
}

func rewriteRuns(runs []string, table *TokenTable, scope Scope, counts map[string]int) ([]string, int) {
	if len(runs) == 0 {
		return runs, 0
	}

	if scope == ScopeRun {
		var out []string
		total := 0
		for i, text := range runs {
			replaced, n := table.replace(text, counts)
			if n == 0 {
				continue
			}
			if out == nil {
				out = append([]string(nil), runs...)
			}
			out[i] = replaced
			total += n
		}
		if total == 0 {
			return runs, 0
		}
		return out, total
	}

	replaced, n := table.replace(strings.Join(runs, ""), counts)
	if n == 0 {
		return runs, 0
	}
	out := make([]string, len(runs))
	out[0] = replaced
	return out, n
}
