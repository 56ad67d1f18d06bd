package fill_test

import (
	"testing"

	"github.com/ritlepage/backend/fill"
	"github.com/stretchr/testify/assert"
)

func TestTitleCase(t *testing.T) {
	cases := map[string]string{
		"distributed caching":      "Distributed Caching",
		"DISTRIBUTED CACHING":      "Distributed Caching",
		"dr. a.k. rao":             "Dr. A.K. Rao",
		"o'neil":                   "O'Neil",
		"3rd year":                 "3Rd Year",
		"information-science":      "Information-Science",
		"  spaced   out ":          "  Spaced   Out ",
		"élan vital":               "Élan Vital",
		"":                         "",
		"computer science and eng": "Computer Science And Eng",
	}
	for in, want := range cases {
		assert.Equal(t, want, fill.TitleCase(in), "TitleCase(%q)", in)
	}
}

func TestUpperCase(t *testing.T) {
	assert.Equal(t, "CS301", fill.UpperCase("cs301"))
	assert.Equal(t, "1MS21CS001", fill.UpperCase("1ms21cs001"))
}

func TestSubmissionPhrase(t *testing.T) {
	assert.Equal(t, "An Assignment", fill.SubmissionPhrase("assignment"))
	assert.Equal(t, "An Assignment", fill.SubmissionPhrase("ASSIGNMENT"))
	assert.Equal(t, "A Report", fill.SubmissionPhrase(" Report "))
	assert.Equal(t, "A Mini Project", fill.SubmissionPhrase("A Mini Project"))
}
