package titlepage_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ritlepage/backend/fill"
	"github.com/ritlepage/backend/srvcerror"
	"github.com/ritlepage/backend/submission"
	"github.com/ritlepage/backend/titlepage"
	"github.com/ritlepage/backend/wordml"
	"github.com/ritlepage/backend/wordml/wordmltest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func templateBody() []string {
	body := []string{
		wordmltest.Para("submission_type"),
		wordmltest.Para("topic_name"),
		wordmltest.Para(" on ", "subject_name", " (", "subject_code", ")"),
		wordmltest.Para("Semester ", "semester_", "number", ", ", "student_branch"),
	}
	var rows [][]string
	for i := 1; i <= 7; i++ {
		rows = append(rows, []string{fmt.Sprintf("%d.", i), fill.SubmitterToken(i)})
	}
	body = append(body,
		wordmltest.Table(rows...),
		wordmltest.Para("faculty_name"),
		wordmltest.Para("designation", ", ", "faculty_branch"),
		wordmltest.Para("from_ay", " - ", "to_ay"),
	)
	return body
}

func writeTemplate(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "template.docx")
	require.NoError(t, os.WriteFile(path, wordmltest.Docx(t, templateBody()...), 0o644))
	return path
}

func newService(t *testing.T, archiver titlepage.Archiver) (*titlepage.Service, string) {
	t.Helper()
	templatePath := writeTemplate(t)
	outDir := filepath.Join(t.TempDir(), "out")
	srvc, err := titlepage.NewService(titlepage.ServiceOpts{
		TemplatePath: templatePath,
		OutputDir:    outDir,
		Scope:        fill.ScopeParagraph,
		Limits:       submission.DefaultLimits(),
		Archiver:     archiver,
	})
	require.NoError(t, err)
	return srvc, templatePath
}

func validSubmission(names ...string) *submission.Submission {
	s := &submission.Submission{
		SubmissionType:       "report",
		SubjectName:          "distributed systems",
		SubjectCode:          "cs301",
		TopicName:            "distributed caching",
		SemesterNumber:       6,
		StudentBranch:        "computer science",
		FacultyBranch:        "information science",
		FacultyNameWithTitle: "dr. jane doe",
		Designation:          "assistant professor",
		FromAY:               2024,
		ToAY:                 2025,
	}
	for i, name := range names {
		s.Submitters = append(s.Submitters, submission.Submitter{Name: name, ID: fmt.Sprintf("1ab2cd%02d", i)})
	}
	return s
}

func openGenerated(t *testing.T, path string) *wordml.Document {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	doc, err := wordml.Open(data)
	require.NoError(t, err)
	t.Cleanup(func() { doc.Close() })
	return doc
}

func TestGenerate(t *testing.T) {
	srvc, _ := newService(t, nil)

	gen, err := srvc.Generate(context.Background(), validSubmission("alice smith"))
	require.NoError(t, err)
	defer srvc.Cleanup(gen.Path)

	assert.Equal(t, gen.ID.String()+".docx", filepath.Base(gen.Path))
	assert.Equal(t, 18, gen.Report.Substitutions)

	info, err := os.Stat(gen.Path)
	require.NoError(t, err)
	assert.Equal(t, int64(gen.Size), info.Size())
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	doc := openGenerated(t, gen.Path)
	text := doc.PlainText()
	assert.Contains(t, text, "A Report")
	assert.Contains(t, text, "Distributed Caching")
	assert.Contains(t, text, " on Distributed Systems (CS301)")
	assert.Contains(t, text, "Semester 6, Computer Science")
	assert.Contains(t, text, "Alice Smith (1AB2CD00)")
	assert.Contains(t, text, "Assistant Professor, Information Science")
	assert.Contains(t, text, "2024 - 2025")
	assert.NotContains(t, text, "submitter")

	sect, err := doc.FirstSection()
	require.NoError(t, err)
	assert.Equal(t, wordml.Margins{Top: 1440, Bottom: 1440, Left: 1440, Right: 1440}, sect.Margins())
	_, ok := sect.PageBorders()
	assert.True(t, ok)
}

func TestGenerateRejectsInvalidSubmission(t *testing.T) {
	srvc, _ := newService(t, nil)
	sub := validSubmission()
	sub.SubjectCode = ""

	_, err := srvc.Generate(context.Background(), sub)
	require.Error(t, err)

	var srvcErr *srvcerror.Error
	require.ErrorAs(t, err, &srvcErr)
	assert.Equal(t, submission.ErrCodeInvalidSubmission, srvcErr.ErrorCode())
	assert.Equal(t, http.StatusBadRequest, srvcErr.HttpStatusCode())
	assert.Contains(t, srvcErr.Details(), "subject_code")
	assert.Contains(t, srvcErr.Details(), "submitters")
}

func TestGenerateTooManySubmittersForTemplate(t *testing.T) {
	srvc, _ := newService(t, nil)

	_, err := srvc.Generate(context.Background(), validSubmission("a", "b", "c", "d", "e", "f", "g", "h"))

	var srvcErr *srvcerror.Error
	require.ErrorAs(t, err, &srvcErr)
	assert.Equal(t, http.StatusBadRequest, srvcErr.HttpStatusCode())
}

func TestGenerateWithCorruptTemplate(t *testing.T) {
	srvc, templatePath := newService(t, nil)
	require.NoError(t, os.WriteFile(templatePath, []byte("not a document"), 0o644))

	_, err := srvc.Generate(context.Background(), validSubmission("alice"))

	var srvcErr *srvcerror.Error
	require.ErrorAs(t, err, &srvcErr)
	assert.Equal(t, srvcerror.ErrCodeInternalServerError, srvcErr.ErrorCode())
	assert.Equal(t, http.StatusInternalServerError, srvcErr.HttpStatusCode())
	assert.Empty(t, srvcErr.Details())
}

func TestGenerateWithMissingTemplate(t *testing.T) {
	srvc, templatePath := newService(t, nil)
	require.NoError(t, os.Remove(templatePath))

	_, err := srvc.Generate(context.Background(), validSubmission("alice"))

	var srvcErr *srvcerror.Error
	require.ErrorAs(t, err, &srvcErr)
	assert.Equal(t, http.StatusInternalServerError, srvcErr.HttpStatusCode())
}

func TestNewServiceRejectsNonDocxTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "template.docx")
	require.NoError(t, os.WriteFile(path, []byte("plain text"), 0o644))

	_, err := titlepage.NewService(titlepage.ServiceOpts{TemplatePath: path, OutputDir: t.TempDir()})
	require.Error(t, err)
}

type recordingArchiver struct {
	mu   sync.Mutex
	keys []string
	err  error
}

func (a *recordingArchiver) Archive(_ context.Context, key string, content []byte) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.keys = append(a.keys, key)
	return a.err
}

func TestGenerateArchivesCopy(t *testing.T) {
	archiver := &recordingArchiver{}
	srvc, _ := newService(t, archiver)

	gen, err := srvc.Generate(context.Background(), validSubmission("alice"))
	require.NoError(t, err)
	defer srvc.Cleanup(gen.Path)

	assert.Equal(t, []string{"titlepages/" + gen.ID.String() + ".docx"}, archiver.keys)
}

func TestGenerateSurvivesArchiveFailure(t *testing.T) {
	archiver := &recordingArchiver{err: errors.New("bucket unreachable")}
	srvc, _ := newService(t, archiver)

	gen, err := srvc.Generate(context.Background(), validSubmission("alice"))
	require.NoError(t, err)
	defer srvc.Cleanup(gen.Path)

	assert.FileExists(t, gen.Path)
	assert.Len(t, archiver.keys, 1)
}

func TestConcurrentGenerationsDoNotShareFiles(t *testing.T) {
	srvc, _ := newService(t, nil)

	const n = 16
	results := make([]*titlepage.Generated, n)
	var g errgroup.Group
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			gen, err := srvc.Generate(context.Background(), validSubmission(fmt.Sprintf("student %c", 'a'+i)))
			results[i] = gen
			return err
		})
	}
	require.NoError(t, g.Wait())

	paths := make(map[string]bool)
	for i, gen := range results {
		require.False(t, paths[gen.Path], "path reused: %s", gen.Path)
		paths[gen.Path] = true

		text := openGenerated(t, gen.Path).PlainText()
		assert.Contains(t, text, fmt.Sprintf("Student %c (1AB2CD00)", 'A'+i))
		for j := 0; j < n; j++ {
			if j != i {
				assert.NotContains(t, text, fmt.Sprintf("Student %c ", 'A'+j))
			}
		}
	}

	for _, gen := range results {
		require.NoError(t, srvc.Cleanup(gen.Path))
	}
}

func TestCleanup(t *testing.T) {
	srvc, _ := newService(t, nil)
	gen, err := srvc.Generate(context.Background(), validSubmission("alice"))
	require.NoError(t, err)

	require.NoError(t, srvc.Cleanup(gen.Path))
	assert.NoFileExists(t, gen.Path)
	require.NoError(t, srvc.Cleanup(gen.Path))
}

func TestSweepStale(t *testing.T) {
	srvc, _ := newService(t, nil)

	old, err := srvc.Generate(context.Background(), validSubmission("alice"))
	require.NoError(t, err)
	fresh, err := srvc.Generate(context.Background(), validSubmission("bob"))
	require.NoError(t, err)
	defer srvc.Cleanup(fresh.Path)

	past := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(old.Path, past, past))

	removed, err := srvc.SweepStale(time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.NoFileExists(t, old.Path)
	assert.FileExists(t, fresh.Path)
}

func TestRenderIsRepeatable(t *testing.T) {
	tmpl := wordmltest.Docx(t, templateBody()...)
	sub := validSubmission("alice", "bob")

	first, report, err := titlepage.Render(tmpl, sub, 7, fill.ScopeParagraph)
	require.NoError(t, err)
	assert.Equal(t, 18, report.Substitutions)

	second, report, err := titlepage.Render(first, sub, 7, fill.ScopeParagraph)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Substitutions)

	a, err := wordml.Open(first)
	require.NoError(t, err)
	defer a.Close()
	b, err := wordml.Open(second)
	require.NoError(t, err)
	defer b.Close()
	assert.Equal(t, a.MainPart(), b.MainPart())
	assert.False(t, strings.Contains(b.PlainText(), "_ay"))
}

func TestRenderKeepsTextAroundHyperlinksInPlace(t *testing.T) {
	para := `<w:p><w:r><w:t xml:space="preserve">see </w:t></w:r><w:r><w:rPr><w:b/></w:rPr><w:t>topic_name</w:t></w:r>` +
		`<w:r><w:t xml:space="preserve"> at </w:t></w:r>` +
		`<w:hyperlink r:id="rId5"><w:r><w:t>LINK</w:t></w:r></w:hyperlink>` +
		`<w:r><w:t xml:space="preserve"> today</w:t></w:r></w:p>`
	tmpl := wordmltest.Docx(t, para)

	content, report, err := titlepage.Render(tmpl, validSubmission("alice"), 7, fill.ScopeParagraph)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Substitutions)

	doc, err := wordml.Open(content)
	require.NoError(t, err)
	defer doc.Close()

	text := regexp.MustCompile(`<[^>]+>`).ReplaceAllString(doc.MainPart(), "")
	assert.Contains(t, text, "see Distributed Caching at LINK today")
}
