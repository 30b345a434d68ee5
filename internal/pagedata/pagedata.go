// Package pagedata derives the per-file page records published as
// documentation: the file's graph neighbourhood plus its verification state.
package pagedata

import (
	"github.com/NielsdaWheelz/verilib/internal/frontmatter"
	"github.com/NielsdaWheelz/verilib/internal/result"
	"github.com/NielsdaWheelz/verilib/internal/status"
	"github.com/NielsdaWheelz/verilib/internal/verifyinput"
)

// DocumentStatus summarizes a page for display.
type DocumentStatus string

const (
	LibraryAllAC     DocumentStatus = "LIBRARY_ALL_AC"
	LibraryPartialAC DocumentStatus = "LIBRARY_PARTIAL_AC"
	LibrarySomeWA    DocumentStatus = "LIBRARY_SOME_WA"
	LibraryAllWA     DocumentStatus = "LIBRARY_ALL_WA"
	LibraryNoTests   DocumentStatus = "LIBRARY_NO_TESTS"
	TestAccepted     DocumentStatus = "TEST_ACCEPTED"
	TestWrongAnswer  DocumentStatus = "TEST_WRONG_ANSWER"
	TestWaitingJudge DocumentStatus = "TEST_WAITING_JUDGE"
)

// IsTest reports whether s describes a verification file.
func (s DocumentStatus) IsTest() bool {
	switch s {
	case TestAccepted, TestWrongAnswer, TestWaitingJudge:
		return true
	}
	return false
}

// Page is the published record of one file.
type Page struct {
	Path           string              `json:"path" yaml:"path"`
	Title          string              `json:"title" yaml:"title"`
	Display        frontmatter.Display `json:"display,omitempty" yaml:"display,omitempty"`
	IsVerification bool                `json:"is_verification" yaml:"is_verification"`
	DependsOn      []string            `json:"depends_on" yaml:"depends_on"`
	RequiredBy     []string            `json:"required_by" yaml:"required_by"`
	VerifiedWith   []string            `json:"verified_with" yaml:"verified_with"`
	// Status is the file's own result status; empty when the file has no
	// result.
	Status         status.JudgeStatus `json:"status,omitempty" yaml:"status,omitempty"`
	DocumentStatus DocumentStatus     `json:"document_status" yaml:"document_status"`
}

// Build returns one page per known path, in path order.
func Build(in *verifyinput.Input, res result.VerifyCommandResult) []Page {
	deps := in.DependsOn()
	req := in.RequiredBy()
	vw := in.VerifiedWith()

	pages := make([]Page, 0, in.Len())
	for _, p := range in.Paths() {
		f, _ := in.File(p)
		page := Page{
			Path:           p,
			Title:          f.Title(),
			Display:        display(f.DocumentAttributes),
			IsVerification: f.IsVerification(),
			DependsOn:      without(deps.Get(p).Slice(), p),
			RequiredBy:     without(req.Get(p).Slice(), p),
			VerifiedWith:   vw.Get(p).Slice(),
		}
		if page.Title == "" {
			page.Title = p
		}
		if fr, ok := res.Files[p]; ok {
			page.Status = fr.Status()
		}
		if page.IsVerification {
			page.DocumentStatus = testStatus(res, p)
		} else {
			page.DocumentStatus = libraryStatus(res, page.VerifiedWith)
		}
		pages = append(pages, page)
	}
	return pages
}

// Document returns the Markdown stub for the page.
func (p Page) Document() *frontmatter.Document {
	doc := frontmatter.NewDocument(p.Path)
	doc.FrontMatter.Title = p.Title
	doc.FrontMatter.Layout = "document"
	doc.FrontMatter.Display = p.Display
	doc.FrontMatter.Data = p
	return doc
}

func testStatus(res result.VerifyCommandResult, p string) DocumentStatus {
	fr, ok := res.Files[p]
	if !ok {
		return TestWaitingJudge
	}
	switch fr.Status().Class() {
	case status.Success:
		return TestAccepted
	case status.Skipped:
		return TestWaitingJudge
	default:
		return TestWrongAnswer
	}
}

func libraryStatus(res result.VerifyCommandResult, verifiers []string) DocumentStatus {
	if len(verifiers) == 0 {
		return LibraryNoTests
	}
	var ac, wa int
	for _, q := range verifiers {
		switch testStatus(res, q) {
		case TestAccepted:
			ac++
		case TestWrongAnswer:
			wa++
		}
	}
	switch {
	case ac == len(verifiers):
		return LibraryAllAC
	case wa == len(verifiers):
		return LibraryAllWA
	case wa > 0:
		return LibrarySomeWA
	default:
		return LibraryPartialAC
	}
}

func display(attrs map[string]any) frontmatter.Display {
	s, _ := attrs["display"].(string)
	if d := frontmatter.Display(s); d.IsValid() {
		return d
	}
	return ""
}

// without drops p from a sorted slice; a self-dependency is not a link.
func without(paths []string, p string) []string {
	out := paths[:0]
	for _, q := range paths {
		if q != p {
			out = append(out, q)
		}
	}
	return out
}
