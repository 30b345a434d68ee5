package render

import (
	"fmt"
	"io"
	"strconv"

	"github.com/NielsdaWheelz/verilib/internal/pagedata"
	"github.com/NielsdaWheelz/verilib/internal/plan"
	"github.com/NielsdaWheelz/verilib/internal/verifyinput"
)

// WriteRelationPath writes the members of rel for a single path, one per
// line. An empty set prints "(none)".
func WriteRelationPath(w io.Writer, rel *verifyinput.Relation, p string) error {
	set := rel.Get(p)
	if set.Len() == 0 {
		_, err := fmt.Fprintln(w, "(none)")
		return err
	}
	for _, q := range set.Slice() {
		if _, err := fmt.Fprintln(w, q); err != nil {
			return err
		}
	}
	return nil
}

// WriteRelation writes every path of rel as a table:
//
//	PATH            COUNT  PATHS
//	lib/a.hpp       1      lib/b.hpp
//	lib/b.hpp       0      -
func WriteRelation(w io.Writer, rel *verifyinput.Relation) error {
	if rel.Len() == 0 {
		_, err := fmt.Fprintln(w, "no files")
		return err
	}
	t := newTable("PATH", "COUNT", "PATHS")
	for _, p := range rel.Paths() {
		set := rel.Get(p)
		t.add(TruncateForDisplay(p, PathMaxLen), strconv.Itoa(set.Len()), joinOrDash(set.Slice()))
	}
	return t.write(w)
}

// WritePlan writes the scheduled files of a plan:
//
//	PATH                 REASON     CHANGED
//	test/a.test.cpp      changed    lib/a.hpp
func WritePlan(w io.Writer, p plan.Plan) error {
	if len(p.Items) == 0 {
		_, err := fmt.Fprintf(w, "all %d verification files are up to date\n", len(p.UpToDate))
		return err
	}
	t := newTable("PATH", "REASON", "CHANGED")
	for _, it := range p.Items {
		t.add(TruncateForDisplay(it.Path, PathMaxLen), string(it.Reason), joinOrDash(it.Changed))
	}
	if err := t.write(w); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\n%d to verify, %d up to date\n", len(p.Items), len(p.UpToDate))
	return err
}

// WritePages writes one row per generated page.
func WritePages(w io.Writer, pages []pagedata.Page) error {
	if len(pages) == 0 {
		_, err := fmt.Fprintln(w, "no pages")
		return err
	}
	t := newTable("PATH", "STATUS", "DOCUMENT", "VERIFIED_WITH")
	for _, pg := range pages {
		st := string(pg.Status)
		if st == "" {
			st = "-"
		}
		t.add(TruncateForDisplay(pg.Path, PathMaxLen), st, string(pg.DocumentStatus), strconv.Itoa(len(pg.VerifiedWith)))
	}
	return t.write(w)
}
