package archive

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ecebot/pkg/logx"
)

const archivePage = `<html><body>
<table id="archiveTable">
<tr><th>Ημερομηνία</th><th>Τίτλος</th><th>Είδος</th><th>Κατηγορία</th></tr>
<tr>
  <td><a href="/gr/announcement/1001">01/09/2026</a></td>
  <td>Νέο πρόγραμμα σπουδών</td>
  <td>Ανακοινώσεις</td>
  <td>Προπτυχιακά</td>
</tr>
<tr>
  <td><a href="/gr/news/77">31/08/2026</a></td>
  <td>Κάποιο νέο</td>
  <td>Νέα</td>
  <td>Γενικά</td>
</tr>
<tr>
  <td><a href="/gr/announcement/1002">29/08/2026</a></td>
  <td>ΕΚΤΑΚΤΗ ανακοίνωση εξεταστικής</td>
  <td>Ανακοινώσεις</td>
  <td>ΣΗΜΜΥ</td>
</tr>
</table>
</body></html>`

func newTestFetcher(t *testing.T, handler http.Handler) (*Fetcher, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	f := NewFetcher(FetcherConfig{
		ArchiveURL: srv.URL + "/gr/archive",
		BaseURL:    srv.URL,
	}, logx.Nop())
	return f, srv
}

func TestArchiveParsesAnnouncementRows(t *testing.T) {
	f, srv := newTestFetcher(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(archivePage))
	}))

	rows, err := f.Archive(context.Background())
	if err != nil {
		t.Fatalf("Archive: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 announcement rows (news row skipped), got %d", len(rows))
	}

	r0 := rows[0]
	if r0.ID != 1001 {
		t.Errorf("row 0 id = %d, want 1001", r0.ID)
	}
	if r0.Title != "Νέο πρόγραμμα σπουδών" {
		t.Errorf("row 0 title = %q", r0.Title)
	}
	if r0.Category != CategoryUndergraduate {
		t.Errorf("row 0 category = %v, want undergraduate", r0.Category)
	}
	if r0.DateText != "01/09/2026" {
		t.Errorf("row 0 date text = %q", r0.DateText)
	}
	if r0.URL != srv.URL+"/gr/announcement/1001" {
		t.Errorf("row 0 url = %q", r0.URL)
	}

	if rows[1].ID != 1002 || rows[1].Category != CategoryDepartment {
		t.Errorf("row 1 = %+v", rows[1])
	}
	if !rows[0].Date.After(rows[1].Date) {
		t.Errorf("expected document order newest first")
	}
}

func TestArchiveNon200IsFetchError(t *testing.T) {
	f, _ := newTestFetcher(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	_, err := f.Archive(context.Background())
	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FetchError, got %v", err)
	}
	if fe.Status != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", fe.Status)
	}
}

func TestArchiveMissingTableIsParseError(t *testing.T) {
	f, _ := newTestFetcher(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body><p>maintenance</p></body></html>"))
	}))

	_, err := f.Archive(context.Background())
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ParseError, got %v", err)
	}
}

func TestArchiveShortRowIsParseError(t *testing.T) {
	page := `<table id="archiveTable"><tr><td>01/09/2026</td><td>x</td></tr></table>`
	f, _ := newTestFetcher(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(page))
	}))

	_, err := f.Archive(context.Background())
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ParseError for short row, got %v", err)
	}
}

func TestDetailJoinsParagraphs(t *testing.T) {
	page := `<html><body><div id="content"><p>Πρώτη παράγραφος.</p><p>Δεύτερη.</p></div></body></html>`
	f, srv := newTestFetcher(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(page))
	}))

	desc, err := f.Detail(context.Background(), srv.URL+"/gr/announcement/1001")
	if err != nil {
		t.Fatalf("Detail: %v", err)
	}
	if desc != "Πρώτη παράγραφος.\nΔεύτερη." {
		t.Fatalf("desc = %q", desc)
	}
}

func TestDetailTruncatesLongDescriptions(t *testing.T) {
	long := strings.Repeat("α", 500)
	page := `<div id="content"><p>` + long + `</p></div>`
	f, srv := newTestFetcher(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(page))
	}))

	desc, err := f.Detail(context.Background(), srv.URL+"/x")
	if err != nil {
		t.Fatalf("Detail: %v", err)
	}
	runes := []rune(desc)
	if len(runes) != 400 {
		t.Fatalf("truncated length = %d runes, want 400", len(runes))
	}
	if !strings.HasSuffix(desc, "...") {
		t.Fatalf("expected ellipsis suffix, got %q", desc[len(desc)-10:])
	}
}

func TestDetailMissingContentIsParseError(t *testing.T) {
	f, srv := newTestFetcher(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body></body></html>"))
	}))

	_, err := f.Detail(context.Background(), srv.URL+"/x")
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ParseError, got %v", err)
	}
}

func TestIDFromHref(t *testing.T) {
	cases := []struct {
		href string
		id   int64
		ok   bool
	}{
		{"/gr/announcement/1234", 1234, true},
		{"/gr/announcement/1234/", 1234, true},
		{"https://www.ece.ntua.gr/gr/announcement/9", 9, true},
		{"/gr/news/55", 0, false},
		{"/gr/announcement/abc", 0, false},
	}
	for _, c := range cases {
		id, ok := idFromHref(c.href)
		if id != c.id || ok != c.ok {
			t.Errorf("idFromHref(%q) = (%d, %v), want (%d, %v)", c.href, id, ok, c.id, c.ok)
		}
	}
}
