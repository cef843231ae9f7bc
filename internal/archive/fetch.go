package archive

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"ecebot/pkg/logx"
)

const (
	// announcementRowType is the row-type cell value marking announcement
	// rows; anything else (news items etc.) is skipped at parse time.
	announcementRowType = "Ανακοινώσεις"

	detailPathSegment = "/gr/announcement/"
	dateLayout        = "02/01/2006"

	userAgent = "Mozilla/5.0 (compatible; ecebot/1.0)"

	// descriptionLimit bounds detail-page descriptions, in runes.
	descriptionLimit = 400

	defaultTimeout = 30 * time.Second
)

type FetcherConfig struct {
	ArchiveURL string
	BaseURL    string
	Timeout    time.Duration
}

// Fetcher retrieves and parses the archive table and announcement detail
// pages. All calls are bounded by the configured HTTP timeout.
type Fetcher struct {
	cfg   FetcherConfig
	httpc *http.Client
	log   logx.Logger
}

func NewFetcher(cfg FetcherConfig, log logx.Logger) *Fetcher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Fetcher{
		cfg:   cfg,
		httpc: &http.Client{Timeout: timeout},
		log:   log,
	}
}

// Archive fetches the archive page and returns its announcement rows in
// document order (newest first). Non-announcement rows are dropped here.
func (f *Fetcher) Archive(ctx context.Context) ([]Row, error) {
	doc, err := f.get(ctx, f.cfg.ArchiveURL)
	if err != nil {
		return nil, err
	}
	return f.parseArchive(doc)
}

// Detail fetches an announcement's detail page and returns the concatenated
// paragraph text, truncated to the description limit.
func (f *Fetcher) Detail(ctx context.Context, url string) (string, error) {
	doc, err := f.get(ctx, url)
	if err != nil {
		return "", err
	}
	content := doc.Find("#content")
	if content.Length() == 0 {
		return "", &ParseError{URL: url, Missing: "#content element"}
	}
	var parts []string
	content.Find("p").Each(func(_ int, p *goquery.Selection) {
		parts = append(parts, p.Text())
	})
	return truncate(strings.Join(parts, "\n")), nil
}

func (f *Fetcher) get(ctx context.Context, url string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.httpc.Do(req)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{URL: url, Status: resp.StatusCode}
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, &ParseError{URL: url, Missing: "well-formed HTML"}
	}
	return doc, nil
}

func (f *Fetcher) parseArchive(doc *goquery.Document) ([]Row, error) {
	url := f.cfg.ArchiveURL

	table := doc.Find("#archiveTable")
	if table.Length() == 0 {
		return nil, &ParseError{URL: url, Missing: "#archiveTable"}
	}

	var (
		rows     []Row
		parseErr error
	)
	table.Find("tr").EachWithBreak(func(_ int, tr *goquery.Selection) bool {
		cells := tr.Find("td")
		switch {
		case cells.Length() == 0:
			// header row
			return true
		case cells.Length() < 4:
			parseErr = &ParseError{URL: url, Missing: "four row cells"}
			return false
		}

		if strings.TrimSpace(cells.Eq(2).Text()) != announcementRowType {
			return true
		}

		dateText := strings.TrimSpace(cells.Eq(0).Text())
		date, err := time.ParseInLocation(dateLayout, dateText, time.Local)
		if err != nil {
			parseErr = &ParseError{URL: url, Missing: "row date (DD/MM/YYYY)"}
			return false
		}

		href, ok := cells.Eq(0).Find("a[href]").First().Attr("href")
		if !ok {
			parseErr = &ParseError{URL: url, Missing: "announcement link"}
			return false
		}
		id, ok := idFromHref(href)
		if !ok {
			parseErr = &ParseError{URL: url, Missing: "numeric announcement id"}
			return false
		}

		rows = append(rows, Row{
			Date:     date,
			DateText: dateText,
			Title:    strings.TrimSpace(cells.Eq(1).Text()),
			Category: ParseCategory(strings.TrimSpace(cells.Eq(3).Text())),
			ID:       id,
			URL:      f.absoluteURL(href),
		})
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	return rows, nil
}

// idFromHref extracts the numeric announcement id following the
// "/gr/announcement/" path segment.
func idFromHref(href string) (int64, bool) {
	idx := strings.Index(href, detailPathSegment)
	if idx < 0 {
		return 0, false
	}
	rest := strings.TrimSuffix(href[idx+len(detailPathSegment):], "/")
	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func (f *Fetcher) absoluteURL(href string) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	return f.cfg.BaseURL + href
}

func truncate(s string) string {
	runes := []rune(s)
	if len(runes) <= descriptionLimit {
		return s
	}
	return string(runes[:descriptionLimit-3]) + "..."
}
