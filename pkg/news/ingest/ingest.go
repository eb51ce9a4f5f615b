// Package ingest builds a news item from an article page's metadata.
package ingest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"

	"krishibondhu/entities"
)

var (
	ErrBadURL           = errors.New("url must be absolute http(s)")
	ErrDomainNotAllowed = errors.New("domain not allowed")
	ErrTooLarge         = errors.New("page too large")
	ErrUnsupportedType  = errors.New("unsupported content type")
	ErrNoTitle          = errors.New("page has no title")
)

const summaryRunes = 280

type Fetcher struct {
	http     *resty.Client
	allow    map[string]bool
	maxBytes int
	now      func() time.Time
}

// New returns a fetcher limited to the allowed domains (and their subdomains).
// An empty list allows every domain.
func New(allowed []string, maxBytes int, timeout time.Duration) *Fetcher {
	allow := map[string]bool{}
	for _, h := range allowed {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			allow[h] = true
		}
	}
	if maxBytes <= 0 {
		maxBytes = 1500000
	}
	c := resty.New().
		SetTimeout(timeout).
		SetHeader("Accept", "text/html,text/plain;q=0.9").
		SetHeader("User-Agent", "krishibondhu-news-import/1.0")
	return &Fetcher{http: c, allow: allow, maxBytes: maxBytes, now: time.Now}
}

func (f *Fetcher) allowed(host string) bool {
	if len(f.allow) == 0 {
		return true
	}
	host = strings.ToLower(host)
	for {
		if f.allow[host] {
			return true
		}
		i := strings.IndexByte(host, '.')
		if i < 0 {
			return false
		}
		host = host[i+1:]
	}
}

// Fetch downloads rawURL and returns a news item in the News category dated today.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (entities.NewsItem, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return entities.NewsItem{}, ErrBadURL
	}
	if !f.allowed(u.Hostname()) {
		return entities.NewsItem{}, fmt.Errorf("%s: %w", u.Hostname(), ErrDomainNotAllowed)
	}

	resp, err := f.http.R().SetContext(ctx).SetDoNotParseResponse(true).Get(u.String())
	if err != nil {
		return entities.NewsItem{}, fmt.Errorf("fetch %s: %w", u, err)
	}
	body := resp.RawBody()
	defer body.Close()
	if resp.IsError() {
		return entities.NewsItem{}, fmt.Errorf("fetch %s: status %d", u, resp.StatusCode())
	}
	if cl := resp.RawResponse.ContentLength; cl > int64(f.maxBytes) {
		return entities.NewsItem{}, ErrTooLarge
	}
	b, err := io.ReadAll(io.LimitReader(body, int64(f.maxBytes)+1))
	if err != nil {
		return entities.NewsItem{}, fmt.Errorf("read %s: %w", u, err)
	}
	if len(b) > f.maxBytes {
		return entities.NewsItem{}, ErrTooLarge
	}

	ct := strings.ToLower(resp.Header().Get("Content-Type"))
	var a Article
	switch {
	case strings.Contains(ct, "text/html"), ct == "":
		a, err = Parse(bytes.NewReader(b), u)
		if err != nil {
			return entities.NewsItem{}, err
		}
	case strings.Contains(ct, "text/plain"):
		a = parsePlain(string(b))
	default:
		return entities.NewsItem{}, fmt.Errorf("%s: %w", ct, ErrUnsupportedType)
	}
	if a.Title == "" {
		return entities.NewsItem{}, ErrNoTitle
	}
	return entities.NewsItem{
		Title:    a.Title,
		Summary:  a.Summary,
		Date:     f.now().Format("2006-01-02"),
		Image:    a.Image,
		Category: entities.CategoryNews,
		VideoURL: a.Video,
	}, nil
}

// Article is the metadata pulled from a page.
type Article struct {
	Title   string
	Summary string
	Image   string
	Video   string
}

// Parse reads OpenGraph tags first and falls back to the document itself.
// Relative image and video links are resolved against base.
func Parse(r io.Reader, base *url.URL) (Article, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return Article{}, fmt.Errorf("parse html: %w", err)
	}
	meta := func(keys ...string) string {
		for _, k := range keys {
			sel := doc.Find(fmt.Sprintf(`meta[property=%q], meta[name=%q]`, k, k)).First()
			if v, ok := sel.Attr("content"); ok && strings.TrimSpace(v) != "" {
				return strings.TrimSpace(v)
			}
		}
		return ""
	}

	a := Article{
		Title:   meta("og:title", "twitter:title"),
		Summary: meta("og:description", "description", "twitter:description"),
		Image:   meta("og:image", "og:image:url", "twitter:image"),
		Video:   meta("og:video:secure_url", "og:video", "og:video:url"),
	}
	if a.Title == "" {
		a.Title = cleanSpace(doc.Find("title").First().Text())
	}
	if a.Title == "" {
		a.Title = cleanSpace(doc.Find("h1").First().Text())
	}
	if a.Summary == "" {
		root := doc.Find("article, main").First()
		if root.Length() == 0 {
			root = doc.Selection
		}
		root.Find("p").EachWithBreak(func(_ int, s *goquery.Selection) bool {
			a.Summary = cleanSpace(s.Text())
			return a.Summary == ""
		})
	}
	if a.Video == "" {
		doc.Find("iframe[src]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
			src, _ := s.Attr("src")
			if strings.Contains(src, "youtube.com/embed/") || strings.Contains(src, "player.vimeo.com") {
				a.Video = src
				return false
			}
			return true
		})
	}
	a.Summary = truncate(a.Summary, summaryRunes)
	a.Image = resolve(base, a.Image)
	a.Video = resolve(base, a.Video)
	return a, nil
}

func parsePlain(s string) Article {
	lines := strings.SplitN(strings.TrimSpace(s), "\n", 2)
	a := Article{Title: truncate(cleanSpace(lines[0]), 120)}
	if len(lines) > 1 {
		a.Summary = truncate(cleanSpace(lines[1]), summaryRunes)
	}
	return a
}

func resolve(base *url.URL, ref string) string {
	if ref == "" || base == nil {
		return ref
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	return base.ResolveReference(u).String()
}

var wsRX = regexp.MustCompile(`\s+`)

func cleanSpace(s string) string { return strings.TrimSpace(wsRX.ReplaceAllString(s, " ")) }

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return strings.TrimSpace(string(r[:n])) + "…"
}
