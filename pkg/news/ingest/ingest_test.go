package ingest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"krishibondhu/entities"
)

const articleHTML = `<!doctype html>
<html><head>
<title>Fallback title</title>
<meta property="og:title" content="বোরো ধানে নতুন জাত">
<meta property="og:description" content="ব্রি ধান ১০৪ চাষে ফলন বাড়ছে।">
<meta property="og:image" content="/img/rice.jpg">
</head><body>
<article><p>Body text.</p><iframe src="https://www.youtube.com/embed/abc123"></iframe></article>
</body></html>`

func TestParseOpenGraph(t *testing.T) {
	base, _ := url.Parse("https://krishi.example.com/news/1")
	a, err := Parse(strings.NewReader(articleHTML), base)
	require.NoError(t, err)

	assert.Equal(t, "বোরো ধানে নতুন জাত", a.Title)
	assert.Equal(t, "ব্রি ধান ১০৪ চাষে ফলন বাড়ছে।", a.Summary)
	assert.Equal(t, "https://krishi.example.com/img/rice.jpg", a.Image)
	assert.Equal(t, "https://www.youtube.com/embed/abc123", a.Video)
}

func TestParseFallsBackToDocument(t *testing.T) {
	page := `<html><head><title>  Loan
	scheme  </title></head><body><main><p></p><p>First   real paragraph.</p><p>Second.</p></main></body></html>`
	a, err := Parse(strings.NewReader(page), nil)
	require.NoError(t, err)
	assert.Equal(t, "Loan scheme", a.Title)
	assert.Equal(t, "First real paragraph.", a.Summary)
	assert.Empty(t, a.Image)
	assert.Empty(t, a.Video)
}

func TestFetchBuildsNewsItem(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(articleHTML))
	}))
	defer srv.Close()

	f := New(nil, 0, time.Second)
	f.now = func() time.Time { return time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC) }

	n, err := f.Fetch(context.Background(), srv.URL+"/a")
	require.NoError(t, err)
	assert.Equal(t, "বোরো ধানে নতুন জাত", n.Title)
	assert.Equal(t, entities.CategoryNews, n.Category)
	assert.Equal(t, "2026-03-09", n.Date)
	assert.Equal(t, srv.URL+"/img/rice.jpg", n.Image)
	assert.Empty(t, n.ID)
}

func TestFetchRejections(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/big":
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte("<html><title>x</title>" + strings.Repeat("a", 4096) + "</html>"))
		case "/pdf":
			w.Header().Set("Content-Type", "application/pdf")
			_, _ = w.Write([]byte("%PDF"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	f := New(nil, 1024, time.Second)
	_, err := f.Fetch(context.Background(), srv.URL+"/big")
	assert.ErrorIs(t, err, ErrTooLarge)

	_, err = f.Fetch(context.Background(), srv.URL+"/pdf")
	assert.ErrorIs(t, err, ErrUnsupportedType)

	_, err = f.Fetch(context.Background(), srv.URL+"/missing")
	assert.Error(t, err)

	_, err = f.Fetch(context.Background(), "ftp://example.com/file")
	assert.ErrorIs(t, err, ErrBadURL)
}

func TestAllowlist(t *testing.T) {
	f := New([]string{"dae.gov.bd", " Prothomalo.com "}, 0, time.Second)
	assert.True(t, f.allowed("dae.gov.bd"))
	assert.True(t, f.allowed("www.dae.gov.bd"))
	assert.True(t, f.allowed("prothomalo.com"))
	assert.False(t, f.allowed("evil-dae.gov.bd.example.com"))
	assert.False(t, f.allowed("127.0.0.1"))

	_, err := f.Fetch(context.Background(), "https://example.com/x")
	assert.ErrorIs(t, err, ErrDomainNotAllowed)
}

func TestTruncateCountsRunes(t *testing.T) {
	assert.Equal(t, "ধান", truncate("ধান", 3))
	assert.Equal(t, "ab…", truncate("abc", 2))
}
