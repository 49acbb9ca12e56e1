package crawler

import (
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLinksExtractsAnchorsInDocumentOrder(t *testing.T) {
	t.Parallel()

	page := []byte(`<html><body>
		<a href="https://one.example/">one</a>
		<p><a href="/relative">two</a></p>
		<map><area href="https://three.example/map"/></map>
		<a data-track="x" href="https://four.example/">four</a>
		<a>no href</a>
		<link href="https://ignored.example/style.css">
	</body></html>`)

	got := slices.Collect(NewLinkExtractor().Links(page, "text/html"))
	require.Equal(t, []string{
		"https://one.example/",
		"/relative",
		"https://three.example/map",
		"https://four.example/",
	}, got)
}

func TestLinksSurvivesMalformedMarkup(t *testing.T) {
	t.Parallel()

	page := []byte(`<a href="https://first.example/">a</a><div <<< broken
		<a href="https://second.example/">b</a><table><tr x=`)

	got := slices.Collect(NewLinkExtractor().Links(page, "text/html"))
	require.Contains(t, got, "https://first.example/")
	require.NotEmpty(t, got)
}

// The extractor yields raw hrefs; the normalizer is what drops the junk.
// Together they keep exactly the one usable link from a page of noise.
func TestExtractThenNormalizeKeepsOnlyValidLinks(t *testing.T) {
	t.Parallel()

	page := []byte(`<body>
		<a href="javascript:void(0)">menu</a>
		<a href="mailto:a@b.com">contact</a>
		<a href="https://valid.example/page">real</a>
	</body>`)

	var kept []Domain
	for raw := range NewLinkExtractor().Links(page, "text/html") {
		d, err := Normalize(raw, "https://source.example/")
		if err != nil {
			continue
		}
		kept = append(kept, d)
	}
	require.Equal(t, []Domain{"valid.example"}, kept)
}

func TestLinksSequenceIsRestartable(t *testing.T) {
	t.Parallel()

	page := []byte(`<a href="/a">a</a><a href="/b">b</a>`)
	seq := NewLinkExtractor().Links(page, "text/html")

	first := slices.Collect(seq)
	second := slices.Collect(seq)
	require.Equal(t, first, second)
	require.Len(t, first, 2)
}

func TestLinksEarlyBreak(t *testing.T) {
	t.Parallel()

	page := []byte(`<a href="/a">a</a><a href="/b">b</a><a href="/c">c</a>`)
	var got []string
	for href := range NewLinkExtractor().Links(page, "text/html") {
		got = append(got, href)
		if len(got) == 1 {
			break
		}
	}
	require.Equal(t, []string{"/a"}, got)
}

func TestTitle(t *testing.T) {
	t.Parallel()

	ex := NewLinkExtractor()

	t.Run("collapses whitespace", func(t *testing.T) {
		t.Parallel()
		page := []byte("<head><title>\n  Messenger –\n home  </title></head>")
		require.Equal(t, "Messenger – home", ex.Title(page, "text/html"))
	})

	t.Run("missing title", func(t *testing.T) {
		t.Parallel()
		require.Equal(t, "", ex.Title([]byte("<body><h1>x</h1></body>"), "text/html"))
	})

	t.Run("empty body", func(t *testing.T) {
		t.Parallel()
		require.Equal(t, "", ex.Title(nil, ""))
	})
}

func TestLinksHandlesLargePage(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	b.WriteString("<html><body>")
	for range 500 {
		b.WriteString(`<a href="https://bulk.example/">x</a>`)
	}
	b.WriteString("</body></html>")

	got := slices.Collect(NewLinkExtractor().Links([]byte(b.String()), "text/html"))
	require.Len(t, got, 500)
}
