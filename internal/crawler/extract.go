package crawler

import (
	"bytes"
	"io"
	"iter"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
)

// LinkExtractor streams hrefs out of an HTML document with a tokenizer.
// Parsing is permissive: malformed markup ends the sequence silently with
// whatever was found up to that point.
type LinkExtractor struct{}

// NewLinkExtractor returns a stateless link extractor.
func NewLinkExtractor() *LinkExtractor { return &LinkExtractor{} }

// Links returns a lazy sequence of raw href attribute values from <a> and
// <area> elements, in document order. Each iteration of the returned
// sequence re-tokenizes from the start, so the sequence is restartable.
func (*LinkExtractor) Links(body []byte, contentType string) iter.Seq[string] {
	return func(yield func(string) bool) {
		z := html.NewTokenizer(decodedReader(body, contentType))
		for {
			switch z.Next() {
			case html.ErrorToken:
				// io.EOF or a parse failure; the sequence just ends.
				return
			case html.StartTagToken, html.SelfClosingTagToken:
				name, hasAttr := z.TagName()
				if !hasAttr || !anchorTag(name) {
					continue
				}
				for {
					key, val, more := z.TagAttr()
					if string(key) == "href" {
						if !yield(string(val)) {
							return
						}
						break
					}
					if !more {
						break
					}
				}
			}
		}
	}
}

// Title returns the text of the document's first <title> element with
// whitespace collapsed, or "" when there is none.
func (*LinkExtractor) Title(body []byte, contentType string) string {
	z := html.NewTokenizer(decodedReader(body, contentType))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return ""
		case html.StartTagToken:
			name, _ := z.TagName()
			if string(name) != "title" {
				continue
			}
			if z.Next() != html.TextToken {
				return ""
			}
			return strings.Join(strings.Fields(string(z.Text())), " ")
		}
	}
}

// decodedReader honors the response charset when one is declared, falling
// back to the raw bytes when the encoding is unknown.
func decodedReader(body []byte, contentType string) io.Reader {
	r, err := charset.NewReader(bytes.NewReader(body), contentType)
	if err != nil {
		return bytes.NewReader(body)
	}
	return r
}

func anchorTag(name []byte) bool {
	return bytes.Equal(name, []byte("a")) || bytes.Equal(name, []byte("area"))
}
