package markup

import (
	"bytes"
	"fmt"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"golang.org/x/net/html"
)

var renderer = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
)

// ToHTML renders markdown to an HTML fragment.
func ToHTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := renderer.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}

// ToMarkdown converts an HTML fragment back to markdown.
func ToMarkdown(htmlText string) (string, error) {
	converter := md.NewConverter("", true, nil)
	out, err := converter.ConvertString(htmlText)
	if err != nil {
		return "", fmt.Errorf("convert html: %w", err)
	}
	return out, nil
}

// StripTags returns the text content of an HTML fragment: every text node is
// trimmed, empty ones dropped, and the rest joined with newlines.
func StripTags(htmlText string) string {
	z := html.NewTokenizer(strings.NewReader(htmlText))
	var parts []string
	skip := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.Join(parts, "\n")
		case html.StartTagToken:
			if isRawText(z) {
				skip++
			}
		case html.EndTagToken:
			if isRawText(z) && skip > 0 {
				skip--
			}
		case html.TextToken:
			if skip > 0 {
				continue
			}
			if text := strings.TrimSpace(string(z.Text())); text != "" {
				parts = append(parts, text)
			}
		}
	}
}

func isRawText(z *html.Tokenizer) bool {
	name, _ := z.TagName()
	switch string(name) {
	case "script", "style":
		return true
	}
	return false
}
