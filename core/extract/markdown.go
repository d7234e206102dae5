package extract

import (
	"fmt"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

// ToMarkdown converts a cleaned HTML fragment into Markdown.
func ToMarkdown(html string) (string, error) {
	md, err := htmltomarkdown.ConvertString(html)
	if err != nil {
		return "", fmt.Errorf("converting HTML to markdown: %w", err)
	}
	return strings.TrimSpace(md) + "\n", nil
}

// Describe extracts the main content of a page and returns it as Markdown.
func (e *HTMLExtractor) Describe(html string) (string, error) {
	content, err := e.Extract(html)
	if err != nil {
		return "", err
	}
	return ToMarkdown(content)
}
