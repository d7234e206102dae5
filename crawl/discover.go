// Package crawl discovers downloadable dataset resources on the portal page.
// It keeps link scraping separate from the cleaning pipeline.
package crawl

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/gaurav-prasanna/fuelcheck/core"
)

// DefaultSelector matches the "download" link of each resource on a CKAN
// dataset page.
const DefaultSelector = "#dataset-resources > ul > li > div > ul > li:nth-child(2) > a"

// Discover extracts resource links from the page markup. Relative links are
// resolved against pageURL, duplicates are dropped, document order is kept.
// Only links whose file name contains one of the year tokens are returned;
// an empty token list keeps every link.
func Discover(html, pageURL, selector string, years []string) ([]core.Resource, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("parsing page URL: %w", err)
	}

	if selector == "" {
		selector = DefaultSelector
	}

	var resources []core.Resource
	seen := make(map[string]bool)
	doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		href, exists := s.Attr("href")
		if !exists || strings.TrimSpace(href) == "" {
			return
		}

		resolved := resolveURL(strings.TrimSpace(href), base)
		if resolved == "" || seen[resolved] {
			return
		}
		seen[resolved] = true

		name := FileName(resolved)
		if !MatchesYear(name, years) {
			return
		}
		resources = append(resources, core.Resource{
			URL:    resolved,
			Name:   name,
			Format: FormatOf(name),
		})
	})

	return resources, nil
}

// resolveURL resolves a potentially relative URL against a base.
func resolveURL(href string, base *url.URL) string {
	// Skip mailto, javascript, etc.
	if strings.HasPrefix(href, "mailto:") || strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "tel:") || strings.HasPrefix(href, "#") {
		return ""
	}

	parsed, err := url.Parse(href)
	if err != nil {
		return ""
	}

	resolved := base.ResolveReference(parsed)
	// Strip fragments.
	resolved.Fragment = ""
	return resolved.String()
}
