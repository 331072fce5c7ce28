package scraper

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"hinasync/internal/textnorm"
)

// FetchMembers retrieves the participating-member list from an event
// detail page. A page without the member tag block yields an empty string
// rather than an error: the description is supplemental.
func (s *Scraper) FetchMembers(url string) string {
	body, err := s.get(url)
	if err != nil {
		return ""
	}
	defer body.Close()

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return ""
	}

	var members []string
	doc.Find(".c-article__tag a").Each(func(_ int, a *goquery.Selection) {
		members = append(members, textnorm.Clean(a.Text()))
	})
	if len(members) == 0 {
		return ""
	}
	return "メンバー:" + strings.Join(members, ",")
}

// FetchArticleBody retrieves the body text of a news article with width
// folding applied but line structure preserved, ready for free-text date
// extraction.
func (s *Scraper) FetchArticleBody(url string) (string, error) {
	body, err := s.get(url)
	if err != nil {
		return "", fmt.Errorf("fetching article: %w", err)
	}
	defer body.Close()

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return "", fmt.Errorf("parsing article: %w", err)
	}

	text := doc.Find(".c-article__text").First().Text()
	return strings.TrimSpace(textnorm.FoldWidth(text)), nil
}
