package scraper

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/cenkalti/backoff/v4"

	"hinasync/internal/textnorm"
)

const (
	BaseURL   = "https://www.hinatazaka46.com"
	UserAgent = "hinasync/1.0"
	Timeout   = 30 * time.Second

	// DefaultDelay is the pause after every content fetch so runs never
	// hammer the source site.
	DefaultDelay = 3 * time.Second

	maxFetchRetries = 3
)

// ErrMonthMismatch is reported when a listing page's embedded year/month
// does not match the requested one. The month is skipped, not the run.
var ErrMonthMismatch = errors.New("page year/month does not match request")

// ContentType selects which listing stream to scrape.
type ContentType string

const (
	ContentSchedule ContentType = "schedule"
	ContentNews     ContentType = "news"
)

// listPath returns the site path for the listing. An unknown content type
// is a programmer error and fails immediately.
func (c ContentType) listPath() (string, error) {
	switch c {
	case ContentSchedule:
		return "/s/official/media/list", nil
	case ContentNews:
		return "/s/official/news/list", nil
	}
	return "", fmt.Errorf("unknown content type %q", c)
}

// Fragment is one scraped entry before conversion into an event record.
// All text fields are already normalized; Link is absolute.
type Fragment struct {
	Name     string
	Category string
	TimeText string
	Link     string
}

// DaySchedule groups the fragments listed under one day of the month.
type DaySchedule struct {
	Day   string // zero-padded day-of-month as printed on the page
	Items []Fragment
}

// MonthSchedule is the parsed content of one listing page.
type MonthSchedule struct {
	Year  int
	Month int
	Days  []DaySchedule
}

// Scraper fetches and parses site pages.
type Scraper struct {
	client  *http.Client
	baseURL string
	delay   time.Duration
}

// New creates a Scraper against the production site. delay <= 0 falls
// back to DefaultDelay.
func New(delay time.Duration) *Scraper {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Scraper{
		client:  &http.Client{Timeout: Timeout},
		baseURL: BaseURL,
		delay:   delay,
	}
}

// FetchMonth retrieves and parses the listing page for one year/month of
// one content stream.
func (s *Scraper) FetchMonth(ct ContentType, year, month int) (*MonthSchedule, error) {
	path, err := ct.listPath()
	if err != nil {
		return nil, err
	}
	url := fmt.Sprintf("%s%s?ima=0000&dy=%04d%02d", s.baseURL, path, year, month)

	body, err := s.get(url)
	if err != nil {
		return nil, fmt.Errorf("fetching %s listing: %w", ct, err)
	}
	defer body.Close()

	return s.parseMonth(body, ct, year, month)
}

// get performs one GET with bounded retry on transient failures, then
// pauses so consecutive fetches stay spaced out.
func (s *Scraper) get(url string) (io.ReadCloser, error) {
	var body io.ReadCloser

	operation := func() error {
		req, err := http.NewRequest(http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("User-Agent", UserAgent)

		resp, err := s.client.Do(req)
		if err != nil {
			return err
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			resp.Body.Close()
			return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return backoff.Permanent(fmt.Errorf("unexpected status code: %d", resp.StatusCode))
		}
		body = resp.Body
		return nil
	}

	err := backoff.Retry(operation, backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxFetchRetries))
	time.Sleep(s.delay)
	if err != nil {
		return nil, err
	}
	return body, nil
}

// parseMonth extracts a MonthSchedule from listing-page HTML.
func (s *Scraper) parseMonth(r io.Reader, ct ContentType, year, month int) (*MonthSchedule, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	if err := checkPageMonth(doc, year, month); err != nil {
		return nil, err
	}

	sched := &MonthSchedule{Year: year, Month: month}
	switch ct {
	case ContentSchedule:
		sched.Days = s.parseScheduleGroups(doc)
	case ContentNews:
		sched.Days = s.parseNewsItems(doc)
	}
	return sched, nil
}

// checkPageMonth verifies the year/month the page claims to show.
func checkPageMonth(doc *goquery.Document, year, month int) error {
	yearText := strings.TrimSuffix(textnorm.Clean(doc.Find(".c-schedule__page_year").First().Text()), "年")
	monthText := strings.TrimSuffix(textnorm.Clean(doc.Find(".c-schedule__page_month").First().Text()), "月")

	pageYear, yErr := strconv.Atoi(yearText)
	pageMonth, mErr := strconv.Atoi(monthText)
	if yErr != nil || mErr != nil {
		return fmt.Errorf("%w: page header %q/%q unreadable", ErrMonthMismatch, yearText, monthText)
	}
	if pageYear != year || pageMonth != month {
		return fmt.Errorf("%w: requested %04d-%02d, page shows %04d-%02d",
			ErrMonthMismatch, year, month, pageYear, pageMonth)
	}
	return nil
}

// parseScheduleGroups walks the per-day groups of the media/schedule
// listing.
func (s *Scraper) parseScheduleGroups(doc *goquery.Document) []DaySchedule {
	var days []DaySchedule

	doc.Find(".p-schedule__list-group").Each(func(_ int, group *goquery.Selection) {
		dayText := textnorm.Clean(group.Children().First().Text())
		// The date cell ends with a weekday glyph ("15金" → "15").
		dayText = strings.TrimRightFunc(dayText, func(r rune) bool { return r < '0' || r > '9' })
		dayNum, err := strconv.Atoi(dayText)
		if err != nil {
			return
		}

		// Each field is resolved within its own item node, so an item
		// without a time div does not shift a later item's time onto it.
		day := DaySchedule{Day: fmt.Sprintf("%02d", dayNum)}
		group.Find("li.p-schedule__item").Each(func(_ int, item *goquery.Selection) {
			name := textnorm.Clean(item.Find("p.c-schedule__text").Text())
			if name == "" {
				return
			}
			href := item.Find("a").AttrOr("href", "")
			day.Items = append(day.Items, Fragment{
				Name:     name,
				Category: textnorm.Clean(item.Find(".p-schedule__head").Text()),
				TimeText: textnorm.Clean(item.Find(".c-schedule__time--list").Text()),
				Link:     s.baseURL + href,
			})
		})

		if len(day.Items) > 0 {
			days = append(days, day)
		}
	})

	return days
}

// parseNewsItems walks the news listing. News articles carry a full date
// and no time text; their schedule content, if any, lives in the article
// body and is derived later.
func (s *Scraper) parseNewsItems(doc *goquery.Document) []DaySchedule {
	var days []DaySchedule

	doc.Find("li.p-news__item").Each(func(_ int, item *goquery.Selection) {
		dateText := textnorm.Clean(item.Find(".c-news__date").Text())
		published, err := time.Parse("2006.1.2", dateText)
		if err != nil {
			return
		}

		href := item.Find("a").AttrOr("href", "")
		days = append(days, DaySchedule{
			Day: fmt.Sprintf("%02d", published.Day()),
			Items: []Fragment{{
				Name:     textnorm.Clean(item.Find("p.c-news__text").Text()),
				Category: textnorm.Clean(item.Find(".c-news__category").Text()),
				Link:     s.baseURL + href,
			}},
		})
	})

	return days
}
