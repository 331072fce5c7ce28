package scraper

import (
	"errors"
	"net/http"
	"os"
	"strings"
	"testing"
)

func newTestScraper() *Scraper {
	return &Scraper{
		client:  http.DefaultClient,
		baseURL: "https://test.example.com",
		delay:   0,
	}
}

func loadFixture(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile("../../testdata/fixtures/" + name)
	if err != nil {
		t.Fatalf("failed to load test fixture: %v", err)
	}
	return string(data)
}

func TestParseScheduleMonth(t *testing.T) {
	s := newTestScraper()
	html := loadFixture(t, "schedule_202403.html")

	sched, err := s.parseMonth(strings.NewReader(html), ContentSchedule, 2024, 3)
	if err != nil {
		t.Fatalf("parseMonth failed: %v", err)
	}

	if sched.Year != 2024 || sched.Month != 3 {
		t.Errorf("expected 2024-03, got %04d-%02d", sched.Year, sched.Month)
	}
	if len(sched.Days) != 3 {
		t.Fatalf("expected 3 day groups, got %d", len(sched.Days))
	}

	day15 := sched.Days[0]
	if day15.Day != "15" {
		t.Errorf("expected day 15, got %q", day15.Day)
	}
	if len(day15.Items) != 2 {
		t.Fatalf("expected 2 items on the 15th, got %d", len(day15.Items))
	}

	first := day15.Items[0]
	if first.Name != "レギュラー放送" {
		t.Errorf("name = %q", first.Name)
	}
	if first.Category != "TV" {
		t.Errorf("category = %q", first.Category)
	}
	if first.TimeText != "19:00~21:00" {
		t.Errorf("time text = %q", first.TimeText)
	}
	if first.Link != "https://test.example.com/s/official/media/detail/100" {
		t.Errorf("link = %q", first.Link)
	}

	// Full-width time text is folded during parsing.
	if got := day15.Items[1].TimeText; got != "25:30~" {
		t.Errorf("folded time text = %q, expected %q", got, "25:30~")
	}

	day20 := sched.Days[1]
	if day20.Day != "20" {
		t.Errorf("expected day 20, got %q", day20.Day)
	}
	if len(day20.Items) != 1 {
		t.Fatalf("expected 1 item on the 20th, got %d", len(day20.Items))
	}
	if day20.Items[0].TimeText != "" {
		t.Errorf("release entry should have no time text, got %q", day20.Items[0].TimeText)
	}

	// A timeless item followed by a timed one: the time text must stay on
	// the item it belongs to instead of shifting onto the earlier one.
	day25 := sched.Days[2]
	if day25.Day != "25" {
		t.Errorf("expected day 25, got %q", day25.Day)
	}
	if len(day25.Items) != 2 {
		t.Fatalf("expected 2 items on the 25th, got %d", len(day25.Items))
	}
	if got := day25.Items[0].TimeText; got != "" {
		t.Errorf("timeless item picked up time text %q", got)
	}
	if got := day25.Items[1].TimeText; got != "22:00~22:30" {
		t.Errorf("timed item time text = %q, expected %q", got, "22:00~22:30")
	}
	if got := day25.Items[1].Category; got != "TV" {
		t.Errorf("timed item category = %q", got)
	}
}

func TestParseNewsMonth(t *testing.T) {
	s := newTestScraper()
	html := loadFixture(t, "news_202403.html")

	sched, err := s.parseMonth(strings.NewReader(html), ContentNews, 2024, 3)
	if err != nil {
		t.Fatalf("parseMonth failed: %v", err)
	}

	if len(sched.Days) != 2 {
		t.Fatalf("expected 2 news entries, got %d", len(sched.Days))
	}
	if sched.Days[0].Day != "12" {
		t.Errorf("first news day = %q, expected 12", sched.Days[0].Day)
	}
	item := sched.Days[0].Items[0]
	if item.Name != "全国ツアー開催決定!" {
		t.Errorf("news name = %q", item.Name)
	}
	if item.Category != "イベント" {
		t.Errorf("news category = %q", item.Category)
	}
	if item.TimeText != "" {
		t.Errorf("news items carry no time text, got %q", item.TimeText)
	}
	if item.Link != "https://test.example.com/s/official/news/detail/500" {
		t.Errorf("news link = %q", item.Link)
	}
}

func TestParseMonthMismatch(t *testing.T) {
	s := newTestScraper()
	html := loadFixture(t, "schedule_202403.html")

	_, err := s.parseMonth(strings.NewReader(html), ContentSchedule, 2024, 4)
	if !errors.Is(err, ErrMonthMismatch) {
		t.Fatalf("expected ErrMonthMismatch, got %v", err)
	}
}

func TestParseMonthMissingHeader(t *testing.T) {
	s := newTestScraper()

	_, err := s.parseMonth(strings.NewReader("<html><body></body></html>"), ContentSchedule, 2024, 3)
	if !errors.Is(err, ErrMonthMismatch) {
		t.Fatalf("expected ErrMonthMismatch for missing header, got %v", err)
	}
}

func TestContentTypeListPath(t *testing.T) {
	if _, err := ContentType("podcast").listPath(); err == nil {
		t.Error("expected error for unknown content type")
	}
	if p, err := ContentSchedule.listPath(); err != nil || p != "/s/official/media/list" {
		t.Errorf("schedule path = %q, %v", p, err)
	}
	if p, err := ContentNews.listPath(); err != nil || p != "/s/official/news/list" {
		t.Errorf("news path = %q, %v", p, err)
	}
}
