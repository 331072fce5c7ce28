package event

import (
	"errors"
	"testing"
	"time"
)

func date(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

func TestExtractDates(t *testing.T) {
	ref := date(2024, time.June, 10, 0, 0)

	tests := []struct {
		name     string
		text     string
		ref      time.Time
		section  string
		expected []time.Time
		wantErr  error
	}{
		{
			name:     "kanji form",
			text:     "次回は7月20日に開催します。",
			ref:      ref,
			expected: []time.Time{date(2024, time.July, 20, 0, 0)},
		},
		{
			name:     "slash and dash forms",
			text:     "7/20と8-3の2公演",
			ref:      ref,
			expected: []time.Time{date(2024, time.July, 20, 0, 0), date(2024, time.August, 3, 0, 0)},
		},
		{
			name:     "date before reference rolls to next year",
			text:     "1月5日に放送",
			ref:      date(2024, time.December, 20, 0, 0),
			expected: []time.Time{date(2025, time.January, 5, 0, 0)},
		},
		{
			name:     "date equal to reference stays",
			text:     "6月10日",
			ref:      ref,
			expected: []time.Time{date(2024, time.June, 10, 0, 0)},
		},
		{
			name:     "duplicate mentions collapse",
			text:     "7月20日開催。チケットは7/20当日まで。",
			ref:      ref,
			expected: []time.Time{date(2024, time.July, 20, 0, 0)},
		},
		{
			name:    "section scoping picks only its span",
			text:    "【チケット】6/1発売【スケジュール】7月20日 開催【会場】どこか 8月1日",
			ref:     ref,
			section: "スケジュール",
			expected: []time.Time{
				date(2024, time.July, 20, 0, 0),
			},
		},
		{
			name:    "section at end of text",
			text:    "【スケジュール】7月20日",
			ref:     ref,
			section: "スケジュール",
			expected: []time.Time{
				date(2024, time.July, 20, 0, 0),
			},
		},
		{
			name:     "missing section is empty, not an error",
			text:     "7月20日",
			ref:      ref,
			section:  "スケジュール",
			expected: nil,
		},
		{
			name:    "no dates at all",
			text:    "日程は後日発表します。",
			ref:     ref,
			wantErr: ErrNoDates,
		},
		{
			name:     "month 13 is not a date",
			text:     "13月40日ではなく7月20日",
			ref:      ref,
			expected: []time.Time{date(2024, time.July, 20, 0, 0)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractDates(tt.text, tt.ref, tt.section)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected error %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ExtractDates returned error: %v", err)
			}
			if len(got) != len(tt.expected) {
				t.Fatalf("expected %d timestamps, got %d (%v)", len(tt.expected), len(got), got)
			}
			for i := range got {
				if !got[i].Equal(tt.expected[i]) {
					t.Errorf("timestamp %d = %v, expected %v", i, got[i], tt.expected[i])
				}
			}
		})
	}
}

func TestExtractShowtimes(t *testing.T) {
	ref := date(2024, time.June, 10, 0, 0)

	t.Run("no showtime phrase yields unlabeled midnights", func(t *testing.T) {
		got, err := ExtractShowtimes("7月20日と7月21日", ref, "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("expected 2 timestamps, got %d", len(got))
		}
		for i, lt := range got {
			if lt.Label != "" {
				t.Errorf("timestamp %d label = %q, expected empty", i, lt.Label)
			}
		}
		if !got[0].Time.Equal(date(2024, time.July, 20, 0, 0)) {
			t.Errorf("first timestamp = %v", got[0].Time)
		}
	})

	t.Run("single phrase applies to every date", func(t *testing.T) {
		text := "7月20日、7月21日 開場 17:00 / 開演 18:00"
		got, err := ExtractShowtimes(text, ref, "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 4 {
			t.Fatalf("expected 4 labeled timestamps, got %d", len(got))
		}
		want := []LabeledTime{
			{LabelOpen, date(2024, time.July, 20, 17, 0)},
			{LabelStart, date(2024, time.July, 20, 18, 0)},
			{LabelOpen, date(2024, time.July, 21, 17, 0)},
			{LabelStart, date(2024, time.July, 21, 18, 0)},
		}
		for i := range want {
			if got[i].Label != want[i].Label || !got[i].Time.Equal(want[i].Time) {
				t.Errorf("entry %d = %v %v, expected %v %v",
					i, got[i].Label, got[i].Time, want[i].Label, want[i].Time)
			}
		}
	})

	t.Run("one phrase per date zips positionally", func(t *testing.T) {
		text := "7月20日 開場 17:00 開演 18:00\n7月21日 開場 16:00 開演 17:30"
		got, err := ExtractShowtimes(text, ref, "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 4 {
			t.Fatalf("expected 4 labeled timestamps, got %d", len(got))
		}
		if !got[2].Time.Equal(date(2024, time.July, 21, 16, 0)) {
			t.Errorf("second date open = %v, expected 16:00", got[2].Time)
		}
		if !got[3].Time.Equal(date(2024, time.July, 21, 17, 30)) {
			t.Errorf("second date start = %v, expected 17:30", got[3].Time)
		}
	})

	t.Run("mismatched phrase count degrades to unlabeled", func(t *testing.T) {
		text := "7月20日 7月21日 7月22日 開場 17:00 開演 18:00 開場 16:00 開演 17:00"
		got, err := ExtractShowtimes(text, ref, "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 3 {
			t.Fatalf("expected 3 unlabeled timestamps, got %d", len(got))
		}
		for i, lt := range got {
			if lt.Label != "" {
				t.Errorf("timestamp %d label = %q, expected empty", i, lt.Label)
			}
		}
	})

	t.Run("no dates reports ErrNoDates", func(t *testing.T) {
		_, err := ExtractShowtimes("開場 17:00 開演 18:00", ref, "")
		if !errors.Is(err, ErrNoDates) {
			t.Fatalf("expected ErrNoDates, got %v", err)
		}
	})

	t.Run("missing section is empty", func(t *testing.T) {
		got, err := ExtractShowtimes("7月20日", ref, "ライブ")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 0 {
			t.Fatalf("expected no timestamps, got %d", len(got))
		}
	})
}
