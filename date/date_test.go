package date

import (
	"slices"
	"testing"
	"time"
)

// TestTime assert that the time() is cannonical and gives comparable times.
func TestTime(t *testing.T) {
	d1 := New(2025, 7, 31)
	d2 := New(2025, 7, 31)

	if d1.time() != d2.time() {
		t.Errorf("invalid time() function same day gives two different time")
	}
}

func TestParse(t *testing.T) {
	testCases := []struct {
		in      string
		want    Date
		wantErr bool
	}{
		{"2022-10-10", New(2022, time.October, 10), false},
		{"2022-1-2", New(2022, time.January, 2), false},
		{"10/10/2022", Date{}, true},
		{"2022-13-01", Date{}, true},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := Parse(tc.in)
			if (err != nil) != tc.wantErr {
				t.Fatalf("Parse(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			}
			if got != tc.want {
				t.Errorf("Parse(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestBetween(t *testing.T) {
	testCases := []struct {
		name         string
		from, to     Date
		days, months int
	}{
		{"same day", MustParse("2022-10-10"), MustParse("2022-10-10"), 0, 0},
		{"end of month", MustParse("2022-01-31"), MustParse("2022-02-28"), 28, 0},
		{"full month", MustParse("2022-01-15"), MustParse("2022-02-15"), 31, 1},
		{"leap year", MustParse("2024-01-01"), MustParse("2025-01-01"), 366, 12},
		{"backward", MustParse("2022-03-01"), MustParse("2022-01-01"), -59, -2},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DaysBetween(tc.from, tc.to); got != tc.days {
				t.Errorf("DaysBetween() = %v, want %v", got, tc.days)
			}
			if got := MonthsBetween(tc.from, tc.to); got != tc.months {
				t.Errorf("MonthsBetween() = %v, want %v", got, tc.months)
			}
		})
	}
}

func TestDays(t *testing.T) {
	got := slices.Collect(Days(MustParse("2022-12-30"), MustParse("2023-01-02")))
	want := []Date{MustParse("2022-12-30"), MustParse("2022-12-31"), MustParse("2023-01-01"), MustParse("2023-01-02")}
	if !slices.Equal(got, want) {
		t.Errorf("Days() = %v, want %v", got, want)
	}
	if got := slices.Collect(Days(MustParse("2023-01-02"), MustParse("2023-01-01"))); len(got) != 0 {
		t.Errorf("Days() on inverted range = %v, want none", got)
	}
}

func TestJSON(t *testing.T) {
	d := MustParse("2022-10-10")
	b, err := d.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `"2022-10-10"` {
		t.Errorf("MarshalJSON() = %s", b)
	}
	var got Date
	if err := got.UnmarshalJSON(b); err != nil {
		t.Fatal(err)
	}
	if got != d {
		t.Errorf("UnmarshalJSON() = %v, want %v", got, d)
	}
	if err := got.UnmarshalJSON([]byte(`""`)); err != nil || !got.IsZero() {
		t.Errorf("UnmarshalJSON(\"\") = %v, %v want zero date", got, err)
	}
}
