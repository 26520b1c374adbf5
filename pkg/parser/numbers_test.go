package parser

import (
	"testing"
	"time"
)

func TestParseViews(t *testing.T) {
	tests := []struct {
		input string
		want  *int
	}{
		{"230.1k", intPtr(230100)},
		{"1.9kk", intPtr(1900000)},
		{"1000", intPtr(1000)},
		{"2k", intPtr(2000)},
		{"2,5k", intPtr(2500)},
		{"0", intPtr(0)},
		{" 15k ", intPtr(15000)},
		{"1.2345k", intPtr(1235)},
		{"", nil},
		{"abc", nil},
		{"12kkk", nil},
		{"k", nil},
		{"-5", nil},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := ParseViews(tt.input)
			if !intPtrEqual(got, tt.want) {
				t.Errorf("ParseViews(%q) = %v, want %v", tt.input, fmtIntPtr(got), fmtIntPtr(tt.want))
			}
		})
	}
}

func TestParseFlavorsCount(t *testing.T) {
	tests := []struct {
		input string
		want  *int
	}{
		{"53 вкуса", intPtr(53)},
		{"1 вкус", intPtr(1)},
		{"120 вкусов", intPtr(120)},
		{"7", intPtr(7)},
		{"вкусы", nil},
		{"", nil},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := ParseFlavorsCount(tt.input)
			if !intPtrEqual(got, tt.want) {
				t.Errorf("ParseFlavorsCount(%q) = %v, want %v", tt.input, fmtIntPtr(got), fmtIntPtr(tt.want))
			}
		})
	}
}

func TestParsePercentage(t *testing.T) {
	tests := []struct {
		input string
		want  *float64
	}{
		{"87%", floatPtr(87)},
		{"87.5%", floatPtr(87.5)},
		{"0%", floatPtr(0)},
		{"100%", floatPtr(100)},
		{"101%", nil},
		{"87", nil},
		{"", nil},
		{"n/a", nil},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := ParsePercentage(tt.input)
			if (got == nil) != (tt.want == nil) || (got != nil && *got != *tt.want) {
				t.Errorf("ParsePercentage(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	want := time.Date(2021, 3, 12, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		input string
		want  *time.Time
	}{
		{"12.03.2021", &want},
		{"2021-03-12", nil},
		{"12/03/2021", nil},
		{"32.13.2021", nil},
		{"", nil},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := ParseDate(tt.input)
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("ParseDate(%q) = %v, want %v", tt.input, got, tt.want)
			}
			if got != nil && !got.Equal(*tt.want) {
				t.Errorf("ParseDate(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseRating(t *testing.T) {
	tests := []struct {
		input string
		want  *float64
	}{
		{"4.6", floatPtr(4.6)},
		{"4,6", floatPtr(4.6)},
		{"0", floatPtr(0)},
		{"5", floatPtr(5)},
		{"5.1", nil},
		{"-1", nil},
		{"", nil},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := ParseRating(tt.input)
			if (got == nil) != (tt.want == nil) || (got != nil && *got != *tt.want) {
				t.Errorf("ParseRating(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseYear(t *testing.T) {
	tests := []struct {
		input string
		want  *int
	}{
		{"1999", intPtr(1999)},
		{"2024", intPtr(2024)},
		{"99", nil},
		{"12345", nil},
		{"abcd", nil},
		{"", nil},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := ParseYear(tt.input)
			if !intPtrEqual(got, tt.want) {
				t.Errorf("ParseYear(%q) = %v, want %v", tt.input, fmtIntPtr(got), fmtIntPtr(tt.want))
			}
		})
	}
}

func intPtr(n int) *int           { return &n }
func floatPtr(f float64) *float64 { return &f }

func intPtrEqual(a, b *int) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	return a == nil || *a == *b
}

func fmtIntPtr(p *int) any {
	if p == nil {
		return "<nil>"
	}
	return *p
}
