package period

import (
	"errors"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestSequence(t *testing.T) {
	tests := []struct {
		name    string
		start   time.Time
		end     time.Time
		want    []Key
		wantErr bool
	}{
		{
			name:  "three month range",
			start: date(2024, time.January, 1),
			end:   date(2024, time.March, 31),
			want:  []Key{"2024-01", "2024-02", "2024-03"},
		},
		{
			name:  "mid-month dates snap to months",
			start: date(2024, time.January, 15),
			end:   date(2024, time.February, 10),
			want:  []Key{"2024-01", "2024-02"},
		},
		{
			name:  "single month",
			start: date(2024, time.June, 1),
			end:   date(2024, time.June, 30),
			want:  []Key{"2024-06"},
		},
		{
			name:  "crosses year boundary",
			start: date(2023, time.November, 20),
			end:   date(2024, time.February, 5),
			want:  []Key{"2023-11", "2023-12", "2024-01", "2024-02"},
		},
		{
			name:    "start after end",
			start:   date(2024, time.March, 1),
			end:     date(2024, time.January, 1),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Sequence(tt.start, tt.end)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidRange) {
					t.Fatalf("Sequence() error = %v, want ErrInvalidRange", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Sequence() failed: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Sequence() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Sequence()[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestSequenceDeterministic(t *testing.T) {
	start := date(2024, time.January, 3)
	end := date(2024, time.December, 28)

	first, err := Sequence(start, end)
	if err != nil {
		t.Fatalf("Sequence() failed: %v", err)
	}
	second, err := Sequence(start, end)
	if err != nil {
		t.Fatalf("Sequence() failed: %v", err)
	}

	if len(first) != 12 || len(second) != 12 {
		t.Fatalf("expected 12 periods, got %d and %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("sequence not deterministic at %d: %v vs %v", i, first[i], second[i])
		}
	}
}

func TestKeyNext(t *testing.T) {
	tests := []struct {
		key  Key
		want Key
	}{
		{"2024-01", "2024-02"},
		{"2024-12", "2025-01"},
		{"not-a-key", "not-a-key"},
	}

	for _, tt := range tests {
		if got := tt.key.Next(); got != tt.want {
			t.Errorf("Next(%v) = %v, want %v", tt.key, got, tt.want)
		}
	}
}

func TestKeyBefore(t *testing.T) {
	if !Key("2023-12").Before("2024-01") {
		t.Error("2023-12 should be before 2024-01")
	}
	if Key("2024-02").Before("2024-02") {
		t.Error("a key is not before itself")
	}
}

func TestKeyOf(t *testing.T) {
	if got := KeyOf(date(2024, time.July, 31)); got != "2024-07" {
		t.Errorf("KeyOf() = %v, want 2024-07", got)
	}
}
