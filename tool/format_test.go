package tool

import (
	"testing"
)

func TestTTLToSeconds(t *testing.T) {
	tests := []struct {
		value   int
		unit    string
		want    int
		wantErr bool
	}{
		{30, "days", 30 * 86400, false},
		{12, "hours", 12 * 3600, false},
		{45, "minutes", 45 * 60, false},
		{0, "unlimited", -1, false},
		{-1, "unlimited", -1, false},
		{0, "days", 0, true},
		{-5, "hours", 0, true},
		{10, "weeks", 0, true},
	}
	for _, tt := range tests {
		got, err := TTLToSeconds(tt.value, tt.unit)
		if tt.wantErr {
			if err == nil {
				t.Errorf("TTLToSeconds(%d, %q): expected error", tt.value, tt.unit)
			}
			continue
		}
		if err != nil {
			t.Errorf("TTLToSeconds(%d, %q): unexpected error: %v", tt.value, tt.unit, err)
			continue
		}
		if got != tt.want {
			t.Errorf("TTLToSeconds(%d, %q) = %d, want %d", tt.value, tt.unit, got, tt.want)
		}
	}
}

func TestHumanReadableTTL(t *testing.T) {
	tests := []struct {
		ttl       int
		wantValue int
		wantUnit  string
	}{
		{-1, -1, "unlimited"},
		{60, 1, "minutes"},
		{1800, 30, "minutes"},
		{3600, 1, "hours"},
		{43200, 12, "hours"},
		{86400, 1, "days"},
		{30 * 86400, 30, "days"},
	}
	for _, tt := range tests {
		value, unit := HumanReadableTTL(tt.ttl)
		if value != tt.wantValue || unit != tt.wantUnit {
			t.Errorf("HumanReadableTTL(%d) = (%d, %q), want (%d, %q)",
				tt.ttl, value, unit, tt.wantValue, tt.wantUnit)
		}
	}
}

// TTL values representable by a single unit must round-trip through the
// codec unchanged.
func TestTTLRoundTrip(t *testing.T) {
	ttls := []int{60, 300, 1800, 3540, 3600, 7200, 82800, 86400, 172800, 30 * 86400, -1}
	for _, ttl := range ttls {
		value, unit := HumanReadableTTL(ttl)
		got, err := TTLToSeconds(value, unit)
		if err != nil {
			t.Errorf("round trip of %d: unexpected error: %v", ttl, err)
			continue
		}
		if got != ttl {
			t.Errorf("round trip of %d: got %d (%d %s)", ttl, got, value, unit)
		}
	}
}

func TestHumanReadableTTLString(t *testing.T) {
	if s := HumanReadableTTLString(30 * 86400); s != "30 days" {
		t.Errorf("expected '30 days', got %q", s)
	}
	if s := HumanReadableTTLString(-1); s != "unlimited" {
		t.Errorf("expected 'unlimited', got %q", s)
	}
}

func TestHumanReadableSize(t *testing.T) {
	tests := []struct {
		size int64
		base int
		want string
	}{
		{-1, 2, "unlimited"},
		{0, 2, "0 B"},
		{512, 2, "512 B"},
		{1024, 2, "1 KB"},
		{1536, 2, "1.5 KB"},
		{10 * 1024 * 1024, 2, "10 MB"},
		{1000, 10, "1 KB"},
		{1250000, 10, "1.25 MB"},
	}
	for _, tt := range tests {
		if got := HumanReadableSize(tt.size, tt.base); got != tt.want {
			t.Errorf("HumanReadableSize(%d, %d) = %q, want %q", tt.size, tt.base, got, tt.want)
		}
	}
}

func TestParseHumanReadableSize(t *testing.T) {
	tests := []struct {
		input   string
		base    int
		want    int64
		wantErr bool
	}{
		{"1024", 2, 1024, false},
		{"1 KB", 2, 1024, false},
		{"1.5 KB", 2, 1536, false},
		{"1,5 KB", 2, 1536, false},
		{"10 MiB", 2, 10 * 1024 * 1024, false},
		{"2 GB", 10, 2000000000, false},
		{"100", 10, 100, false},
		{"garbage", 2, 0, true},
		{"10 XB", 2, 0, true},
		{"1", 7, 0, true},
	}
	for _, tt := range tests {
		got, err := ParseHumanReadableSize(tt.input, tt.base)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseHumanReadableSize(%q, %d): expected error", tt.input, tt.base)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseHumanReadableSize(%q, %d): unexpected error: %v", tt.input, tt.base, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseHumanReadableSize(%q, %d) = %d, want %d", tt.input, tt.base, got, tt.want)
		}
	}
}

// Sizes that format to an exact unit value must parse back unchanged.
func TestSizeRoundTrip(t *testing.T) {
	sizes := []int64{512, 1024, 1536, 10 * 1024 * 1024, int64(3) << 30}
	for _, size := range sizes {
		formatted := HumanReadableSize(size, 2)
		parsed, err := ParseHumanReadableSize(formatted, 2)
		if err != nil {
			t.Errorf("round trip of %d (%q): %v", size, formatted, err)
			continue
		}
		if parsed != size {
			t.Errorf("round trip of %d: formatted %q, parsed %d", size, formatted, parsed)
		}
	}
}
