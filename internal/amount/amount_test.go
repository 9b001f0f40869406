package amount

import (
	"math/big"
	"strings"
	"testing"
)

func TestParseDecimal(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		decimals uint8
		wantRaw  string
	}{
		{"whole number", "5", 6, "5000000"},
		{"fractional", "1.5", 6, "1500000"},
		{"leading dot", ".5", 6, "500000"},
		{"exact scale", "0.000001", 6, "1"},
		{"excess digits truncated", "0.1234567", 6, "123456"},
		{"excess digits never round up", "0.9999999", 6, "999999"},
		{"eighteen decimals", "2.5", 18, "2500000000000000000"},
		{"zero scale", "42.9", 0, "42"},
		{"surrounding whitespace", "  3 ", 6, "3000000"},
		{"empty", "", 6, "0"},
		{"whitespace only", "   ", 6, "0"},
		{"garbage", "abc", 6, "0"},
		{"trailing garbage", "1.5x", 6, "0"},
		{"double dot", "1.2.3", 6, "0"},
		{"grouped separators", "1,000", 6, "0"},
		{"negative", "-1", 6, "0"},
		{"negative fraction", "-0.5", 6, "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseDecimal(tt.text, tt.decimals)
			if got.Raw.String() != tt.wantRaw {
				t.Errorf("ParseDecimal(%q, %d) = %s, want %s", tt.text, tt.decimals, got.Raw.String(), tt.wantRaw)
			}
			if got.Decimals != tt.decimals {
				t.Errorf("ParseDecimal(%q, %d) kept decimals %d", tt.text, tt.decimals, got.Decimals)
			}
			if got.Raw.Sign() < 0 {
				t.Errorf("ParseDecimal(%q, %d) produced a negative value", tt.text, tt.decimals)
			}
		})
	}
}

func TestParseDecimalOverflow(t *testing.T) {
	// Larger than 2^256 - 1 once scaled.
	huge := strings.Repeat("9", 80)
	got := ParseDecimal(huge, 18)
	if !got.IsZero() {
		t.Errorf("expected overflow to degrade to zero, got %s", got.Raw.String())
	}

	// The largest representable value must survive.
	max := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))
	got = ParseDecimal(max.String(), 0)
	if got.Raw.Cmp(max) != 0 {
		t.Errorf("max uint256 should parse exactly, got %s", got.Raw.String())
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name    string
		raw     int64
		dec     uint8
		maxFrac int
		want    string
	}{
		{"zero", 0, 6, 6, "0"},
		{"whole", 5000000, 6, 6, "5"},
		{"fraction", 1500000, 6, 6, "1.5"},
		{"smallest unit", 1, 6, 6, "0.000001"},
		{"grouping", 1234500000, 6, 6, "1,234.5"},
		{"display truncation never rounds up", 1999999, 6, 2, "1.99"},
		{"zero fraction digits", 1999999, 6, 0, "1"},
		{"large grouped", 1000000000000, 6, 2, "1,000,000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Format(FromBig(big.NewInt(tt.raw), tt.dec), tt.maxFrac)
			if got != tt.want {
				t.Errorf("Format(%d@%d, %d) = %q, want %q", tt.raw, tt.dec, tt.maxFrac, got, tt.want)
			}
		})
	}
}

func TestFormatFallsBackToRawInteger(t *testing.T) {
	// Integer part beyond int64 cannot be grouped; the raw base-unit
	// string comes back instead of an error or a blank.
	raw, _ := new(big.Int).SetString(strings.Repeat("9", 30), 10)
	got := Format(FromBig(raw, 0), 2)
	if got != raw.String() {
		t.Errorf("expected fallback to raw integer string, got %q", got)
	}
	if got == "" {
		t.Error("Format must never return a blank string")
	}
}

func TestFormatRoundTrip(t *testing.T) {
	// format(parse(s)) reproduces the typed value, or a truncation of it
	// when the input carried excess fractional digits.
	tests := []struct {
		text string
		dec  uint8
		want string
	}{
		{"1.5", 6, "1.5"},
		{"0.25", 6, "0.25"},
		{"100", 6, "100"},
		{"0.1234567", 6, "0.123456"},
	}
	for _, tt := range tests {
		got := Format(ParseDecimal(tt.text, tt.dec), int(tt.dec))
		if got != tt.want {
			t.Errorf("Format(ParseDecimal(%q, %d)) = %q, want %q", tt.text, tt.dec, got, tt.want)
		}
	}
}

func TestFormatOptional(t *testing.T) {
	if got := FormatOptional(nil, 6); got != Placeholder {
		t.Errorf("nil amount should render as placeholder, got %q", got)
	}

	loaded := FromUint64(0, 6)
	if got := FormatOptional(&loaded, 6); got != "0" {
		t.Errorf("loaded zero should render as 0, not the placeholder, got %q", got)
	}
}

func TestCmp(t *testing.T) {
	a := FromUint64(100, 6)
	b := FromUint64(200, 6)

	if got, err := a.Cmp(b); err != nil || got >= 0 {
		t.Errorf("Cmp(100, 200) = %d, %v", got, err)
	}
	if got, err := b.Cmp(a); err != nil || got <= 0 {
		t.Errorf("Cmp(200, 100) = %d, %v", got, err)
	}

	mismatched := FromUint64(100, 18)
	if _, err := a.Cmp(mismatched); err != ErrScaleMismatch {
		t.Errorf("expected ErrScaleMismatch for differing scales, got %v", err)
	}
}

func TestFromBig(t *testing.T) {
	if got := FromBig(nil, 6); !got.IsZero() {
		t.Error("nil big.Int should wrap to zero")
	}
	if got := FromBig(big.NewInt(-5), 6); !got.IsZero() {
		t.Error("negative big.Int should wrap to zero")
	}

	src := big.NewInt(7)
	wrapped := FromBig(src, 6)
	src.SetInt64(99)
	if wrapped.Raw.Int64() != 7 {
		t.Error("FromBig must copy, not alias, its input")
	}
}
