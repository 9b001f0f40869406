/**
 * Copyright 2025-present Frith Labs
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package amount converts between human decimal text and the base-unit
// integers the vault contract works in. All on-chain values are unsigned
// 256-bit integers scaled by the token's decimals; display formatting is
// the only place rounding is ever allowed, and it only ever truncates.
package amount

import (
	"errors"
	"math/big"
	"strings"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Placeholder is rendered for values that have not been loaded from the
// chain yet. Distinct from "0", which is a real balance.
const Placeholder = "-"

var ErrScaleMismatch = errors.New("amounts have different decimal scales")

// Scaled is an integer quantity of base units paired with its decimal
// scale. Raw is always non-negative and fits in 256 bits.
type Scaled struct {
	Raw      *big.Int
	Decimals uint8
}

// Zero returns a zero amount at the given scale.
func Zero(decimals uint8) Scaled {
	return Scaled{Raw: new(big.Int), Decimals: decimals}
}

// FromBig wraps a base-unit integer already obtained from the chain.
// A nil or negative input is treated as zero.
func FromBig(raw *big.Int, decimals uint8) Scaled {
	if raw == nil || raw.Sign() < 0 {
		return Zero(decimals)
	}
	return Scaled{Raw: new(big.Int).Set(raw), Decimals: decimals}
}

// FromUint64 wraps a small base-unit quantity, mostly useful in tests.
func FromUint64(raw uint64, decimals uint8) Scaled {
	return Scaled{Raw: new(big.Int).SetUint64(raw), Decimals: decimals}
}

func (s Scaled) IsZero() bool {
	return s.Raw == nil || s.Raw.Sign() == 0
}

// Cmp compares two amounts at the same scale. Comparing amounts with
// different decimals is a programming error and is reported as such.
func (s Scaled) Cmp(other Scaled) (int, error) {
	if s.Decimals != other.Decimals {
		return 0, ErrScaleMismatch
	}
	if s.Raw == nil || other.Raw == nil {
		return bigOrZero(s.Raw).Cmp(bigOrZero(other.Raw)), nil
	}
	return s.Raw.Cmp(other.Raw), nil
}

// String renders the raw base-unit integer, not the human form.
func (s Scaled) String() string {
	return bigOrZero(s.Raw).String()
}

func bigOrZero(b *big.Int) *big.Int {
	if b == nil {
		return new(big.Int)
	}
	return b
}

// ParseDecimal converts user-typed decimal text into base units scaled by
// 10^decimals. Input arrives straight from keystrokes, so it may be empty,
// malformed, negative, or carry more fractional digits than the scale
// allows. None of that is an error to the caller: anything unparseable
// degrades to zero, and excess fractional digits are truncated, never
// rounded up, so the result can never overstate what the user typed.
func ParseDecimal(text string, decimals uint8) Scaled {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Zero(decimals)
	}

	d, err := decimal.NewFromString(trimmed)
	if err != nil || d.IsNegative() {
		return Zero(decimals)
	}

	raw := d.Shift(int32(decimals)).Truncate(0).BigInt()
	if raw.Sign() < 0 {
		return Zero(decimals)
	}
	if _, overflow := uint256.FromBig(raw); overflow {
		return Zero(decimals)
	}

	return Scaled{Raw: raw, Decimals: decimals}
}

// Display locale is fixed to English grouping.
var printer = message.NewPrinter(language.English)

// Format renders an amount as a locale-grouped decimal string with at most
// maxFractionDigits fractional digits shown. The cap is display-only
// truncation and must never feed back into an on-chain value. If the
// integer part is too large to group it falls back to the raw base-unit
// integer as a plain decimal string; it never fails and never goes blank.
func Format(s Scaled, maxFractionDigits int) string {
	raw := bigOrZero(s.Raw)
	if maxFractionDigits < 0 {
		maxFractionDigits = 0
	}

	d := decimal.NewFromBigInt(new(big.Int).Set(raw), -int32(s.Decimals))
	shown := d.Truncate(int32(maxFractionDigits))

	intPart := shown.Truncate(0).BigInt()
	if !intPart.IsInt64() {
		return raw.String()
	}

	grouped := printer.Sprintf("%d", intPart.Int64())
	frac := fractionDigits(shown)
	if frac == "" {
		return grouped
	}
	return grouped + "." + frac
}

// FormatOptional renders a value that may not have loaded yet. A nil
// amount means "unknown", which displays as the placeholder so it cannot
// be confused with a legitimate zero balance.
func FormatOptional(s *Scaled, maxFractionDigits int) string {
	if s == nil {
		return Placeholder
	}
	return Format(*s, maxFractionDigits)
}

func fractionDigits(d decimal.Decimal) string {
	str := d.String()
	idx := strings.IndexByte(str, '.')
	if idx < 0 {
		return ""
	}
	return str[idx+1:]
}
