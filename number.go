// Copyright 2025 easymvp
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package jsontoken

import (
	"strconv"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// NumberMode selects how a completed number literal is converted to a Go
// value before it reaches the sink.
type NumberMode int

const (
	// NumberModeFloat64 parses the literal with strconv.ParseFloat. This is
	// the default; integers beyond float64's safe-integer range lose
	// precision.
	NumberModeFloat64 NumberMode = iota
	// NumberModeDecimal parses the literal with shopspring/decimal,
	// preserving arbitrary-precision integers and exact decimal
	// fractions (e.g. 7161093205057351174 round-trips exactly).
	NumberModeDecimal
)

// NumberValue is the decoded payload of a Number token. Exactly one of its
// fields is meaningful, selected by Mode.
type NumberValue struct {
	Mode    NumberMode
	Float   float64
	Decimal decimal.Decimal
}

// Float64 returns the value as a float64 regardless of Mode, converting a
// Decimal value if necessary.
func (n NumberValue) Float64() float64 {
	if n.Mode == NumberModeDecimal {
		f, _ := n.Decimal.Float64()
		return f
	}
	return n.Float
}

// String renders the value in canonical form rather than as it was
// written: Decimal.String in decimal mode, otherwise the shortest 'g'
// formatting of the float64 (so "1.23e10" renders as "1.23e+10").
func (n NumberValue) String() string {
	if n.Mode == NumberModeDecimal {
		return n.Decimal.String()
	}
	return strconv.FormatFloat(n.Float, 'g', -1, 64)
}

// NumberParseFunc converts a number literal's raw digits into a NumberValue.
// The default, used when Options.NumberParseFunc is nil, dispatches to
// strconv.ParseFloat or decimal.NewFromString per NumberMode; callers may
// install their own hook (e.g. to keep literals as math/big.Int) via
// WithNumberParseFunc.
type NumberParseFunc func(literal string) (NumberValue, error)

func parseNumberFloat64(literal string) (NumberValue, error) {
	f, err := strconv.ParseFloat(literal, 64)
	if err != nil {
		return NumberValue{}, errors.Wrapf(err, "jsontoken: parse number %q", literal)
	}
	return NumberValue{Mode: NumberModeFloat64, Float: f}, nil
}

func parseNumberDecimal(literal string) (NumberValue, error) {
	d, err := decimal.NewFromString(literal)
	if err != nil {
		return NumberValue{}, errors.Wrapf(err, "jsontoken: parse decimal %q", literal)
	}
	return NumberValue{Mode: NumberModeDecimal, Decimal: d}, nil
}

func defaultNumberParseFunc(mode NumberMode) NumberParseFunc {
	if mode == NumberModeDecimal {
		return parseNumberDecimal
	}
	return parseNumberFloat64
}
