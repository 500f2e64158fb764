// Package core provides the locale-aware scalar types shared by every
// dashboard page.
//
// This file contains functions for parsing and formatting Brazilian Real
// amounts as they appear in published spreadsheet exports.
package core

import (
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var brPrinter = message.NewPrinter(language.BrazilianPortuguese)

// ParseBRL converts a pt-BR currency cell to a float.
//
// The currency symbol and any whitespace are removed, dots are treated as
// thousands separators and the decimal comma becomes a dot. Blank or
// non-numeric cells yield 0; spreadsheet cells are frequently empty.
//
// Examples:
//
//	ParseBRL("R$ 1.234,56") -> 1234.56
//	ParseBRL("12,5")        -> 12.5
//	ParseBRL("")            -> 0
//	ParseBRL("n/a")         -> 0
//	ParseBRL("1e400")       -> 0 (overflows float64)
func ParseBRL(s string) float64 {
	v, _ := ParseBRLOK(s)
	return v
}

// ParseBRLOK is ParseBRL with an explicit success flag.
func ParseBRLOK(s string) (float64, bool) {
	s = strings.ReplaceAll(s, "R$", "")
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	if s == "" {
		return 0, false
	}
	s = strings.ReplaceAll(s, ".", "")
	s = strings.Replace(s, ",", ".", 1)
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, false
	}
	v := d.InexactFloat64()
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// FormatBRL renders v as Brazilian Real text, e.g. "R$ 1.234,56".
// NaN and infinities render as zero.
func FormatBRL(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	s := brPrinter.Sprintf("%.2f", math.Abs(v))
	if v < 0 && s != "0,00" {
		return "-R$ " + s
	}
	return "R$ " + s
}

// FormatPercent renders v with two decimals and a comma separator, e.g. "12,50%".
func FormatPercent(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	return strings.Replace(strconv.FormatFloat(v, 'f', 2, 64), ".", ",", 1) + "%"
}
