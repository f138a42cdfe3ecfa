// Package cpf validates and formats Brazilian individual taxpayer numbers.
package cpf

import "strings"

// Length is the number of digits in a CPF.
const Length = 11

// Normalize strips everything but digits, so "529.982.247-25" becomes "52998224725".
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Valid reports whether s (formatted or not) is a CPF with correct check digits.
// Sequences of a single repeated digit are rejected even though they satisfy the checksum.
func Valid(s string) bool {
	digits := Normalize(s)
	if len(digits) != Length {
		return false
	}

	if strings.Count(digits, digits[:1]) == Length {
		return false
	}

	d := make([]int, Length)
	for i := range digits {
		d[i] = int(digits[i] - '0')
	}

	return checkDigit(d[:9]) == d[9] && checkDigit(d[:10]) == d[10]
}

// checkDigit computes the weighted modulo-11 digit over the given prefix.
// Weights start at len(prefix)+1 and decrease to 2.
func checkDigit(prefix []int) int {
	sum := 0
	weight := len(prefix) + 1
	for _, n := range prefix {
		sum += n * weight
		weight--
	}
	rest := (sum * 10) % 11
	if rest == 10 {
		return 0
	}
	return rest
}

// Format renders a valid CPF as 000.000.000-00. Invalid input is returned normalised but unformatted.
func Format(s string) string {
	digits := Normalize(s)
	if len(digits) != Length {
		return digits
	}
	return digits[0:3] + "." + digits[3:6] + "." + digits[6:9] + "-" + digits[9:11]
}
