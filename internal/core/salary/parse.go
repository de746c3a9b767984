package salary

import (
	"math"
	"strconv"
	"strings"
)

// ParseAmount reads a decimal from free form text and never fails
// leading whitespace is skipped and the longest numeric prefix wins, so "12abc" is 12.
// empty, non numeric, and non finite text all read as 0
func ParseAmount(s string) float64 {
	s = strings.TrimLeft(s, " \t\n\r\v\f")
	n := numericPrefix(s)
	if n == 0 {
		return 0
	}
	v, err := strconv.ParseFloat(s[:n], 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// numericPrefix returns the length of the longest prefix of s shaped like
// [+-]digits[.digits][(e|E)[+-]digits], requiring at least one mantissa digit
func numericPrefix(s string) int {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		j := i + 1
		frac := 0
		for j < len(s) && isDigit(s[j]) {
			j++
			frac++
		}
		if digits+frac > 0 {
			i = j
			digits += frac
		}
	}
	if digits == 0 {
		return 0
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		exp := 0
		for j < len(s) && isDigit(s[j]) {
			j++
			exp++
		}
		if exp > 0 {
			i = j
		}
	}
	return i
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// InputFromFields builds an EstimateInput from the four raw form fields
func InputFromFields(annualRevenue, similarPositionSalary, yearsExperience, hoursWorked string) EstimateInput {
	return EstimateInput{
		AnnualRevenue:         ParseAmount(annualRevenue),
		SimilarPositionSalary: ParseAmount(similarPositionSalary),
		YearsExperience:       ParseAmount(yearsExperience),
		HoursWorkedPerWeek:    ParseAmount(hoursWorked),
	}
}
