package tradebook

import "fmt"

// Percent is a ratio expressed in percent (12.5 means 12.5%).
type Percent float64

// Equal compares two percentages up to 1e-4.
func (p Percent) Equal(q Percent) bool {
	// it has to be compared with some precision
	const precision = 0.0001
	diff := p - q
	if diff < 0 {
		diff = -diff
	}
	return diff < precision
}

func (p Percent) String() string {
	return fmt.Sprintf("%.2f%%", float64(p))
}

// SignedString always shows the sign, and "-" for zero.
func (p Percent) SignedString() string {
	res := fmt.Sprintf("%+.2f%%", float64(p))
	if res == "+0.00%" || res == "-0.00%" {
		return "-"
	}
	return res
}

// percent returns num/den in percent, or 0 when den is not positive.
func percent(num, den float64) Percent {
	if den <= 0 {
		return 0
	}
	return Percent(num / den * 100)
}
