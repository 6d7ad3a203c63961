package checkout

import "strings"

func digits(s string, limit int) string {
	var b strings.Builder
	for _, r := range s {
		if b.Len() == limit {
			break
		}
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FormatCardNumber keeps up to 16 digits in space separated groups of four.
func FormatCardNumber(raw string) string {
	d := digits(raw, 16)

	var b strings.Builder
	for i, r := range d {
		if i > 0 && i%4 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// FormatExpiry keeps up to 4 digits and inserts the MM/YY slash once a third digit is typed.
func FormatExpiry(raw string) string {
	d := digits(raw, 4)
	if len(d) > 2 {
		return d[:2] + "/" + d[2:]
	}
	return d
}
