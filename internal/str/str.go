package str

import "strings"

// Shorten truncates a string to n runes if necessary, the tail is
// replaced by '...'.
func Shorten(s string, n int) string {
	rs := []rune(s)
	if len(rs) <= n || n < 4 {
		return s
	}
	return string(rs[0:n-3]) + "..."
}

// QuoteDSN adds single quotes around a value of a keyword/value connection
// string and escapes single quotes and backslashes.
func QuoteDSN(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return "'" + strings.ReplaceAll(s, "'", `\'`) + "'"
}
