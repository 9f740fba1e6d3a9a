// Package norm brings raw inventory values to their canonical forms.
// Every function is total: it never fails, instead it returns a best-effort
// value and a flag that is false when the value did not fit the canonical
// form. All functions are idempotent on their own output.
package norm

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/araddon/dateparse"
	"github.com/gnames/aliquotdb/pkg/config"
)

const (
	// IDWidth is the number of digits in a normalized participant ID.
	IDWidth = 4

	// VisitWidth is the width of a normalized visit code.
	VisitWidth = 2

	// WeekWidth is the width of a normalized visit week code.
	WeekWidth = 3
)

var (
	// spreadsheets turn integer cells into floats, '123' becomes '123.0'.
	floatTail = regexp.MustCompile(`^([+-]?\d+)\.0+$`)
	code      = regexp.MustCompile(`^[+-]?[\p{L}\d]+$`)
	digits    = regexp.MustCompile(`^\d+$`)
)

// extra layouts found in laboratory exports that are not covered by
// dateparse.
var dateLayouts = []string{
	"02-Jan-2006",
	"02-Jan-06",
	"02-Jan-2006 15:04:05",
	"2006/01/02",
	// default short date of Excel, 'mm-dd-yy'.
	"1-2-06",
	"1-2-2006",
}

// Normalizer keeps compiled normalization rules.
type Normalizer struct {
	markers       string
	defaultMarker string
	visitMarker   string
	legacy        *regexp.Regexp
	week          *regexp.Regexp
}

// New creates Normalizer from configuration.
func New(cfg config.Config) (Normalizer, error) {
	res := Normalizer{
		markers:       cfg.IDMarkers,
		defaultMarker: cfg.DefaultMarker,
		visitMarker:   cfg.VisitMarker,
	}
	var err error
	if cfg.LegacyPrefix != "" {
		res.legacy, err = regexp.Compile(cfg.LegacyPrefix)
		if err != nil {
			return res, fmt.Errorf("legacy prefix %q: %w", cfg.LegacyPrefix, err)
		}
	}
	if cfg.WeekMarker != "" {
		res.week, err = regexp.Compile("(?i)" + regexp.QuoteMeta(cfg.WeekMarker))
		if err != nil {
			return res, fmt.Errorf("week marker %q: %w", cfg.WeekMarker, err)
		}
	}
	return res, nil
}

// ParticipantID returns a cohort marker followed by a zero-padded number,
// for example '123' -> 'P0123', 'T7' -> 'T0007', '397-01-T7' -> 'T0007'.
func (n Normalizer) ParticipantID(raw string) (string, bool) {
	id := strings.TrimSpace(raw)
	if IsMissing(id) {
		return "", false
	}
	id = floatTail.ReplaceAllString(id, "$1")
	if n.legacy != nil {
		id = n.legacy.ReplaceAllString(id, "")
	}

	marker, num := n.defaultMarker, id
	if r, size := utf8.DecodeRuneInString(id); strings.ContainsRune(n.markers, r) {
		marker, num = string(r), id[size:]
	}
	num = strings.TrimSpace(num)
	if num == "" {
		return id, false
	}
	return marker + zfill(num, IDWidth), digits.MatchString(num)
}

// Visit removes the visit marker and pads the code to two characters,
// 'V3' -> '03', '3' -> '03', '10' -> '10'. All repeated leading markers go,
// 'VV3' -> '03', so that Visit(Visit(x)) == Visit(x) for any x.
func (n Normalizer) Visit(raw string) (string, bool) {
	v := strings.TrimSpace(raw)
	if IsMissing(v) {
		return "", false
	}
	v = floatTail.ReplaceAllString(v, "$1")
	if n.visitMarker != "" {
		for strings.HasPrefix(v, n.visitMarker) {
			v = v[len(n.visitMarker):]
		}
	}
	v = strings.TrimSpace(v)
	if v == "" {
		return strings.TrimSpace(raw), false
	}
	res := zfill(v, VisitWidth)
	return res, code.MatchString(res)
}

// VisitWeek removes the week marker and pads the code to three characters,
// 'Wk 4' -> '004', '-2' -> '-02'. A missing week is an empty string that
// is considered valid, because it gets replaced by the visit code later.
func (n Normalizer) VisitWeek(raw string) (string, bool) {
	w := strings.TrimSpace(raw)
	if IsMissing(w) {
		return "", true
	}
	if n.week != nil {
		w = n.week.ReplaceAllString(w, "")
	}
	w = floatTail.ReplaceAllString(strings.TrimSpace(w), "$1")
	if w == "" {
		return strings.TrimSpace(raw), false
	}
	res := zfill(w, WeekWidth)
	return res, code.MatchString(res)
}

// DrawDate returns a date in the 'YYYY-MM-DD' format.
func (n Normalizer) DrawDate(raw string) (string, bool) {
	d := strings.TrimSpace(raw)
	if IsMissing(d) {
		return "", false
	}
	if _, err := time.Parse(time.DateOnly, d); err == nil {
		return d, true
	}
	if t, err := dateparse.ParseAny(d); err == nil {
		return t.Format(time.DateOnly), true
	}
	for _, l := range dateLayouts {
		if t, err := time.Parse(l, d); err == nil {
			return t.Format(time.DateOnly), true
		}
	}
	return d, false
}

// Volume returns a decimal with at least one digit after the decimal
// point, '2' -> '2.0', '0.50' -> '0.5'.
func (n Normalizer) Volume(raw string) (string, bool) {
	v := strings.TrimSpace(raw)
	if IsMissing(v) {
		return "", false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return v, false
	}
	res := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(res, ".") {
		res += ".0"
	}
	return res, true
}

// IsMissing returns true for empty cells and for the spellings of 'no
// value' used by spreadsheet tools.
func IsMissing(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "nan", "na", "n/a", "null", "none", "#n/a":
		return true
	}
	return false
}

// zfill pads a string with leading zeroes up to the width, keeping a sign
// in front. It never truncates.
func zfill(s string, width int) string {
	var sign string
	if s != "" && (s[0] == '-' || s[0] == '+') {
		sign, s = s[:1], s[1:]
	}
	pad := width - len(sign) - utf8.RuneCountInString(s)
	if pad <= 0 {
		return sign + s
	}
	return sign + strings.Repeat("0", pad) + s
}
