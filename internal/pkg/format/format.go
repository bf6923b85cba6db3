// Package format holds the Spanish-language formatting helpers shared
// by the business handlers: euro amounts, billing periods and their
// spoken form.
package format

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	periodRe = regexp.MustCompile(`^\d{4}-\d{2}$`)
	dateRe   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// MonthOnlyPrefix marks a period where only the month is known. The
// year placeholder is resolved against the customer's invoice history.
const MonthOnlyPrefix = "XXXX-"

var spanishMonths = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// EUR renders an amount in Spanish style: dot thousands separator,
// comma decimals, trailing euro sign (1.234,56€).
func EUR(amount float64) string {
	s := strconv.FormatFloat(amount, 'f', 2, 64)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	parts := strings.SplitN(s, ".", 2)
	intPart, decPart := parts[0], parts[1]

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	out := b.String() + "," + decPart + "€"
	if neg {
		out = "-" + out
	}
	return out
}

// NormalizePeriod resolves the period-shaped slots the NLU engine may
// send. Preference order: an explicit period ("2025-02"), a sys.date
// value ("2025-02-15", truncated to the month), then a bare month
// number rendered with the MonthOnlyPrefix placeholder. Returns ""
// when nothing usable is present.
func NormalizePeriod(period, date, month string) string {
	period = strings.TrimSpace(period)
	if periodRe.MatchString(period) {
		return period
	}

	date = strings.TrimSpace(date)
	if dateRe.MatchString(date) {
		return date[:7]
	}
	if periodRe.MatchString(date) {
		return date
	}

	month = strings.TrimSpace(month)
	if month != "" {
		if m, err := strconv.Atoi(month); err == nil && m >= 1 && m <= 12 {
			return fmt.Sprintf("%s%02d", MonthOnlyPrefix, m)
		}
	}
	return ""
}

// MonthOnly reports whether the period only pins down the month, and
// if so returns its "-MM" suffix for matching against full periods.
func MonthOnly(period string) (string, bool) {
	if strings.HasPrefix(period, MonthOnlyPrefix) {
		return "-" + strings.TrimPrefix(period, MonthOnlyPrefix), true
	}
	return "", false
}

// PeriodText renders a YYYY-MM period as spoken Spanish
// ("febrero de 2025"). Unparseable input is returned verbatim.
func PeriodText(period string) string {
	if !periodRe.MatchString(period) {
		return period
	}
	month, err := strconv.Atoi(period[5:])
	if err != nil || month < 1 || month > 12 {
		return period
	}
	return spanishMonths[month-1] + " de " + period[:4]
}
