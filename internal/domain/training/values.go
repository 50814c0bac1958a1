package training

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// excelEpoch is day zero of the 1900 date system once the 1900 leap-year bug is accounted for.
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

var isoLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02",
}

var monthNameLayouts = []string{
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"2 January 2006",
	"02-Jan-2006",
	"2-Jan-06",
	"Jan 2, 2006 3:04 PM",
	"Mon, 02 Jan 2006",
}

var spanishMonths = strings.NewReplacer(
	"enero", "January", "febrero", "February", "marzo", "March",
	"abril", "April", "mayo", "May", "junio", "June", "julio", "July",
	"agosto", "August", "septiembre", "September", "setiembre", "September",
	"octubre", "October", "noviembre", "November", "diciembre", "December",
)

// ParseDate accepts the date renderings seen in LMS exports. An empty value yields nil.
func ParseDate(raw string) (*time.Time, error) {
	value := strings.TrimSpace(raw)
	if value == "" || value == "-" {
		return nil, nil
	}

	if serial, err := strconv.ParseFloat(value, 64); err == nil {
		return dateFromSerial(serial, raw)
	}

	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return &t, nil
		}
	}

	if t, ok := parseNumericDate(value); ok {
		return &t, nil
	}

	named := spanishMonths.Replace(strings.ToLower(value))
	named = strings.ReplaceAll(named, " de ", " ")
	for _, layout := range monthNameLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return &t, nil
		}
		if t, err := time.Parse(layout, named); err == nil {
			return &t, nil
		}
	}

	return nil, fmt.Errorf("%w: %q", ErrInvalidDate, value)
}

func dateFromSerial(serial float64, raw string) (*time.Time, error) {
	// Serials below 1 or beyond year 9999 are numbers, not dates.
	if serial < 1 || serial > 2958465 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDate, raw)
	}
	days := math.Floor(serial)
	seconds := math.Round((serial - days) * 86400)
	t := excelEpoch.AddDate(0, 0, int(days)).Add(time.Duration(seconds) * time.Second)
	return &t, nil
}

// parseNumericDate handles d/m/y with "/", "-" or "." separators, an optional
// time suffix, and two or four digit years. Day-first unless the middle part cannot be a month.
func parseNumericDate(value string) (time.Time, bool) {
	datePart, timePart, _ := strings.Cut(value, " ")
	parts := strings.FieldsFunc(datePart, func(r rune) bool {
		return r == '/' || r == '-' || r == '.'
	})
	if len(parts) != 3 {
		return time.Time{}, false
	}

	nums := make([]int, 3)
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil {
			return time.Time{}, false
		}
		nums[i] = n
	}

	day, month, year := nums[0], nums[1], nums[2]
	if month > 12 && day <= 12 {
		day, month = month, day
	}
	if year < 100 {
		year += 2000
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day {
		return time.Time{}, false
	}

	if timePart = strings.TrimSpace(timePart); timePart != "" {
		for _, layout := range []string{"15:04:05", "15:04", "3:04 PM", "3:04:05 PM"} {
			if clock, err := time.Parse(layout, strings.ToUpper(timePart)); err == nil {
				t = t.Add(time.Duration(clock.Hour())*time.Hour +
					time.Duration(clock.Minute())*time.Minute +
					time.Duration(clock.Second())*time.Second)
				break
			}
		}
	}
	return t, true
}

// ParsePercentage reads "85%", "85" or "0.85" into a value clamped to [0, 100].
func ParsePercentage(raw string) (*float64, error) {
	value := strings.TrimSpace(raw)
	if value == "" || value == "-" {
		return nil, nil
	}

	hasSign := strings.HasSuffix(value, "%")
	n, err := parseDecimal(strings.TrimSuffix(value, "%"))
	if err != nil {
		return nil, err
	}
	// a decimal fraction is a ratio; a bare "1" stays 1%
	if !hasSign && n > 0 && n <= 1 && strings.ContainsAny(value, ".,") {
		n *= 100
	}
	n = math.Max(0, math.Min(100, n))
	n = math.Round(n*100) / 100
	return &n, nil
}

// MaxScore and MaxAttempt bound what the evaluation table can store.
const (
	MaxScore   = 9999.99
	MaxAttempt = 999
)

// ParseScore reads a numeric score. An empty value yields nil.
func ParseScore(raw string) (*float64, error) {
	value := strings.TrimSpace(raw)
	if value == "" || value == "-" {
		return nil, nil
	}
	n, err := parseDecimal(strings.TrimSuffix(value, "%"))
	if err != nil {
		return nil, err
	}
	n = math.Round(n*100) / 100
	if n < 0 || n > MaxScore {
		return nil, fmt.Errorf("%w: %q", ErrInvalidNumber, value)
	}
	return &n, nil
}

// ParseAttempt reads a positive attempt number, defaulting to 1.
func ParseAttempt(raw string) (int, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return 1, nil
	}
	n, err := parseDecimal(value)
	if err != nil || n < 1 || n > MaxAttempt || n != math.Trunc(n) {
		return 0, fmt.Errorf("%w: attempt %q", ErrInvalidNumber, value)
	}
	return int(n), nil
}

// parseDecimal accepts both "85.5" and "85,5".
func parseDecimal(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if strings.Count(value, ",") == 1 && !strings.Contains(value, ".") {
		value = strings.Replace(value, ",", ".", 1)
	}
	n, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNumber, value)
	}
	return n, nil
}
