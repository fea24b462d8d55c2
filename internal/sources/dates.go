package sources

import (
	"regexp"
	"strconv"
	"time"

	"golang.org/x/text/width"

	"github.com/merchwatch/merchwatch/internal/domain"
)

var (
	// monthDayPattern matches human-readable "N月N日" date headers.
	monthDayPattern = regexp.MustCompile(`([0-9]{1,2})月([0-9]{1,2})日`)
	// urlDatePattern matches a YYYYMMDD / YYYY-MM-DD token embedded in a URL.
	urlDatePattern = regexp.MustCompile(`(20[0-9]{2})[-/]?([01][0-9])[-/]?([0-3][0-9])`)
)

// InferYear returns the most recent year for which (month, day) is not in
// the future relative to now. A January sighting of a "12月25日" header
// therefore resolves to last year's December, not the upcoming one.
func InferYear(month, day int, now time.Time) int {
	year := now.Year()
	candidate := time.Date(year, time.Month(month), day, 0, 0, 0, 0, now.Location())
	if candidate.After(now) {
		return year - 1
	}
	return year
}

// ExtractEventDate derives an event date from a "N月N日" style header in the
// given text. The year is inferred via InferYear. Text without a date token
// or with an invalid calendar date (e.g. 2月30日) yields nil.
func ExtractEventDate(text string, now time.Time) *time.Time {
	matches := monthDayPattern.FindStringSubmatch(width.Narrow.String(text))
	if matches == nil {
		return nil
	}

	month, _ := strconv.Atoi(matches[1])
	day, _ := strconv.Atoi(matches[2])

	return makeDate(InferYear(month, day, now), month, day)
}

// DateFromURL derives an event date from a date token embedded in the source
// URL, e.g. a "/collections/restock-20250615" listing page.
func DateFromURL(url string, now time.Time) *time.Time {
	matches := urlDatePattern.FindStringSubmatch(url)
	if matches == nil {
		return nil
	}

	year, _ := strconv.Atoi(matches[1])
	month, _ := strconv.Atoi(matches[2])
	day, _ := strconv.Atoi(matches[3])
	if year > now.Year() {
		return nil
	}

	return makeDate(year, month, day)
}

// makeDate builds a midnight JST date, rejecting values time.Date would
// silently normalize (such as February 30th).
func makeDate(year, month, day int) *time.Time {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return nil
	}

	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, domain.JST)
	if int(date.Month()) != month || date.Day() != day {
		return nil
	}

	return &date
}
