package sources

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/width"
)

// priceRunPattern matches the first digit run, allowing grouping separators.
var priceRunPattern = regexp.MustCompile(`[0-9][0-9,]*`)

// ParsePrice extracts an integer yen amount from price text such as
// "¥1,280" or "１，２８０円". Full-width digits and separators are folded to
// their narrow forms first. Text without digits yields nil, never an error.
func ParsePrice(text string) *int64 {
	folded := width.Narrow.String(text)

	run := priceRunPattern.FindString(folded)
	if run == "" {
		return nil
	}

	value, err := strconv.ParseInt(strings.ReplaceAll(run, ",", ""), 10, 64)
	if err != nil || value < 0 {
		return nil
	}

	return &value
}
