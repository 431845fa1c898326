// Package normalize holds the shared field heuristics every driver
// feeds its raw text through. Everything here is a pure function over
// strings; no I/O, no clock.
package normalize

import (
	"regexp"
	"strconv"
	"strings"
)

// DefaultThousandsFloor: a parsed figure below this is read as a
// thousands shorthand ("45-60" meaning 45k-60k).
const DefaultThousandsFloor = 1000

var (
	rangeRe  = regexp.MustCompile(`(\d+)(k?)\s*(?:-|to)\s*(\d+)(k?)`)
	singleRe = regexp.MustCompile(`(\d+)(k?)`)
)

// ParseSalary extracts a (min, max) pair from free salary text.
// Total over all inputs: no match returns (nil, nil), a single figure
// is used for both ends. Currency symbols and separators are stripped
// before matching. Only a "k" adjoining a matched figure marks
// thousands; a stray "k" elsewhere in the text ("401k match", "per
// week") must not inflate the figures. A figure under floor is also
// read as thousands shorthand.
func ParseSalary(s string, floor int) (min, max *int) {
	if floor <= 0 {
		floor = DefaultThousandsFloor
	}
	cleaned := strings.ToLower(strings.TrimSpace(s))
	cleaned = strings.NewReplacer("$", "", "£", "", "€", "", ",", "").Replace(cleaned)
	if cleaned == "" {
		return nil, nil
	}

	if m := rangeRe.FindStringSubmatch(cleaned); m != nil {
		lo, _ := strconv.Atoi(m[1])
		hi, _ := strconv.Atoi(m[3])
		if m[2] == "k" || m[4] == "k" || lo < floor {
			lo *= 1000
			hi *= 1000
		}
		return &lo, &hi
	}

	if m := singleRe.FindStringSubmatch(cleaned); m != nil {
		v, _ := strconv.Atoi(m[1])
		if m[2] == "k" || v < floor {
			v *= 1000
		}
		return &v, &v
	}

	return nil, nil
}
