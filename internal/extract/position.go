package extract

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/KevinKickass/OpenPanelIO/internal/catalog"
)

// CleanPosition turns an attribute text into a drawn position "dd.ddddd".
//
//	=Z01+01055-200U0 -> 01.05500
//	BG_0105500       -> 01.05500
//	BG12             -> 12.00000
func CleanPosition(text, prefix string) string {
	if catalog.IsSiemensCode(text) {
		if pos, ok := siemensPosition(text); ok {
			return pos
		}
		return text
	}

	rest := text
	if strings.HasPrefix(text, prefix+"_") {
		rest = text[len(prefix)+1:]
	} else if strings.HasPrefix(text, prefix) {
		rest = text[len(prefix):]
	}

	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, rest)

	switch {
	case digits == "":
		return prefix
	case len(digits) >= 7:
		return digits[:2] + "." + digits[2:7]
	case len(digits) >= 2:
		return digits[:2] + "." + padRight(digits[2:], 5)
	default:
		padded := padRight(digits, 7)
		return padded[:2] + "." + padded[2:7]
	}
}

// siemensPosition extracts the part between '+' and the next '-'.
func siemensPosition(text string) (string, bool) {
	plus := strings.Index(text, "+")
	if plus < 0 {
		return "", false
	}
	part := text[plus+1:]
	if dash := strings.Index(part, "-"); dash >= 0 {
		part = part[:dash]
	}
	if len(part) < 2 {
		return "", false
	}
	return part[:2] + "." + padRight(part[2:], 5), true
}

func padRight(s string, n int) string {
	if len(s) >= n {
		return s
	}
	return s + strings.Repeat("0", n-len(s))
}

// positionSuffix is the part after the separator, used in signal patterns.
func positionSuffix(position string) string {
	if i := strings.Index(position, "."); i >= 0 {
		return position[i+1:]
	}
	return position
}

// naturalLess orders positions so that embedded numbers compare numerically.
func naturalLess(a, b string) bool {
	ca, cb := naturalChunks(a), naturalChunks(b)
	for i := 0; i < len(ca) && i < len(cb); i++ {
		x, y := ca[i], cb[i]
		if x.isNum && y.isNum {
			if x.num != y.num {
				return x.num < y.num
			}
			continue
		}
		if x.text != y.text {
			return x.text < y.text
		}
	}
	return len(ca) < len(cb)
}

type chunk struct {
	text  string
	num   uint64
	isNum bool
}

func naturalChunks(s string) []chunk {
	chunks := make([]chunk, 0, 4)
	for len(s) > 0 {
		isDigit := unicode.IsDigit(rune(s[0]))
		end := strings.IndexFunc(s, func(r rune) bool { return unicode.IsDigit(r) != isDigit })
		if end < 0 {
			end = len(s)
		}
		part := s[:end]
		s = s[end:]

		if isDigit {
			if n, err := strconv.ParseUint(part, 10, 64); err == nil {
				chunks = append(chunks, chunk{text: part, num: n, isNum: true})
				continue
			}
		}
		chunks = append(chunks, chunk{text: strings.ToLower(part)})
	}
	return chunks
}
