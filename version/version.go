// Package version implements the generic, ecosystem-agnostic version
// comparison algorithm shared by most of the package variants (spec §4.1):
// a segment-wise numeric/alphabetic walk with a distinguished "~"
// pre-release marker.
//
// The tokenizer and walk are a generalization of the RPM vercmp algorithm
// (see the teacher's internal/rpmver package), adjusted to match the
// original notus-scanner's "split into digit runs and single characters"
// behavior rather than RPM's "maximal alpha run" behavior.
package version

import "strings"

// Comparison is the result of comparing two version strings.
type Comparison int

const (
	Equal Comparison = iota
	ANewer
	BNewer
)

// String implements fmt.Stringer.
func (c Comparison) String() string {
	switch c {
	case Equal:
		return "EQUAL"
	case ANewer:
		return "A_NEWER"
	case BNewer:
		return "B_NEWER"
	default:
		return "UNKNOWN"
	}
}

// Compare implements the version comparator from spec §4.1.
//
// Each string is split into maximal runs of digits, with every other rune
// (including the tilde pre-release marker) forming a token of its own. The
// tokens are walked pairwise: matching numeric runs compare as integers,
// matching alphabetic characters compare lexicographically, and "~" always
// sorts before anything else, including the point where one side runs out
// of tokens.
func Compare(a, b string) Comparison {
	if a == b {
		return Equal
	}

	ta, tb := tokenize(a), tokenize(b)
	for i := 0; ; i++ {
		switch {
		case i >= len(ta) && i >= len(tb):
			return Equal
		case i >= len(ta):
			if tb[i] == "~" {
				return ANewer
			}
			return BNewer
		case i >= len(tb):
			if ta[i] == "~" {
				return BNewer
			}
			return ANewer
		}

		at, bt := ta[i], tb[i]
		if at == bt {
			continue
		}

		// The tilde is the pre-release marker: whichever side has it at
		// this position is always older, regardless of what the other
		// token is.
		if at == "~" || bt == "~" {
			if at == "~" {
				return BNewer
			}
			return ANewer
		}

		aNum, bNum := isDigits(at), isDigits(bt)
		switch {
		case aNum && bNum:
			switch compareNumeric(at, bt) {
			case -1:
				return BNewer
			case 1:
				return ANewer
			default:
				continue
			}
		case aNum != bNum:
			// Numeric segments are always newer than non-numeric ones.
			if aNum {
				return ANewer
			}
			return BNewer
		}

		aAlpha, bAlpha := isAlpha(at), isAlpha(bt)
		switch {
		case aAlpha && bAlpha:
			if at < bt {
				return BNewer
			}
			return ANewer
		case aAlpha != bAlpha:
			// A separator sorts newer than a letter at the same position.
			if aAlpha {
				return BNewer
			}
			return ANewer
		default:
			// Two distinct non-alphanumeric separators: compare as-is.
			if at < bt {
				return BNewer
			}
			return ANewer
		}
	}
}

// tokenize splits a version string into maximal digit runs and
// single-rune tokens, mirroring the source's "(\d+|.)" split.
func tokenize(s string) []string {
	rs := []rune(s)
	toks := make([]string, 0, len(rs))
	for i := 0; i < len(rs); {
		if isDigitRune(rs[i]) {
			j := i
			for j < len(rs) && isDigitRune(rs[j]) {
				j++
			}
			toks = append(toks, string(rs[i:j]))
			i = j
			continue
		}
		toks = append(toks, string(rs[i]))
		i++
	}
	return toks
}

// compareNumeric compares two digit-run tokens as integers, leading-zero
// insensitive, without risking overflow on arbitrarily long runs.
func compareNumeric(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	switch {
	case len(a) > len(b):
		return 1
	case len(a) < len(b):
		return -1
	default:
		return strings.Compare(a, b)
	}
}

func isDigitRune(r rune) bool { return r >= '0' && r <= '9' }

func isDigits(s string) bool {
	for _, r := range s {
		if !isDigitRune(r) {
			return false
		}
	}
	return len(s) > 0
}

func isAlpha(s string) bool {
	if len(s) != 1 {
		return false
	}
	r := rune(s[0])
	return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'
}
