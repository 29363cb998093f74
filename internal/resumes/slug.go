package resumes

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"unicode"
)

// Slugify lowercases the input and collapses every run of non-alphanumeric
// characters into a single hyphen. The result may be empty when the input
// contains no usable characters.
func Slugify(s string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// IsValidSlug reports whether s is a non-empty URL-safe slug.
func IsValidSlug(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r != '-' && !unicode.IsLower(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return !strings.HasPrefix(s, "-") && !strings.HasSuffix(s, "-")
}

var (
	nameAdjectives = []string{
		"amber", "bold", "bright", "calm", "clever", "crimson", "eager",
		"gentle", "golden", "keen", "lively", "mellow", "nimble", "quiet",
		"silver", "steady", "swift", "vivid", "warm", "witty",
	}
	nameNouns = []string{
		"falcon", "harbor", "lantern", "maple", "meadow", "orchid", "otter",
		"pebble", "pine", "raven", "reef", "river", "sparrow", "summit",
		"thicket", "tide", "trail", "valley", "willow", "wren",
	}
)

// RandomName generates a human-readable placeholder title such as
// "Swift Maple 4821", used when an import supplies no title.
func RandomName() string {
	adj := nameAdjectives[randomIndex(len(nameAdjectives))]
	noun := nameNouns[randomIndex(len(nameNouns))]
	num := randomIndex(9000) + 1000
	return fmt.Sprintf("%s %s %d", titleCase(adj), titleCase(noun), num)
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func randomIndex(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(v.Int64())
}
