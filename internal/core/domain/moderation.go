package domain

import "strings"

var profanityList = []string{"word1", "word2", "word3"}

// ContainsProfanity reports whether any text contains a blocked word,
// case-insensitively.
func ContainsProfanity(texts ...string) bool {
	for _, t := range texts {
		lower := strings.ToLower(t)
		for _, w := range profanityList {
			if strings.Contains(lower, w) {
				return true
			}
		}
	}
	return false
}
