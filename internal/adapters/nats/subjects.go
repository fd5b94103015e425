package natsadapter

import "strings"

// Subjects. Everything lives under litterbugs.> so the WebSocket relay
// can forward it with a single subscription.
const (
	SubjectRoot           = "litterbugs.>"
	SubjectRoutePublished = "litterbugs.routes.published"
	subjectBadgePrefix    = "litterbugs.badges."
	SubjectBadgesAll      = subjectBadgePrefix + "*"
)

// BadgeSubject is the subject badge awards for userID are published on.
func BadgeSubject(userID string) string {
	return subjectBadgePrefix + sanitizeToken(userID)
}

// sanitizeToken makes s safe to use as a single subject token.
func sanitizeToken(s string) string {
	if s == "" {
		return "_"
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case '.', '*', '>', ' ', '\t', '\r', '\n':
			return '_'
		}
		return r
	}, s)
}
