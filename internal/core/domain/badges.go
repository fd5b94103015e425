package domain

// Badge is an achievement a user can earn.
type Badge struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
}

// Totals are the cumulative counters badges are evaluated against.
type Totals struct {
	Pins           int
	DistanceMeters float64
	Routes         int
}

type badgeRule struct {
	badge  Badge
	earned func(Totals) bool
}

var badgeRules = []badgeRule{
	{
		badge:  Badge{Key: "first_find", Name: "First Find", Icon: "🗑️", Description: "Pinned your very first piece of litter."},
		earned: func(t Totals) bool { return t.Pins >= 1 },
	},
	{
		badge:  Badge{Key: "trailblazer", Name: "Trailblazer", Icon: "🥾", Description: "Published your first cleanup route."},
		earned: func(t Totals) bool { return t.Routes >= 1 },
	},
	{
		badge:  Badge{Key: "collector", Name: "Collector", Icon: "🛍️", Description: "Pinned a total of 50 items."},
		earned: func(t Totals) bool { return t.Pins >= 50 },
	},
	{
		badge:  Badge{Key: "marathoner", Name: "Marathoner", Icon: "🏃", Description: "Cleaned up a marathon's worth of distance."},
		earned: func(t Totals) bool { return t.DistanceMeters >= 42195 },
	},
	{
		badge:  Badge{Key: "community_pillar", Name: "Community Pillar", Icon: "🏛️", Description: "Published 100 routes. You are a legend!"},
		earned: func(t Totals) bool { return t.Routes >= 100 },
	},
}

// AllBadges returns the badge catalog in display order.
func AllBadges() []Badge {
	out := make([]Badge, len(badgeRules))
	for i, r := range badgeRules {
		out[i] = r.badge
	}
	return out
}

// LookupBadge returns the catalog entry for key.
func LookupBadge(key string) (Badge, bool) {
	for _, r := range badgeRules {
		if r.badge.Key == key {
			return r.badge, true
		}
	}
	return Badge{}, false
}

// NewBadges returns the keys earned at totals that are not in have.
func NewBadges(t Totals, have map[string]bool) []string {
	var out []string
	for _, r := range badgeRules {
		if have[r.badge.Key] {
			continue
		}
		if r.earned(t) {
			out = append(out, r.badge.Key)
		}
	}
	return out
}

// EarnedBadges resolves a profile's badge set against the catalog, in
// catalog order. Unknown keys are skipped.
func EarnedBadges(have map[string]bool) []Badge {
	out := []Badge{}
	for _, r := range badgeRules {
		if have[r.badge.Key] {
			out = append(out, r.badge)
		}
	}
	return out
}
