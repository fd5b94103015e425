package http

import (
	"errors"
	"testing"
)

func TestMatchPattern(t *testing.T) {
	tests := []struct {
		path, pattern string
		want          bool
	}{
		{"/v1/leaderboard/totalPins", "/v1/leaderboard/:metric", true},
		{"/v1/leaderboard", "/v1/leaderboard/:metric", false},
		{"/v1/leaderboard/totalPins/extra", "/v1/leaderboard/:metric", false},
		{"/v1/badges", "/v1/badges", true},
		{"/v1/routes/abc", "/v1/profiles/:id", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := matchPattern(tt.path, tt.pattern); got != tt.want {
				t.Errorf("matchPattern(%q, %q) = %v, want %v", tt.path, tt.pattern, got, tt.want)
			}
		})
	}
}

func TestWSSubject(t *testing.T) {
	tests := []struct {
		msg     wsMessage
		subject string
		ok      bool
	}{
		{wsMessage{}, "litterbugs.routes.published", true},
		{wsMessage{Channel: "routes"}, "litterbugs.routes.published", true},
		{wsMessage{Channel: "badges", UserID: "u.1"}, "litterbugs.badges.u_1", true},
		{wsMessage{Channel: "badges"}, "litterbugs.badges.*", true},
		{wsMessage{Channel: "vehicles"}, "", false},
	}
	for _, tt := range tests {
		subject, ok := wsSubject(tt.msg)
		if subject != tt.subject || ok != tt.ok {
			t.Errorf("wsSubject(%+v) = %q, %v; want %q, %v", tt.msg, subject, ok, tt.subject, tt.ok)
		}
	}
}

func TestCacheControlFor(t *testing.T) {
	tests := map[string]string{
		"/v1/me/sessions":   "private, no-store",
		"/v1/meetups":       "public, max-age=30",
		"/v1/routes/nearby": "public, max-age=120",
		"/v1/badges":        "public, max-age=3600",
		"/unknown":          "",
	}
	for path, want := range tests {
		if got := cacheControlFor(path); got != want {
			t.Errorf("cacheControlFor(%q) = %q, want %q", path, got, want)
		}
	}
}

type fakeSub struct{ closed bool }

func (f *fakeSub) Unsubscribe() error {
	f.closed = true
	return nil
}

func TestWSSubscriptions_FailedDefaultClosesOpened(t *testing.T) {
	opened := map[string]*fakeSub{}
	subscribe := func(subject string) (wsSubscription, error) {
		if subject == "badges.u1" {
			return nil, errors.New("permissions violation")
		}
		f := &fakeSub{}
		opened[subject] = f
		return f, nil
	}

	subs := wsSubscriptions{}
	err := subs.subscribeAll([]string{"routes.published", "badges.u1"}, subscribe)
	if err == nil {
		t.Fatal("expected an error")
	}
	if len(subs) != 0 {
		t.Errorf("expected no open feeds, got %d", len(subs))
	}
	if f := opened["routes.published"]; f == nil || !f.closed {
		t.Error("feed opened before the failure was not closed")
	}
}

func TestWSSubscriptions_CloseAll(t *testing.T) {
	a, b := &fakeSub{}, &fakeSub{}
	subs := wsSubscriptions{"a": a, "b": b}
	subs.closeAll()
	if !a.closed || !b.closed || len(subs) != 0 {
		t.Errorf("closeAll left feeds open: a=%v b=%v len=%d", a.closed, b.closed, len(subs))
	}
}
