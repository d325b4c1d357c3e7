package cli

import (
	"testing"
	"time"

	"github.com/gravityplanner/gravity/internal/models"
	"github.com/gravityplanner/gravity/internal/store"
)

func TestParseWhen(t *testing.T) {
	ref := time.Date(2026, 3, 14, 12, 0, 0, 0, time.Local)

	got, err := ParseWhen("09:30", ref)
	if err != nil {
		t.Fatalf("ParseWhen: %v", err)
	}
	want := time.Date(2026, 3, 14, 9, 30, 0, 0, time.Local)
	if !got.Equal(want) {
		t.Errorf("HH:MM = %v, want %v", got, want)
	}

	got, err = ParseWhen("2026-03-10 22:15", ref)
	if err != nil {
		t.Fatalf("ParseWhen: %v", err)
	}
	want = time.Date(2026, 3, 10, 22, 15, 0, 0, time.Local)
	if !got.Equal(want) {
		t.Errorf("full = %v, want %v", got, want)
	}

	if _, err := ParseWhen("soonish", ref); err == nil {
		t.Errorf("garbage accepted")
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{45 * time.Second, "45s"},
		{12 * time.Minute, "12m"},
		{time.Hour + 5*time.Minute, "1h05m"},
		{-time.Minute, "0s"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.d); got != tt.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestResolveMember(t *testing.T) {
	s := store.Default()
	s = store.Reduce(s, store.AddMember{ID: "kid-1", Name: "Kiddo", Role: models.RoleChild})

	m, err := ResolveMember(s, "")
	if err != nil || m.ID != s.CurrentMemberID {
		t.Errorf("default member = %+v, %v", m, err)
	}

	m, err = ResolveMember(s, "kiddo")
	if err != nil || m.ID != "kid-1" {
		t.Errorf("name lookup = %+v, %v", m, err)
	}

	m, err = ResolveMember(s, "kid-1")
	if err != nil || m.Name != "Kiddo" {
		t.Errorf("id lookup = %+v, %v", m, err)
	}

	if _, err := ResolveMember(s, "stranger"); err == nil {
		t.Errorf("unknown member accepted")
	}
}

func TestExpandID(t *testing.T) {
	s := store.Default()
	s = store.Reduce(s, store.AddNote{ID: "abcd1234-xxxx", MemberID: "me", Title: "x",
		StartTime: time.Now()})
	s = store.Reduce(s, store.AddNote{ID: "abzz9999-yyyy", MemberID: "me", Title: "y",
		StartTime: time.Now()})

	id, err := expandID(s, "abcd")
	if err != nil || id != "abcd1234-xxxx" {
		t.Errorf("prefix = %q, %v", id, err)
	}
	if _, err := expandID(s, "nope"); err == nil {
		t.Errorf("missing id accepted")
	}
	if _, err := expandID(s, "ab"); err == nil {
		t.Errorf("short ambiguous prefix accepted")
	}
}
