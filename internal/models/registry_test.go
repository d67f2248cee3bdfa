package models

import (
	"errors"
	"strings"
	"testing"
)

func TestNewRoster(t *testing.T) {
	if _, err := NewRoster(); !errors.Is(err, ErrEmptyRoster) {
		t.Errorf("empty roster: got %v, want ErrEmptyRoster", err)
	}

	_, err := NewRoster(Participant{Name: "Lena"}, Participant{Name: " "})
	if err == nil || !strings.Contains(err.Error(), "empty name") {
		t.Errorf("blank name: got %v", err)
	}

	_, err = NewRoster(Participant{Name: "Lena"}, Participant{Name: "Lena"})
	if err == nil || !strings.Contains(err.Error(), "duplicate name") {
		t.Errorf("duplicate name: got %v", err)
	}
}

func TestRoster_RoundRobin(t *testing.T) {
	r := MustRoster(Participant{Name: "A"}, Participant{Name: "B"}, Participant{Name: "C"})

	got := []int{}
	i := 0
	for n := 0; n < 5; n++ {
		i = r.Next(i)
		got = append(got, i)
	}
	want := []int{1, 2, 0, 1, 2}
	for n := range want {
		if got[n] != want[n] {
			t.Fatalf("Next sequence = %v, want %v", got, want)
		}
	}

	if r.Moderator().Name != "A" {
		t.Errorf("Moderator() = %q, want A", r.Moderator().Name)
	}
	if r.Valid(3) || r.Valid(-1) || !r.Valid(2) {
		t.Error("Valid() bounds wrong")
	}
}

func TestRoster_AllIsCopy(t *testing.T) {
	r := DefaultRoster()
	all := r.All()
	all[0].Name = "changed"
	if r.Get(0).Name != "Lena" {
		t.Error("All() must not expose internal state")
	}
}

func TestParticipantLabel(t *testing.T) {
	if got := (Participant{Name: "Lena", Role: "Moderatorin"}).Label(); got != "Lena (Moderatorin)" {
		t.Errorf("Label() = %q", got)
	}
	if got := (Participant{Name: "Solo"}).Label(); got != "Solo" {
		t.Errorf("Label() without role = %q", got)
	}
}

func TestDefaultFeatures(t *testing.T) {
	features := DefaultFeatures()
	if len(features) != 4 {
		t.Fatalf("got %d features, want 4", len(features))
	}
	for _, f := range features {
		if f.Title == "" || f.Summary == "" || len(f.Details) == 0 {
			t.Errorf("incomplete feature %+v", f)
		}
	}
}
