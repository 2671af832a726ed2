package widget

import "testing"

func TestTagSet(t *testing.T) {
	var s TagSet

	if _, ok := s.Last(); ok {
		t.Fatal("expected empty set to have no last tag")
	}

	for _, tag := range []string{"b", "a", "b", " a ", "c"} {
		s.Add(tag)
	}

	got := s.Items()
	want := []string{"b", "a", "c"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: expected %q, got %q", i, want[i], got[i])
		}
	}

	got[0] = "mutated"
	if s.Items()[0] != "b" {
		t.Error("Items must return a copy")
	}

	if !s.Remove("a") || s.Remove("a") {
		t.Error("expected a single successful removal")
	}
	if last, _ := s.Last(); last != "c" {
		t.Errorf("expected last tag c, got %q", last)
	}

	s.Reset()
	if s.Len() != 0 {
		t.Errorf("expected empty set after reset, got %d", s.Len())
	}
}
