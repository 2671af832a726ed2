package widget

import "strings"

// TagSet is an ordered set of case-sensitive tags.
type TagSet struct {
	items []string
}

// Add trims tag and appends it unless it is empty or already present.
func (s *TagSet) Add(tag string) (string, bool) {
	tag = strings.TrimSpace(tag)
	if tag == "" || s.Contains(tag) {
		return tag, false
	}
	s.items = append(s.items, tag)
	return tag, true
}

// Remove deletes tag, keeping the order of the rest.
func (s *TagSet) Remove(tag string) bool {
	for i, t := range s.items {
		if t == tag {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return true
		}
	}
	return false
}

// Contains is an exact, case-sensitive membership check.
func (s *TagSet) Contains(tag string) bool {
	for _, t := range s.items {
		if t == tag {
			return true
		}
	}
	return false
}

// Items returns a copy of the tags in insertion order.
func (s *TagSet) Items() []string {
	return append([]string(nil), s.items...)
}

func (s *TagSet) Len() int { return len(s.items) }

// Last returns the most recently added tag.
func (s *TagSet) Last() (string, bool) {
	if len(s.items) == 0 {
		return "", false
	}
	return s.items[len(s.items)-1], true
}

func (s *TagSet) Reset() { s.items = nil }
