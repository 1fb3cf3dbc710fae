// Package sourcecontrol provides domain types for source control operations.
package sourcecontrol

import (
	"testing"
	"time"
)

func TestNewTag(t *testing.T) {
	tag := NewTag("v1.0.0", CommitHash("abc123"))

	if tag.Name() != "v1.0.0" {
		t.Errorf("Name() = %v, want v1.0.0", tag.Name())
	}
	if tag.Hash() != CommitHash("abc123") {
		t.Errorf("Hash() = %v, want abc123", tag.Hash())
	}
	if tag.IsAnnotated() {
		t.Error("NewTag should create a lightweight tag")
	}
	if !tag.IsLightweight() {
		t.Error("IsLightweight() should be true for lightweight tags")
	}
	if !tag.Date().IsZero() {
		t.Error("lightweight tags carry no date of their own")
	}
}

func TestNewAnnotatedTag(t *testing.T) {
	tagger := Author{Name: "Release Bot", Email: "bot@example.com"}
	date := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	tag := NewAnnotatedTag("v2.0.0", CommitHash("def456"), "Release 2.0.0", tagger, date)

	if !tag.IsAnnotated() {
		t.Error("NewAnnotatedTag should create an annotated tag")
	}
	if tag.IsLightweight() {
		t.Error("IsLightweight() should be false for annotated tags")
	}
	if tag.Message() != "Release 2.0.0" {
		t.Errorf("Message() = %v, want Release 2.0.0", tag.Message())
	}
	if tag.Tagger() != tagger {
		t.Errorf("Tagger() = %v, want %v", tag.Tagger(), tagger)
	}
	if !tag.Date().Equal(date) {
		t.Errorf("Date() = %v, want %v", tag.Date(), date)
	}
}

func TestTag_HasPrefix(t *testing.T) {
	tests := []struct {
		name   string
		tag    string
		prefix string
		want   bool
	}{
		{"v prefix", "v1.0.0", "v", true},
		{"no match", "1.0.0", "v", false},
		{"longer prefix", "release-1.0.0", "release-", true},
		{"empty prefix", "v1.0.0", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tag := NewTag(tt.tag, "abc")
			if got := tag.HasPrefix(tt.prefix); got != tt.want {
				t.Errorf("HasPrefix(%q) = %v, want %v", tt.prefix, got, tt.want)
			}
		})
	}
}

func TestTag_WithoutPrefix(t *testing.T) {
	tag := NewTag("v1.2.3", "abc")
	if got := tag.WithoutPrefix("v"); got != "1.2.3" {
		t.Errorf("WithoutPrefix(v) = %v, want 1.2.3", got)
	}
	if got := tag.WithoutPrefix("x"); got != "v1.2.3" {
		t.Errorf("WithoutPrefix(x) = %v, want v1.2.3", got)
	}
}

func TestTagList_Names(t *testing.T) {
	tags := TagList{
		NewTag("v1.0.0", "a"),
		NewTag("v1.1.0", "b"),
	}
	names := tags.Names()
	if len(names) != 2 || names[0] != "v1.0.0" || names[1] != "v1.1.0" {
		t.Errorf("Names() = %v", names)
	}
}

func TestTagList_ByName(t *testing.T) {
	tags := TagList{
		NewTag("v1.0.0", "a"),
		NewTag("v1.1.0", "b"),
	}

	if tag := tags.ByName("v1.1.0"); tag == nil || tag.Hash() != "b" {
		t.Errorf("ByName(v1.1.0) = %v", tag)
	}
	if tag := tags.ByName("v9.9.9"); tag != nil {
		t.Errorf("ByName should return nil for missing tags, got %v", tag)
	}
}

func TestTagList_PointingAt(t *testing.T) {
	tags := TagList{
		NewTag("v1.0.0", "a"),
		NewTag("v1.0.0-rc.1", "a"),
		NewTag("v1.1.0", "b"),
	}

	at := tags.PointingAt("a")
	if len(at) != 2 {
		t.Fatalf("PointingAt(a) returned %d tags, want 2", len(at))
	}
	if at[0].Name() != "v1.0.0" || at[1].Name() != "v1.0.0-rc.1" {
		t.Errorf("PointingAt(a) = %v, %v", at[0].Name(), at[1].Name())
	}

	if got := tags.PointingAt("zzz"); got != nil {
		t.Errorf("PointingAt(zzz) should be empty, got %v", got)
	}
}

func TestTagList_FilterByPrefix(t *testing.T) {
	tags := TagList{
		NewTag("v1.0.0", "a"),
		NewTag("release-2.0.0", "b"),
		NewTag("v1.1.0", "c"),
	}

	filtered := tags.FilterByPrefix("v")
	if len(filtered) != 2 {
		t.Fatalf("FilterByPrefix(v) returned %d tags, want 2", len(filtered))
	}
	for _, tag := range filtered {
		if !tag.HasPrefix("v") {
			t.Errorf("tag %v does not have the v prefix", tag.Name())
		}
	}
}
