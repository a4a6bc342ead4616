package model

import "testing"

func TestSlide_IsEmpty(t *testing.T) {
	tests := []struct {
		slide Slide
		want  bool
	}{
		{Slide{}, true},
		{Slide{Title: "  ", Body: "\n\t"}, true},
		{Slide{Title: "Intro"}, false},
		{Slide{Body: "text"}, false},
	}
	for _, tt := range tests {
		if got := tt.slide.IsEmpty(); got != tt.want {
			t.Errorf("IsEmpty(%+v) = %v, want %v", tt.slide, got, tt.want)
		}
	}
}

func TestContentItem_Validate(t *testing.T) {
	black := MustParseColor("#000000")
	white := MustParseColor("#ffffff")

	if err := (ContentItem{Background: black, Foreground: white}).Validate(); err != nil {
		t.Errorf("valid item rejected: %v", err)
	}
	if err := (ContentItem{Foreground: white}).Validate(); err == nil {
		t.Error("expected error for missing background")
	}
	if err := (ContentItem{Background: black}).Validate(); err == nil {
		t.Error("expected error for missing foreground")
	}
}
