package ui

import (
	"math"
	"testing"
)

func TestSlider_SetFromCursor(t *testing.T) {
	tests := []struct {
		name string
		step float64
		mx   float64
		want float64
	}{
		{"left end", 0, 10, 0},
		{"middle", 0, 60, 5},
		{"past right end clamps", 0, 500, 10},
		{"before left end clamps", 0, -50, 0},
		{"snaps to step", 1, 64, 5},
		{"snaps up", 1, 66, 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSlider(10, 0, 100, "v", 0, 10, 2)
			s.Step = tt.step
			s.SetFromCursor(tt.mx)
			if math.Abs(s.Value-tt.want) > 1e-9 {
				t.Errorf("Value = %v; want %v", s.Value, tt.want)
			}
		})
	}
}

func TestSlider_Changed(t *testing.T) {
	s := NewSlider(0, 0, 100, "v", 0, 1, 0.5)
	if s.Changed() {
		t.Fatal("new slider reports a change")
	}
	s.SetValue(0.5)
	if s.Changed() {
		t.Error("same value reported as a change")
	}
	s.SetValue(0.75)
	if !s.Changed() {
		t.Error("new value not reported")
	}
	if s.Changed() {
		t.Error("Changed did not reset")
	}
	if got := s.Ratio(); got != 0.75 {
		t.Errorf("Ratio = %v; want 0.75", got)
	}
}

func TestNewSlider_ClampsInitialValue(t *testing.T) {
	if s := NewSlider(0, 0, 10, "v", 1, 2, 7); s.Value != 2 {
		t.Errorf("Value = %v; want 2", s.Value)
	}
}

func TestCheckbox_Press(t *testing.T) {
	c := NewCheckbox(0, 0, "c", false)

	// 1. Held for three frames toggles once
	for range 3 {
		c.Press(true, true)
	}
	if !c.Value || !c.Changed() {
		t.Fatalf("Value = %v after first press; want true and a change", c.Value)
	}

	// 2. Release then press again toggles back
	c.Press(true, false)
	c.Press(true, true)
	if c.Value {
		t.Error("second click did not toggle back")
	}

	// 3. Clicking elsewhere does nothing
	c.Press(false, false)
	c.Changed()
	c.Press(false, true)
	if c.Value || c.Changed() {
		t.Error("click outside the box toggled it")
	}
}

func TestButton_Press(t *testing.T) {
	clicks := 0
	b := NewButton(0, 0, 50, 20, "go", func() { clicks++ })
	if !b.Contains(25, 10) || b.Contains(51, 10) {
		t.Fatal("Contains disagrees with the button rectangle")
	}
	b.Press(true, true)
	b.Press(true, true)
	b.Press(true, false)
	b.Press(true, true)
	if clicks != 2 {
		t.Errorf("clicks = %d; want 2", clicks)
	}
}

func TestUIPanel_Layout(t *testing.T) {
	p := NewUIPanel("Tuning", 0, 0, 200, 120)
	p.AddSection("A")
	first := p.AddSlider("one", 0, 1, 0.5)
	second := p.AddIntSlider("two", 0, 10, 3)
	p.EndSection()
	p.AddSection("B")
	box := p.AddCheckbox("three", true)
	p.EndSection()

	// 1. Widgets stack below their section headers
	if !(first.Y < second.Y && second.Y < box.Y) {
		t.Fatalf("widgets out of order: %v %v %v", first.Y, second.Y, box.Y)
	}
	wantFirst := titleHeight + sectionHeight + 15
	if first.Y != wantFirst {
		t.Errorf("first.Y = %v; want %v", first.Y, wantFirst)
	}

	// 2. Scrolling moves widgets up and clamps to the content
	p.Scroll(1000)
	maxScroll := p.TotalHeight() - p.Height + 40
	if p.ScrollOffset != maxScroll {
		t.Errorf("ScrollOffset = %v; want %v", p.ScrollOffset, maxScroll)
	}
	if first.Y != wantFirst-maxScroll {
		t.Errorf("first.Y after scroll = %v; want %v", first.Y, wantFirst-maxScroll)
	}
	p.Scroll(-5000)
	if p.ScrollOffset != 0 || first.Y != wantFirst {
		t.Errorf("scroll back: offset %v, first.Y %v", p.ScrollOffset, first.Y)
	}

	// 3. Captions carry the value
	if got := p.Widgets[1].Caption(); got != "two: 3" {
		t.Errorf("Caption = %q", got)
	}
}
