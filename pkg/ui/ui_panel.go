package ui

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	titleHeight   = 30.0
	sectionHeight = 25.0
)

// UIWidget is an interface for all UI widgets
type UIWidget interface {
	Update()
	Draw(screen *ebiten.Image)
	GetHeight() float64
	// Caption is the text printed above the widget.
	Caption() string
	// MoveTo places the widget's top left corner.
	MoveTo(x, y float64)
}

// SliderWrapper wraps Slider to implement UIWidget
type SliderWrapper struct {
	*Slider
	// Format renders the value next to the label.
	Format string
}

func (s *SliderWrapper) GetHeight() float64 {
	return s.H + 25 // Slider height + label space
}

func (s *SliderWrapper) Caption() string {
	return fmt.Sprintf("%s: "+s.Format, s.Label, s.Value)
}

func (s *SliderWrapper) MoveTo(x, y float64) { s.X, s.Y = x, y }

// CheckboxWrapper wraps Checkbox to implement UIWidget
type CheckboxWrapper struct {
	*Checkbox
}

func (c *CheckboxWrapper) GetHeight() float64 {
	return c.Size + 20
}

func (c *CheckboxWrapper) Caption() string { return c.Label }

func (c *CheckboxWrapper) MoveTo(x, y float64) { c.X, c.Y = x, y }

// ButtonWrapper wraps Button to implement UIWidget
type ButtonWrapper struct {
	*Button
}

func (b *ButtonWrapper) GetHeight() float64 {
	return b.Height + 20
}

func (b *ButtonWrapper) Caption() string { return "" }

func (b *ButtonWrapper) MoveTo(x, y float64) { b.X, b.Y = x, y }

// UIPanel manages a collection of UI widgets in a scrollable panel
type UIPanel struct {
	Title         string
	X, Y          float64
	Width, Height float64
	Widgets       []UIWidget
	ScrollOffset  float64

	BGColor     color.RGBA
	BorderColor color.RGBA
	SectionBG   color.RGBA

	sections []PanelSection
}

// PanelSection groups consecutive widgets under a header.
type PanelSection struct {
	Title      string
	StartIndex int // Widget index where this section starts
	EndIndex   int // Widget index where this section ends (exclusive)
}

// NewUIPanel creates a new UI panel
func NewUIPanel(title string, x, y, width, height float64) *UIPanel {
	return &UIPanel{
		Title:       title,
		X:           x,
		Y:           y,
		Width:       width,
		Height:      height,
		BGColor:     color.RGBA{R: 40, G: 40, B: 45, A: 230},
		BorderColor: color.RGBA{R: 100, G: 100, B: 110, A: 255},
		SectionBG:   color.RGBA{R: 60, G: 60, B: 70, A: 255},
	}
}

// AddSection adds a section header
func (p *UIPanel) AddSection(title string) {
	p.sections = append(p.sections, PanelSection{
		Title:      title,
		StartIndex: len(p.Widgets),
		EndIndex:   len(p.Widgets),
	})
}

// EndSection closes the current section
func (p *UIPanel) EndSection() {
	if len(p.sections) > 0 {
		p.sections[len(p.sections)-1].EndIndex = len(p.Widgets)
	}
}

// AddSlider adds a slider widget to the panel
func (p *UIPanel) AddSlider(label string, min, max, value float64) *Slider {
	slider := NewSlider(p.X+10, 0, p.Width-20, label, min, max, value)
	p.add(&SliderWrapper{Slider: slider, Format: "%.2f"})
	return slider
}

// AddIntSlider adds a slider that snaps to whole numbers.
func (p *UIPanel) AddIntSlider(label string, min, max, value int) *Slider {
	slider := NewSlider(p.X+10, 0, p.Width-20, label, float64(min), float64(max), float64(value))
	slider.Step = 1
	p.add(&SliderWrapper{Slider: slider, Format: "%.0f"})
	return slider
}

// AddCheckbox adds a checkbox widget to the panel
func (p *UIPanel) AddCheckbox(label string, value bool) *Checkbox {
	checkbox := NewCheckbox(p.X+10, 0, label, value)
	p.add(&CheckboxWrapper{checkbox})
	return checkbox
}

// AddButton adds a full width button to the panel
func (p *UIPanel) AddButton(label string, onClick func()) *Button {
	button := NewButton(p.X+10, 0, p.Width-20, 24, label, onClick)
	p.add(&ButtonWrapper{button})
	return button
}

func (p *UIPanel) add(w UIWidget) {
	p.Widgets = append(p.Widgets, w)
	if len(p.sections) > 0 {
		p.sections[len(p.sections)-1].EndIndex = len(p.Widgets)
	}
	p.layout()
}

// layout positions every widget for the current scroll offset. Widgets
// outside a section are placed after the last one.
func (p *UIPanel) layout() {
	y := p.Y + titleHeight - p.ScrollOffset
	placed := 0
	for _, section := range p.sections {
		y += sectionHeight
		for i := section.StartIndex; i < section.EndIndex && i < len(p.Widgets); i++ {
			w := p.Widgets[i]
			w.MoveTo(p.X+10, y+15)
			y += w.GetHeight()
			placed = i + 1
		}
	}
	for i := placed; i < len(p.Widgets); i++ {
		p.Widgets[i].MoveTo(p.X+10, y+15)
		y += p.Widgets[i].GetHeight()
	}
}

// Scroll moves the content by dy pixels, clamped to the content height.
func (p *UIPanel) Scroll(dy float64) {
	p.ScrollOffset += dy
	maxScroll := p.TotalHeight() - p.Height + 40
	if maxScroll < 0 {
		maxScroll = 0
	}
	if p.ScrollOffset > maxScroll {
		p.ScrollOffset = maxScroll
	}
	if p.ScrollOffset < 0 {
		p.ScrollOffset = 0
	}
	p.layout()
}

// TotalHeight is the height of the panel content.
func (p *UIPanel) TotalHeight() float64 {
	height := titleHeight + float64(len(p.sections))*sectionHeight
	for _, widget := range p.Widgets {
		height += widget.GetHeight()
	}
	return height
}

// Update handles input for all widgets
func (p *UIPanel) Update() {
	if _, dy := ebiten.Wheel(); dy != 0 {
		p.Scroll(-dy * 20)
	}
	for _, widget := range p.Widgets {
		widget.Update()
	}
}

// Draw renders the panel and all widgets
func (p *UIPanel) Draw(screen *ebiten.Image) {
	vector.FillRect(screen,
		float32(p.X), float32(p.Y),
		float32(p.Width), float32(p.Height),
		p.BGColor, true)
	vector.StrokeRect(screen,
		float32(p.X), float32(p.Y),
		float32(p.Width), float32(p.Height),
		2, p.BorderColor, true)
	ebitenutil.DebugPrintAt(screen, p.Title, int(p.X+10), int(p.Y+5))

	y := p.Y + titleHeight - p.ScrollOffset
	for _, section := range p.sections {
		if p.visible(y) {
			vector.FillRect(screen,
				float32(p.X+5), float32(y),
				float32(p.Width-10), 20,
				p.SectionBG, true)
			ebitenutil.DebugPrintAt(screen, section.Title, int(p.X+10), int(y+3))
		}
		y += sectionHeight
		for i := section.StartIndex; i < section.EndIndex && i < len(p.Widgets); i++ {
			y = p.drawWidget(screen, p.Widgets[i], y)
		}
	}
}

func (p *UIPanel) drawWidget(screen *ebiten.Image, w UIWidget, y float64) float64 {
	if p.visible(y) {
		if caption := w.Caption(); caption != "" {
			ebitenutil.DebugPrintAt(screen, caption, int(p.X+10), int(y))
		}
		w.Draw(screen)
	}
	return y + w.GetHeight()
}

func (p *UIPanel) visible(y float64) bool {
	return y >= p.Y+titleHeight-5 && y <= p.Y+p.Height-20
}
