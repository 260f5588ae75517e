package target

import (
	"image"
	"image/color"
	"image/draw"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// ImageTarget rasterizes the counter text into an RGBA image, centered on a
// solid background. Every SetText or Clear produces a new frame which is
// passed to OnFrame when set.
type ImageTarget struct {
	// Face is the font used for the text. Defaults to basicfont.Face7x13.
	Face font.Face
	// Foreground is the text color. Defaults to white.
	Foreground color.Color
	// Background is the fill color. Defaults to black.
	Background color.Color
	// OnFrame receives the image after each redraw. The image is reused
	// between frames; copy it to retain it.
	OnFrame func(img *image.RGBA)

	mu      sync.Mutex
	img     *image.RGBA
	text    string
	classes Classes
	frames  int
}

// NewImageTarget creates a target of the given pixel size.
func NewImageTarget(width, height int) *ImageTarget {
	t := &ImageTarget{
		Face:       basicfont.Face7x13,
		Foreground: color.White,
		Background: color.Black,
		img:        image.NewRGBA(image.Rect(0, 0, width, height)),
	}
	t.fill()
	return t
}

// AddClass implements Target.
func (t *ImageTarget) AddClass(names ...string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.classes.Add(names...)
}

// RemoveClass implements Target.
func (t *ImageTarget) RemoveClass(names ...string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.classes.Remove(names...)
}

// Classes returns the current class names.
func (t *ImageTarget) Classes() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.classes.Names()
}

// SetText implements Target.
func (t *ImageTarget) SetText(text string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.text = text
	t.fill()
	t.drawText()
	t.emit()
}

// Clear implements Target.
func (t *ImageTarget) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.text = ""
	t.fill()
	t.emit()
}

// Text returns the text of the current frame.
func (t *ImageTarget) Text() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.text
}

// Frames returns how many frames have been drawn.
func (t *ImageTarget) Frames() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.frames
}

// Image returns a copy of the current frame.
func (t *ImageTarget) Image() *image.RGBA {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := image.NewRGBA(t.img.Bounds())
	copy(out.Pix, t.img.Pix)
	return out
}

// TextBounds returns the pixel width of text in the target's face.
func (t *ImageTarget) TextBounds(text string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return font.MeasureString(t.face(), text).Ceil()
}

func (t *ImageTarget) face() font.Face {
	if t.Face == nil {
		return basicfont.Face7x13
	}
	return t.Face
}

func (t *ImageTarget) fill() {
	bg := t.Background
	if bg == nil {
		bg = color.Black
	}
	draw.Draw(t.img, t.img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
}

func (t *ImageTarget) drawText() {
	if t.text == "" {
		return
	}
	fg := t.Foreground
	if fg == nil {
		fg = color.White
	}
	face := t.face()
	d := &font.Drawer{
		Dst:  t.img,
		Src:  image.NewUniform(fg),
		Face: face,
	}

	b := t.img.Bounds()
	m := face.Metrics()
	width := d.MeasureString(t.text)
	x := (fixed.I(b.Dx())-width)/2 + fixed.I(b.Min.X)
	y := (fixed.I(b.Dy())+m.Ascent-m.Descent)/2 + fixed.I(b.Min.Y)
	d.Dot = fixed.Point26_6{X: x, Y: y}
	d.DrawString(t.text)
}

func (t *ImageTarget) emit() {
	t.frames++
	if t.OnFrame != nil {
		t.OnFrame(t.img)
	}
}

var _ Target = (*ImageTarget)(nil)
