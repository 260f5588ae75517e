package target

import (
	"bytes"
	stderrors "errors"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/counter/pkg/errors"
)

func TestClasses(t *testing.T) {
	var c Classes
	c.Add("ui-counterWidgetMain", "hp  big")
	c.Add("hp")

	assert.Equal(t, []string{"ui-counterWidgetMain", "hp", "big"}, c.Names())
	assert.Equal(t, "ui-counterWidgetMain hp big", c.String())
	assert.True(t, c.Has("big"))

	c.Remove("hp big", "missing")
	assert.Equal(t, []string{"ui-counterWidgetMain"}, c.Names())
	assert.Equal(t, 1, c.Len())
}

func TestSplitClasses(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, SplitClasses("  a \t b "))
	assert.Empty(t, SplitClasses(""))
}

func TestMemoryTarget(t *testing.T) {
	m := NewMemoryTarget()
	m.AddClass("one", "two")
	m.SetText("1")
	m.SetText("2")
	m.RemoveClass("one")
	m.Clear()

	assert.Equal(t, "", m.Text())
	assert.Equal(t, []string{"1", "2"}, m.History())
	assert.Equal(t, []string{"two"}, m.Classes())
	assert.True(t, m.HasClass("two"))
	assert.Equal(t, 1, m.Clears())
}

func TestWriterTarget(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriterTarget(&buf)
	w.AddClass("hp")

	w.SetText("850 HP left!!!")
	w.Clear()

	assert.Equal(t, "\r850 HP left!!!\x1b[K\r\x1b[K", buf.String())
	assert.Equal(t, []string{"hp"}, w.Classes())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, stderrors.New("closed") }

type captureHandler struct{ errs []*errors.CounterError }

func (h *captureHandler) HandleError(err *errors.CounterError) { h.errs = append(h.errs, err) }
func (h *captureHandler) HandlePanic(*errors.PanicError)       {}

func TestWriterTarget_ReportsWriteFailure(t *testing.T) {
	h := &captureHandler{}
	old := errors.DefaultHandler
	errors.SetHandler(h)
	defer errors.SetHandler(old)

	NewWriterTarget(failingWriter{}).SetText("x")

	require.Len(t, h.errs, 1)
	assert.Equal(t, errors.KindRender, h.errs[0].Kind)
	assert.Equal(t, "target.WriterTarget.SetText", h.errs[0].Op)
}

func TestImageTarget_DrawsCenteredText(t *testing.T) {
	it := NewImageTarget(120, 30)
	var frames []*image.RGBA
	it.OnFrame = func(img *image.RGBA) {
		cp := image.NewRGBA(img.Bounds())
		copy(cp.Pix, img.Pix)
		frames = append(frames, cp)
	}

	it.SetText("42")
	require.Len(t, frames, 1)
	assert.Equal(t, "42", it.Text())

	lit := 0
	minX, maxX := 120, 0
	img := it.Image()
	for y := 0; y < 30; y++ {
		for x := 0; x < 120; x++ {
			if img.RGBAAt(x, y) != (color.RGBA{0, 0, 0, 255}) {
				lit++
				if x < minX {
					minX = x
				}
				if x > maxX {
					maxX = x
				}
			}
		}
	}
	require.NotZero(t, lit, "expected glyph pixels")
	assert.InDelta(t, 60, float64(minX+maxX)/2, 4, "text should be horizontally centered")
	assert.Equal(t, 14, it.TextBounds("42"))

	it.Clear()
	assert.Equal(t, 2, it.Frames())
	cleared := it.Image()
	for i := 0; i < len(cleared.Pix); i += 4 {
		if cleared.Pix[i] != 0 || cleared.Pix[i+1] != 0 || cleared.Pix[i+2] != 0 {
			t.Fatal("cleared frame should be background only")
		}
	}
}

func TestImageTarget_Classes(t *testing.T) {
	it := NewImageTarget(10, 10)
	it.AddClass("a b")
	it.RemoveClass("a")
	assert.Equal(t, []string{"b"}, it.Classes())
}
