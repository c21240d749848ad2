package plot

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/lox/bikeshare/internal/metrics"
)

const (
	Width  = 1000
	Height = 600

	marginLeft   = 90
	marginRight  = 40
	marginTop    = 90
	marginBottom = 90
	yTicks       = 5
)

var (
	background = color.RGBA{255, 255, 255, 255}
	axisColor  = color.RGBA{60, 60, 60, 255}
	gridColor  = color.RGBA{225, 225, 225, 255}
	edgeColor  = color.RGBA{40, 40, 40, 255}
	textColor  = color.RGBA{20, 20, 20, 255}

	palette = []color.RGBA{
		{79, 70, 229, 255},
		{16, 185, 129, 255},
		{245, 158, 11, 255},
		{239, 68, 68, 255},
		{139, 92, 246, 255},
		{6, 182, 212, 255},
	}
)

var (
	regular     *sfnt.Font
	regularOnce sync.Once
	regularErr  error
)

func loadFont() (*sfnt.Font, error) {
	regularOnce.Do(func() {
		regular, regularErr = opentype.Parse(goregular.TTF)
		if regularErr != nil {
			regularErr = fmt.Errorf("parse go regular: %w", regularErr)
		}
	})
	return regular, regularErr
}

func newFace(size float64) (font.Face, error) {
	f, err := loadFont()
	if err != nil {
		return nil, err
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create face: %w", err)
	}
	return face, nil
}

// PNG saves each histogram as <dir>/<slug of title>.png.
type PNG struct {
	dir      string
	fontSize float64
	out      io.Writer
}

// NewPNG returns a renderer writing into dir. When out is non-nil the saved
// path is reported there.
func NewPNG(dir string, fontSize float64, out io.Writer) *PNG {
	return &PNG{dir: dir, fontSize: fontSize, out: out}
}

func (p *PNG) Render(h Histogram) error {
	data, err := Encode(h, p.fontSize)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(p.dir, 0755); err != nil {
		return fmt.Errorf("create plot dir: %w", err)
	}

	path := filepath.Join(p.dir, Slug(h.Title)+".png")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write plot: %w", err)
	}
	log.Printf("plot: wrote %s (%d bytes)", path, len(data))
	if p.out != nil {
		fmt.Fprintf(p.out, "Plot saved to %s\n", path)
	}

	metrics.PlotsRendered.WithLabelValues("png").Inc()
	return nil
}

// Encode draws the histogram and returns it as PNG bytes.
func Encode(h Histogram, fontSize float64) ([]byte, error) {
	if err := h.Validate(); err != nil {
		return nil, err
	}
	if fontSize <= 0 {
		fontSize = 14
	}
	titleFace, err := newFace(fontSize + 4)
	if err != nil {
		return nil, err
	}
	tickFace, err := newFace(max(fontSize-2, 6))
	if err != nil {
		return nil, err
	}

	img := image.NewRGBA(image.Rect(0, 0, Width, Height))
	fillRect(img, img.Bounds(), background)

	plotArea := image.Rect(marginLeft, marginTop, Width-marginRight, Height-marginBottom)
	top := niceCeil(float64(h.Peak()))

	drawTitle(img, h.Title, titleFace)
	drawYAxis(img, plotArea, top, tickFace)
	drawBars(img, plotArea, h, top)
	drawXAxis(img, plotArea, h.Labels, tickFace)

	drawText(img, h.YLabel, marginLeft-60, marginTop-12, textColor, tickFace)
	xl := measure(tickFace, h.XLabel)
	drawText(img, h.XLabel, plotArea.Min.X+(plotArea.Dx()-xl)/2, Height-24, textColor, tickFace)

	if len(h.Series) > 1 {
		drawLegend(img, plotArea, h.Series, tickFace)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode plot: %w", err)
	}
	return buf.Bytes(), nil
}

func drawTitle(img *image.RGBA, title string, face font.Face) {
	lineHeight := face.Metrics().Height.Ceil()
	y := 20 + lineHeight
	for _, line := range strings.Split(title, "\n") {
		w := measure(face, line)
		drawText(img, line, (Width-w)/2, y, textColor, face)
		y += lineHeight
	}
}

func drawYAxis(img *image.RGBA, area image.Rectangle, top float64, face font.Face) {
	for i := 0; i <= yTicks; i++ {
		v := top * float64(i) / yTicks
		y := area.Max.Y - int(math.Round(float64(area.Dy())*float64(i)/yTicks))
		if i > 0 {
			fillRect(img, image.Rect(area.Min.X, y, area.Max.X, y+1), gridColor)
		}
		label := formatTick(v)
		drawText(img, label, area.Min.X-8-measure(face, label), y+5, textColor, face)
	}
	fillRect(img, image.Rect(area.Min.X-1, area.Min.Y, area.Min.X+1, area.Max.Y), axisColor)
}

func drawXAxis(img *image.RGBA, area image.Rectangle, labels []string, face font.Face) {
	fillRect(img, image.Rect(area.Min.X, area.Max.Y-1, area.Max.X, area.Max.Y+1), axisColor)

	n := len(labels)
	if n == 0 {
		return
	}
	slot := float64(area.Dx()) / float64(n)
	widest := 0
	for _, l := range labels {
		widest = max(widest, measure(face, l))
	}
	// Skip labels that would overlap their neighbours.
	step := int(math.Ceil(float64(widest+6) / slot))
	step = max(step, 1)

	for i := 0; i < n; i += step {
		w := measure(face, labels[i])
		cx := area.Min.X + int(slot*(float64(i)+0.5))
		drawText(img, labels[i], cx-w/2, area.Max.Y+20, textColor, face)
	}
}

func drawBars(img *image.RGBA, area image.Rectangle, h Histogram, top float64) {
	n := len(h.Labels)
	if n == 0 || top <= 0 {
		return
	}
	slot := float64(area.Dx()) / float64(n)
	height := func(v int) int {
		return int(math.Round(float64(area.Dy()) * float64(v) / top))
	}

	for i := 0; i < n; i++ {
		x0 := area.Min.X + int(slot*float64(i)) + 1
		x1 := area.Min.X + int(slot*float64(i+1)) - 1
		if x1 <= x0 {
			x1 = x0 + 1
		}
		base := 0
		for j, s := range h.Series {
			c := s.Counts[i]
			if c <= 0 {
				continue
			}
			y1 := area.Max.Y - height(base)
			y0 := area.Max.Y - height(base+c)
			bar := image.Rect(x0, y0, x1, y1)
			fillRect(img, bar, palette[j%len(palette)])
			outline(img, bar, edgeColor)
			if h.Stacked {
				base += c
			}
		}
	}
}

func drawLegend(img *image.RGBA, area image.Rectangle, series []Series, face font.Face) {
	lineHeight := face.Metrics().Height.Ceil() + 4
	widest := 0
	for _, s := range series {
		widest = max(widest, measure(face, s.Name))
	}
	x := area.Max.X - widest - 40
	y := area.Min.Y + 10
	for i, s := range series {
		swatch := image.Rect(x, y, x+14, y+14)
		fillRect(img, swatch, palette[i%len(palette)])
		outline(img, swatch, edgeColor)
		drawText(img, s.Name, x+20, y+12, textColor, face)
		y += lineHeight
	}
}

func fillRect(img *image.RGBA, r image.Rectangle, c color.Color) {
	draw.Draw(img, r, image.NewUniform(c), image.Point{}, draw.Src)
}

func outline(img *image.RGBA, r image.Rectangle, c color.Color) {
	fillRect(img, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+1), c)
	fillRect(img, image.Rect(r.Min.X, r.Max.Y-1, r.Max.X, r.Max.Y), c)
	fillRect(img, image.Rect(r.Min.X, r.Min.Y, r.Min.X+1, r.Max.Y), c)
	fillRect(img, image.Rect(r.Max.X-1, r.Min.Y, r.Max.X, r.Max.Y), c)
}

func drawText(img *image.RGBA, text string, x, y int, col color.Color, face font.Face) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(text)
}

func measure(face font.Face, s string) int {
	return font.MeasureString(face, s).Ceil()
}

// niceCeil rounds v up to 1, 2 or 5 times a power of ten.
func niceCeil(v float64) float64 {
	if v <= 0 {
		return 1
	}
	mag := math.Pow(10, math.Floor(math.Log10(v)))
	for _, m := range []float64{1, 2, 5, 10} {
		if m*mag >= v {
			return m * mag
		}
	}
	return 10 * mag
}

func formatTick(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.1f", v)
}
