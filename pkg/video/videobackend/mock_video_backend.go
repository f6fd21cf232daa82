package videobackend

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"github.com/tauraamui/framegrab/pkg/video/videoframe"
	"github.com/tauraamui/xerror"
	"gocv.io/x/gocv"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
)

// SyntheticSpec describes the generated footage the mock
// backend serves instead of decoding a file.
type SyntheticSpec struct {
	FrameCount int
	FPS        float64
	Dimensions videoframe.Dimensions
	Title      string
}

func DefaultSyntheticSpec() SyntheticSpec {
	return SyntheticSpec{
		FrameCount: 1000,
		FPS:        30,
		Dimensions: videoframe.Dimensions{W: 600, H: 400},
		Title:      "FG_SYNTHETIC_STREAM",
	}
}

// mockVideoBackend generates its source frames but encodes
// through OpenCV like the real backend.
type mockVideoBackend struct {
	openCVBackend
	spec SyntheticSpec
}

func (b *mockVideoBackend) Open(path string) (Source, error) {
	if b.spec.FrameCount <= 0 {
		return nil, xerror.Errorf("unable to open synthetic source %q: no frames", path)
	}
	return &mockVideoSource{spec: b.spec}, nil
}

type mockVideoSource struct {
	spec                    SyntheticSpec
	position                int
	isClosed                bool
	renderedBaseFrameCanvas bool
	baseFrameCanvas         image.Image
}

func (mvs *mockVideoSource) Metadata() Metadata {
	return Metadata{
		FrameCount: mvs.spec.FrameCount,
		Dimensions: mvs.spec.Dimensions,
		FPS:        mvs.spec.FPS,
	}
}

func (mvs *mockVideoSource) Seek(index int) error {
	if index < 0 || index > mvs.spec.FrameCount {
		return xerror.Errorf("cannot seek to frame %d of %d", index, mvs.spec.FrameCount)
	}
	mvs.position = index
	return nil
}

func (mvs *mockVideoSource) Position() int {
	return mvs.position
}

func (mvs *mockVideoSource) Grab(n int) error {
	if mvs.position+n > mvs.spec.FrameCount {
		return xerror.Errorf("unable to grab %d frames from frame %d: end of stream", n, mvs.position)
	}
	mvs.position += n
	return nil
}

func (mvs *mockVideoSource) Read(frame videoframe.Frame) error {
	frameMatRef, ok := frame.DataRef().(*gocv.Mat)
	if !ok {
		return xerror.New("must pass OpenCV frame to synthetic source read")
	}

	if mvs.isClosed {
		return xerror.New("unable to read from closed synthetic source")
	}

	if mvs.position >= mvs.spec.FrameCount {
		return xerror.New("unable to read from synthetic source: end of stream")
	}

	if !mvs.renderedBaseFrameCanvas {
		mvs.baseFrameCanvas = renderBaseFrameCanvas(mvs.spec.Dimensions)
		mvs.renderedBaseFrameCanvas = true
	}

	img, err := drawTextLayerOntoBaseFrameClone(
		mvs.baseFrameCanvas, mvs.spec.Title, mvs.position, mvs.spec.FPS,
	)
	if err != nil {
		return err
	}

	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return xerror.Errorf("unable to convert Go image into OpenCV mat: %w", err)
	}
	defer mat.Close()

	mat.CopyTo(frameMatRef)
	mvs.position++

	return nil
}

func (mvs *mockVideoSource) Close() error {
	mvs.isClosed = true
	mvs.renderedBaseFrameCanvas = false
	mvs.baseFrameCanvas = nil
	return nil
}

func drawTextLayerOntoBaseFrameClone(base image.Image, title string, index int, fps float64) (image.Image, error) {
	baseClone := cloneImage(base)
	h := baseClone.Bounds().Dy()
	fontSize := float64(h) / 6

	err := drawText(baseClone, 5, h/8, fontSize, title)
	if err != nil {
		return nil, xerror.Errorf("unable to draw text onto in-mem image for synthetic stream: %w", err)
	}

	err = drawText(baseClone, 5, h*4/9, fontSize, fmt.Sprintf("FRAME %d", index))
	if err != nil {
		return nil, xerror.Errorf("unable to draw text onto in-mem image for synthetic stream: %w", err) //nolint
	}

	err = drawText(baseClone, 5, h*7/9, fontSize, fmt.Sprintf("T+%.3fs", float64(index)/fps))
	if err != nil {
		return nil, xerror.Errorf("unable to draw text onto in-mem image for synthetic stream: %w", err) //nolint
	}
	return baseClone, nil
}

func renderBaseFrameCanvas(dimensions videoframe.Dimensions) image.Image {
	w, h := dimensions.W, dimensions.H
	var hw, hh float64 = float64(w / 2), float64(h / 2)
	r := math.Min(hw, hh)
	θ := 2 * math.Pi / 3
	cr := &circle{hw - r*math.Sin(0), hh - r*math.Cos(0), r * 1.5}
	cg := &circle{hw - r*math.Sin(θ), hh - r*math.Cos(θ), r * 1.5}
	cb := &circle{hw - r*math.Sin(-θ), hh - r*math.Cos(-θ), r * 1.5}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			c := color.RGBA{
				cr.Brightness(float64(x), float64(y)),
				cg.Brightness(float64(x), float64(y)),
				cb.Brightness(float64(x), float64(y)),
				255,
			}
			img.Set(x, y, c)
		}
	}
	return img
}

func cloneImage(src image.Image) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(b)
	draw.Draw(dst, b, src, b.Min, draw.Src)
	return dst
}

var parsedFontFace *truetype.Font

func drawText(canvas *image.RGBA, x, y int, fontSize float64, text string) error {
	if parsedFontFace == nil {
		f, err := freetype.ParseFont(goregular.TTF)
		if err != nil {
			return err
		}
		parsedFontFace = f
	}

	fontDrawer := &font.Drawer{
		Dst: canvas,
		Src: image.White,
		Face: truetype.NewFace(parsedFontFace, &truetype.Options{
			Size:    fontSize,
			Hinting: font.HintingFull,
		}),
	}
	textBounds, _ := fontDrawer.BoundString(text)
	textHeight := textBounds.Max.Y - textBounds.Min.Y
	fontDrawer.Dot = fixed.Point26_6{
		X: fixed.I(x),
		Y: fixed.I(y) + textHeight,
	}
	fontDrawer.DrawString(text)
	return nil
}

type circle struct {
	X, Y, R float64
}

func (c *circle) Brightness(x, y float64) uint8 {
	var dx, dy float64 = c.X - x, c.Y - y
	d := math.Sqrt(dx*dx+dy*dy) / c.R
	if d > 1 {
		return 0
	}
	return 255
}
