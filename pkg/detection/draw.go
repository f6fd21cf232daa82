package detection

import (
	"image"
	"image/color"

	"github.com/tauraamui/framegrab/pkg/video/videoframe"
	"github.com/tauraamui/xerror"
	"gocv.io/x/gocv"
)

const (
	boxThickness   = 2
	labelOffset    = 10
	labelFontScale = 0.5
)

var boxColor = color.RGBA{R: 0, G: 255, B: 255, A: 255}

// Draw copies src into dst and renders a rectangle and class
// label for every detection onto dst.
func Draw(src videoframe.NoCloser, dst videoframe.Frame, detections []Detection) error {
	srcMat, ok := src.DataRef().(*gocv.Mat)
	if !ok {
		return xerror.New("must pass OpenCV frame as detection draw source")
	}

	dstMat, ok := dst.DataRef().(*gocv.Mat)
	if !ok {
		return xerror.New("must pass OpenCV frame as detection draw destination")
	}

	if srcMat.Empty() {
		return xerror.New("cannot draw detections onto empty frame")
	}

	srcMat.CopyTo(dstMat)

	dimensions := src.Dimensions()
	for _, d := range detections {
		gocv.Rectangle(dstMat, d.Box, boxColor, boxThickness)
		gocv.PutText(
			dstMat, d.ClassName, labelOrigin(d.Box, dimensions),
			gocv.FontHersheySimplex, labelFontScale, boxColor, boxThickness,
		)
	}
	return nil
}

// labelOrigin places the label up and left of the box corner,
// kept within the frame so it is never clipped away entirely.
func labelOrigin(box image.Rectangle, dimensions videoframe.Dimensions) image.Point {
	p := image.Pt(box.Min.X-labelOffset, box.Min.Y-labelOffset)
	if p.X < 0 {
		p.X = 0
	}
	if p.Y < labelOffset {
		p.Y = labelOffset
	}
	if dimensions.W > 0 && p.X >= dimensions.W {
		p.X = dimensions.W - 1
	}
	if dimensions.H > 0 && p.Y >= dimensions.H {
		p.Y = dimensions.H - 1
	}
	return p
}
