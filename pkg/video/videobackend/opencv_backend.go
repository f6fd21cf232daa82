package videobackend

import (
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/tauraamui/framegrab/pkg/video/videoframe"
	"github.com/tauraamui/xerror"
	"gocv.io/x/gocv"
)

type openCVFrame struct {
	isClosed bool
	mat      gocv.Mat
}

func (frame *openCVFrame) DataRef() interface{} {
	return &frame.mat
}

func (frame *openCVFrame) Empty() bool {
	return frame.isClosed || frame.mat.Empty()
}

// ToBytes returns the raw pixel data in row order.
func (frame *openCVFrame) ToBytes() []byte {
	return frame.mat.ToBytes()
}

func (frame *openCVFrame) Dimensions() videoframe.Dimensions {
	return videoframe.Dimensions{W: frame.mat.Cols(), H: frame.mat.Rows()}
}

func (frame *openCVFrame) Close() {
	if !frame.isClosed {
		frame.mat.Close()
		frame.isClosed = true
	}
}

func matFromFrame(frame videoframe.NoCloser) (*gocv.Mat, error) {
	mat, ok := frame.DataRef().(*gocv.Mat)
	if !ok {
		return nil, xerror.New("must pass OpenCV frame to OpenCV backend")
	}
	return mat, nil
}

type openCVBackend struct{}

func (b *openCVBackend) Open(path string) (Source, error) {
	if _, err := fs.Stat(path); err != nil {
		return nil, xerror.Errorf("unable to open video source: %w", err)
	}

	vc, err := openVideoCapture(path)
	if err != nil {
		return nil, xerror.Errorf("unable to open video source: %w", err)
	}

	if !vc.IsOpened() {
		vc.Close()
		return nil, xerror.Errorf("unable to open video source: %s: no decoder accepted container", path)
	}

	return &openCVSource{vc: vc}, nil
}

func (b *openCVBackend) NewFrame() videoframe.Frame {
	return &openCVFrame{mat: gocv.NewMat()}
}

func (b *openCVBackend) NewVideoWriter(
	path, codec string, fps float64, dimensions videoframe.Dimensions,
) (Writer, error) {
	if len(codec) != 4 {
		return nil, xerror.Errorf("codec must be a four character code, got %q", codec)
	}

	if fps <= 0 || math.IsNaN(fps) || dimensions.W <= 0 || dimensions.H <= 0 {
		return nil, xerror.Errorf("unable to open video writer with %s at %.2f fps", dimensions, fps)
	}

	if err := ensureDirectoryPathExists(filepath.Dir(path)); err != nil {
		return nil, err
	}

	vw, err := openVideoWriter(path, codec, fps, dimensions.W, dimensions.H, true)
	if err != nil {
		return nil, xerror.Errorf("unable to open video writer: %w", err)
	}

	if !vw.IsOpened() {
		vw.Close()
		return nil, xerror.Errorf("unable to open video writer: %s: codec %s unavailable", path, codec)
	}

	return &openCVVideoWriter{vw: vw, dimensions: dimensions}, nil
}

var openVideoWriter = func(filename, codec string, fps float64, width, height int, isColor bool) (*gocv.VideoWriter, error) {
	return gocv.VideoWriterFile(filename, codec, fps, width, height, isColor)
}

func ensureDirectoryPathExists(path string) error {
	err := fs.MkdirAll(path, os.ModePerm|os.ModeDir)
	if err == nil || os.IsExist(err) {
		return nil
	}
	return err
}

// imageExtensions are the still image formats OpenCV's
// imgcodecs module can always encode.
var imageExtensions = map[string]struct{}{
	".png": {}, ".jpg": {}, ".jpeg": {}, ".bmp": {},
	".tif": {}, ".tiff": {}, ".webp": {},
	".ppm": {}, ".pgm": {}, ".pbm": {},
}

// SupportedImageExt reports whether the image format inferred
// from path's extension can be written.
func SupportedImageExt(path string) bool {
	_, ok := imageExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

func (b *openCVBackend) WriteImage(path string, frame videoframe.NoCloser) error {
	// OpenCV aborts the process on an unknown extension
	// instead of returning false, so this must come first
	if !SupportedImageExt(path) {
		return xerror.Errorf("unsupported image extension: %q", filepath.Ext(path))
	}

	mat, err := matFromFrame(frame)
	if err != nil {
		return err
	}

	if mat.Empty() {
		return xerror.New("cannot write empty frame to image")
	}

	if err := ensureDirectoryPathExists(filepath.Dir(path)); err != nil {
		return err
	}

	if !writeImage(path, *mat) {
		return xerror.Errorf("unable to write image: %s", path)
	}
	return nil
}

var writeImage = func(path string, mat gocv.Mat) bool {
	return gocv.IMWrite(path, mat)
}

func (b *openCVBackend) ReadImage(path string) (videoframe.Frame, error) {
	if _, err := fs.Stat(path); err != nil {
		return nil, xerror.Errorf("unable to read image: %w", err)
	}

	mat := gocv.IMRead(path, gocv.IMReadColor)
	if mat.Empty() {
		mat.Close()
		return nil, xerror.Errorf("unable to decode image: %s", path)
	}
	return &openCVFrame{mat: mat}, nil
}

type openCVVideoWriter struct {
	vw         *gocv.VideoWriter
	dimensions videoframe.Dimensions
}

func (w *openCVVideoWriter) Write(frame videoframe.NoCloser) error {
	mat, err := matFromFrame(frame)
	if err != nil {
		return err
	}

	// the writer silently drops frames which don't match its size
	if d := frame.Dimensions(); d != w.dimensions {
		return xerror.Errorf("frame size %s does not match video writer size %s", d, w.dimensions)
	}

	return w.vw.Write(*mat)
}

func (w *openCVVideoWriter) Close() error {
	return w.vw.Close()
}

type openCVSource struct {
	vc *gocv.VideoCapture
}

var openVideoCapture = func(path string) (*gocv.VideoCapture, error) {
	return gocv.VideoCaptureFile(path)
}

var readFromVideoCapture = func(vc *gocv.VideoCapture, mat *gocv.Mat) bool {
	if vc.IsOpened() {
		return vc.Read(mat)
	}
	return false
}

func (s *openCVSource) Metadata() Metadata {
	return Metadata{
		FrameCount: int(s.vc.Get(gocv.VideoCaptureFrameCount)),
		Dimensions: videoframe.Dimensions{
			W: int(s.vc.Get(gocv.VideoCaptureFrameWidth)),
			H: int(s.vc.Get(gocv.VideoCaptureFrameHeight)),
		},
		FPS: s.vc.Get(gocv.VideoCaptureFPS),
	}
}

func (s *openCVSource) Seek(index int) error {
	if index < 0 {
		return xerror.Errorf("cannot seek to negative frame index %d", index)
	}
	s.vc.Set(gocv.VideoCapturePosFrames, float64(index))
	return nil
}

func (s *openCVSource) Position() int {
	return int(s.vc.Get(gocv.VideoCapturePosFrames))
}

func (s *openCVSource) Grab(n int) error {
	mat := gocv.NewMat()
	defer mat.Close()
	for i := 0; i < n; i++ {
		if !readFromVideoCapture(s.vc, &mat) {
			return xerror.Errorf("unable to grab frame %d of %d", i+1, n)
		}
	}
	return nil
}

func (s *openCVSource) Read(frame videoframe.Frame) error {
	mat, err := matFromFrame(frame)
	if err != nil {
		return err
	}
	if !readFromVideoCapture(s.vc, mat) {
		return xerror.New("unable to read from video source")
	}
	if mat.Empty() {
		return xerror.New("video source returned empty frame")
	}
	return nil
}

func (s *openCVSource) Close() error {
	return s.vc.Close()
}
