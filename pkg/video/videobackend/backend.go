package videobackend

import (
	"github.com/spf13/afero"
	"github.com/tauraamui/framegrab/pkg/video/videoframe"
)

var fs = afero.NewOsFs()

// Metadata describes a video source for the lifetime of
// an open handle.
type Metadata struct {
	FrameCount int
	Dimensions videoframe.Dimensions
	FPS        float64
}

type Source interface {
	Metadata() Metadata
	// Seek moves the read cursor to an absolute frame index.
	Seek(int) error
	// Position is the index of the frame the next Read will return,
	// as reported by the decoder.
	Position() int
	// Grab decodes and discards the next n frames.
	Grab(int) error
	Read(videoframe.Frame) error
	Close() error
}

type Writer interface {
	Write(videoframe.NoCloser) error
	Close() error
}

type Backend interface {
	Open(string) (Source, error)
	NewFrame() videoframe.Frame
	NewVideoWriter(path, codec string, fps float64, dimensions videoframe.Dimensions) (Writer, error)
	WriteImage(string, videoframe.NoCloser) error
	ReadImage(string) (videoframe.Frame, error)
}

func Default() Backend {
	return OpenCV()
}

func OpenCV() Backend {
	return &openCVBackend{}
}

func Mock(spec SyntheticSpec) Backend {
	return &mockVideoBackend{spec: spec}
}

func Resolve(t string) Backend {
	switch t {
	case "mock":
		return Mock(DefaultSyntheticSpec())
	default:
		return Default()
	}
}
