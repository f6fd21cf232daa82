package extract_test

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/afero"
	"github.com/tauraamui/framegrab/pkg/video/videobackend"
	"github.com/tauraamui/framegrab/pkg/video/videoframe"
	"github.com/tauraamui/xerror"
)

type fakeFrame struct {
	dims     videoframe.Dimensions
	data     []byte
	isClosed bool
}

func (f *fakeFrame) DataRef() interface{}              { return f.data }
func (f *fakeFrame) Dimensions() videoframe.Dimensions { return f.dims }
func (f *fakeFrame) Empty() bool                       { return len(f.data) == 0 }
func (f *fakeFrame) ToBytes() []byte                   { return f.data }
func (f *fakeFrame) Close()                            { f.isClosed = true }

type fakeSource struct {
	md           videobackend.Metadata
	position     int
	keyframeStep int
	readErr      error
	emptyRead    bool
	readDims     *videoframe.Dimensions
	isClosed     bool
	seeks        []int
	grabs        []int
}

func (s *fakeSource) Metadata() videobackend.Metadata { return s.md }

func (s *fakeSource) Seek(index int) error {
	s.seeks = append(s.seeks, index)
	s.position = index
	if s.keyframeStep > 0 {
		s.position = index - index%s.keyframeStep
	}
	return nil
}

func (s *fakeSource) Position() int { return s.position }

func (s *fakeSource) Grab(n int) error {
	s.grabs = append(s.grabs, n)
	s.position += n
	return nil
}

func (s *fakeSource) Read(frame videoframe.Frame) error {
	if s.readErr != nil {
		return s.readErr
	}
	if s.position >= s.md.FrameCount {
		return xerror.New("end of stream")
	}
	f := frame.(*fakeFrame)
	f.dims = s.md.Dimensions
	if s.readDims != nil {
		f.dims = *s.readDims
	}
	if !s.emptyRead {
		f.data = []byte(fmt.Sprintf("frame-%d", s.position))
	}
	s.position++
	return nil
}

func (s *fakeSource) Close() error {
	s.isClosed = true
	return nil
}

type writerArgs struct {
	path       string
	codec      string
	fps        float64
	dimensions videoframe.Dimensions
}

type fakeWriter struct {
	fs       afero.Fs
	path     string
	buf      bytes.Buffer
	writeErr error
	frames   int
}

func (w *fakeWriter) Write(frame videoframe.NoCloser) error {
	if w.writeErr != nil {
		return w.writeErr
	}
	w.frames++
	w.buf.WriteString("FRAME:")
	w.buf.Write(frame.ToBytes())
	return nil
}

func (w *fakeWriter) Close() error {
	return afero.WriteFile(w.fs, w.path, w.buf.Bytes(), 0666)
}

// fakeBackend keeps every artifact on an in memory filesystem
// and records how the extractor drove it.
type fakeBackend struct {
	fs            afero.Fs
	source        *fakeSource
	imageErr      error
	writerOpenErr error
	writeErr      error
	writerArgs    []writerArgs
	writers       []*fakeWriter
	frames        []*fakeFrame
	// synthetic behaves like a generated source which never
	// looks at the path it is given
	synthetic bool
	opens     int
}

func (b *fakeBackend) Open(path string) (videobackend.Source, error) {
	b.opens++
	if b.synthetic {
		return b.source, nil
	}

	exists, err := afero.Exists(b.fs, path)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, xerror.Errorf("open %s: file does not exist", path)
	}
	return b.source, nil
}

func (b *fakeBackend) NewFrame() videoframe.Frame {
	f := &fakeFrame{}
	b.frames = append(b.frames, f)
	return f
}

func (b *fakeBackend) NewVideoWriter(
	path, codec string, fps float64, dimensions videoframe.Dimensions,
) (videobackend.Writer, error) {
	b.writerArgs = append(b.writerArgs, writerArgs{path: path, codec: codec, fps: fps, dimensions: dimensions})
	// a real encoder creates the container as soon as it opens
	if err := afero.WriteFile(b.fs, path, nil, 0666); err != nil {
		return nil, err
	}
	if b.writerOpenErr != nil {
		return nil, b.writerOpenErr
	}
	w := &fakeWriter{fs: b.fs, path: path, writeErr: b.writeErr}
	b.writers = append(b.writers, w)
	return w, nil
}

func (b *fakeBackend) WriteImage(path string, frame videoframe.NoCloser) error {
	if b.imageErr != nil {
		// leave a truncated file behind like a failed encoder would
		if err := afero.WriteFile(b.fs, path, []byte("partial"), 0666); err != nil {
			return err
		}
		return b.imageErr
	}
	return afero.WriteFile(b.fs, path, frame.ToBytes(), 0666)
}

// failingMkdirFs refuses to create one directory.
type failingMkdirFs struct {
	afero.Fs
	dir string
}

func (f failingMkdirFs) MkdirAll(path string, perm os.FileMode) error {
	if path == f.dir {
		return xerror.Errorf("mkdir %s: permission denied", path)
	}
	return f.Fs.MkdirAll(path, perm)
}

func (b *fakeBackend) ReadImage(path string) (videoframe.Frame, error) {
	data, err := afero.ReadFile(b.fs, path)
	if err != nil {
		return nil, err
	}
	return &fakeFrame{data: data}, nil
}
