// Package extract pulls a single frame out of a video and
// persists it as a still image and as a one frame video.
package extract

import (
	"math"

	"github.com/spf13/afero"
	"github.com/tauraamui/framegrab/pkg/detection"
	"github.com/tauraamui/framegrab/pkg/log"
	"github.com/tauraamui/framegrab/pkg/video/videobackend"
	"github.com/tauraamui/framegrab/pkg/video/videoframe"
)

var fs = afero.NewOsFs()

const DefaultCodec = "MJPG"

type Options struct {
	VideoFile   string
	FrameIndex  int
	OutputImage string
	OutputVideo string
	// Codec is the four character code of the output video.
	Codec string
	// VerifySeek reads the decoder position back after seeking and
	// falls back to decoding from the start if it landed elsewhere.
	VerifySeek bool
	// Detections is an optional JSON detection list to draw onto
	// a copy of the frame written to OutputAnnotated.
	Detections      string
	OutputAnnotated string
}

type Result struct {
	Metadata        videobackend.Metadata
	FrameIndex      int
	OutputImage     string
	OutputVideo     string
	OutputAnnotated string
}

type Extractor struct {
	backend videobackend.Backend
}

func New(backend videobackend.Backend) *Extractor {
	return &Extractor{backend: backend}
}

// Extract runs every stage against opts. Either all requested
// artifacts are written or none are, and the source is always
// released before returning.
func (e *Extractor) Extract(opts Options) (Result, error) {
	if len(opts.Codec) == 0 {
		opts.Codec = DefaultCodec
	}

	src, err := e.openSource(opts.VideoFile)
	if err != nil {
		return Result{}, err
	}
	defer closeSource(src, opts.VideoFile)

	md := src.Metadata()
	log.Debug("Opened %s: %d frames, %s at %.2f fps", opts.VideoFile, md.FrameCount, md.Dimensions, md.FPS)
	if err := validateMetadata(opts.VideoFile, md); err != nil {
		return Result{}, err
	}

	if err := validateFrameIndex(opts.FrameIndex, md.FrameCount); err != nil {
		return Result{}, err
	}

	if err := validateOutputs(opts); err != nil {
		return Result{}, err
	}

	var detections []detection.Detection
	if len(opts.Detections) > 0 {
		if detections, err = detection.Load(fs, opts.Detections); err != nil {
			return Result{}, newError(KindAnnotation, err, "unable to load %s", opts.Detections)
		}
	}

	frame, err := e.decode(src, opts.FrameIndex, md, opts.VerifySeek)
	if err != nil {
		return Result{}, err
	}
	defer frame.Close()

	var s staging
	defer s.discard()

	if err := e.writeImage(&s, opts.OutputImage, frame); err != nil {
		return Result{}, err
	}

	if err := e.writeVideo(&s, opts.OutputVideo, opts.Codec, md, frame); err != nil {
		return Result{}, err
	}

	if len(opts.Detections) > 0 {
		if err := e.annotate(&s, opts.OutputAnnotated, frame, detections); err != nil {
			return Result{}, err
		}
	}

	if err := s.commit(); err != nil {
		return Result{}, err
	}

	result := Result{
		Metadata:    md,
		FrameIndex:  opts.FrameIndex,
		OutputImage: opts.OutputImage,
		OutputVideo: opts.OutputVideo,
	}
	if len(opts.Detections) > 0 {
		result.OutputAnnotated = opts.OutputAnnotated
	}

	log.Info("Extracted frame %d of %s to %s and %s", opts.FrameIndex, opts.VideoFile, opts.OutputImage, opts.OutputVideo)
	return result, nil
}

func (e *Extractor) openSource(path string) (videobackend.Source, error) {
	if len(path) == 0 {
		return nil, newError(KindSourceOpen, nil, "no video source path given")
	}

	if _, err := fs.Stat(path); err != nil {
		return nil, newError(KindSourceOpen, err, "unable to open %s", path)
	}

	src, err := e.backend.Open(path)
	if err != nil {
		return nil, newError(KindSourceOpen, err, "unable to open %s", path)
	}
	return src, nil
}

func closeSource(src videobackend.Source, path string) {
	if err := src.Close(); err != nil {
		log.Error("unable to release video source %s: %v", path, err)
	}
}

func validateMetadata(path string, md videobackend.Metadata) error {
	if md.FrameCount <= 0 {
		return newError(KindInvalidSourceMetadata, nil, "%s reports %d frames", path, md.FrameCount)
	}

	if md.Dimensions.W <= 0 || md.Dimensions.H <= 0 {
		return newError(KindInvalidSourceMetadata, nil, "%s reports resolution %s", path, md.Dimensions)
	}

	if md.FPS <= 0 || math.IsNaN(md.FPS) || math.IsInf(md.FPS, 0) {
		return newError(KindInvalidSourceMetadata, nil, "%s reports frame rate %v", path, md.FPS)
	}
	return nil
}

func validateFrameIndex(index, frameCount int) error {
	if index < 0 || index >= frameCount {
		return newError(
			KindFrameIndexOutOfRange, nil,
			"frame index %d is outside valid range [0, %d)", index, frameCount,
		)
	}
	return nil
}

// validateOutputs rejects output paths and codecs which could never
// be written, before anything touches the filesystem.
func validateOutputs(opts Options) error {
	if len(opts.OutputImage) == 0 {
		return newError(KindImageWrite, nil, "no output image path given")
	}

	if !videobackend.SupportedImageExt(opts.OutputImage) {
		return newError(KindImageWrite, nil, "unable to infer image format of %s", opts.OutputImage)
	}

	if len(opts.OutputVideo) == 0 {
		return newError(KindVideoWriterOpen, nil, "no output video path given")
	}

	if len(opts.Codec) != 4 {
		return newError(KindVideoWriterOpen, nil, "codec %q is not a four character code", opts.Codec)
	}

	if len(opts.Detections) == 0 {
		return nil
	}

	if len(opts.OutputAnnotated) == 0 {
		return newError(KindAnnotation, nil, "detections given without an annotated output path")
	}

	if !videobackend.SupportedImageExt(opts.OutputAnnotated) {
		return newError(KindAnnotation, nil, "unable to infer image format of %s", opts.OutputAnnotated)
	}
	return nil
}

func (e *Extractor) decode(
	src videobackend.Source, index int, md videobackend.Metadata, verify bool,
) (videoframe.Frame, error) {
	if err := src.Seek(index); err != nil {
		return nil, newError(KindFrameDecode, err, "unable to seek to frame %d", index)
	}

	if verify {
		if err := ensurePosition(src, index); err != nil {
			return nil, err
		}
	}

	frame := e.backend.NewFrame()
	if err := src.Read(frame); err != nil {
		frame.Close()
		return nil, newError(KindFrameDecode, err, "unable to decode frame %d", index)
	}

	if frame.Empty() {
		frame.Close()
		return nil, newError(KindFrameDecode, nil, "decoded frame %d is empty", index)
	}

	if d := frame.Dimensions(); d != md.Dimensions {
		frame.Close()
		return nil, newError(
			KindFrameDecode, nil,
			"decoded frame %d is %s but source reports %s", index, d, md.Dimensions,
		)
	}

	log.Debug("Decoded frame %d", index)
	return frame, nil
}

// ensurePosition guards against decoders which seek to the
// nearest keyframe instead of the requested frame.
func ensurePosition(src videobackend.Source, index int) error {
	pos := src.Position()
	if pos == index {
		return nil
	}

	log.Warn("Decoder landed on frame %d instead of %d, decoding sequentially from start", pos, index)
	if err := src.Seek(0); err != nil {
		return newError(KindFrameDecode, err, "unable to rewind to frame 0")
	}

	if pos := src.Position(); pos != 0 {
		return newError(KindFrameDecode, nil, "unable to rewind to frame 0, decoder is at frame %d", pos)
	}

	if err := src.Grab(index); err != nil {
		return newError(KindFrameDecode, err, "unable to advance to frame %d", index)
	}
	return nil
}

func (e *Extractor) writeImage(s *staging, dest string, frame videoframe.NoCloser) error {
	path, err := s.stage(KindImageWrite, dest)
	if err != nil {
		return err
	}

	if err := e.backend.WriteImage(path, frame); err != nil {
		return newError(KindImageWrite, err, "unable to write %s", dest)
	}

	log.Debug("Wrote frame image to %s", path)
	return nil
}

func (e *Extractor) writeVideo(
	s *staging, dest, codec string, md videobackend.Metadata, frame videoframe.NoCloser,
) error {
	path, err := s.stage(KindVideoWriterOpen, dest)
	if err != nil {
		return err
	}

	w, err := e.backend.NewVideoWriter(path, codec, md.FPS, md.Dimensions)
	if err != nil {
		return newError(KindVideoWriterOpen, err, "unable to open %s writer for %s", codec, dest)
	}

	if err := w.Write(frame); err != nil {
		w.Close()
		return newError(KindVideoWrite, err, "unable to write frame to %s", dest)
	}

	if err := w.Close(); err != nil {
		return newError(KindVideoWrite, err, "unable to finalise %s", dest)
	}

	log.Debug("Wrote single frame %s video to %s", codec, path)
	return nil
}

func (e *Extractor) annotate(
	s *staging, dest string, frame videoframe.NoCloser, detections []detection.Detection,
) error {
	annotated := e.backend.NewFrame()
	defer annotated.Close()

	if err := detection.Draw(frame, annotated, detections); err != nil {
		return newError(KindAnnotation, err, "unable to draw %d detections", len(detections))
	}

	path, err := s.stage(KindAnnotation, dest)
	if err != nil {
		return err
	}

	if err := e.backend.WriteImage(path, annotated); err != nil {
		return newError(KindAnnotation, err, "unable to write %s", dest)
	}

	log.Debug("Drew %d detections onto %s", len(detections), path)
	return nil
}
