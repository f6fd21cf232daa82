package videotest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/tauraamui/framegrab/pkg/video/videobackend"
)

const fixtureCodec = "MJPG"

// MakeRootPath creates a fresh directory under the OS temp
// dir for a test to write fixtures and outputs into.
func MakeRootPath() (string, error) {
	path := filepath.Join(os.TempDir(), "framegrab-test", uuid.NewString())
	if err := os.MkdirAll(path, os.ModePerm|os.ModeDir); err != nil {
		return "", err
	}
	return path, nil
}

// WriteSyntheticVideo renders every frame of spec through the
// mock backend and encodes them as a motion-JPEG AVI in dir.
func WriteSyntheticVideo(dir string, spec videobackend.SyntheticSpec) (string, error) {
	backend := videobackend.Mock(spec)
	src, err := backend.Open(spec.Title)
	if err != nil {
		return "", err
	}
	defer src.Close()

	path := filepath.Join(dir, fmt.Sprintf("synthetic-%s.avi", uuid.NewString()))
	w, err := backend.NewVideoWriter(path, fixtureCodec, spec.FPS, spec.Dimensions)
	if err != nil {
		return "", err
	}

	frame := backend.NewFrame()
	defer frame.Close()

	for i := 0; i < spec.FrameCount; i++ {
		if err := src.Read(frame); err != nil {
			w.Close()
			return "", err
		}
		if err := w.Write(frame); err != nil {
			w.Close()
			return "", err
		}
	}

	if err := w.Close(); err != nil {
		return "", err
	}
	return path, nil
}
