// Package detection holds the records produced by an external
// object detector and renders them onto extracted frames.
package detection

import (
	"encoding/json"
	"fmt"
	"image"

	"github.com/spf13/afero"
	"github.com/tauraamui/xerror"
	"gopkg.in/dealancer/validate.v2"
)

// Detection is one recognised object within a frame.
type Detection struct {
	Box        image.Rectangle
	ClassID    int
	ClassName  string
	Confidence float32
}

func (d Detection) String() string {
	return fmt.Sprintf(
		"%s(%d) %.2f [%d,%d %dx%d]",
		d.ClassName, d.ClassID, d.Confidence, d.Box.Min.X, d.Box.Min.Y, d.Box.Dx(), d.Box.Dy(),
	)
}

type box struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width" validate:"gte=0"`
	Height float64 `json:"height" validate:"gte=0"`
}

type record struct {
	Box        box     `json:"box"`
	ClassID    int     `json:"class_id" validate:"gte=0"`
	ClassName  string  `json:"class_name"`
	Confidence float32 `json:"confidence" validate:"gte=0 & lte=1"`
}

func (r record) toDetection() Detection {
	x, y := int(r.Box.X), int(r.Box.Y)
	return Detection{
		Box:        image.Rect(x, y, int(r.Box.X+r.Box.Width), int(r.Box.Y+r.Box.Height)),
		ClassID:    r.ClassID,
		ClassName:  r.ClassName,
		Confidence: r.Confidence,
	}
}

// Load reads a JSON array of detections from path.
func Load(fs afero.Fs, path string) ([]Detection, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, xerror.Errorf("unable to read detections: %w", err)
	}

	return Parse(data)
}

func Parse(data []byte) ([]Detection, error) {
	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, xerror.Errorf("parsing detections error: %w", err)
	}

	detections := make([]Detection, 0, len(records))
	for i := range records {
		if err := validate.Validate(&records[i]); err != nil {
			return nil, xerror.Errorf("detection %d is invalid: %w", i, err)
		}
		if err := validate.Validate(&records[i].Box); err != nil {
			return nil, xerror.Errorf("detection %d is invalid: %w", i, err)
		}
		detections = append(detections, records[i].toDetection())
	}
	return detections, nil
}
