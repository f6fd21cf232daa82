package videoframe_test

import (
	"testing"

	"github.com/matryer/is"
	"github.com/tauraamui/framegrab/pkg/video/videoframe"
)

func TestDimensionsString(t *testing.T) {
	is := is.New(t)
	is.Equal(videoframe.Dimensions{W: 1920, H: 1080}.String(), "1920x1080")
}
