package configdef_test

import (
	"encoding/json"
	"testing"

	"github.com/matryer/is"
	"github.com/tauraamui/framegrab/pkg/configdef"
)

func validValues() configdef.Values {
	return configdef.Values{
		Codec:    "MJPG",
		Backend:  "opencv",
		LogLevel: "warn",
	}
}

func TestValidatePopulatedConfigPassesValidation(t *testing.T) {
	is := is.New(t)
	body := `{
			"video_file": "demo/yolo_test.mp4",
			"frame_index": 700,
			"output_image": "demo/test_image.png",
			"output_video": "demo/test_video.avi",
			"codec": "XVID",
			"verify_seek": false,
			"backend": "mock",
			"log_level": "debug"
		}`
	config := validValues()
	is.NoErr(json.Unmarshal([]byte(body), &config))
	is.NoErr(config.RunValidate())
	is.Equal(config.Codec, "XVID")
	is.Equal(config.FrameIndex, 700)
}

func TestValidateFailsForMissingCodec(t *testing.T) {
	is := is.New(t)
	config := validValues()
	config.Codec = ""
	is.Equal(config.RunValidate().Error(), `Validation error in field "Codec" of type "string" using validator "empty=false"`)
}

func TestValidateFailsForUnknownBackend(t *testing.T) {
	is := is.New(t)
	config := validValues()
	config.Backend = "ffmpeg"
	is.Equal(config.RunValidate().Error(), `Validation error in field "Backend" of type "string" using validator "one_of=opencv,mock"`)
}

func TestValidateFailsForCodecWhichIsNotFourCharacters(t *testing.T) {
	is := is.New(t)
	config := validValues()
	config.Codec = "MJPEG"
	is.Equal(config.RunValidate().Error(), "validation failed: codec must be exactly four characters")
}
