package configdef

import (
	"errors"
	"fmt"

	"gopkg.in/dealancer/validate.v2"
)

// Values are the defaults an extraction falls back to for
// anything not given on the command line.
type Values struct {
	VideoFile   string `json:"video_file"`
	FrameIndex  int    `json:"frame_index"`
	OutputImage string `json:"output_image"`
	OutputVideo string `json:"output_video"`
	Codec       string `json:"codec" validate:"empty=false"`
	VerifySeek  bool   `json:"verify_seek"`
	Backend     string `json:"backend" validate:"one_of=opencv,mock"`
	LogLevel    string `json:"log_level" validate:"one_of=debug,info,warn,silent"`
}

func (v Values) RunValidate() error {
	if err := validate.Validate(&v); err != nil {
		return err
	}
	return v.Validate()
}

func (v Values) Validate() error {
	const validationErrorHeader = "validation failed: %w"
	if len(v.Codec) != 4 {
		return fmt.Errorf(validationErrorHeader, errors.New("codec must be exactly four characters"))
	}
	return nil
}
