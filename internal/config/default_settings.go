package config

import "github.com/tauraamui/framegrab/pkg/configdef"

type defaultSettingKey uint

const (
	VIDEOFILE   defaultSettingKey = 0x0
	FRAMEINDEX  defaultSettingKey = 0x1
	OUTPUTIMAGE defaultSettingKey = 0x2
	OUTPUTVIDEO defaultSettingKey = 0x3
	CODEC       defaultSettingKey = 0x4
	VERIFYSEEK  defaultSettingKey = 0x5
	BACKEND     defaultSettingKey = 0x6
	LOGLEVEL    defaultSettingKey = 0x7
)

var defaultSettings = map[defaultSettingKey]interface{}{
	VIDEOFILE:   "demo/yolo_test.mp4",
	FRAMEINDEX:  700,
	OUTPUTIMAGE: "demo/test_image.png",
	OUTPUTVIDEO: "demo/test_video.avi",
	CODEC:       "MJPG",
	VERIFYSEEK:  true,
	BACKEND:     "opencv",
	LOGLEVEL:    "warn",
}

// Defaults are the values used for anything a config
// file leaves out.
func Defaults() configdef.Values {
	return configdef.Values{
		VideoFile:   defaultSettings[VIDEOFILE].(string),
		FrameIndex:  defaultSettings[FRAMEINDEX].(int),
		OutputImage: defaultSettings[OUTPUTIMAGE].(string),
		OutputVideo: defaultSettings[OUTPUTVIDEO].(string),
		Codec:       defaultSettings[CODEC].(string),
		VerifySeek:  defaultSettings[VERIFYSEEK].(bool),
		Backend:     defaultSettings[BACKEND].(string),
		LogLevel:    defaultSettings[LOGLEVEL].(string),
	}
}
