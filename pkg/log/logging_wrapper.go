package log

import (
	"strings"

	"github.com/tacusci/logging/v2"
	"github.com/tauraamui/xerror"
)

// tacusci/logging ranks info above warn, so at warn level info
// lines are dropped here instead.
var muteInfo = true

var Debug = func(format string, a ...interface{}) {
	logging.Debug(format, a...) //nolint
}

var Info = func(format string, a ...interface{}) {
	if !infoEnabled() {
		return
	}
	logging.Info(format, a...) //nolint
}

func infoEnabled() bool {
	return !(muteInfo && logging.CurrentLoggingLevel == logging.WarnLevel)
}

var Warn = func(format string, a ...interface{}) {
	logging.Warn(format, a...) //nolint
}

var Error = func(format string, a ...interface{}) {
	logging.Error(format, a...) //nolint
}

// SetLevel switches the global logging level by name. Each of
// debug, info, warn shows everything the next one does. Debug
// level also turns on caller labels.
func SetLevel(name string) error {
	switch strings.ToLower(name) {
	case "silent":
		logging.CurrentLoggingLevel = logging.SilentLevel
		muteInfo = true
	case "debug":
		logging.CurrentLoggingLevel = logging.DebugLevel
		muteInfo = false
		logging.CallbackLabel = true
		return nil
	case "info":
		logging.CurrentLoggingLevel = logging.WarnLevel
		muteInfo = false
	case "warn", "":
		logging.CurrentLoggingLevel = logging.WarnLevel
		muteInfo = true
	default:
		return xerror.Errorf("unknown logging level: %s", name)
	}
	logging.CallbackLabel = false
	return nil
}
