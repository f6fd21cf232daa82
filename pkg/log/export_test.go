package log

var InfoEnabled = infoEnabled

func OverloadMuteInfo(overload bool) func() {
	muteInfoRef := muteInfo
	muteInfo = overload
	return func() { muteInfo = muteInfoRef }
}
