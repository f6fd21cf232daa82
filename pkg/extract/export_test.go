package extract

import "github.com/spf13/afero"

func OverloadFS(overload afero.Fs) func() {
	fsRef := fs
	fs = overload
	return func() { fs = fsRef }
}

func OverloadStageID(overload func() string) func() {
	newStageIDRef := newStageID
	newStageID = overload
	return func() { newStageID = newStageIDRef }
}
