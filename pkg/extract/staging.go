package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/tauraamui/framegrab/pkg/log"
)

var newStageID = func() string {
	return uuid.NewString()
}

type stagedFile struct {
	kind      Kind
	path      string
	dest      string
	committed bool
}

// staging holds artifacts written next to their destination
// until every artifact of an extraction has been produced.
type staging struct {
	files []*stagedFile
}

// stage reserves a hidden sibling path of dest which keeps
// dest's extension, so encoders still infer the same format.
func (s *staging) stage(kind Kind, dest string) (string, error) {
	dir := filepath.Dir(dest)
	if err := ensureDirectoryPathExists(dir); err != nil {
		return "", newError(kind, err, "unable to create output directory %s", dir)
	}

	ext := filepath.Ext(dest)
	base := strings.TrimSuffix(filepath.Base(dest), ext)
	path := filepath.Join(dir, fmt.Sprintf(".%s.%s%s", base, newStageID(), ext))

	s.files = append(s.files, &stagedFile{kind: kind, path: path, dest: dest})
	return path, nil
}

// commit moves every staged file onto its destination in the
// order they were staged.
func (s *staging) commit() error {
	for _, f := range s.files {
		if err := fs.Rename(f.path, f.dest); err != nil {
			return newError(f.kind, err, "unable to move %s into place", f.dest)
		}
		f.committed = true
	}
	return nil
}

// discard removes whatever staged files were not committed.
func (s *staging) discard() {
	for _, f := range s.files {
		if f.committed {
			continue
		}
		if err := fs.Remove(f.path); err != nil && !os.IsNotExist(err) {
			log.Warn("unable to remove staged file %s: %v", f.path, err)
		}
	}
	s.files = nil
}

func ensureDirectoryPathExists(path string) error {
	err := fs.MkdirAll(path, os.ModePerm|os.ModeDir)
	if err == nil || os.IsExist(err) {
		return nil
	}
	return err
}
