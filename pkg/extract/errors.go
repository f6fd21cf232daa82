package extract

import (
	"errors"
	"fmt"

	"github.com/tauraamui/xerror"
)

type Kind = xerror.Kind

const (
	KindSourceOpen            = Kind("source_open")
	KindInvalidSourceMetadata = Kind("invalid_source_metadata")
	KindFrameIndexOutOfRange  = Kind("frame_index_out_of_range")
	KindFrameDecode           = Kind("frame_decode")
	KindImageWrite            = Kind("image_write")
	KindVideoWriterOpen       = Kind("video_writer_open")
	KindVideoWrite            = Kind("video_write")
	KindAnnotation            = Kind("annotation")
)

var (
	ErrSourceOpen            = &Error{Kind: KindSourceOpen}
	ErrInvalidSourceMetadata = &Error{Kind: KindInvalidSourceMetadata}
	ErrFrameIndexOutOfRange  = &Error{Kind: KindFrameIndexOutOfRange}
	ErrFrameDecode           = &Error{Kind: KindFrameDecode}
	ErrImageWrite            = &Error{Kind: KindImageWrite}
	ErrVideoWriterOpen       = &Error{Kind: KindVideoWriterOpen}
	ErrVideoWrite            = &Error{Kind: KindVideoWrite}
	ErrAnnotation            = &Error{Kind: KindAnnotation}
)

// Error is the failure of one extraction stage. The sentinel
// Err* values match any Error of the same kind with errors.Is.
type Error struct {
	Kind  Kind
	x     xerror.I
	cause error
}

func newError(k Kind, cause error, format string, a ...interface{}) *Error {
	msg := fmt.Sprintf(format, a...)
	if cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, cause)
	}
	return &Error{Kind: k, x: xerror.NewWithKind(k, msg), cause: cause}
}

func (e *Error) Error() string {
	if e.x == nil {
		return string(e.Kind)
	}
	return e.x.Error()
}

// Msg is the failure description without the kind prefix.
func (e *Error) Msg() string {
	if e.x == nil {
		return ""
	}
	return e.x.ErrorMsg()
}

func (e *Error) Unwrap() error {
	return e.cause
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the extraction stage err failed at, or
// xerror.NA if err did not come from an extraction.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return xerror.NA
}
