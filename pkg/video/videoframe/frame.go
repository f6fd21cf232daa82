package videoframe

import "fmt"

type Dimensions struct {
	W, H int
}

func (d Dimensions) String() string {
	return fmt.Sprintf("%dx%d", d.W, d.H)
}

// NoCloser is a frame which can be read from but whose
// lifetime belongs to someone else.
type NoCloser interface {
	DataRef() interface{}
	Dimensions() Dimensions
	Empty() bool
	ToBytes() []byte
}

type Frame interface {
	NoCloser
	Close()
}
