package kdtree

import (
	"io"

	"github.com/hupe1980/kdgo/axis"
)

// ImmutableTree is a read-only tree produced by Build, Freeze or by
// decoding. Queries are safe for concurrent use. A tree returned by View
// or OpenFile aliases its backing bytes, which must stay valid and
// unmodified until Close.
type ImmutableTree[A axis.Axis, T axis.Content, I axis.Index] struct {
	index[A, T, I]
	closer io.Closer
}

// Close releases the resource backing a viewed tree. It is a no-op for
// trees that own their storage. The tree must not be used afterwards.
func (t *ImmutableTree[A, T, I]) Close() error {
	c := t.closer
	t.closer = nil
	if c == nil {
		return nil
	}

	return c.Close()
}
