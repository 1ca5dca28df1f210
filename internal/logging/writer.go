// ABOUTME: CombinedWriter fans one write out to several writers.
// ABOUTME: A failing writer does not stop the others; errors are combined.
package logging

import (
	"io"

	"go.uber.org/multierr"
)

type CombinedWriter struct {
	Writers []io.Writer
}

func NewCombinedWriter(writers ...io.Writer) *CombinedWriter {
	return &CombinedWriter{Writers: writers}
}

// Write reports len(p) when every writer succeeded.
func (cw *CombinedWriter) Write(p []byte) (int, error) {
	var err error
	for _, w := range cw.Writers {
		n, werr := w.Write(p)
		if werr == nil && n < len(p) {
			werr = io.ErrShortWrite
		}
		err = multierr.Append(err, werr)
	}
	if err != nil {
		return 0, err
	}
	return len(p), nil
}
