package cli

import (
	"io"
	"os"
)

// nopCloser wraps an io.Writer with a no-op Close method, making
// os.Stdout compatible with io.WriteCloser.
type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// openOutput returns a WriteCloser for the given path. If path is empty,
// it returns os.Stdout wrapped in nopCloser. Otherwise it creates the
// file, overwriting if it exists.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}
