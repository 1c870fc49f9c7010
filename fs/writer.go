// Package fs provides file-based product export.
package fs

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/fwojciec/shopcrawl"
)

// Ensure Writer implements shopcrawl.ProductWriter at compile time.
var _ shopcrawl.ProductWriter = (*Writer)(nil)

// Writer exports products as NDJSON, one product per line. Output is
// written to a temporary file and moved into place atomically, so a
// consumer watching the path never sees a partial export.
type Writer struct {
	path string
}

// NewWriter creates a new Writer that writes to the given file path.
func NewWriter(path string) *Writer {
	return &Writer{path: path}
}

// WriteProducts writes the products to disk, replacing any previous
// export at the path.
func (w *Writer) WriteProducts(products []*shopcrawl.Product) error {
	dir := filepath.Dir(w.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp := w.path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(f)
	enc := json.NewEncoder(bw)
	for _, p := range products {
		if err := enc.Encode(p); err != nil {
			f.Close()
			os.Remove(tmp)
			return err
		}
	}

	if err := bw.Flush(); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}

	return os.Rename(tmp, w.path)
}
