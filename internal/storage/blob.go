// Package storage holds uploaded source documents (the PDFs the suggestion
// flow extracts text from).
package storage

import "io"

type BlobStore interface {
	Put(key string, r io.Reader) (string, error) // returns canonical key
	Get(key string) (io.ReadCloser, error)
	Delete(key string) error
}
