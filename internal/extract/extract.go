// Package extract turns uploaded source documents into plain text for the
// suggestion prompt.
package extract

import "context"

// Extractor resolves a stored source reference to its plain text.
type Extractor interface {
	Extract(ctx context.Context, ref string) (string, error)
}
