package ports

import "context"

// TreeStore persists serialized tree documents (the V1 JSON produced by
// support.EncodeDocument) under caller-chosen names.
type TreeStore interface {
	// Save stores the document under name, replacing any previous version.
	Save(ctx context.Context, name string, data []byte) error

	// Load retrieves the document stored under name.
	// Returns domain.ErrTreeNotFound if the name is absent.
	Load(ctx context.Context, name string) ([]byte, error)

	// Delete removes the document stored under name.
	Delete(ctx context.Context, name string) error

	// List returns the names of all stored documents.
	List(ctx context.Context) ([]string, error)
}
