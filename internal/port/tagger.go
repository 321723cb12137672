package port

import "context"

// Tagger asks the ML service for the tags describing a thumbnail.
type Tagger interface {
	TagImage(ctx context.Context, thumbnailPath string) ([]string, error)
}
