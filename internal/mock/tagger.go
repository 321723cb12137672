package mock

import (
	"context"
	"io"

	"github.com/fhuszti/assets-ms-go/internal/model"
)

// MockTagger returns canned tags.
type MockTagger struct {
	Tags  []string
	Err   error
	Calls []string
}

func (m *MockTagger) TagImage(ctx context.Context, thumbnailPath string) ([]string, error) {
	m.Calls = append(m.Calls, thumbnailPath)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Tags, nil
}

// MockExifParser returns a copy of Out for every parse.
type MockExifParser struct {
	Out   *model.Exif
	Err   error
	Calls int
	Read  []byte
}

func (m *MockExifParser) Parse(r io.Reader) (*model.Exif, error) {
	m.Calls++
	m.Read, _ = io.ReadAll(r)
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Out == nil {
		return &model.Exif{}, nil
	}
	cp := *m.Out
	return &cp, nil
}
