package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/fhuszti/assets-ms-go/internal/uuid"
)

type SmartInfo struct {
	AssetID uuid.UUID `json:"assetId"`
	Tags    Tags      `json:"tags"`
}

// Tags is the ordered tag sequence returned by the ML service, stored as a JSON array.
type Tags []string

func (t Tags) Value() (driver.Value, error) {
	if t == nil {
		t = Tags{}
	}
	b, err := json.Marshal([]string(t))
	if err != nil {
		return nil, fmt.Errorf("marshal Tags: %w", err)
	}
	return b, nil
}

func (t *Tags) Scan(src interface{}) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*t = nil
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("Tags.Scan: expected []byte, got %T", src)
	}
	var out []string
	if err := json.Unmarshal(data, &out); err != nil {
		return fmt.Errorf("unmarshal Tags: %w", err)
	}
	*t = out
	return nil
}
