package asset

import (
	"context"
	"errors"
	"testing"

	"github.com/fhuszti/assets-ms-go/internal/mock"
	"github.com/fhuszti/assets-ms-go/internal/port"
)

func TestGetJobState(t *testing.T) {
	a := newAsset(ownerID, "img-1", nil)
	q := &mock.MockJobQueue{InspectOut: port.JobState{ID: a.ID.String(), Status: port.JobActive}}
	svc := NewJobInspector(mock.NewMockAssetRepo(a), q)

	st, err := svc.GetJobState(context.Background(), ownerID, a.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.Status != port.JobActive {
		t.Errorf("got status %q", st.Status)
	}
	if len(q.InspectedKeys) != 1 || q.InspectedKeys[0] != a.ID.String() {
		t.Errorf("should inspect the process job key, got %v", q.InspectedKeys)
	}
}

func TestGetJobState_OtherOwner(t *testing.T) {
	a := newAsset(ownerID, "img-1", nil)
	q := &mock.MockJobQueue{}
	_, err := NewJobInspector(mock.NewMockAssetRepo(a), q).GetJobState(context.Background(), otherID, a.ID)
	if !errors.Is(err, ErrAssetNotFound) {
		t.Fatalf("expected ErrAssetNotFound, got %v", err)
	}
	if len(q.InspectedKeys) != 0 {
		t.Error("queue should not be inspected")
	}
}

func TestListDeadLetters_ClampsPaging(t *testing.T) {
	tests := []struct {
		page, size         int
		wantPage, wantSize int
	}{
		{0, 0, 1, 20},
		{2, 10, 2, 10},
		{3, 1000, 3, 100},
	}
	for _, tt := range tests {
		q := &mock.MockJobQueue{DeadOut: []port.JobState{{ID: "x", Status: port.JobDead}}}
		out, err := NewJobInspector(mock.NewMockAssetRepo(), q).ListDeadLetters(context.Background(), tt.page, tt.size)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(out) != 1 {
			t.Errorf("expected the queue's dead letters back")
		}
		if q.DeadPage != tt.wantPage || q.DeadSize != tt.wantSize {
			t.Errorf("page/size %d/%d: got %d/%d, want %d/%d", tt.page, tt.size, q.DeadPage, q.DeadSize, tt.wantPage, tt.wantSize)
		}
	}
}
