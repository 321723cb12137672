package task

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fhuszti/assets-ms-go/internal/mock"
	"github.com/fhuszti/assets-ms-go/internal/port"
	"github.com/fhuszti/assets-ms-go/internal/uuid"
)

func TestDispatcherEnqueuesTypedJobs(t *testing.T) {
	q := &mock.MockJobQueue{}
	d := NewDispatcher(q)
	ctx := context.Background()
	id := uuid.NewUUID()

	h, err := d.EnqueueProcessAsset(ctx, port.ProcessAssetInput{AssetID: id, FileName: "a.jpg"})
	require.NoError(t, err)
	assert.Equal(t, id.String(), h.ID)

	_, err = d.EnqueueExtractExif(ctx, port.ExtractExifInput{AssetID: id})
	require.NoError(t, err)
	_, err = d.EnqueueTagImage(ctx, port.TagImageInput{AssetID: id, ThumbnailPath: "/t.jpg"})
	require.NoError(t, err)
	_, err = d.EnqueueDeleteFiles(ctx, port.DeleteFilesInput{Assets: []port.AssetFiles{{ID: id, OriginalPath: "/a.jpg"}}})
	require.NoError(t, err)

	require.Len(t, q.Jobs, 4)
	assert.Equal(t, TypeProcessAsset, q.Jobs[0].TaskName)
	assert.Equal(t, TypeExtractExif, q.Jobs[1].TaskName)
	assert.Equal(t, TypeTagImage, q.Jobs[2].TaskName)
	assert.Equal(t, TypeDeleteFileOnDisk, q.Jobs[3].TaskName)
}

func TestDispatcherPropagatesQueueError(t *testing.T) {
	boom := errors.New("redis down")
	d := NewDispatcher(&mock.MockJobQueue{EnqueueErr: boom})

	_, err := d.EnqueueProcessAsset(context.Background(), port.ProcessAssetInput{AssetID: uuid.NewUUID()})
	assert.ErrorIs(t, err, boom)
}
