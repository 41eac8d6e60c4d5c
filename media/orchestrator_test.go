package media

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const oldPhoto = "https://res.cloudinary.com/demo/image/upload/v1/mega_ecommerce/images/abc.jpg"

type recordingCommit struct {
	calls   int
	changes map[string]any
	err     error
}

func (r *recordingCommit) fn(changes map[string]any) error {
	r.calls++
	r.changes = changes
	return r.err
}

func newTestOrchestrator(p *fakeProvider) (*Orchestrator, *fakeLedger) {
	ledger := &fakeLedger{}
	return NewOrchestrator(NewClient(p, DefaultFolder, nil), ledger, nil), ledger
}

func TestUpdateDeletesBeforeUploadThenCommits(t *testing.T) {
	p := &fakeProvider{}
	o, ledger := newTestOrchestrator(p)
	incoming := stageBytes(t, t.TempDir(), "new.jpg", []byte("img"))
	commit := &recordingCommit{}

	out, err := o.Update(context.Background(), []Slot{{Field: PhotoField, Current: oldPhoto, Incoming: incoming}}, commit.fn)
	require.NoError(t, err)

	assert.Equal(t, []string{"destroy:mega_ecommerce/images/abc", "upload:image"}, p.Calls())
	require.Equal(t, 1, commit.calls)
	newURL, _ := commit.changes["photo"].(string)
	assert.NotEmpty(t, newURL)
	assert.NotEqual(t, oldPhoto, newURL)

	require.Len(t, out.Fields, 1)
	f := out.Fields[0]
	assert.Equal(t, StateCommitted, f.State)
	assert.Equal(t, oldPhoto, f.Previous)
	assert.Equal(t, newURL, f.URL)
	require.NotNil(t, f.Delete)
	assert.True(t, f.Delete.Success)
	assert.Empty(t, ledger.orphans)
	assert.NoFileExists(t, incoming.Path)
}

func TestUpdateUploadFailureLeavesRecordUntouched(t *testing.T) {
	p := &fakeProvider{uploadErr: errors.New("upload timed out")}
	o, _ := newTestOrchestrator(p)
	incoming := stageBytes(t, t.TempDir(), "new.jpg", []byte("img"))
	commit := &recordingCommit{}

	out, err := o.Update(context.Background(), []Slot{{Field: PhotoField, Current: oldPhoto, Incoming: incoming}}, commit.fn)
	require.Error(t, err)

	var upErr *UploadError
	assert.ErrorAs(t, err, &upErr)
	assert.Contains(t, err.Error(), "upload timed out")
	assert.Zero(t, commit.calls)

	// the old asset is already gone upstream; the record keeps its URL regardless
	assert.Equal(t, []string{"destroy:mega_ecommerce/images/abc", "upload:image"}, p.Calls())
	require.Len(t, out.Fields, 1)
	assert.Equal(t, StateFailed, out.Fields[0].State)
	assert.Equal(t, oldPhoto, out.Fields[0].URL)
	assert.Empty(t, out.Changes())
	assert.NoFileExists(t, incoming.Path)
}

func TestCreateNeverDeletes(t *testing.T) {
	p := &fakeProvider{}
	o, _ := newTestOrchestrator(p)
	incoming := stageBytes(t, t.TempDir(), "new.jpg", []byte("img"))
	commit := &recordingCommit{}

	out, err := o.Create(context.Background(), []Slot{
		{Field: PhotoField, Current: oldPhoto, Incoming: incoming},
		{Field: VideoDemoField},
	}, commit.fn)
	require.NoError(t, err)

	assert.Equal(t, []string{"upload:image"}, p.Calls())
	require.Equal(t, 1, commit.calls)
	assert.Len(t, commit.changes, 1)
	assert.Contains(t, commit.changes, "photo")
	assert.Equal(t, StateCommitted, out.Fields[0].State)
	assert.Equal(t, StateUnchanged, out.Fields[1].State)
	assert.Nil(t, out.Fields[0].Delete)
}

func TestUpdateProceedsWhenDeleteFails(t *testing.T) {
	p := &fakeProvider{destroyErr: errors.New("service unavailable")}
	o, ledger := newTestOrchestrator(p)
	incoming := stageBytes(t, t.TempDir(), "new.jpg", []byte("img"))
	commit := &recordingCommit{}

	out, err := o.Update(context.Background(), []Slot{{Field: PhotoField, Current: oldPhoto, Incoming: incoming}}, commit.fn)
	require.NoError(t, err)
	assert.Equal(t, 1, commit.calls)
	assert.Equal(t, StateCommitted, out.Fields[0].State)

	deletes := out.Deletes()
	require.NotNil(t, deletes["photo"])
	assert.False(t, deletes["photo"].Success)
	require.Len(t, ledger.orphans, 1)
	assert.Equal(t, oldPhoto, ledger.orphans[0].URL)
	assert.Equal(t, ReasonProviderError, ledger.orphans[0].Reason)
}

func TestUpdateSecondFieldFailureDiscardsFirstUpload(t *testing.T) {
	p := &fakeProvider{failUpload: map[Kind]bool{KindVideo: true}}
	o, _ := newTestOrchestrator(p)
	dir := t.TempDir()
	photo := stageBytes(t, dir, "p.jpg", []byte("img"))
	video := stageBytes(t, dir, "v.mp4", []byte("vid"))
	commit := &recordingCommit{}

	out, err := o.Update(context.Background(), []Slot{
		{Field: PhotoField, Incoming: photo},
		{Field: VideoDemoField, Incoming: video},
	}, commit.fn)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "video_demo")
	assert.Zero(t, commit.calls)

	// the photo uploaded first is removed again since nothing references it
	assert.Equal(t, []string{"upload:image", "upload:video", "destroy:mega_ecommerce/images/new1"}, p.Calls())
	assert.Equal(t, StateFailed, out.Fields[0].State)
	assert.Empty(t, out.Fields[0].URL)
	assert.Equal(t, StateFailed, out.Fields[1].State)
}

func TestCommitFailureDiscardsUploads(t *testing.T) {
	p := &fakeProvider{}
	o, _ := newTestOrchestrator(p)
	incoming := stageBytes(t, t.TempDir(), "new.jpg", []byte("img"))
	commit := &recordingCommit{err: errors.New("duplicate key")}

	out, err := o.Create(context.Background(), []Slot{{Field: PhotoField, Incoming: incoming}}, commit.fn)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "commit: duplicate key")
	assert.Equal(t, []string{"upload:image", "destroy:mega_ecommerce/images/new1"}, p.Calls())
	assert.Equal(t, StateFailed, out.Fields[0].State)
}

func TestUpdateWithoutFilesStillCommits(t *testing.T) {
	p := &fakeProvider{}
	o, _ := newTestOrchestrator(p)
	commit := &recordingCommit{}

	out, err := o.Update(context.Background(), []Slot{{Field: PhotoField, Current: oldPhoto}}, commit.fn)
	require.NoError(t, err)
	assert.Empty(t, p.Calls())
	assert.Equal(t, 1, commit.calls)
	assert.Empty(t, commit.changes)
	assert.Equal(t, StateUnchanged, out.Fields[0].State)
	assert.Equal(t, oldPhoto, out.Fields[0].URL)
}

func TestRelease(t *testing.T) {
	p := &fakeProvider{destroyErr: errors.New("boom")}
	o, ledger := newTestOrchestrator(p)

	results := o.Release(context.Background(), []Asset{
		{URL: oldPhoto, Kind: KindImage},
		{URL: "", Kind: KindVideo},
	})
	require.Len(t, results, 1)
	assert.False(t, results[0].Success)
	assert.Len(t, ledger.orphans, 1)
	assert.Equal(t, []string{"destroy:mega_ecommerce/images/abc"}, p.Calls())
}
