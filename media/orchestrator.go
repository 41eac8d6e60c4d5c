package media

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Field binds a multipart form field to the record column holding its URL.
type Field struct {
	Form   string
	Column string
	Kind   Kind
}

var (
	PhotoField     = Field{Form: "photo", Column: "photo", Kind: KindImage}
	VideoDemoField = Field{Form: "videoDemoFile", Column: "video_demo", Kind: KindVideo}
)

// State is the lifecycle position of one asset field during a mutation.
type State string

const (
	StateUnchanged     State = "unchanged"
	StatePendingDelete State = "pending_delete"
	StatePendingUpload State = "pending_upload"
	StateCommitted     State = "committed"
	StateFailed        State = "failed"
)

// Slot is one asset field of a record: its current URL and, optionally, the
// staged file meant to replace it.
type Slot struct {
	Field    Field
	Current  string
	Incoming *StagedFile
}

// FieldOutcome reports what happened to one slot.
type FieldOutcome struct {
	Field    string        `json:"field"`
	State    State         `json:"state"`
	Previous string        `json:"previous,omitempty"`
	URL      string        `json:"url,omitempty"`
	Delete   *DeleteResult `json:"delete,omitempty"`
}

// Outcome collects the per-field results of a mutation.
type Outcome struct {
	Fields []FieldOutcome `json:"fields"`
}

// Changes returns column -> new URL for every field that received a new asset.
func (o *Outcome) Changes() map[string]any {
	changes := map[string]any{}
	for _, f := range o.Fields {
		if f.State == StatePendingUpload || f.State == StateCommitted {
			changes[f.Field] = f.URL
		}
	}
	return changes
}

// Deletes returns the delete results keyed by column, for diagnostics.
func (o *Outcome) Deletes() map[string]*DeleteResult {
	out := map[string]*DeleteResult{}
	for _, f := range o.Fields {
		out[f.Field] = f.Delete
	}
	return out
}

// AssetClient is the subset of Client the orchestrator drives.
type AssetClient interface {
	Upload(ctx context.Context, localPath string, kind Kind) (string, error)
	Delete(ctx context.Context, url string, kind Kind) DeleteResult
}

// Ledger records deletes that may have left a remote object behind.
type Ledger interface {
	RecordOrphan(ctx context.Context, res DeleteResult) error
}

// CommitFunc writes the new asset URLs (column -> URL) to the owning record in a
// single write. It is only called once every field has been resolved.
type CommitFunc func(changes map[string]any) error

// Asset is a URL held by a record together with its kind.
type Asset struct {
	URL  string
	Kind Kind
}

// Orchestrator sequences delete, upload and commit for record mutations.
type Orchestrator struct {
	client AssetClient
	ledger Ledger
	log    *zap.Logger
}

// NewOrchestrator builds an Orchestrator. ledger may be nil.
func NewOrchestrator(client AssetClient, ledger Ledger, log *zap.Logger) *Orchestrator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Orchestrator{client: client, ledger: ledger, log: log.Named("orchestrator")}
}

// Create uploads every supplied file and commits the resulting URLs. No delete
// is ever attempted since the record holds no prior asset.
func (o *Orchestrator) Create(ctx context.Context, slots []Slot, commit CommitFunc) (*Outcome, error) {
	fresh := make([]Slot, len(slots))
	for i, s := range slots {
		fresh[i] = Slot{Field: s.Field, Incoming: s.Incoming}
	}
	return o.run(ctx, fresh, commit)
}

// Update replaces the assets of an existing record. For each slot with an
// incoming file the previous asset is deleted (best-effort), the new file is
// uploaded, and once all slots are resolved commit persists the new URLs.
// An upload failure aborts the mutation before commit; the record keeps its
// previous URLs even if their remote objects were already deleted.
func (o *Orchestrator) Update(ctx context.Context, slots []Slot, commit CommitFunc) (*Outcome, error) {
	return o.run(ctx, slots, commit)
}

func (o *Orchestrator) run(ctx context.Context, slots []Slot, commit CommitFunc) (*Outcome, error) {
	out := &Outcome{Fields: make([]FieldOutcome, 0, len(slots))}
	var uploaded []Asset

	for _, s := range slots {
		fo := FieldOutcome{Field: s.Field.Column, State: StateUnchanged, Previous: s.Current, URL: s.Current}
		if s.Incoming == nil {
			out.Fields = append(out.Fields, fo)
			continue
		}

		if s.Current != "" {
			fo.State = StatePendingDelete
			res := o.client.Delete(ctx, s.Current, s.Field.Kind)
			fo.Delete = &res
			o.recordOrphan(ctx, res)
		}

		fo.State = StatePendingUpload
		url, err := o.client.Upload(ctx, s.Incoming.Path, s.Field.Kind)
		if err != nil {
			fo.State = StateFailed
			fo.URL = s.Current
			out.Fields = append(out.Fields, fo)
			o.abort(ctx, out, uploaded)
			return out, fmt.Errorf("%s: %w", s.Field.Column, err)
		}
		fo.URL = url
		uploaded = append(uploaded, Asset{URL: url, Kind: s.Field.Kind})
		out.Fields = append(out.Fields, fo)
	}

	if commit != nil {
		if err := commit(out.Changes()); err != nil {
			o.abort(ctx, out, uploaded)
			return out, fmt.Errorf("commit: %w", err)
		}
	}
	for i := range out.Fields {
		if out.Fields[i].State == StatePendingUpload {
			out.Fields[i].State = StateCommitted
		}
	}
	return out, nil
}

// Release deletes every asset ahead of a record removal. Failures are recorded
// and returned, never raised: the record is removed regardless.
func (o *Orchestrator) Release(ctx context.Context, assets []Asset) []DeleteResult {
	results := make([]DeleteResult, 0, len(assets))
	for _, a := range assets {
		if a.URL == "" {
			continue
		}
		res := o.client.Delete(ctx, a.URL, a.Kind)
		o.recordOrphan(ctx, res)
		results = append(results, res)
	}
	return results
}

// abort removes assets uploaded by an aborted mutation, since no record will
// ever point at them, and marks their fields failed.
func (o *Orchestrator) abort(ctx context.Context, out *Outcome, assets []Asset) {
	for i := range out.Fields {
		if out.Fields[i].State == StatePendingUpload {
			out.Fields[i].State = StateFailed
			out.Fields[i].URL = out.Fields[i].Previous
		}
	}
	for _, a := range assets {
		res := o.client.Delete(ctx, a.URL, a.Kind)
		o.recordOrphan(ctx, res)
	}
}

func (o *Orchestrator) recordOrphan(ctx context.Context, res DeleteResult) {
	if !res.Orphaned() || o.ledger == nil {
		return
	}
	if err := o.ledger.RecordOrphan(ctx, res); err != nil {
		o.log.Warn("record orphan failed", zap.String("url", res.URL), zap.Error(err))
	}
}
