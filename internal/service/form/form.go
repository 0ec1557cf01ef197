package form

import (
	"context"
	"strings"
	"sync"

	"github.com/w-h-a/culturelog/culture"
	"github.com/w-h-a/culturelog/internal/service/records"
	"github.com/w-h-a/culturelog/media"
	"github.com/w-h-a/culturelog/util/tagset"
)

type State int

const (
	StateIdle State = iota
	StateEditing
	StateSubmitting
)

// Draft is a read-only view of the form's transient field set.
type Draft struct {
	EditingId string
	OwnerId   string
	Note      string
	Tags      []string
	Category  string
	Preview   string
}

// Form owns the draft for one form instance. One draft exists at a time:
// opening a new one discards any unsaved prior draft and releases its
// preview. Submit hands the validated input to the records service; on
// failure the draft is kept so the user can retry.
type Form struct {
	svc       *records.Service
	state     State
	editingId string
	ownerId   string
	note      string
	tags      []string
	category  string
	file      *media.File
	preview   *media.Preview
	fallback  culture.Image
	mtx       sync.Mutex
}

// OpenNew starts a new-record draft with empty defaults.
func (f *Form) OpenNew(ownerId string) {
	f.mtx.Lock()
	defer f.mtx.Unlock()

	f.discard()
	f.state = StateEditing
	f.ownerId = ownerId
}

// OpenEdit starts an edit draft seeded from the target record's current
// values. The record's image is kept as the fallback when no new file is
// selected before submit.
func (f *Form) OpenEdit(rec culture.Record) {
	f.mtx.Lock()
	defer f.mtx.Unlock()

	f.discard()
	f.state = StateEditing
	f.editingId = rec.Id
	f.ownerId = rec.OwnerId
	f.note = rec.Note
	f.tags = make([]string, len(rec.Tags))
	copy(f.tags, rec.Tags)
	f.category = rec.Category
	f.fallback = rec.Image
}

func (f *Form) SetNote(note string) {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	f.note = note
}

func (f *Form) SetCategory(category string) {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	f.category = category
}

// SelectFile replaces any pending selection, releasing the old preview.
func (f *Form) SelectFile(file media.File) {
	f.mtx.Lock()
	defer f.mtx.Unlock()

	if f.preview != nil {
		f.preview.Release()
	}

	f.file = &file
	f.preview = media.NewPreview(file)
}

// ClearFile drops the pending selection; in edit mode the original image
// becomes the fallback again.
func (f *Form) ClearFile() {
	f.mtx.Lock()
	defer f.mtx.Unlock()

	if f.preview != nil {
		f.preview.Release()
	}

	f.file = nil
	f.preview = nil
}

// CommitTag appends the trimmed tag unless it is empty or already present.
func (f *Form) CommitTag(raw string) {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	f.tags = tagset.Append(f.tags, raw)
}

func (f *Form) RemoveTag(tag string) {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	f.tags = tagset.Remove(f.tags, tag)
}

// CanSubmit reports the submit precondition: an editing draft, a non-empty
// note, and no submit in flight.
func (f *Form) CanSubmit() bool {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	return f.state == StateEditing && len(strings.TrimSpace(f.note)) > 0
}

// Submit delegates to the records service. Success resets the form to Idle
// and clears the draft; failure surfaces the error and keeps the draft
// intact.
func (f *Form) Submit(ctx context.Context) error {
	f.mtx.Lock()

	if f.state != StateEditing || len(strings.TrimSpace(f.note)) == 0 {
		f.mtx.Unlock()
		return culture.ErrValidation
	}

	f.state = StateSubmitting

	editingId := f.editingId
	ownerId := f.ownerId
	file := f.file
	input := records.Input{
		Note:     f.note,
		Tags:     append([]string(nil), f.tags...),
		Category: strings.TrimSpace(f.category),
	}

	f.mtx.Unlock()

	var err error
	if len(editingId) > 0 {
		err = f.svc.Update(ctx, editingId, input, file)
	} else {
		err = f.svc.Create(ctx, ownerId, input, file)
	}

	f.mtx.Lock()
	defer f.mtx.Unlock()

	if err != nil {
		// back to editing with the entered values intact
		f.state = StateEditing
		return err
	}

	f.discard()

	return nil
}

// Cancel discards the draft unconditionally.
func (f *Form) Cancel() {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	f.discard()
}

func (f *Form) State() State {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	return f.state
}

func (f *Form) Draft() Draft {
	f.mtx.Lock()
	defer f.mtx.Unlock()

	d := Draft{
		EditingId: f.editingId,
		OwnerId:   f.ownerId,
		Note:      f.note,
		Tags:      append([]string(nil), f.tags...),
		Category:  f.category,
	}

	switch {
	case f.preview != nil:
		d.Preview = f.preview.URL()
	case f.fallback.Kind == culture.ImageRemote:
		// edit mode with no new selection shows the stored image
		d.Preview = f.fallback.URL
	case f.fallback.Kind == culture.ImageInline:
		d.Preview = f.fallback.Data
	}

	return d
}

// discard resets every draft field and releases the preview. Callers hold
// the lock.
func (f *Form) discard() {
	if f.preview != nil {
		f.preview.Release()
	}

	f.state = StateIdle
	f.editingId = ""
	f.ownerId = ""
	f.note = ""
	f.tags = nil
	f.category = ""
	f.file = nil
	f.preview = nil
	f.fallback = culture.Image{}
}

func New(svc *records.Service) *Form {
	if svc == nil {
		panic("records service is required")
	}

	return &Form{
		svc: svc,
		mtx: sync.Mutex{},
	}
}
