package records

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/w-h-a/culturelog/blob"
	"github.com/w-h-a/culturelog/culture"
	"github.com/w-h-a/culturelog/media"
	"github.com/w-h-a/culturelog/store"
)

// Confirm is the yes/no gate consulted before a delete. It lives at the
// presentation boundary; the service only honors its answer.
type Confirm func(ctx context.Context, rec culture.Record) bool

// Input is the validated field set handed over by the form on submit.
type Input struct {
	Note     string
	Tags     []string
	Category string
}

// Service keeps a per-owner snapshot of records, newest first, and applies
// create/update/delete against the record store (and the blob store when
// images are stored remotely). The snapshot is a cache: create and update
// refresh it by re-querying; delete removes the id in place.
type Service struct {
	store    store.Store
	blobs    blob.Blob
	convert  media.Converter
	confirm  Confirm
	snapshot map[string][]culture.Record
	mtx      sync.RWMutex
}

func (s *Service) Load(ctx context.Context, ownerId string) error {
	if len(ownerId) == 0 {
		return culture.ErrAuthRequired
	}

	recs, err := s.store.QueryByOwner(ctx, ownerId)
	if err != nil {
		// previous snapshot stays as it was
		return fmt.Errorf("%w: %v", culture.ErrStoreUnavailable, err)
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.snapshot[ownerId] = recs

	return nil
}

// Snapshot returns a copy of the owner's cached records.
func (s *Service) Snapshot(ownerId string) []culture.Record {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	cpy := make([]culture.Record, len(s.snapshot[ownerId]))
	copy(cpy, s.snapshot[ownerId])

	return cpy
}

// Filter returns the cached records whose tags or category contain the
// keyword. An empty keyword returns the whole snapshot. No remote call.
func (s *Service) Filter(ownerId string, keyword string) []culture.Record {
	keyword = strings.TrimSpace(keyword)
	if len(keyword) == 0 {
		return s.Snapshot(ownerId)
	}

	s.mtx.RLock()
	defer s.mtx.RUnlock()

	var matches []culture.Record

	for _, rec := range s.snapshot[ownerId] {
		if matchesKeyword(rec, keyword) {
			matches = append(matches, rec)
		}
	}

	return matches
}

func matchesKeyword(rec culture.Record, keyword string) bool {
	for _, tag := range rec.Tags {
		if strings.Contains(tag, keyword) {
			return true
		}
	}
	return strings.Contains(rec.Category, keyword)
}

func (s *Service) Create(ctx context.Context, ownerId string, input Input, file *media.File) error {
	if len(ownerId) == 0 {
		return culture.ErrAuthRequired
	}

	if err := validate(input); err != nil {
		return err
	}

	var image culture.Image
	if file != nil {
		var err error
		image, err = s.convert.Convert(ctx, ownerId, *file)
		if err != nil {
			return fmt.Errorf("%w: %v", culture.ErrStoreUnavailable, err)
		}
	}

	fields := culture.Fields{
		OwnerId:  ownerId,
		Note:     input.Note,
		Image:    image,
		Tags:     input.Tags,
		Category: input.Category,
	}

	if _, err := s.store.Insert(ctx, fields); err != nil {
		// a blob uploaded just above may now be orphaned; accepted
		return fmt.Errorf("%w: %v", culture.ErrStoreUnavailable, err)
	}

	return s.Load(ctx, ownerId)
}

func (s *Service) Update(ctx context.Context, id string, input Input, file *media.File) error {
	prev, ok := s.find(id)
	if !ok {
		return culture.ErrNotFound
	}

	if err := validate(input); err != nil {
		return err
	}

	image := prev.Image
	if file != nil {
		var err error
		image, err = s.convert.Convert(ctx, prev.OwnerId, *file)
		if err != nil {
			return fmt.Errorf("%w: %v", culture.ErrStoreUnavailable, err)
		}

		s.releaseBlob(ctx, prev.Image)
	}

	fields := culture.Fields{
		OwnerId:  prev.OwnerId,
		Note:     input.Note,
		Image:    image,
		Tags:     input.Tags,
		Category: input.Category,
	}

	if err := s.store.UpdateById(ctx, id, fields); err != nil {
		return fmt.Errorf("%w: %v", culture.ErrStoreUnavailable, err)
	}

	return s.Load(ctx, prev.OwnerId)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	rec, ok := s.find(id)
	if !ok {
		return culture.ErrNotFound
	}

	if s.confirm == nil || !s.confirm(ctx, rec) {
		return culture.ErrNotConfirmed
	}

	if err := s.store.DeleteById(ctx, id); err != nil {
		return fmt.Errorf("%w: %v", culture.ErrStoreUnavailable, err)
	}

	s.releaseBlob(ctx, rec.Image)

	// the delete is known-successful, so drop the id without a reload
	s.mtx.Lock()
	defer s.mtx.Unlock()

	recs := s.snapshot[rec.OwnerId]
	kept := recs[:0]
	for _, r := range recs {
		if r.Id != id {
			kept = append(kept, r)
		}
	}
	s.snapshot[rec.OwnerId] = kept

	return nil
}

func (s *Service) find(id string) (culture.Record, bool) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	for _, recs := range s.snapshot {
		for _, rec := range recs {
			if rec.Id == id {
				return rec, true
			}
		}
	}

	return culture.Record{}, false
}

// releaseBlob is best-effort: a stale orphaned blob is preferable to blocking
// the edit or delete, so failures are logged and swallowed.
func (s *Service) releaseBlob(ctx context.Context, image culture.Image) {
	if image.Kind != culture.ImageRemote || s.blobs == nil {
		return
	}

	if err := s.blobs.Delete(ctx, image.Path); err != nil {
		slog.DebugContext(ctx, "best-effort blob cleanup failed", "path", image.Path, "error", err)
	}
}

func validate(input Input) error {
	if len(strings.TrimSpace(input.Note)) == 0 {
		return fmt.Errorf("%w: note is required", culture.ErrValidation)
	}

	if !culture.ValidCategory(input.Category) {
		return fmt.Errorf("%w: unknown category %q", culture.ErrValidation, input.Category)
	}

	return nil
}

func New(
	st store.Store,
	blobs blob.Blob,
	convert media.Converter,
	confirm Confirm,
) *Service {
	if st == nil {
		panic("record store is required")
	}

	if convert == nil {
		panic("image converter is required")
	}

	return &Service{
		store:    st,
		blobs:    blobs,
		convert:  convert,
		confirm:  confirm,
		snapshot: map[string][]culture.Record{},
		mtx:      sync.RWMutex{},
	}
}
