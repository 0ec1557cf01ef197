package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/w-h-a/culturelog/culture"
	"github.com/w-h-a/culturelog/store"
)

type memoryStore struct {
	options store.Options
	records map[string]culture.Record
	mtx     sync.RWMutex
}

func (s *memoryStore) Insert(ctx context.Context, fields culture.Fields) (string, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	id := uuid.New().String()

	now := time.Now().UTC()

	tags := make([]string, len(fields.Tags))
	copy(tags, fields.Tags)

	rec := culture.Record{
		Id:        id,
		OwnerId:   fields.OwnerId,
		Note:      fields.Note,
		Image:     fields.Image,
		Tags:      tags,
		Category:  fields.Category,
		CreatedAt: now,
	}

	s.records[id] = rec

	return id, nil
}

func (s *memoryStore) QueryByOwner(ctx context.Context, ownerId string) ([]culture.Record, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	matches := make([]culture.Record, 0, len(s.records))

	for _, rec := range s.records {
		if rec.OwnerId != ownerId {
			continue
		}
		cpy := rec
		cpy.Tags = make([]string, len(rec.Tags))
		copy(cpy.Tags, rec.Tags)
		matches = append(matches, cpy)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].CreatedAt.Equal(matches[j].CreatedAt) {
			return matches[i].Id > matches[j].Id
		}
		return matches[i].CreatedAt.After(matches[j].CreatedAt)
	})

	return matches, nil
}

func (s *memoryStore) UpdateById(ctx context.Context, id string, fields culture.Fields) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	rec, ok := s.records[id]
	if !ok {
		return culture.ErrNotFound
	}

	tags := make([]string, len(fields.Tags))
	copy(tags, fields.Tags)

	// Id, OwnerId, and CreatedAt stay as they were.
	rec.Note = fields.Note
	rec.Image = fields.Image
	rec.Tags = tags
	rec.Category = fields.Category

	s.records[id] = rec

	return nil
}

func (s *memoryStore) DeleteById(ctx context.Context, id string) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.records[id]; !ok {
		return culture.ErrNotFound
	}

	delete(s.records, id)

	return nil
}

func NewStore(opts ...store.Option) store.Store {
	options := store.NewOptions(opts...)

	s := &memoryStore{
		options: options,
		records: map[string]culture.Record{},
		mtx:     sync.RWMutex{},
	}

	return s
}
