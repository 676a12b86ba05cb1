package store

import (
	"context"
	"reflect"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore keeps documents in process memory. It is used by the tests and
// as a fallback when no Firestore credentials are configured.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]map[string]interface{}
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: make(map[string]map[string]map[string]interface{}),
	}
}

func (s *MemoryStore) Get(_ context.Context, collection, id string) (map[string]interface{}, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.collections[collection][id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyDoc(doc), nil
}

func (s *MemoryStore) Set(_ context.Context, collection, id string, data map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.coll(collection)[id] = copyDoc(data)
	return nil
}

func (s *MemoryStore) Merge(_ context.Context, collection, id string, data map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	coll := s.coll(collection)
	doc, ok := coll[id]
	if !ok {
		doc = make(map[string]interface{})
		coll[id] = doc
	}
	for field, value := range data {
		doc[field] = value
	}
	return nil
}

func (s *MemoryStore) Update(_ context.Context, collection, id string, data map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.collections[collection][id]
	if !ok {
		return ErrNotFound
	}
	for field, value := range data {
		doc[field] = value
	}
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.collections[collection], id)
	return nil
}

func (s *MemoryStore) Add(_ context.Context, collection string, data map[string]interface{}) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	s.coll(collection)[id] = copyDoc(data)
	return id, nil
}

func (s *MemoryStore) Create(_ context.Context, collection, id string, data map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	coll := s.coll(collection)
	if _, ok := coll[id]; ok {
		return ErrExists
	}
	coll[id] = copyDoc(data)
	return nil
}

func (s *MemoryStore) QueryByField(_ context.Context, collection, field string, value interface{}) ([]Doc, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var docs []Doc
	for id, doc := range s.collections[collection] {
		if reflect.DeepEqual(doc[field], value) {
			docs = append(docs, Doc{ID: id, Data: copyDoc(doc)})
		}
	}
	return docs, nil
}

func (s *MemoryStore) All(_ context.Context, collection string) ([]Doc, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var docs []Doc
	for id, doc := range s.collections[collection] {
		docs = append(docs, Doc{ID: id, Data: copyDoc(doc)})
	}
	return docs, nil
}

func (s *MemoryStore) ArrayUnion(_ context.Context, collection, id, field string, elems ...interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	coll := s.coll(collection)
	doc, ok := coll[id]
	if !ok {
		doc = make(map[string]interface{})
		coll[id] = doc
	}

	existing, _ := doc[field].([]interface{})
	for _, elem := range elems {
		present := false
		for _, have := range existing {
			if reflect.DeepEqual(have, elem) {
				present = true
				break
			}
		}
		if !present {
			existing = append(existing, elem)
		}
	}
	doc[field] = existing
	return nil
}

func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) coll(name string) map[string]map[string]interface{} {
	coll, ok := s.collections[name]
	if !ok {
		coll = make(map[string]map[string]interface{})
		s.collections[name] = coll
	}
	return coll
}

// copyDoc shields stored documents from mutation through returned maps.
// Nested maps and slices are copied one level deep, which covers the shapes
// this application stores.
func copyDoc(doc map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(doc))
	for k, v := range doc {
		switch val := v.(type) {
		case map[string]interface{}:
			inner := make(map[string]interface{}, len(val))
			for ik, iv := range val {
				inner[ik] = iv
			}
			out[k] = inner
		case []interface{}:
			out[k] = append([]interface{}(nil), val...)
		default:
			out[k] = v
		}
	}
	return out
}
