package store

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreStore backs the Store facade with Cloud Firestore.
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore connects to the named Firestore database using a service
// account credentials file.
func NewFirestoreStore(ctx context.Context, project, database, credentialsFile string) (*FirestoreStore, error) {
	client, err := firestore.NewClientWithDatabase(ctx, project, database,
		option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, err
	}
	return &FirestoreStore{client: client}, nil
}

func (s *FirestoreStore) Get(ctx context.Context, collection, id string) (map[string]interface{}, error) {
	snap, err := s.client.Collection(collection).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return snap.Data(), nil
}

func (s *FirestoreStore) Set(ctx context.Context, collection, id string, data map[string]interface{}) error {
	_, err := s.client.Collection(collection).Doc(id).Set(ctx, data)
	return err
}

func (s *FirestoreStore) Merge(ctx context.Context, collection, id string, data map[string]interface{}) error {
	_, err := s.client.Collection(collection).Doc(id).Set(ctx, data, firestore.MergeAll)
	return err
}

func (s *FirestoreStore) Update(ctx context.Context, collection, id string, data map[string]interface{}) error {
	updates := make([]firestore.Update, 0, len(data))
	for field, value := range data {
		updates = append(updates, firestore.Update{Path: field, Value: value})
	}
	_, err := s.client.Collection(collection).Doc(id).Update(ctx, updates)
	if status.Code(err) == codes.NotFound {
		return ErrNotFound
	}
	return err
}

func (s *FirestoreStore) Delete(ctx context.Context, collection, id string) error {
	_, err := s.client.Collection(collection).Doc(id).Delete(ctx)
	return err
}

func (s *FirestoreStore) Add(ctx context.Context, collection string, data map[string]interface{}) (string, error) {
	ref, _, err := s.client.Collection(collection).Add(ctx, data)
	if err != nil {
		return "", err
	}
	return ref.ID, nil
}

func (s *FirestoreStore) Create(ctx context.Context, collection, id string, data map[string]interface{}) error {
	_, err := s.client.Collection(collection).Doc(id).Create(ctx, data)
	if status.Code(err) == codes.AlreadyExists {
		return ErrExists
	}
	return err
}

func (s *FirestoreStore) QueryByField(ctx context.Context, collection, field string, value interface{}) ([]Doc, error) {
	iter := s.client.Collection(collection).Where(field, "==", value).Documents(ctx)
	return collect(iter)
}

func (s *FirestoreStore) All(ctx context.Context, collection string) ([]Doc, error) {
	iter := s.client.Collection(collection).Documents(ctx)
	return collect(iter)
}

func (s *FirestoreStore) ArrayUnion(ctx context.Context, collection, id, field string, elems ...interface{}) error {
	// ArrayUnion is applied server-side, so concurrent accepts cannot
	// duplicate members.
	_, err := s.client.Collection(collection).Doc(id).Set(ctx, map[string]interface{}{
		field: firestore.ArrayUnion(elems...),
	}, firestore.MergeAll)
	return err
}

func (s *FirestoreStore) Close() error {
	return s.client.Close()
}

func collect(iter *firestore.DocumentIterator) ([]Doc, error) {
	defer iter.Stop()

	var docs []Doc
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		docs = append(docs, Doc{ID: snap.Ref.ID, Data: snap.Data()})
	}
	return docs, nil
}
