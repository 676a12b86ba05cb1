package services

import (
	"context"
	"errors"

	"aiacademy/backend/apperr"
	"aiacademy/backend/auth"
	"aiacademy/backend/models"
	"aiacademy/backend/store"
)

type ProfileService struct {
	Store store.Store
}

func NewProfileService(st store.Store) *ProfileService {
	return &ProfileService{Store: st}
}

// GetOrCreate returns the caller's profile document. A missing profile is
// created verbatim from the verified identity, so the first authenticated
// request is what provisions the user.
func (s *ProfileService) GetOrCreate(ctx context.Context, ident *auth.Identity) (map[string]interface{}, error) {
	doc, err := s.Store.Get(ctx, models.UsersCollection, ident.UID)
	if errors.Is(err, store.ErrNotFound) {
		doc = map[string]interface{}{
			"uid":   ident.UID,
			"email": ident.Email,
			"name":  ident.Name,
		}
		if err := s.Store.Set(ctx, models.UsersCollection, ident.UID, doc); err != nil {
			return nil, apperr.Wrap(apperr.Store, "Failed to create user profile", err)
		}
		return doc, nil
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Store, "Failed to retrieve user profile", err)
	}

	delete(doc, "password_hash")
	return doc, nil
}

// Update merges the allow-listed fields into the profile. Requests carrying
// none of the allowed fields are rejected rather than silently ignored.
func (s *ProfileService) Update(ctx context.Context, uid string, update models.ProfileUpdate) error {
	fields := update.Fields()
	if len(fields) == 0 {
		return apperr.New(apperr.InvalidInput, "No data provided for update.")
	}

	if err := s.Store.Merge(ctx, models.UsersCollection, uid, fields); err != nil {
		return apperr.Wrap(apperr.Store, "Failed to update user profile", err)
	}
	return nil
}
