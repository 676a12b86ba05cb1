package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"aiacademy/backend/apperr"
	"aiacademy/backend/auth"
	"aiacademy/backend/models"
	"aiacademy/backend/store"
)

// AccountService implements the self-issued token variant: accounts live in
// the users collection with a bcrypt hash, and login returns a signed JWT.
type AccountService struct {
	Store     store.Store
	JWTSecret string
}

func NewAccountService(st store.Store, jwtSecret string) *AccountService {
	return &AccountService{Store: st, JWTSecret: jwtSecret}
}

func (s *AccountService) Register(ctx context.Context, name, email, password string) (string, *auth.Identity, error) {
	if name == "" || email == "" || password == "" {
		return "", nil, apperr.New(apperr.InvalidInput, "Name, email and password are required")
	}

	existing, err := s.Store.QueryByField(ctx, models.UsersCollection, "email", email)
	if err != nil {
		return "", nil, apperr.Wrap(apperr.Store, "Could not check existing users", err)
	}
	if len(existing) > 0 {
		return "", nil, apperr.New(apperr.InvalidInput, "A user with this email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, apperr.Wrap(apperr.Store, "Could not hash password", err)
	}

	uid := uuid.NewString()
	doc := map[string]interface{}{
		"uid":           uid,
		"email":         email,
		"name":          name,
		"password_hash": string(hash),
		"created_at":    time.Now().UTC(),
	}
	if err := s.Store.Set(ctx, models.UsersCollection, uid, doc); err != nil {
		return "", nil, apperr.Wrap(apperr.Store, "Could not create user", err)
	}

	token, err := auth.IssueToken(s.JWTSecret, uid, email, name)
	if err != nil {
		return "", nil, apperr.Wrap(apperr.Store, "Could not generate token", err)
	}

	return token, &auth.Identity{UID: uid, Email: email, Name: name}, nil
}

func (s *AccountService) Login(ctx context.Context, email, password string) (string, *auth.Identity, error) {
	docs, err := s.Store.QueryByField(ctx, models.UsersCollection, "email", email)
	if err != nil {
		return "", nil, apperr.Wrap(apperr.Store, "Could not look up user", err)
	}
	if len(docs) == 0 {
		return "", nil, apperr.New(apperr.Unauthenticated, "Incorrect email or password")
	}

	user := docs[0]
	hash, _ := user.Data["password_hash"].(string)
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return "", nil, apperr.New(apperr.Unauthenticated, "Incorrect email or password")
	}

	name, _ := user.Data["name"].(string)
	token, err := auth.IssueToken(s.JWTSecret, user.ID, email, name)
	if err != nil {
		return "", nil, apperr.Wrap(apperr.Store, "Could not generate token", err)
	}

	return token, &auth.Identity{UID: user.ID, Email: email, Name: name}, nil
}
