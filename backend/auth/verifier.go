package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"aiacademy/backend/apperr"
)

// Identity is the caller identity a verifier extracts from a bearer token.
type Identity struct {
	UID    string
	Email  string
	Name   string
	Claims map[string]interface{}
}

// Verifier validates an opaque bearer credential. Verification has no side
// effects; a failed check surfaces as apperr.Unauthenticated.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

// JWTVerifier checks self-issued HS256 tokens.
type JWTVerifier struct {
	secret []byte
}

func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret)}
}

func (v *JWTVerifier) Verify(_ context.Context, tokenString string) (*Identity, error) {
	if tokenString == "" {
		return nil, apperr.New(apperr.Unauthenticated, "Missing authorization token")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperr.New(apperr.Unauthenticated, "Invalid signing method")
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.Unauthenticated, "Invalid token", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, apperr.New(apperr.Unauthenticated, "Invalid token claims")
	}

	uid, ok := claims["uid"].(string)
	if !ok || uid == "" {
		return nil, apperr.New(apperr.Unauthenticated, "User ID not found in token")
	}

	email, _ := claims["email"].(string)
	name, _ := claims["name"].(string)

	return &Identity{UID: uid, Email: email, Name: name, Claims: claims}, nil
}

// IssueToken signs an HS256 token for the given user, valid for 14 days.
func IssueToken(secret, uid, email, name string) (string, error) {
	claims := jwt.MapClaims{
		"uid":   uid,
		"email": email,
		"name":  name,
		"exp":   time.Now().Add(14 * 24 * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
