package auth

import (
	"context"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"aiacademy/backend/apperr"
)

// FirebaseVerifier delegates token verification to Firebase Auth. The client
// is long-lived and shared across requests.
type FirebaseVerifier struct {
	client *fbauth.Client
}

func NewFirebaseVerifier(ctx context.Context, project, credentialsFile string) (*FirebaseVerifier, error) {
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: project},
		option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, err
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, err
	}
	return &FirebaseVerifier{client: client}, nil
}

func (v *FirebaseVerifier) Verify(ctx context.Context, tokenString string) (*Identity, error) {
	if tokenString == "" {
		return nil, apperr.New(apperr.Unauthenticated, "Missing authorization token")
	}

	token, err := v.client.VerifyIDTokenAndCheckRevoked(ctx, tokenString)
	if err != nil {
		return nil, apperr.Wrap(apperr.Unauthenticated, "Could not validate credentials", err)
	}

	email, _ := token.Claims["email"].(string)
	name, _ := token.Claims["name"].(string)

	return &Identity{UID: token.UID, Email: email, Name: name, Claims: token.Claims}, nil
}
