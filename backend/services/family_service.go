package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"aiacademy/backend/apperr"
	"aiacademy/backend/auth"
	"aiacademy/backend/mail"
	"aiacademy/backend/models"
	"aiacademy/backend/store"
)

// FamilyService runs the account-linking workflow: a sender invites a
// registered recipient by email, the invitation is stored pending under a
// random token, and acceptance links both accounts' member lists.
type FamilyService struct {
	Store          store.Store
	Mailer         mail.Mailer
	FrontendOrigin string
}

func NewFamilyService(st store.Store, mailer mail.Mailer, frontendOrigin string) *FamilyService {
	return &FamilyService{Store: st, Mailer: mailer, FrontendOrigin: frontendOrigin}
}

// SendRequest validates the recipient, persists a pending invitation and
// attempts delivery. The returned message is what the caller sees; when no
// sender credentials are configured the invitation is still created and the
// message says delivery was skipped.
func (s *FamilyService) SendRequest(ctx context.Context, sender *auth.Identity, recipientEmail string) (string, error) {
	if recipientEmail == "" {
		return "", apperr.New(apperr.InvalidInput, "Recipient email is required.")
	}
	if recipientEmail == sender.Email {
		return "", apperr.New(apperr.InvalidInput, "You cannot send an invitation to yourself.")
	}

	// Full scan of the users collection; at scale this needs a secondary
	// index on email.
	users, err := s.Store.All(ctx, models.UsersCollection)
	if err != nil {
		return "", apperr.Wrap(apperr.Store, "Failed to look up recipient", err)
	}
	recipientUID := ""
	for _, user := range users {
		if email, _ := user.Data["email"].(string); email == recipientEmail {
			recipientUID = user.ID
			break
		}
	}
	if recipientUID == "" {
		return "", apperr.New(apperr.InvalidInput, "The provided email is not registered with AI Academy.")
	}

	senderName := sender.Name
	if profile, err := s.Store.Get(ctx, models.UsersCollection, sender.UID); err == nil {
		if name, _ := profile["name"].(string); name != "" {
			senderName = name
		}
	}
	if senderName == "" {
		senderName = "A user"
	}

	token, err := invitationToken()
	if err != nil {
		return "", apperr.Wrap(apperr.Store, "Failed to generate invitation token", err)
	}

	invitation := map[string]interface{}{
		"sender_uid":      sender.UID,
		"recipient_uid":   recipientUID,
		"recipient_email": recipientEmail,
		"status":          models.InvitationPending,
		"created_at":      time.Now().UTC(),
	}
	if err := s.Store.Set(ctx, models.InvitationsCollection, token, invitation); err != nil {
		return "", apperr.Wrap(apperr.Store, "Failed to store invitation", err)
	}

	acceptURL := s.FrontendOrigin + "/accept-invitation?token=" + token

	if err := s.Mailer.SendFamilyInvite(recipientEmail, senderName, acceptURL); err != nil {
		if errors.Is(err, mail.ErrNotConfigured) {
			return "Family request processed (email delivery skipped - no password set)", nil
		}
		return "", err
	}
	return "Family request email sent successfully.", nil
}

// Accept resolves the invitation token and links both parties. Accepting an
// already-accepted invitation is a no-op success; the member-list writes are
// set unions, so repeated accepts never duplicate entries.
func (s *FamilyService) Accept(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", apperr.New(apperr.InvalidInput, "Invitation token is required.")
	}

	invitation, err := s.Store.Get(ctx, models.InvitationsCollection, token)
	if errors.Is(err, store.ErrNotFound) {
		return "", apperr.New(apperr.NotFound, "Invitation not found or has expired.")
	}
	if err != nil {
		return "", apperr.Wrap(apperr.Store, "Failed to retrieve invitation", err)
	}

	if status, _ := invitation["status"].(string); status == models.InvitationAccepted {
		return "Invitation was already accepted.", nil
	}

	senderUID, _ := invitation["sender_uid"].(string)
	recipientUID, _ := invitation["recipient_uid"].(string)
	recipientEmail, _ := invitation["recipient_email"].(string)

	// Recipient joins the sender's family.
	err = s.Store.ArrayUnion(ctx, models.FamilyCollection, senderUID, "members",
		map[string]interface{}{"email": recipientEmail, "uid": recipientUID})
	if err != nil {
		return "", apperr.Wrap(apperr.Store, "Failed to update family", err)
	}

	// And the sender joins the recipient's.
	senderEmail := ""
	if senderDoc, err := s.Store.Get(ctx, models.UsersCollection, senderUID); err == nil {
		senderEmail, _ = senderDoc["email"].(string)
	}
	err = s.Store.ArrayUnion(ctx, models.FamilyCollection, recipientUID, "members",
		map[string]interface{}{"email": senderEmail, "uid": senderUID})
	if err != nil {
		return "", apperr.Wrap(apperr.Store, "Failed to update family", err)
	}

	err = s.Store.Update(ctx, models.InvitationsCollection, token, map[string]interface{}{
		"status":      models.InvitationAccepted,
		"accepted_at": time.Now().UTC(),
	})
	if err != nil {
		return "", apperr.Wrap(apperr.Store, "Failed to update invitation", err)
	}

	return "Family invitation accepted successfully.", nil
}

// Members returns the caller's family member list. A user with no family
// document gets an empty list, never an error.
func (s *FamilyService) Members(ctx context.Context, uid string) ([]interface{}, error) {
	doc, err := s.Store.Get(ctx, models.FamilyCollection, uid)
	if errors.Is(err, store.ErrNotFound) {
		return []interface{}{}, nil
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Store, "Failed to retrieve family members", err)
	}

	members, _ := doc["members"].([]interface{})
	if members == nil {
		members = []interface{}{}
	}
	return members, nil
}

// invitationToken returns 16 random bytes hex-encoded, the unguessable
// capability to accept the invitation.
func invitationToken() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
