package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"aiacademy/backend/apperr"
	"aiacademy/backend/auth"
	"aiacademy/backend/mail"
	"aiacademy/backend/models"
	"aiacademy/backend/store"
)

func newFamilyFixture() (*FamilyService, *store.MemoryStore, *mail.DummyMailer) {
	st := store.NewMemoryStore()
	mailer := &mail.DummyMailer{}
	svc := NewFamilyService(st, mailer, "http://localhost:5173")

	ctx := context.Background()
	st.Set(ctx, models.UsersCollection, "sender-uid", map[string]interface{}{
		"uid": "sender-uid", "email": "sender@example.com", "name": "Sender",
	})
	st.Set(ctx, models.UsersCollection, "recipient-uid", map[string]interface{}{
		"uid": "recipient-uid", "email": "recipient@example.com", "name": "Recipient",
	})

	return svc, st, mailer
}

func sender() *auth.Identity {
	return &auth.Identity{UID: "sender-uid", Email: "sender@example.com", Name: "Sender"}
}

func TestSendRequestValidation(t *testing.T) {
	svc, _, _ := newFamilyFixture()
	ctx := context.Background()

	_, err := svc.SendRequest(ctx, sender(), "")
	assert.Equal(t, apperr.InvalidInput, apperr.KindOf(err))

	// Self-invite is always rejected.
	_, err = svc.SendRequest(ctx, sender(), "sender@example.com")
	assert.Equal(t, apperr.InvalidInput, apperr.KindOf(err))

	// Unregistered recipients are rejected.
	_, err = svc.SendRequest(ctx, sender(), "stranger@example.com")
	assert.Equal(t, apperr.InvalidInput, apperr.KindOf(err))
	assert.Contains(t, err.Error(), "not registered")
}

func TestSendRequestCreatesInvitationAndMails(t *testing.T) {
	svc, st, mailer := newFamilyFixture()
	ctx := context.Background()

	message, err := svc.SendRequest(ctx, sender(), "recipient@example.com")
	assert.NoError(t, err)
	assert.Equal(t, "Family request email sent successfully.", message)

	assert.Len(t, mailer.Sent, 1)
	assert.Equal(t, "recipient@example.com", mailer.Sent[0].To)
	assert.Equal(t, "Sender", mailer.Sent[0].SenderName)
	assert.Contains(t, mailer.Sent[0].AcceptURL, "http://localhost:5173/accept-invitation?token=")

	token := tokenFromURL(mailer.Sent[0].AcceptURL)
	invitation, err := st.Get(ctx, models.InvitationsCollection, token)
	assert.NoError(t, err)
	assert.Equal(t, "sender-uid", invitation["sender_uid"])
	assert.Equal(t, "recipient-uid", invitation["recipient_uid"])
	assert.Equal(t, models.InvitationPending, invitation["status"])
}

func TestSendRequestDeliverySkipped(t *testing.T) {
	svc, st, mailer := newFamilyFixture()
	mailer.Err = mail.ErrNotConfigured
	ctx := context.Background()

	message, err := svc.SendRequest(ctx, sender(), "recipient@example.com")
	assert.NoError(t, err)
	assert.Contains(t, message, "delivery skipped")

	// The invitation is still persisted.
	docs, _ := st.All(ctx, models.InvitationsCollection)
	assert.Len(t, docs, 1)
}

func TestSendRequestDeliveryFailure(t *testing.T) {
	svc, _, mailer := newFamilyFixture()
	mailer.Err = apperr.New(apperr.EmailDelivery, "Failed to send email")

	_, err := svc.SendRequest(context.Background(), sender(), "recipient@example.com")
	assert.Equal(t, apperr.EmailDelivery, apperr.KindOf(err))
}

func TestAcceptLinksBothParties(t *testing.T) {
	svc, st, mailer := newFamilyFixture()
	ctx := context.Background()

	_, err := svc.SendRequest(ctx, sender(), "recipient@example.com")
	assert.NoError(t, err)
	token := tokenFromURL(mailer.Sent[0].AcceptURL)

	message, err := svc.Accept(ctx, token)
	assert.NoError(t, err)
	assert.Equal(t, "Family invitation accepted successfully.", message)

	senderMembers, err := svc.Members(ctx, "sender-uid")
	assert.NoError(t, err)
	assert.Len(t, senderMembers, 1)
	assert.Equal(t, map[string]interface{}{
		"email": "recipient@example.com", "uid": "recipient-uid",
	}, senderMembers[0])

	recipientMembers, err := svc.Members(ctx, "recipient-uid")
	assert.NoError(t, err)
	assert.Len(t, recipientMembers, 1)
	assert.Equal(t, map[string]interface{}{
		"email": "sender@example.com", "uid": "sender-uid",
	}, recipientMembers[0])

	invitation, _ := st.Get(ctx, models.InvitationsCollection, token)
	assert.Equal(t, models.InvitationAccepted, invitation["status"])
	assert.NotNil(t, invitation["accepted_at"])
}

func TestAcceptIdempotent(t *testing.T) {
	svc, _, mailer := newFamilyFixture()
	ctx := context.Background()

	svc.SendRequest(ctx, sender(), "recipient@example.com")
	token := tokenFromURL(mailer.Sent[0].AcceptURL)

	_, err := svc.Accept(ctx, token)
	assert.NoError(t, err)

	message, err := svc.Accept(ctx, token)
	assert.NoError(t, err)
	assert.Equal(t, "Invitation was already accepted.", message)

	// No duplicate member entries on either side.
	senderMembers, _ := svc.Members(ctx, "sender-uid")
	assert.Len(t, senderMembers, 1)
	recipientMembers, _ := svc.Members(ctx, "recipient-uid")
	assert.Len(t, recipientMembers, 1)
}

func TestAcceptUnknownToken(t *testing.T) {
	svc, _, _ := newFamilyFixture()
	ctx := context.Background()

	_, err := svc.Accept(ctx, "deadbeef")
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))

	_, err = svc.Accept(ctx, "")
	assert.Equal(t, apperr.InvalidInput, apperr.KindOf(err))
}

func TestMembersEmptyWithoutFamily(t *testing.T) {
	svc, _, _ := newFamilyFixture()

	members, err := svc.Members(context.Background(), "sender-uid")
	assert.NoError(t, err)
	assert.NotNil(t, members)
	assert.Empty(t, members)
}

func tokenFromURL(acceptURL string) string {
	parts := strings.SplitN(acceptURL, "token=", 2)
	return parts[1]
}
