package models

import "time"

// Firestore collection names. Document ids: users and family are keyed by
// uid, enrollments by "{uid}_{courseId}", invitations by their token.
const (
	UsersCollection       = "users"
	CoursesCollection     = "courses"
	EnrollmentsCollection = "enrollments"
	FamilyCollection      = "family"
	InvitationsCollection = "invitations"
)

// Invitation status values. There is no rejected or expired state; an
// invitation is pending until accepted.
const (
	InvitationPending  = "pending"
	InvitationAccepted = "accepted"
)

// RequiredCourseFields must all be present in a course creation request.
var RequiredCourseFields = []string{"title", "description", "author", "duration"}

type User struct {
	UID          string    `json:"uid"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// FamilyMember is one entry of a family document's members array.
type FamilyMember struct {
	Email string `json:"email"`
	UID   string `json:"uid"`
}

type Enrollment struct {
	UserID       string    `json:"userId"`
	CourseID     string    `json:"courseId"`
	Progress     float64   `json:"progress"`
	Completed    bool      `json:"completed"`
	EnrolledAt   time.Time `json:"enrolledAt"`
	LastAccessed time.Time `json:"lastAccessed"`
}

type Invitation struct {
	SenderUID      string     `json:"sender_uid"`
	RecipientUID   string     `json:"recipient_uid"`
	RecipientEmail string     `json:"recipient_email"`
	Status         string     `json:"status"`
	CreatedAt      time.Time  `json:"created_at"`
	AcceptedAt     *time.Time `json:"accepted_at,omitempty"`
}

// ProfileUpdate is the allow-listed partial update for a user profile.
// Anything else in the request body is dropped before it reaches the store.
type ProfileUpdate struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

// Fields returns the non-nil fields as a store update map, or an empty map
// when nothing from the allow-list was provided.
func (p ProfileUpdate) Fields() map[string]interface{} {
	fields := make(map[string]interface{})
	if p.Name != nil {
		fields["name"] = *p.Name
	}
	if p.Email != nil {
		fields["email"] = *p.Email
	}
	return fields
}
