package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"aiacademy/backend/apperr"
	"aiacademy/backend/models"
	"aiacademy/backend/store"
)

type CourseService struct {
	Store store.Store
}

func NewCourseService(st store.Store) *CourseService {
	return &CourseService{Store: st}
}

// List returns every course with its document id attached. Order is
// store-defined.
func (s *CourseService) List(ctx context.Context) ([]map[string]interface{}, error) {
	docs, err := s.Store.All(ctx, models.CoursesCollection)
	if err != nil {
		return nil, apperr.Wrap(apperr.Store, "Failed to retrieve courses", err)
	}

	courses := make([]map[string]interface{}, 0, len(docs))
	for _, doc := range docs {
		course := doc.Data
		course["id"] = doc.ID
		courses = append(courses, course)
	}
	return courses, nil
}

func (s *CourseService) Get(ctx context.Context, courseID string) (map[string]interface{}, error) {
	doc, err := s.Store.Get(ctx, models.CoursesCollection, courseID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.Newf(apperr.NotFound, "Course with ID %s not found.", courseID)
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Store, "Failed to retrieve course", err)
	}

	doc["id"] = courseID
	return doc, nil
}

// Create validates the required fields, stamps creator metadata and returns
// the stored course including its generated id. Extra fields in the request
// are kept as-is (courses carry arbitrary metadata).
func (s *CourseService) Create(ctx context.Context, uid string, course map[string]interface{}) (map[string]interface{}, error) {
	for _, field := range models.RequiredCourseFields {
		if _, ok := course[field]; !ok {
			return nil, apperr.Newf(apperr.InvalidInput, "Missing required field: %s", field)
		}
	}

	course["createdBy"] = uid
	course["createdAt"] = time.Now().UTC()

	id, err := s.Store.Add(ctx, models.CoursesCollection, course)
	if err != nil {
		return nil, apperr.Wrap(apperr.Store, "Failed to create course", err)
	}

	course["id"] = id
	return course, nil
}

func (s *CourseService) Update(ctx context.Context, uid, courseID string, fields map[string]interface{}) error {
	if _, err := s.Get(ctx, courseID); err != nil {
		return err
	}

	fields["updatedBy"] = uid
	fields["updatedAt"] = time.Now().UTC()

	if err := s.Store.Update(ctx, models.CoursesCollection, courseID, fields); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperr.Newf(apperr.NotFound, "Course with ID %s not found.", courseID)
		}
		return apperr.Wrap(apperr.Store, "Failed to update course", err)
	}
	return nil
}

func (s *CourseService) Delete(ctx context.Context, courseID string) error {
	if _, err := s.Get(ctx, courseID); err != nil {
		return err
	}

	if err := s.Store.Delete(ctx, models.CoursesCollection, courseID); err != nil {
		return apperr.Wrap(apperr.Store, "Failed to delete course", err)
	}
	return nil
}

// Enroll creates the enrollment document keyed by "{uid}_{courseId}". The
// conditional create makes concurrent enrolls converge on a single document;
// the boolean reports whether the user was already enrolled.
func (s *CourseService) Enroll(ctx context.Context, uid, courseID string) (bool, error) {
	if _, err := s.Get(ctx, courseID); err != nil {
		return false, err
	}

	now := time.Now().UTC()
	enrollment := map[string]interface{}{
		"userId":       uid,
		"courseId":     courseID,
		"enrolledAt":   now,
		"progress":     float64(0),
		"completed":    false,
		"lastAccessed": now,
	}

	err := s.Store.Create(ctx, models.EnrollmentsCollection, enrollmentID(uid, courseID), enrollment)
	if errors.Is(err, store.ErrExists) {
		return true, nil
	}
	if err != nil {
		return false, apperr.Wrap(apperr.Store, "Failed to enroll in course", err)
	}
	return false, nil
}

// UpdateProgress overwrites progress, completed and lastAccessed. Progress
// must be numeric and within [0,100]; anything else is rejected before the
// store is touched.
func (s *CourseService) UpdateProgress(ctx context.Context, uid, courseID string, progress interface{}, completed bool) error {
	value, ok := asNumber(progress)
	if !ok || value < 0 || value > 100 {
		return apperr.New(apperr.InvalidInput, "Progress must be a number between 0 and 100.")
	}

	fields := map[string]interface{}{
		"progress":     value,
		"completed":    completed,
		"lastAccessed": time.Now().UTC(),
	}

	err := s.Store.Update(ctx, models.EnrollmentsCollection, enrollmentID(uid, courseID), fields)
	if errors.Is(err, store.ErrNotFound) {
		return apperr.Newf(apperr.NotFound, "You are not enrolled in course %s.", courseID)
	}
	if err != nil {
		return apperr.Wrap(apperr.Store, "Failed to update progress", err)
	}
	return nil
}

// ListEnrollments joins each of the user's enrollments to its course,
// skipping enrollments whose course has since been deleted.
func (s *CourseService) ListEnrollments(ctx context.Context, uid string) ([]map[string]interface{}, error) {
	docs, err := s.Store.QueryByField(ctx, models.EnrollmentsCollection, "userId", uid)
	if err != nil {
		return nil, apperr.Wrap(apperr.Store, "Failed to retrieve enrollments", err)
	}

	result := make([]map[string]interface{}, 0, len(docs))
	for _, doc := range docs {
		courseID, _ := doc.Data["courseId"].(string)

		course, err := s.Store.Get(ctx, models.CoursesCollection, courseID)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, apperr.Wrap(apperr.Store, "Failed to retrieve enrollments", err)
		}
		course["id"] = courseID

		result = append(result, map[string]interface{}{
			"enrollmentId": doc.ID,
			"progress":     doc.Data["progress"],
			"completed":    doc.Data["completed"],
			"enrolledAt":   doc.Data["enrolledAt"],
			"lastAccessed": doc.Data["lastAccessed"],
			"course":       course,
		})
	}
	return result, nil
}

func enrollmentID(uid, courseID string) string {
	return fmt.Sprintf("%s_%s", uid, courseID)
}

func asNumber(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
