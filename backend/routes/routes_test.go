package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aiacademy/backend/auth"
	"aiacademy/backend/config"
	"aiacademy/backend/mail"
	"aiacademy/backend/store"
	"aiacademy/backend/utils"
)

type testEnv struct {
	app    *fiber.App
	store  *store.MemoryStore
	mailer *mail.DummyMailer
}

func newTestEnv() *testEnv {
	cfg := &config.Config{
		JWTSecret:      "test-secret",
		FrontendOrigin: "http://localhost:5173",
		StaticPath:     "./static",
	}

	st := store.NewMemoryStore()
	mailer := &mail.DummyMailer{}

	app := fiber.New()
	SetupRoutes(app, st, auth.NewJWTVerifier(cfg.JWTSecret), mailer, cfg, utils.InitLogger())

	return &testEnv{app: app, store: st, mailer: mailer}
}

func (e *testEnv) request(t *testing.T, method, path, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(jsonData)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.app.Test(req)
	require.NoError(t, err)

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	return resp.StatusCode, result
}

func (e *testEnv) register(t *testing.T, name, email string) string {
	t.Helper()

	status, result := e.request(t, "POST", "/api/auth/register", "", map[string]interface{}{
		"name":     name,
		"email":    email,
		"password": "password123",
	})
	require.Equal(t, fiber.StatusOK, status)

	token, _ := result["access_token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestHealthCheck(t *testing.T) {
	env := newTestEnv()

	status, result := env.request(t, "GET", "/status", "", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "ok", result["status"])
}

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv()

	env.register(t, "Alice", "alice@example.com")

	// Duplicate email is rejected.
	status, _ := env.request(t, "POST", "/api/auth/register", "", map[string]interface{}{
		"name":     "Alice",
		"email":    "alice@example.com",
		"password": "password123",
	})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, result := env.request(t, "POST", "/api/auth/login", "", map[string]interface{}{
		"email":    "alice@example.com",
		"password": "password123",
	})
	assert.Equal(t, fiber.StatusOK, status)
	assert.NotEmpty(t, result["access_token"])

	status, _ = env.request(t, "POST", "/api/auth/login", "", map[string]interface{}{
		"email":    "alice@example.com",
		"password": "wrong",
	})
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	env := newTestEnv()

	for _, path := range []string{"/api/settings", "/api/courses", "/api/enrollments"} {
		status, _ := env.request(t, "GET", path, "", nil)
		assert.Equal(t, fiber.StatusUnauthorized, status, "GET %s without token", path)
	}

	status, _ := env.request(t, "GET", "/api/settings", "not-a-token", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestSettingsProfile(t *testing.T) {
	env := newTestEnv()
	token := env.register(t, "Alice", "alice@example.com")

	status, profile := env.request(t, "GET", "/api/settings", token, nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Alice", profile["name"])
	assert.Equal(t, "alice@example.com", profile["email"])

	status, _ = env.request(t, "PUT", "/api/settings", token, map[string]interface{}{
		"name": "Alicia",
	})
	assert.Equal(t, fiber.StatusOK, status)

	status, profile = env.request(t, "GET", "/api/settings", token, nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Alicia", profile["name"])

	// A body with nothing from the allow-list is rejected.
	status, _ = env.request(t, "PUT", "/api/settings", token, map[string]interface{}{
		"role": "admin",
	})
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestCourseLifecycle(t *testing.T) {
	env := newTestEnv()
	token := env.register(t, "Alice", "alice@example.com")

	status, course := env.request(t, "POST", "/api/courses", token, map[string]interface{}{
		"title":       "Test Course",
		"description": "Full description",
		"author":      "Alice",
		"duration":    30,
	})
	require.Equal(t, fiber.StatusOK, status)
	courseID, _ := course["id"].(string)
	require.NotEmpty(t, courseID)
	assert.Equal(t, "Test Course", course["title"])

	// Missing duration is rejected.
	status, _ = env.request(t, "POST", "/api/courses", token, map[string]interface{}{
		"title":       "T",
		"description": "D",
		"author":      "A",
	})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, got := env.request(t, "GET", "/api/courses/"+courseID, token, nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Test Course", got["title"])

	status, _ = env.request(t, "PUT", "/api/courses/"+courseID, token, map[string]interface{}{
		"title": "Renamed Course",
	})
	assert.Equal(t, fiber.StatusOK, status)

	status, got = env.request(t, "GET", "/api/courses/"+courseID, token, nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Renamed Course", got["title"])

	status, _ = env.request(t, "DELETE", "/api/courses/"+courseID, token, nil)
	assert.Equal(t, fiber.StatusOK, status)

	status, _ = env.request(t, "GET", "/api/courses/"+courseID, token, nil)
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestCourseOpsOnMissingID(t *testing.T) {
	env := newTestEnv()
	token := env.register(t, "Alice", "alice@example.com")

	status, _ := env.request(t, "GET", "/api/courses/nope", token, nil)
	assert.Equal(t, fiber.StatusNotFound, status)

	status, _ = env.request(t, "PUT", "/api/courses/nope", token, map[string]interface{}{"title": "X"})
	assert.Equal(t, fiber.StatusNotFound, status)

	status, _ = env.request(t, "DELETE", "/api/courses/nope", token, nil)
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestEnrollmentFlow(t *testing.T) {
	env := newTestEnv()
	token := env.register(t, "Alice", "alice@example.com")

	_, course := env.request(t, "POST", "/api/courses", token, map[string]interface{}{
		"title":       "Test Course",
		"description": "D",
		"author":      "A",
		"duration":    30,
	})
	courseID := course["id"].(string)

	status, result := env.request(t, "POST", "/api/courses/"+courseID+"/enroll", token, nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, fmt.Sprintf("Successfully enrolled in course %s", courseID), result["message"])

	status, result = env.request(t, "POST", "/api/courses/"+courseID+"/enroll", token, nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Already enrolled in this course", result["message"])

	// Progress bounds.
	status, _ = env.request(t, "PUT", "/api/courses/"+courseID+"/progress", token, map[string]interface{}{
		"progress": 101,
	})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = env.request(t, "PUT", "/api/courses/"+courseID+"/progress", token, map[string]interface{}{
		"progress": "abc",
	})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = env.request(t, "PUT", "/api/courses/"+courseID+"/progress", token, map[string]interface{}{
		"progress":  75,
		"completed": false,
	})
	assert.Equal(t, fiber.StatusOK, status)

	req := httptest.NewRequest("GET", "/api/enrollments", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := env.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var enrollments []map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&enrollments)
	require.Len(t, enrollments, 1)
	assert.Equal(t, float64(75), enrollments[0]["progress"])
	assert.Equal(t, "Test Course", enrollments[0]["course"].(map[string]interface{})["title"])
}

func TestFamilyInvitationEndToEnd(t *testing.T) {
	env := newTestEnv()
	senderToken := env.register(t, "Sender", "sender@example.com")
	recipientToken := env.register(t, "Recipient", "recipient@example.com")

	// Self-invite is rejected.
	status, _ := env.request(t, "POST", "/api/settings/family-request", senderToken, map[string]interface{}{
		"email": "sender@example.com",
	})
	assert.Equal(t, fiber.StatusBadRequest, status)

	// Unregistered recipient is rejected.
	status, _ = env.request(t, "POST", "/api/settings/family-request", senderToken, map[string]interface{}{
		"email": "stranger@example.com",
	})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, result := env.request(t, "POST", "/api/settings/family-request", senderToken, map[string]interface{}{
		"email": "recipient@example.com",
	})
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Family request email sent successfully.", result["message"])
	require.Len(t, env.mailer.Sent, 1)

	// No family yet: members list is empty, not an error.
	req := httptest.NewRequest("GET", "/api/settings/family-members", nil)
	req.Header.Set("Authorization", "Bearer "+senderToken)
	resp, err := env.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	var members []map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&members)
	assert.Empty(t, members)

	// Accept with the mailed token (no auth header needed).
	acceptURL := env.mailer.Sent[0].AcceptURL
	token := acceptURL[len("http://localhost:5173/accept-invitation?token="):]

	status, result = env.request(t, "POST", "/api/settings/accept-invitation", "", map[string]interface{}{
		"token": token,
	})
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Family invitation accepted successfully.", result["message"])

	// Second accept is a harmless no-op.
	status, result = env.request(t, "POST", "/api/settings/accept-invitation", "", map[string]interface{}{
		"token": token,
	})
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Invitation was already accepted.", result["message"])

	// Both sides see each other exactly once.
	for token, other := range map[string]string{
		senderToken:    "recipient@example.com",
		recipientToken: "sender@example.com",
	} {
		req := httptest.NewRequest("GET", "/api/settings/family-members", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := env.app.Test(req)
		require.NoError(t, err)

		var members []map[string]interface{}
		json.NewDecoder(resp.Body).Decode(&members)
		require.Len(t, members, 1)
		assert.Equal(t, other, members[0]["email"])
	}

	// Unknown token yields 404.
	status, _ = env.request(t, "POST", "/api/settings/accept-invitation", "", map[string]interface{}{
		"token": "deadbeef",
	})
	assert.Equal(t, fiber.StatusNotFound, status)
}
