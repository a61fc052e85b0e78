package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"clubreview/internal/database"
	"clubreview/internal/handlers"
	"clubreview/internal/middleware"
	"clubreview/internal/repositories"
	"clubreview/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

var dbCounter int64

// setupApp sets up a Fiber app for testing with in-memory SQLite and all
// handlers/services wired the way main does it. Each call gets its own
// database.
func setupApp(t *testing.T) *fiber.App {
	t.Helper()

	viper.SetDefault("JWT_SECRET", "test_jwt_secret")
	viper.AutomaticEnv()
	jwtSecret := viper.GetString("JWT_SECRET")

	// A unique shared-cache DSN keeps the database alive across the pool's
	// connections while isolating tests from each other.
	dsn := fmt.Sprintf("file:integration_%d?mode=memory&cache=shared", atomic.AddInt64(&dbCounter, 1))
	db, err := database.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	userRepo := repositories.NewGORMUserRepository(db)
	clubRepo := repositories.NewGORMClubRepository(db)
	reviewRepo := repositories.NewGORMReviewRepository(db)
	tagRepo := repositories.NewGORMTagRepository(db)

	authService := services.NewAuthService(userRepo, jwtSecret, time.Hour)
	clubService := services.NewClubService(clubRepo, userRepo, nil)
	reviewService := services.NewReviewService(reviewRepo, clubRepo, nil)
	tagService := services.NewTagService(tagRepo)
	userService := services.NewUserService(userRepo)

	authHandler := handlers.NewAuthHandler(authService)
	clubHandler := handlers.NewClubHandler(clubService, reviewService)
	reviewHandler := handlers.NewReviewHandler(reviewService)
	tagHandler := handlers.NewTagHandler(tagService)
	userHandler := handlers.NewUserHandler(userService, reviewService, authService)

	app := fiber.New()
	api := app.Group("/api")

	authGuard := middleware.AuthRequired(authService)
	authHandler.RegisterRoutes(api, authGuard)
	clubHandler.RegisterRoutes(api, authGuard)
	reviewHandler.RegisterRoutes(api, authGuard)
	tagHandler.RegisterRoutes(api)
	userHandler.RegisterRoutes(api, authGuard)

	return app
}

// doJSON performs a JSON request against the test app and decodes the
// response body.
func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	status, raw := doRaw(t, app, method, path, token, body)
	var decoded map[string]interface{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &decoded); err != nil {
			t.Fatalf("failed to decode response %q: %v", raw, err)
		}
	}
	return status, decoded
}

// doJSONList is doJSON for endpoints that return a JSON array.
func doJSONList(t *testing.T, app *fiber.App, method, path, token string) (int, []interface{}) {
	t.Helper()
	status, raw := doRaw(t, app, method, path, token, nil)
	var decoded []interface{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("failed to decode response %q: %v", raw, err)
	}
	return status, decoded
}

func doRaw(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(jsonBody)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request %s %s failed: %v", method, path, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}
	return resp.StatusCode, raw
}

// registerAndLogin creates a user and returns a bearer token for them.
func registerAndLogin(t *testing.T, app *fiber.App, username, password string) string {
	t.Helper()
	status, _ := doJSON(t, app, http.MethodPost, "/api/register", "", map[string]string{
		"username": username,
		"password": password,
	})
	assert.Equal(t, http.StatusCreated, status)

	status, body := doJSON(t, app, http.MethodPost, "/api/login", "", map[string]string{
		"username": username,
		"password": password,
	})
	assert.Equal(t, http.StatusOK, status)
	token, _ := body["access_token"].(string)
	assert.NotEmpty(t, token)
	return token
}

// TestMain runs setup and teardown for all tests
func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	code := m.Run()
	os.Exit(code)
}

func TestRegisterAndLogin(t *testing.T) {
	app := setupApp(t)

	// Registration
	status, body := doJSON(t, app, http.MethodPost, "/api/register", "", map[string]string{
		"username": "josh",
		"password": "password123",
	})
	assert.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "User registered successfully", body["message"])

	// Duplicate username
	status, body = doJSON(t, app, http.MethodPost, "/api/register", "", map[string]string{
		"username": "josh",
		"password": "password123",
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "Username already exists", body["error"])

	// Password below the 6-character minimum
	status, body = doJSON(t, app, http.MethodPost, "/api/register", "", map[string]string{
		"username": "short",
		"password": "12345",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid password. Must be 6-128 characters", body["error"])

	// Login
	status, body = doJSON(t, app, http.MethodPost, "/api/login", "", map[string]string{
		"username": "josh",
		"password": "password123",
	})
	assert.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, body["access_token"])
	token := body["access_token"].(string)

	// Wrong password
	status, body = doJSON(t, app, http.MethodPost, "/api/login", "", map[string]string{
		"username": "josh",
		"password": "wrongpassword",
	})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Invalid credentials", body["error"])

	// Logout is a stateless no-op but requires a token
	status, body = doJSON(t, app, http.MethodPost, "/api/logout", token, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Successfully logged out", body["message"])

	status, _ = doJSON(t, app, http.MethodPost, "/api/logout", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestClubReviewLifecycle(t *testing.T) {
	app := setupApp(t)
	token := registerAndLogin(t, app, "josh", "password123")

	// Unauthenticated club creation is rejected.
	status, _ := doJSON(t, app, http.MethodPost, "/api/clubs", "", map[string]interface{}{
		"name": "Penn Labs", "code": "plabs",
	})
	assert.Equal(t, http.StatusUnauthorized, status)

	// Create a club with a tag.
	status, body := doJSON(t, app, http.MethodPost, "/api/clubs", token, map[string]interface{}{
		"name": "Penn Labs",
		"code": "plabs",
		"tags": []string{"tech"},
	})
	assert.Equal(t, http.StatusCreated, status)
	club := body["club"].(map[string]interface{})
	clubID := int(club["id"].(float64))
	assert.Equal(t, []interface{}{"tech"}, club["tags"])

	// Club detail is reachable by id and by code, with the tag attached.
	status, byID := doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/clubs/%d", clubID), "", nil)
	assert.Equal(t, http.StatusOK, status)
	status, byCode := doJSON(t, app, http.MethodGet, "/api/clubs/plabs", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, byID["id"], byCode["id"])
	assert.Equal(t, []interface{}{"tech"}, byID["tags"])
	assert.Nil(t, byID["rating"])

	// Post a review; the club rating becomes 5.
	status, body = doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/clubs/%d/reviews", clubID), token, map[string]interface{}{
		"rating":  5,
		"comment": "great",
	})
	assert.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "Review added successfully", body["message"])

	status, body = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/clubs/%d/rating", clubID), "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, 5.0, body["rating"])

	// A second review by the same user is a conflict.
	status, body = doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/clubs/%d/reviews", clubID), token, map[string]interface{}{
		"rating": 4,
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "User has already reviewed this club", body["error"])

	// Another user reviews; the rating becomes the mean.
	otherToken := registerAndLogin(t, app, "sarah", "password456")
	status, _ = doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/clubs/%d/reviews", clubID), otherToken, map[string]interface{}{
		"rating": 4,
	})
	assert.Equal(t, http.StatusCreated, status)

	status, body = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/clubs/%d/rating", clubID), "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, 4.5, body["rating"])

	// Find josh's review and have sarah fail to touch it.
	status, reviews := doJSONList(t, app, http.MethodGet, fmt.Sprintf("/api/clubs/%d/reviews", clubID), "")
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, reviews, 2)
	first := reviews[0].(map[string]interface{})
	reviewID := int(first["id"].(float64))

	status, _ = doJSON(t, app, http.MethodPut, fmt.Sprintf("/api/reviews/%d/content", reviewID), otherToken, map[string]interface{}{
		"rating": 1,
	})
	assert.Equal(t, http.StatusForbidden, status)
	status, _ = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/reviews/%d", reviewID), otherToken, nil)
	assert.Equal(t, http.StatusForbidden, status)

	// The author edits their own review; comment-only edits are fine too.
	status, body = doJSON(t, app, http.MethodPut, fmt.Sprintf("/api/reviews/%d/content", reviewID), token, map[string]interface{}{
		"rating":  3,
		"comment": "still good",
	})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Review updated successfully", body["message"])

	status, body = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/clubs/%d/rating", clubID), "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, 3.5, body["rating"])

	// Delete both reviews; the rating goes back to null.
	status, _ = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/reviews/%d", reviewID), token, nil)
	assert.Equal(t, http.StatusOK, status)

	second := reviews[1].(map[string]interface{})
	secondID := int(second["id"].(float64))
	status, _ = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/reviews/%d", secondID), otherToken, nil)
	assert.Equal(t, http.StatusOK, status)

	status, body = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/clubs/%d/rating", clubID), "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Nil(t, body["rating"])
}

func TestFavoriteToggle(t *testing.T) {
	app := setupApp(t)
	token := registerAndLogin(t, app, "josh", "password123")

	status, body := doJSON(t, app, http.MethodPost, "/api/clubs", token, map[string]interface{}{
		"name": "Penn Club Golf", "code": "pcgolf",
	})
	assert.Equal(t, http.StatusCreated, status)
	clubID := int(body["club"].(map[string]interface{})["id"].(float64))
	favoritePath := fmt.Sprintf("/api/clubs/%d/favorite", clubID)
	countPath := fmt.Sprintf("/api/clubs/%d/favorite_count", clubID)

	// First favorite increments the count.
	status, body = doJSON(t, app, http.MethodPost, favoritePath, token, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Club added to favorites", body["message"])

	status, body = doJSON(t, app, http.MethodGet, countPath, "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, 1.0, body["favorite_count"])

	// Favoriting again changes the message, not the count.
	status, body = doJSON(t, app, http.MethodPost, favoritePath, token, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Club already in favorites", body["message"])

	status, body = doJSON(t, app, http.MethodGet, countPath, "", nil)
	assert.Equal(t, 1.0, body["favorite_count"])

	// The favoriting user shows up on the club and the club on the user.
	status, users := doJSONList(t, app, http.MethodGet, favoritePath, "")
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, users, 1)
	assert.Equal(t, "josh", users[0].(map[string]interface{})["username"])

	status, favorites := doJSONList(t, app, http.MethodGet, "/api/users/1/favorites", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, favorites, 1)

	// Unfavorite brings the count back down; repeating it is harmless.
	status, body = doJSON(t, app, http.MethodDelete, favoritePath, token, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Club removed from favorites", body["message"])

	status, body = doJSON(t, app, http.MethodDelete, favoritePath, token, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Club removed from favorites", body["message"])

	status, body = doJSON(t, app, http.MethodGet, countPath, "", nil)
	assert.Equal(t, 0.0, body["favorite_count"])
}

func TestClubFieldUpdatesAndSearch(t *testing.T) {
	app := setupApp(t)
	token := registerAndLogin(t, app, "josh", "password123")

	status, body := doJSON(t, app, http.MethodPost, "/api/clubs", token, map[string]interface{}{
		"name": "Penn Labs", "code": "pennlabs", "description": "Software org",
	})
	assert.Equal(t, http.StatusCreated, status)
	clubID := int(body["club"].(map[string]interface{})["id"].(float64))

	status, _ = doJSON(t, app, http.MethodPost, "/api/clubs", token, map[string]interface{}{
		"name": "Penn Club Golf", "code": "pcgolf",
	})
	assert.Equal(t, http.StatusCreated, status)

	// Search is case-insensitive substring match on name.
	status, results := doJSONList(t, app, http.MethodGet, "/api/clubs/search/LABS", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, results, 1)

	status, results = doJSONList(t, app, http.MethodGet, "/api/clubs/search/penn", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, results, 2)

	// Field reads.
	status, body = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/clubs/%d/name", clubID), "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Penn Labs", body["name"])

	// Mutations require a token.
	status, _ = doJSON(t, app, http.MethodPut, fmt.Sprintf("/api/clubs/%d/name", clubID), "", map[string]string{"name": "X"})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body = doJSON(t, app, http.MethodPut, fmt.Sprintf("/api/clubs/%d/name", clubID), token, map[string]string{"name": "Penn Labs Renamed"})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Club name updated successfully", body["message"])

	status, body = doJSON(t, app, http.MethodPut, fmt.Sprintf("/api/clubs/%d/description", clubID), token, map[string]string{"description": "New description"})
	assert.Equal(t, http.StatusOK, status)

	// Code updates reject a code owned by another club.
	status, body = doJSON(t, app, http.MethodPut, fmt.Sprintf("/api/clubs/%d/code", clubID), token, map[string]string{"code": "pcgolf"})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "Club code already exists", body["error"])

	status, _ = doJSON(t, app, http.MethodPut, fmt.Sprintf("/api/clubs/%d/code", clubID), token, map[string]string{"code": "plabs"})
	assert.Equal(t, http.StatusOK, status)

	// Everything landed.
	status, body = doJSON(t, app, http.MethodGet, "/api/clubs/plabs", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Penn Labs Renamed", body["name"])
	assert.Equal(t, "New description", body["description"])

	// Unknown clubs are 404s.
	status, _ = doJSON(t, app, http.MethodGet, "/api/clubs/999", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	status, _ = doJSON(t, app, http.MethodGet, "/api/clubs/nosuchcode", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestTagAndUserReads(t *testing.T) {
	app := setupApp(t)
	token := registerAndLogin(t, app, "josh", "password123")

	status, _ := doJSON(t, app, http.MethodPost, "/api/clubs", token, map[string]interface{}{
		"name": "Penn Labs", "code": "pennlabs", "tags": []string{"tech", "service"},
	})
	assert.Equal(t, http.StatusCreated, status)
	status, _ = doJSON(t, app, http.MethodPost, "/api/clubs", token, map[string]interface{}{
		"name": "Penn Spark", "code": "pennspark", "tags": []string{"tech"},
	})
	assert.Equal(t, http.StatusCreated, status)

	// Tags were upserted: two distinct tags exist, "tech" on two clubs.
	status, tags := doJSONList(t, app, http.MethodGet, "/api/tags", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, tags, 2)

	var techID int
	for _, raw := range tags {
		tag := raw.(map[string]interface{})
		if tag["name"] == "tech" {
			techID = int(tag["id"].(float64))
			assert.Equal(t, 2.0, tag["count"])
		}
	}
	assert.NotZero(t, techID)

	status, body := doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/tags/%d/clubs_count", techID), "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, 2.0, body["clubs_count"])

	status, body = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/tags/%d/name", techID), "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "tech", body["name"])

	status, clubs := doJSONList(t, app, http.MethodGet, fmt.Sprintf("/api/tags/%d/clubs", techID), "")
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, clubs, 2)

	// User lookup works by id and by username.
	status, byID := doJSON(t, app, http.MethodGet, "/api/users/1", "", nil)
	assert.Equal(t, http.StatusOK, status)
	status, byName := doJSON(t, app, http.MethodGet, "/api/users/josh", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, byID["id"], byName["id"])
	assert.Equal(t, "josh", byID["username"])

	// Only the user themselves may change their username or password.
	otherToken := registerAndLogin(t, app, "sarah", "password456")
	status, _ = doJSON(t, app, http.MethodPut, "/api/users/1/username", otherToken, map[string]string{"username": "hacked"})
	assert.Equal(t, http.StatusForbidden, status)
	status, _ = doJSON(t, app, http.MethodPut, "/api/users/1/password", otherToken, map[string]string{"password": "hacked123"})
	assert.Equal(t, http.StatusForbidden, status)

	status, body = doJSON(t, app, http.MethodPut, "/api/users/1/username", token, map[string]string{"username": "joshua"})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Username updated successfully", body["message"])

	// The old password still works until changed; then only the new one does.
	status, body = doJSON(t, app, http.MethodPut, "/api/users/1/password", token, map[string]string{"password": "newpassword"})
	assert.Equal(t, http.StatusOK, status)

	status, _ = doJSON(t, app, http.MethodPost, "/api/login", "", map[string]string{"username": "joshua", "password": "password123"})
	assert.Equal(t, http.StatusUnauthorized, status)
	status, _ = doJSON(t, app, http.MethodPost, "/api/login", "", map[string]string{"username": "joshua", "password": "newpassword"})
	assert.Equal(t, http.StatusOK, status)
}
