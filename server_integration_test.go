package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
)

// helper to perform requests with auth token
func performRequest(r http.Handler, method, path string, body io.Reader, token string, contentType string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func setupTestServer(t *testing.T) *gin.Engine {
	// integration tests are opt-in. Set DB_DSN_TEST=1 and DB_DSN to run them.
	if os.Getenv("DB_DSN_TEST") != "1" {
		t.Skip("integration tests are disabled; set DB_DSN_TEST=1 to enable")
	}
	gin.SetMode(gin.TestMode)
	initDB()
	t.Cleanup(closeDB)
	ex, err := newExtractor(2)
	if err != nil {
		t.Fatalf("worker pool: %v", err)
	}
	t.Cleanup(ex.Close)
	r := gin.Default()
	setupRoutes(r, ex)
	return r
}

func loginAs(t *testing.T, r *gin.Engine, username, password string) string {
	body, _ := json.Marshal(map[string]string{"username": username, "password": password})
	resp := performRequest(r, http.MethodPost, "/login", bytes.NewBuffer(body), "", "application/json")
	if resp.Code != 200 {
		t.Fatalf("login failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	var loginResp map[string]any
	_ = json.Unmarshal(resp.Body.Bytes(), &loginResp)
	token, _ := loginResp["token"].(string)
	if token == "" {
		t.Fatalf("empty token in login response: %+v", loginResp)
	}
	return token
}

func TestFullFlow(t *testing.T) {
	r := setupTestServer(t)

	// 1. Login as the seeded admin
	token := loginAs(t, r, "admin", "admin123")

	// 2. Register a guild
	guildBody, _ := json.Marshal(map[string]any{
		"guild_name":    "Valhalla",
		"server_number": 512,
		"user_id":       1001,
		"username":      "leader1",
	})
	resp := performRequest(r, http.MethodPost, "/guilds", bytes.NewBuffer(guildBody), token, "application/json")
	if resp.Code != 200 {
		t.Fatalf("register guild failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	var regResp struct {
		Duplicate bool `json:"duplicate"`
		ID        uint `json:"id"`
	}
	_ = json.Unmarshal(resp.Body.Bytes(), &regResp)
	if !regResp.Duplicate && regResp.ID == 0 {
		t.Fatalf("missing guild id in response: %s", resp.Body.String())
	}

	// 3. Registering the same guild again reports a duplicate, not an error
	resp = performRequest(r, http.MethodPost, "/guilds", bytes.NewBuffer(guildBody), token, "application/json")
	if resp.Code != 200 {
		t.Fatalf("duplicate register failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	var dupResp struct {
		Duplicate bool `json:"duplicate"`
	}
	_ = json.Unmarshal(resp.Body.Bytes(), &dupResp)
	if !dupResp.Duplicate {
		t.Fatalf("expected duplicate flag, got %s", resp.Body.String())
	}

	// 4. Guild search finds it by name prefix
	resp = performRequest(r, http.MethodGet, "/guilds?name=Val", nil, token, "")
	if resp.Code != 200 {
		t.Fatalf("guild search failed status=%d body=%s", resp.Code, resp.Body.String())
	}

	// 5. Leaderboard with no submissions yet is still a 200
	resp = performRequest(r, http.MethodGet, "/leaderboard", nil, token, "")
	if resp.Code != 200 {
		t.Fatalf("leaderboard failed status=%d body=%s", resp.Code, resp.Body.String())
	}

	// 6. Missing report for the current season
	resp = performRequest(r, http.MethodGet, "/submissions/missing?period=Current+season", nil, token, "")
	if resp.Code != 200 {
		t.Fatalf("missing report failed status=%d body=%s", resp.Code, resp.Body.String())
	}

	// 7. Unauthorized access to protected endpoint should be 401
	unauth := performRequest(r, http.MethodGet, "/leaderboard", nil, "", "")
	if unauth.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for unauthorized leaderboard got %d", unauth.Code)
	}
}

func TestStaffGuard(t *testing.T) {
	r := setupTestServer(t)
	token := loginAs(t, r, "admin", "admin123")

	// create a non-staff user and show staff routes reject it
	userBody, _ := json.Marshal(map[string]any{"username": "scout1", "password": "scout123"})
	resp := performRequest(r, http.MethodPost, "/users", bytes.NewBuffer(userBody), token, "application/json")
	if resp.Code != 200 && resp.Code != 409 {
		t.Fatalf("create user failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	scoutToken := loginAs(t, r, "scout1", "scout123")
	resp = performRequest(r, http.MethodDelete, "/guilds/999999", nil, scoutToken, "")
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-staff delete got %d", resp.Code)
	}
}

func TestMigrateCommand(t *testing.T) {
	if os.Getenv("DB_DSN_TEST") != "1" {
		t.Skip("integration tests are disabled; set DB_DSN_TEST=1 to enable")
	}
	initDB()
	closeDB()
}
