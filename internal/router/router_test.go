package router_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"vet-hospital/internal/adapters/auth/jwtauth"
	"vet-hospital/internal/router"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newServer(t *testing.T, devAuth bool) *httptest.Server {
	t.Helper()
	tokens, err := jwtauth.NewManager(testSecret, time.Hour)
	if err != nil {
		t.Fatalf("token manager: %v", err)
	}
	h, err := router.NewRouter(router.Options{Tokens: tokens, DevAuth: devAuth, Hospital: "Test Hospital"})
	if err != nil {
		t.Fatalf("new router: %v", err)
	}
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	return ts
}

func TestHTTP_EndToEnd_AdmissionRespectsCageCapacity(t *testing.T) {
	ts := newServer(t, true)
	admin := "admin-1"

	// 1) El primer usuario queda como superadmin
	{
		st, body := doReq(t, ts.URL, "POST", "/bootstrap/superadmin", admin, nil)
		if st != http.StatusOK || !strings.Contains(string(body), `"assigned":true`) {
			t.Fatalf("expected bootstrap assigned, got %d body=%s", st, string(body))
		}
		st, body = doReq(t, ts.URL, "POST", "/bootstrap/superadmin", "someone-else", nil)
		if st != http.StatusOK || !strings.Contains(string(body), `"assigned":false`) {
			t.Fatalf("expected second bootstrap to be a no-op, got %d body=%s", st, string(body))
		}
	}

	ownerID := createID(t, ts.URL, "/owners", admin, map[string]any{
		"name":  "Asha",
		"phone": "98765 43210",
	})
	milo := createID(t, ts.URL, "/pets", admin, map[string]any{"owner_id": ownerID, "name": "Milo", "species": "dog"})
	luna := createID(t, ts.URL, "/pets", admin, map[string]any{"owner_id": ownerID, "name": "Luna", "species": "cat"})

	buildingID := createID(t, ts.URL, "/buildings", admin, map[string]any{"name": "Main"})
	roomID := createID(t, ts.URL, "/rooms", admin, map[string]any{"building_id": buildingID, "name": "Ward A"})
	cageID := createID(t, ts.URL, "/cages", admin, map[string]any{
		"room_id":       roomID,
		"cage_number":   "A-1",
		"max_pet_count": 1,
	})

	// 2) Primera internación ocupa la jaula
	admissionID := createID(t, ts.URL, "/admissions", admin, map[string]any{
		"pet_id":  milo,
		"cage_id": cageID,
		"reason":  "fracture",
	})

	// 3) La segunda no entra
	{
		st, body := doReq(t, ts.URL, "POST", "/admissions", admin, map[string]any{
			"pet_id":  luna,
			"cage_id": cageID,
		})
		if st != http.StatusConflict {
			t.Fatalf("expected 409 for full cage, got %d body=%s", st, string(body))
		}
	}

	// 4) Alta libera la jaula
	{
		st, body := doReq(t, ts.URL, "POST", "/admissions/"+admissionID+"/discharge", admin, map[string]any{})
		if st != http.StatusOK {
			t.Fatalf("expected 200 discharge, got %d body=%s", st, string(body))
		}
		createID(t, ts.URL, "/admissions", admin, map[string]any{"pet_id": luna, "cage_id": cageID})
	}
}

func TestHTTP_Guards(t *testing.T) {
	ts := newServer(t, true)

	st, _ := doReq(t, ts.URL, "GET", "/owners", "", nil)
	if st != http.StatusUnauthorized {
		t.Fatalf("expected 401 without identity, got %d", st)
	}

	// Usuario sin roles
	st, _ = doReq(t, ts.URL, "GET", "/owners", "nobody", nil)
	if st != http.StatusForbidden {
		t.Fatalf("expected 403 without roles, got %d", st)
	}
	st, _ = doReq(t, ts.URL, "GET", "/roles", "nobody", nil)
	if st != http.StatusForbidden {
		t.Fatalf("expected 403 on roles, got %d", st)
	}
}

func TestHTTP_HealthAndNotFound(t *testing.T) {
	ts := newServer(t, true)

	st, body := doReq(t, ts.URL, "GET", "/health", "", nil)
	if st != http.StatusOK || string(body) != "ok" {
		t.Fatalf("expected health ok, got %d body=%s", st, string(body))
	}

	st, body = doReq(t, ts.URL, "GET", "/nope", "", nil)
	if st != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", st)
	}
	var resp map[string]string
	if err := json.Unmarshal(body, &resp); err != nil || resp["error"] == "" {
		t.Fatalf("expected JSON error body, got %s", string(body))
	}
}

func TestHTTP_SignUpSignInAndSignOut(t *testing.T) {
	ts := newServer(t, false)
	creds := map[string]any{"email": "admin@vet.org", "password": "password1"}

	st, body := doBearer(t, ts.URL, "POST", "/auth/signup", "", creds)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 signup, got %d body=%s", st, string(body))
	}
	st, _ = doBearer(t, ts.URL, "POST", "/auth/signup", "", creds)
	if st != http.StatusConflict {
		t.Fatalf("expected 409 duplicate signup, got %d", st)
	}

	st, _ = doBearer(t, ts.URL, "POST", "/auth/signin", "", map[string]any{"email": "admin@vet.org", "password": "wrong-pass"})
	if st != http.StatusUnauthorized {
		t.Fatalf("expected 401 bad password, got %d", st)
	}

	st, body = doBearer(t, ts.URL, "POST", "/auth/signin", "", creds)
	if st != http.StatusOK {
		t.Fatalf("expected 200 signin, got %d body=%s", st, string(body))
	}
	var sess struct {
		AccessToken string `json:"access_token"`
	}
	_ = json.Unmarshal(body, &sess)
	if sess.AccessToken == "" {
		t.Fatalf("signin: missing token body=%s", string(body))
	}

	// En modo JWT el header de debug no cuenta
	st, _ = doReq(t, ts.URL, "GET", "/me", "admin-1", nil)
	if st != http.StatusUnauthorized {
		t.Fatalf("expected 401 with debug header in jwt mode, got %d", st)
	}

	// Primer login => superadmin
	st, body = doBearer(t, ts.URL, "GET", "/owners", sess.AccessToken, nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 list owners as superadmin, got %d body=%s", st, string(body))
	}

	st, _ = doBearer(t, ts.URL, "POST", "/auth/signout", sess.AccessToken, nil)
	if st != http.StatusNoContent {
		t.Fatalf("expected 204 signout, got %d", st)
	}
	st, _ = doBearer(t, ts.URL, "GET", "/owners", sess.AccessToken, nil)
	if st != http.StatusUnauthorized {
		t.Fatalf("expected 401 after signout, got %d", st)
	}
}

func createID(t *testing.T, baseURL, path, userID string, payload map[string]any) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", path, userID, payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 POST %s, got %d body=%s", path, st, string(body))
	}

	var resp struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.ID == "" {
		t.Fatalf("POST %s: missing id body=%s", path, string(body))
	}
	return resp.ID
}

func doReq(t *testing.T, baseURL, method, path, debugUserID string, body any) (int, []byte) {
	t.Helper()
	headers := map[string]string{}
	if debugUserID != "" {
		headers["X-Debug-User-ID"] = debugUserID
	}
	return send(t, method, baseURL+path, headers, body)
}

func doBearer(t *testing.T, baseURL, method, path, token string, body any) (int, []byte) {
	t.Helper()
	headers := map[string]string{}
	if token != "" {
		headers["Authorization"] = "Bearer " + token
	}
	return send(t, method, baseURL+path, headers, body)
}

func send(t *testing.T, method, url string, headers map[string]string, body any) (int, []byte) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, url, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	out, _ := io.ReadAll(res.Body)
	return res.StatusCode, out
}
