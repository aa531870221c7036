package routes_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Dosada05/hackathon-portal/handlers"
	"github.com/Dosada05/hackathon-portal/live"
	"github.com/Dosada05/hackathon-portal/repositories"
	"github.com/Dosada05/hackathon-portal/routes"
	"github.com/Dosada05/hackathon-portal/services"
	"github.com/Dosada05/hackathon-portal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "routes-test-secret"

var samplePDF = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n")

func newTestServer(t *testing.T) (*httptest.Server, *live.Hub) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	store := repositories.NewMemoryStore()
	users, hacks, regs := store.Users(), store.Hackathons(), store.Registrations()

	uploader, err := storage.NewLocalUploader(t.TempDir(), "http://localhost/uploads")
	require.NoError(t, err)

	hub := live.NewHub(logger)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	authService := services.NewAuthService(users, testSecret, logger)
	require.NoError(t, authService.EnsureAdmin(ctx, "admin", "Adm1n!pass"))
	hackathonService := services.NewHackathonService(hacks)

	h := routes.Handlers{
		Auth:         handlers.NewAuthHandler(authService),
		User:         handlers.NewUserHandler(services.NewUserService(users)),
		Dashboard:    handlers.NewDashboardHandler(services.NewDashboardService(users, hacks)),
		Hackathon:    handlers.NewHackathonHandler(hackathonService, services.NewReportService(hacks, regs)),
		Registration: handlers.NewRegistrationHandler(services.NewRegistrationService(regs, hacks, uploader, hub, logger), hackathonService),
		Proposal:     handlers.NewProposalHandler(services.NewProposalService(regs, hacks, hub, services.LogNotifier{Logger: logger}, logger)),
		WebSocket:    handlers.NewWebSocketHandler(hub, hackathonService, nil, logger),
		Health:       handlers.NewHealthHandler(nil, "test"),
	}

	router := chi.NewRouter()
	routes.SetupRoutes(router, h, routes.Options{
		JWTSecret:      testSecret,
		AllowedOrigins: []string{"*"},
		UploadDir:      uploader.Dir(),
		Registry:       prometheus.NewRegistry(),
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, hub
}

type apiClient struct {
	t     *testing.T
	base  string
	token string
}

func (c *apiClient) do(method, path string, body interface{}) (int, map[string]interface{}) {
	c.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, c.base+"/api"+path, reader)
	require.NoError(c.t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req)
}

func (c *apiClient) send(req *http.Request) (int, map[string]interface{}) {
	c.t.Helper()
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	out := map[string]interface{}{}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(c.t, json.Unmarshal(raw, &out), string(raw))
	} else if len(raw) > 0 && raw[0] == '[' {
		var list []interface{}
		require.NoError(c.t, json.Unmarshal(raw, &list))
		out["items"] = list
	}
	return resp.StatusCode, out
}

func signUpAndLogin(t *testing.T, srv *httptest.Server, role, username string) (*apiClient, string) {
	t.Helper()
	c := &apiClient{t: t, base: srv.URL}
	status, body := c.do(http.MethodPost, "/user/register/"+role, map[string]string{
		"name":     strings.ToUpper(username[:1]) + username[1:],
		"email":    username + "@example.com",
		"username": username,
		"password": "Secret#123",
		"userType": role,
		"address":  "Main street 1",
	})
	require.Equal(t, http.StatusCreated, status, body)

	status, body = c.do(http.MethodPost, "/auth/login", map[string]string{
		"username": username, "password": "Secret#123", "userType": role,
	})
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, true, body["success"])
	c.token = body["token"].(string)

	idKey := "studentId"
	if role == "organizer" {
		idKey = "organizerId"
	}
	return c, body[idKey].(string)
}

func day(offset int) string {
	return time.Now().UTC().AddDate(0, 0, offset).Format("2006-01-02")
}

func hostHackathon(t *testing.T, org *apiClient, team bool) string {
	t.Helper()
	typ := "Virtual Solo Hackathon (online)"
	if team {
		typ = "Team Hackathon (offline)"
	}
	status, body := org.do(http.MethodPost, "/hackathons/add", map[string]interface{}{
		"typeofhk":        typ,
		"ename":           "Spark " + typ,
		"venue":           "Main hall",
		"date":            day(10),
		"regstart":        day(-2),
		"regend":          day(5),
		"details":         "Build something",
		"durofhk":         "24 hours",
		"prize":           "1000",
		"isTeamHackathon": team,
	})
	require.Equal(t, http.StatusCreated, status, body)
	assert.Equal(t, "Hackathon added successfully!", body["message"])
	return body["hackathon"].(map[string]interface{})["_id"].(string)
}

func soloBody(hid, sid string) map[string]interface{} {
	return map[string]interface{}{
		"hackathonId":     hid,
		"studentId":       sid,
		"isTeam":          false,
		"name":            "Alice",
		"email":           "alice@example.com",
		"datebirth":       "2001-05-04",
		"phone":           "5550001",
		"education":       "BTech",
		"hasParticipated": "no",
		"members":         []interface{}{},
	}
}

func TestLogin_BadCredentialsIsNotUnauthorized(t *testing.T) {
	srv, _ := newTestServer(t)
	c := &apiClient{t: t, base: srv.URL}

	status, body := c.do(http.MethodPost, "/auth/login", map[string]string{"username": "ghost", "password": "nope", "userType": "student"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, false, body["success"])
	assert.NotEmpty(t, body["message"])
}

func TestSignUp_DuplicateAndWeakPassword(t *testing.T) {
	srv, _ := newTestServer(t)
	signUpAndLogin(t, srv, "student", "alice")
	c := &apiClient{t: t, base: srv.URL}

	status, body := c.do(http.MethodPost, "/user/register/student", map[string]string{
		"name": "Alice 2", "email": "ALICE@example.com", "username": "alice2", "password": "Secret#123",
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Contains(t, body["error"], "email")

	status, body = c.do(http.MethodPost, "/user/register/student", map[string]string{
		"name": "Bob", "email": "bob@example.com", "username": "bob", "password": "weak",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Contains(t, body["error"], "password")
}

func TestCheck_RequiresTokenAndTracksRegistration(t *testing.T) {
	srv, _ := newTestServer(t)
	org, _ := signUpAndLogin(t, srv, "organizer", "orgone")
	student, sid := signUpAndLogin(t, srv, "student", "alice")
	hid := hostHackathon(t, org, false)

	anon := &apiClient{t: t, base: srv.URL}
	status, _ := anon.do(http.MethodGet, "/registeredhackathon/check/"+hid, nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body := student.do(http.MethodGet, "/registeredhackathon/check/"+hid, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, body["isRegistered"])

	status, body = student.do(http.MethodPost, "/registeredhackathon/register", soloBody(hid, sid))
	require.Equal(t, http.StatusCreated, status, body)

	status, body = student.do(http.MethodGet, "/registeredhackathon/check/"+hid, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["isRegistered"])

	status, _ = student.do(http.MethodPost, "/registeredhackathon/register", soloBody(hid, sid))
	assert.Equal(t, http.StatusConflict, status)
}

func teamForm(t *testing.T, hid, sid string, file []byte) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	fields := map[string]string{
		"hackathonId":     hid,
		"studentId":       sid,
		"isTeam":          "true",
		"teamName":        "Rockets",
		"leaderName":      "Alice",
		"datebirth":       "2001-05-04",
		"leaderEmail":     "alice@example.com",
		"phone":           "5550001",
		"education":       "MCA",
		"hasParticipated": "yes",
		"members":         `[{"name":"Bob","email":"bob@example.com","dob":"2002-01-01"}]`,
	}
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if file != nil {
		fw, err := mw.CreateFormFile("file", "proposal.pdf")
		require.NoError(t, err)
		_, err = fw.Write(file)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return buf, mw.FormDataContentType()
}

func TestRegisterTeam_MultipartWithProposal(t *testing.T) {
	srv, _ := newTestServer(t)
	org, orgID := signUpAndLogin(t, srv, "organizer", "orgone")
	student, sid := signUpAndLogin(t, srv, "student", "alice")
	hid := hostHackathon(t, org, true)

	body, contentType := teamForm(t, hid, sid, nil)
	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/api/registeredhackathon/register", body)
	req.Header.Set("Content-Type", contentType)
	status, _ := student.send(req)
	assert.Equal(t, http.StatusBadRequest, status, "team registration needs a proposal")

	body, contentType = teamForm(t, hid, sid, []byte("just text, not a pdf"))
	req, _ = http.NewRequest(http.MethodPost, srv.URL+"/api/registeredhackathon/register", body)
	req.Header.Set("Content-Type", contentType)
	status, _ = student.send(req)
	assert.Equal(t, http.StatusBadRequest, status, "content is sniffed, filename is not trusted")

	body, contentType = teamForm(t, hid, sid, samplePDF)
	req, _ = http.NewRequest(http.MethodPost, srv.URL+"/api/registeredhackathon/register", body)
	req.Header.Set("Content-Type", contentType)
	status, resp := student.send(req)
	require.Equal(t, http.StatusCreated, status, resp)

	reg := resp["registration"].(map[string]interface{})
	assert.Equal(t, "Rockets", reg["teamName"])
	assert.Equal(t, "pending", reg["status"])
	proposal := reg["proposal"].(map[string]interface{})
	assert.True(t, strings.HasPrefix(proposal["publicId"].(string), "proposals/"+hid+"/"))

	// Загруженный файл раздаётся по /uploads.
	fileResp, err := http.Get(srv.URL + "/uploads/" + proposal["publicId"].(string))
	require.NoError(t, err)
	defer fileResp.Body.Close()
	assert.Equal(t, http.StatusOK, fileResp.StatusCode)

	status, list := org.do(http.MethodGet, "/proposals?organizerId="+orgID, nil)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, list["items"], 1)
	regID := reg["_id"].(string)

	status, _ = student.do(http.MethodPut, "/proposals/"+regID+"/approve", nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, decided := org.do(http.MethodPut, "/proposals/"+regID+"/approve", nil)
	require.Equal(t, http.StatusOK, status, decided)
	assert.Equal(t, "approved", decided["proposal"].(map[string]interface{})["status"])
}

func TestHackathons_PublicListAndNotFound(t *testing.T) {
	srv, _ := newTestServer(t)
	org, _ := signUpAndLogin(t, srv, "organizer", "orgone")
	hostHackathon(t, org, false)
	anon := &apiClient{t: t, base: srv.URL}

	status, body := anon.do(http.MethodGet, "/hackathons", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["items"], 1)

	status, body = anon.do(http.MethodGet, "/hackathons?q=nothing-matches", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, body["items"])

	status, body = anon.do(http.MethodGet, "/hackathons/does-not-exist", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.NotEmpty(t, body["message"])
}

func TestAuthorization_RolesPerEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	student, _ := signUpAndLogin(t, srv, "student", "alice")

	status, _ := student.do(http.MethodPost, "/hackathons/add", map[string]string{"ename": "x"})
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = student.do(http.MethodGet, "/user/user-counts", nil)
	assert.Equal(t, http.StatusForbidden, status)

	student.token = "not-a-jwt"
	status, _ = student.do(http.MethodGet, "/registeredhackathon/registeredhackathons/whatever", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	admin := &apiClient{t: t, base: srv.URL}
	status, body := admin.do(http.MethodPost, "/auth/login/admin", map[string]string{"username": "admin", "password": "Adm1n!pass"})
	require.Equal(t, http.StatusOK, status, body)
	admin.token = body["token"].(string)

	status, body = admin.do(http.MethodGet, "/user/user-counts", nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, body["studentCount"])
	assert.EqualValues(t, 0, body["organizerCount"])
}

func TestGenerateReport_ReturnsPDF(t *testing.T) {
	srv, _ := newTestServer(t)
	org, _ := signUpAndLogin(t, srv, "organizer", "orgone")
	hid := hostHackathon(t, org, false)

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/hackathons/generate-report/"+hid, nil)
	req.Header.Set("Authorization", "Bearer "+org.token)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "Hackathon_Report_")
	raw, _ := io.ReadAll(resp.Body)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")))
}

func TestWebSocket_ReceivesRegistrationEvents(t *testing.T) {
	srv, hub := newTestServer(t)
	org, _ := signUpAndLogin(t, srv, "organizer", "orgone")
	student, sid := signUpAndLogin(t, srv, "student", "alice")
	hid := hostHackathon(t, org, false)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/hackathons/" + hid
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	// Регистрация в хабе асинхронна; ждём, пока соединение попадёт в комнату.
	require.Eventually(t, func() bool {
		return hub.RoomSize(live.RoomForHackathon(hid)) == 1
	}, time.Second, 10*time.Millisecond)

	status, body := student.do(http.MethodPost, "/registeredhackathon/register", soloBody(hid, sid))
	require.Equal(t, http.StatusCreated, status, body)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg live.Message
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, live.MessageRegistrationCreated, msg.Type)
	assert.Equal(t, live.RoomForHackathon(hid), msg.RoomID)

	_, _, err = websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws/hackathons/missing", nil)
	assert.Error(t, err)
}

func TestHealthAndMetrics(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	raw, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Contains(t, string(raw), "hackportal_http_requests_total")
}
