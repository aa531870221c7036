package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/Dosada05/hackathon-portal/session"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNavigator struct {
	mu    sync.Mutex
	paths []string
}

func (n *recordingNavigator) Navigate(path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.paths = append(n.paths, path)
}

func (n *recordingNavigator) Paths() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.paths...)
}

type testEnv struct {
	client  *Client
	session *session.Session
	nav     *recordingNavigator
	logs    *bytes.Buffer
}

func newTestEnv(t *testing.T, handler http.HandlerFunc, state session.State) *testEnv {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	sess, err := session.New(session.NewMemoryStore())
	require.NoError(t, err)
	if state.Token != "" {
		require.NoError(t, sess.Login(state))
	}

	logs := &bytes.Buffer{}
	nav := &recordingNavigator{}
	c := New(srv.URL+"/api", sess,
		WithNavigator(nav),
		WithLogger(slog.New(slog.NewTextHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug}))),
	)
	return &testEnv{client: c, session: sess, nav: nav, logs: logs}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

var studentState = session.State{Token: "t1", StudentID: "s1", Role: session.RoleStudent}

func TestClient_BearerHeader(t *testing.T) {
	tests := []struct {
		name  string
		state session.State
		want  string
	}{
		{name: "no token, no header", state: session.State{}, want: ""},
		{name: "token present", state: studentState, want: "Bearer t1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
				got = r.Header.Values("Authorization")
				writeJSON(w, http.StatusOK, []Hackathon{})
			}, tt.state)

			_, err := env.client.ListHackathons(context.Background(), "")
			require.NoError(t, err)
			if tt.want == "" {
				assert.Empty(t, got)
			} else {
				assert.Equal(t, []string{tt.want}, got)
			}
		})
	}
}

func TestClient_UnauthorizedExpiresSessionOnce(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid token", "message": "invalid token"})
	}, studentState)

	_, err := env.client.StudentHackathons(context.Background(), "s1", ListUpcoming)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, "invalid token", Message(err))

	assert.False(t, env.session.Authenticated())
	assert.Equal(t, session.State{}, env.session.Snapshot())
	assert.Equal(t, []string{EntryRoute}, env.nav.Paths())
}

func TestClient_ParallelUnauthorizedNavigatesOnce(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid token"})
	}, studentState)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.client.ListHackathons(context.Background(), "")
			assert.ErrorIs(t, err, ErrUnauthorized)
		}()
	}
	wg.Wait()

	assert.False(t, env.session.Authenticated())
	assert.Equal(t, []string{EntryRoute}, env.nav.Paths())
}

func TestClient_CheckRegistrationUnauthorizedIsNotRegistered(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/registeredhackathon/check/h1", r.URL.Path)
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
	}, studentState)

	registered, err := env.client.CheckRegistration(context.Background(), "h1")
	require.NoError(t, err)
	assert.False(t, registered)

	assert.Equal(t, "t1", env.session.Token(), "no logout for the check path")
	assert.Empty(t, env.nav.Paths())
}

func TestClient_CheckRegistrationPassesResult(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"isRegistered": true})
	}, studentState)

	registered, err := env.client.CheckRegistration(context.Background(), "h1")
	require.NoError(t, err)
	assert.True(t, registered)
}

func TestClient_NotFoundPropagatesWithoutRedirect(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "hackathon not found", "message": "hackathon not found"})
	}, studentState)

	_, err := env.client.GetHackathon(context.Background(), "evt1")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "/api/hackathons/evt1", apiErr.Path)

	assert.Empty(t, env.nav.Paths())
	assert.Equal(t, "t1", env.session.Token())
}

func TestClient_ForbiddenAndServerErrorsAreLogged(t *testing.T) {
	status := http.StatusForbidden
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, status, map[string]string{"error": "boom", "message": "boom"})
	}, studentState)

	_, err := env.client.ListProposals(context.Background(), "o1")
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Contains(t, env.logs.String(), "access forbidden")

	status = http.StatusBadGateway
	_, err = env.client.ListProposals(context.Background(), "o1")
	assert.ErrorIs(t, err, ErrServer)
	assert.Contains(t, env.logs.String(), "server error")

	assert.Empty(t, env.nav.Paths())
	assert.True(t, env.session.Authenticated())
}

func TestClient_TransportErrorIsWrapped(t *testing.T) {
	sess, err := session.New(session.NewMemoryStore())
	require.NoError(t, err)
	c := New("http://127.0.0.1:1/api", sess)

	_, err = c.ListHackathons(context.Background(), "")
	require.Error(t, err)
	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
	assert.Contains(t, err.Error(), "/api/hackathons")
}

func TestAPIError_ValidationFields(t *testing.T) {
	body := []byte(`{"error":{"password":"must be a strong password"},"message":"validation failed"}`)
	apiErr := newAPIError(http.MethodPost, "/api/user/register/student", http.StatusUnprocessableEntity, body)

	assert.Equal(t, "validation failed", apiErr.Message)
	assert.Equal(t, map[string]string{"password": "must be a strong password"}, apiErr.Fields)

	apiErr = newAPIError(http.MethodPost, "/x", http.StatusConflict, []byte(`{"error":"email address is already in use"}`))
	assert.Equal(t, "email address is already in use", apiErr.Message)

	apiErr = newAPIError(http.MethodGet, "/x", http.StatusBadGateway, []byte("<html>bad gateway</html>"))
	assert.Equal(t, "<html>bad gateway</html>", apiErr.Message)
}

func TestAPIError_RawBodyIsCutOnRuneBoundary(t *testing.T) {
	// 'ш' занимает два байта: граница в 200 байт попадает внутрь руны
	body := []byte("x" + strings.Repeat("ш", 150))
	apiErr := newAPIError(http.MethodGet, "/x", http.StatusBadGateway, body)

	assert.True(t, utf8.ValidString(apiErr.Message), "message must stay valid UTF-8")
	assert.Len(t, apiErr.Message, 199)
	assert.True(t, strings.HasPrefix(string(body), apiErr.Message))

	short := "ошибка шлюза"
	apiErr = newAPIError(http.MethodGet, "/x", http.StatusBadGateway, []byte(short))
	assert.Equal(t, short, apiErr.Message)
}

func TestClient_LoginScenario(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		var in LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "alice", in.Username)
		assert.Equal(t, "student", in.UserType)
		writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "token": "t1", "studentId": "s1"})
	}, session.State{})

	res, err := env.client.Login(context.Background(), LoginRequest{Username: "alice", Password: "x", UserType: "student"})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "t1", res.Token)
	assert.Equal(t, "s1", res.StudentID)
}

func TestClient_ApproveProposal(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/proposals/p1/approve", r.URL.Path)
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"message":  "Proposal approved",
			"proposal": map[string]interface{}{"_id": "p1", "status": "approved", "hackathonId": map[string]string{"_id": "h1", "ename": "Spark"}},
		})
	}, session.State{Token: "t2", OrganizerID: "o1", Role: session.RoleOrganizer})

	p, err := env.client.ApproveProposal(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "approved", p.Status)
	assert.Equal(t, "Spark", p.Hackathon.Name)
}

func TestClient_SubmitRegistrationMultipart(t *testing.T) {
	members := []TeamMember{
		{Name: "Bob", Email: "bob@example.com", DOB: "2002-01-01"},
		{Name: "Carol", Email: "carol@example.com", DOB: "2002-02-02"},
	}
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "true", r.FormValue("isTeam"))
		assert.Equal(t, "Rockets", r.FormValue("teamName"))

		var got []TeamMember
		require.NoError(t, json.Unmarshal([]byte(r.FormValue("members")), &got))
		assert.Equal(t, members, got)

		f, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		data, _ := io.ReadAll(f)
		assert.Equal(t, "proposal.pdf", hdr.Filename)
		assert.Equal(t, "%PDF-1.4", string(data))

		writeJSON(w, http.StatusCreated, map[string]interface{}{"message": "ok", "registration": map[string]interface{}{"_id": "r1", "isTeam": true}})
	}, studentState)

	reg, err := env.client.SubmitRegistration(context.Background(), RegistrationRequest{
		HackathonID: "h1", StudentID: "s1", IsTeam: true, TeamName: "Rockets", Members: members,
	}, &Attachment{Filename: "proposal.pdf", Data: []byte("%PDF-1.4")})
	require.NoError(t, err)
	assert.Equal(t, "r1", reg.ID)
}

func TestClient_SubmitSoloRegistrationIsJSON(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var raw map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		assert.Equal(t, []interface{}{}, raw["members"], "solo sends an empty members array")
		writeJSON(w, http.StatusCreated, map[string]interface{}{"registration": map[string]interface{}{"_id": "r2"}})
	}, studentState)

	reg, err := env.client.SubmitRegistration(context.Background(), RegistrationRequest{HackathonID: "h1", Name: "Alice", Email: "a@example.com"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "r2", reg.ID)
}

func TestClient_GenerateReportFilename(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", "attachment; filename*=UTF-8''Hackathon_Report_Spark%20Night.pdf")
		_, _ = w.Write([]byte("%PDF-1.3"))
	}, session.State{Token: "t2", OrganizerID: "o1"})

	report, err := env.client.GenerateReport(context.Background(), "h1", "")
	require.NoError(t, err)
	assert.Equal(t, "Hackathon_Report_Spark Night.pdf", report.Filename)
	assert.Equal(t, []byte("%PDF-1.3"), report.Content)
}

func TestClient_LiveURL(t *testing.T) {
	sess, _ := session.New(session.NewMemoryStore())
	tests := []struct{ base, want string }{
		{"http://localhost:5000/api", "ws://localhost:5000/ws/hackathons/h1"},
		{"https://example.com/api/", "wss://example.com/ws/hackathons/h1"},
		{"http://localhost:5000", "ws://localhost:5000/ws/hackathons/h1"},
	}
	for _, tt := range tests {
		got, err := New(tt.base, sess).liveURL("h1")
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestClient_WatchHackathon(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ws/hackathons/h1", r.URL.Path)
		assert.Equal(t, "Bearer t1", r.Header.Get("Authorization"))
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		defer conn.Close()
		_ = conn.WriteJSON(map[string]interface{}{"type": EventRegistrationCreated, "payload": map[string]string{"_id": "r1"}, "room_id": "hackathon_h1"})
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	}))
	defer srv.Close()

	sess, _ := session.New(session.NewMemoryStore())
	require.NoError(t, sess.Login(studentState))
	c := New(srv.URL+"/api", sess)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	var events []Event
	err := c.WatchHackathon(ctx, "h1", func(ev Event) { events = append(events, ev) })
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, EventRegistrationCreated, events[0].Type)
	assert.True(t, strings.Contains(string(events[0].Payload), "r1"))
}
