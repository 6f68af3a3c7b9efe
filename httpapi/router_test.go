package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"workspace-chat/domain"
	"workspace-chat/mocks"
	"workspace-chat/moderation"
	"workspace-chat/observability"
	"workspace-chat/repositories"
	"workspace-chat/services"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// apiFixture runs the real router over real services and a badger store; only
// the search index is mocked out.
type apiFixture struct {
	handler     http.Handler
	sessions    *services.SessionService
	members     repositories.MemberRepository
	workspaceID uuid.UUID
	alice       domain.Principal
	bob         domain.Principal
	aliceToken  string
	bobToken    string
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	req := require.New(t)

	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	req.NoError(err)
	t.Cleanup(func() { _ = db.Close() })

	ctrl := gomock.NewController(t)
	index := mocks.NewMockIIndex(ctrl)
	index.EXPECT().IndexMessage(gomock.Any()).Return(nil).AnyTimes()
	index.EXPECT().RemoveMessage(gomock.Any()).Return(nil).AnyTimes()

	censor, err := moderation.NewCensor([]string{"heck"}, '*')
	req.NoError(err)

	log := slog.Default()
	monitor := observability.NewMonitor(log)
	messages := repositories.NewMessageRepository(db, log)
	notifications := repositories.NewNotificationRepository(db, log, domain.RetentionWindow)
	members := repositories.NewMemberRepository(db)
	workspaces := repositories.NewWorkspaceRepository(db)
	users := repositories.NewUserRepository(db)
	sessions := services.NewSessionService(repositories.NewSessionRepository(db, log, time.Hour), time.Hour, log)

	notificationSvc := services.NewNotificationService(notifications, members, monitor, log)
	messageSvc := services.NewMessageService(messages, members, notificationSvc, index, censor, monitor, 2000, log)
	authSvc := services.NewAuthService(users, workspaces, members, sessions, log)

	f := &apiFixture{
		handler:  NewRouter(authSvc, sessions, messageSvc, notificationSvc, monitor, log),
		sessions: sessions,
		members:  members,
		alice:    domain.Principal{ID: uuid.New(), Email: "alice@example.com", Name: "Alice"},
		bob:      domain.Principal{ID: uuid.New(), Email: "bob@example.com", Name: "Bob"},
	}

	workspace := domain.NewWorkspace("Team", "shared", f.alice.ID)
	f.workspaceID = workspace.ID
	req.NoError(workspaces.Store(workspace))
	at := time.Now().UTC()
	req.NoError(members.Add(domain.Member{UserID: f.alice.ID, WorkspaceID: workspace.ID, Role: domain.RoleOwner, JoinedAt: at}))
	req.NoError(members.Add(domain.Member{UserID: f.bob.ID, WorkspaceID: workspace.ID, Role: domain.RoleMember, JoinedAt: at}))

	ctx := context.Background()
	f.aliceToken, err = sessions.Issue(ctx, f.alice)
	req.NoError(err)
	f.bobToken, err = sessions.Issue(ctx, f.bob)
	req.NoError(err)
	return f
}

func (f *apiFixture) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	request := httptest.NewRequest(method, path, reader)
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}
	recorder := httptest.NewRecorder()
	f.handler.ServeHTTP(recorder, request)
	return recorder
}

func (f *apiFixture) messagesPath() string {
	return fmt.Sprintf("/workspace/%s/messages", f.workspaceID)
}

func TestRouter_RequiresSession(t *testing.T) {
	req := require.New(t)
	f := newAPIFixture(t)

	resp := f.do(t, http.MethodGet, f.messagesPath()+"/", "", nil)
	req.Equal(http.StatusUnauthorized, resp.Code)

	resp = f.do(t, http.MethodGet, f.messagesPath()+"/", "forged-token", nil)
	req.Equal(http.StatusUnauthorized, resp.Code)

	resp = f.do(t, http.MethodGet, "/notifications/", "", nil)
	req.Equal(http.StatusUnauthorized, resp.Code)

	// Public endpoints stay reachable.
	resp = f.do(t, http.MethodGet, "/healthz", "", nil)
	req.Equal(http.StatusOK, resp.Code)

	resp = f.do(t, http.MethodGet, "/statsz", "", nil)
	req.Equal(http.StatusOK, resp.Code)
}

func TestRouter_SendAndListMessages(t *testing.T) {
	req := require.New(t)
	f := newAPIFixture(t)

	resp := f.do(t, http.MethodPost, f.messagesPath()+"/", f.aliceToken,
		map[string]string{"content": "what the heck, welcome all"})
	req.Equal(http.StatusCreated, resp.Code)

	var created messageResponse
	req.NoError(json.Unmarshal(resp.Body.Bytes(), &created))
	req.Equal(f.alice.ID.String(), created.SenderID)
	req.Equal("what the ****, welcome all", created.Content)
	req.False(created.Edited)

	resp = f.do(t, http.MethodGet, f.messagesPath()+"/", f.bobToken, nil)
	req.Equal(http.StatusOK, resp.Code)

	var listed []messageResponse
	req.NoError(json.Unmarshal(resp.Body.Bytes(), &listed))
	req.Len(listed, 1)
	req.Equal(created.ID, listed[0].ID)

	// The broadcast produced a notification for Bob.
	resp = f.do(t, http.MethodGet, "/notifications/unread-count", f.bobToken, nil)
	req.Equal(http.StatusOK, resp.Code)
	var unread map[string]int
	req.NoError(json.Unmarshal(resp.Body.Bytes(), &unread))
	req.Equal(1, unread["unread"])

	resp = f.do(t, http.MethodPost, "/notifications/read-all", f.bobToken, nil)
	req.Equal(http.StatusOK, resp.Code)

	resp = f.do(t, http.MethodGet, "/notifications/unread-count", f.bobToken, nil)
	req.NoError(json.Unmarshal(resp.Body.Bytes(), &unread))
	req.Zero(unread["unread"])
}

func TestRouter_EditAndDelete(t *testing.T) {
	req := require.New(t)
	f := newAPIFixture(t)

	resp := f.do(t, http.MethodPost, f.messagesPath()+"/", f.aliceToken, map[string]string{"content": "draft"})
	req.Equal(http.StatusCreated, resp.Code)
	var created messageResponse
	req.NoError(json.Unmarshal(resp.Body.Bytes(), &created))

	// Bob is a member but not the sender.
	resp = f.do(t, http.MethodPut, f.messagesPath()+"/"+created.ID, f.bobToken, map[string]string{"content": "hijack"})
	req.Equal(http.StatusUnauthorized, resp.Code)

	resp = f.do(t, http.MethodPut, f.messagesPath()+"/"+created.ID, f.aliceToken, map[string]string{"content": "final"})
	req.Equal(http.StatusOK, resp.Code)
	var edited messageResponse
	req.NoError(json.Unmarshal(resp.Body.Bytes(), &edited))
	req.Equal("final", edited.Content)
	req.True(edited.Edited)

	resp = f.do(t, http.MethodDelete, f.messagesPath()+"/"+created.ID, f.aliceToken, nil)
	req.Equal(http.StatusOK, resp.Code)
	var deleted messageResponse
	req.NoError(json.Unmarshal(resp.Body.Bytes(), &deleted))
	req.True(deleted.Deleted)
	req.Empty(deleted.Content)

	resp = f.do(t, http.MethodPut, f.messagesPath()+"/"+created.ID, f.aliceToken, map[string]string{"content": "resurrect"})
	req.Equal(http.StatusNotFound, resp.Code)
}

func TestRouter_BadRequests(t *testing.T) {
	req := require.New(t)
	f := newAPIFixture(t)

	resp := f.do(t, http.MethodPost, f.messagesPath()+"/", f.aliceToken, map[string]string{"content": ""})
	req.Equal(http.StatusBadRequest, resp.Code)

	resp = f.do(t, http.MethodPut, f.messagesPath()+"/not-a-uuid", f.aliceToken, map[string]string{"content": "x"})
	req.Equal(http.StatusBadRequest, resp.Code)

	resp = f.do(t, http.MethodGet, "/workspace/not-a-uuid/messages/", f.aliceToken, nil)
	req.Equal(http.StatusBadRequest, resp.Code)

	resp = f.do(t, http.MethodGet, f.messagesPath()+"/search", f.aliceToken, nil)
	req.Equal(http.StatusBadRequest, resp.Code)
}

func TestRouter_NonMemberIsRejected(t *testing.T) {
	req := require.New(t)
	f := newAPIFixture(t)

	outsider := domain.Principal{ID: uuid.New(), Email: "eve@example.com", Name: "Eve"}
	token, err := f.sessions.Issue(context.Background(), outsider)
	req.NoError(err)

	resp := f.do(t, http.MethodPost, f.messagesPath()+"/", token, map[string]string{"content": "let me in"})
	req.Equal(http.StatusUnauthorized, resp.Code)

	resp = f.do(t, http.MethodGet, f.messagesPath()+"/", token, nil)
	req.Equal(http.StatusUnauthorized, resp.Code)
}

func TestRouter_AuthFlow(t *testing.T) {
	req := require.New(t)
	f := newAPIFixture(t)

	resp := f.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"email": "clara@example.com", "name": "Clara", "password": "Sup3rSecret!Pass",
	})
	req.Equal(http.StatusCreated, resp.Code)
	var registered authResponse
	req.NoError(json.Unmarshal(resp.Body.Bytes(), &registered))
	req.NotEmpty(registered.Token)
	req.Equal("clara@example.com", registered.Email)

	// The fresh session opens the guarded routes.
	resp = f.do(t, http.MethodGet, "/notifications/", registered.Token, nil)
	req.Equal(http.StatusOK, resp.Code)

	resp = f.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "clara@example.com", "password": "Sup3rSecret!Pass",
	})
	req.Equal(http.StatusOK, resp.Code)

	resp = f.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "clara@example.com", "password": "WrongPassword1!",
	})
	req.Equal(http.StatusUnauthorized, resp.Code)

	resp = f.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"email": "clara@example.com", "name": "Clara", "password": "Sup3rSecret!Pass",
	})
	req.Equal(http.StatusBadRequest, resp.Code)

	resp = f.do(t, http.MethodPost, "/auth/logout", registered.Token, nil)
	req.Equal(http.StatusOK, resp.Code)

	resp = f.do(t, http.MethodGet, "/notifications/", registered.Token, nil)
	req.Equal(http.StatusUnauthorized, resp.Code)
}

func TestSessionToken_Sources(t *testing.T) {
	req := require.New(t)

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Empty(sessionToken(request))

	request.Header.Set("Authorization", "Bearer abc123")
	req.Equal("abc123", sessionToken(request))

	cookieRequest := httptest.NewRequest(http.MethodGet, "/", nil)
	cookieRequest.AddCookie(&http.Cookie{Name: "session", Value: "cookie-token"})
	req.Equal("cookie-token", sessionToken(cookieRequest))
}
