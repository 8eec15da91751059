package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"mercadogo/backend/internal/api/handler"
	"mercadogo/backend/internal/auth"
	"mercadogo/backend/internal/dm"
	"mercadogo/backend/internal/models"
	"mercadogo/backend/pkg/errors"
	"mercadogo/backend/pkg/logger"
)

const testUserID = "11111111-2222-3333-4444-555555555555"

type fixture struct {
	resolver *MockResolver
	profiles *MockProfiles
	chat     *MockChat
	listings *MockListings
	dm       *MockDM
	router   *gin.Engine
}

func newFixture() *fixture {
	gin.SetMode(gin.TestMode)
	f := &fixture{
		resolver: new(MockResolver),
		profiles: new(MockProfiles),
		chat:     new(MockChat),
		listings: new(MockListings),
		dm:       new(MockDM),
	}
	h := handler.NewHandler(f.resolver, f.profiles, f.chat, f.listings, f.dm, logger.Nop())
	f.router = gin.New()
	h.Register(f.router)
	return f
}

// post sends a raw JSON body to the action endpoint.
func (f *fixture) post(body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/app", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func (f *fixture) allowToken(token string) {
	f.resolver.On("Resolve", token).Return(auth.Identity{ID: testUserID}, nil)
}

func TestDispatchRejectsNonPost(t *testing.T) {
	f := newFixture()

	req := httptest.NewRequest(http.MethodGet, "/api/app", nil)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Equal(t, "Method not allowed", decode(t, w)["error"])
}

func TestDispatchInvalidJSON(t *testing.T) {
	f := newFixture()

	w := f.post(`{"action": "me"`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid JSON", decode(t, w)["error"])
}

func TestDispatchUnknownAction(t *testing.T) {
	f := newFixture()

	w := f.post(`{"action":"launch-missiles","token":"t"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Unknown action", decode(t, w)["error"])
}

func TestMeMissingToken(t *testing.T) {
	f := newFixture()
	f.resolver.On("Resolve", "").Return(auth.Identity{}, errors.ErrMissingToken)

	w := f.post(`{"action":"me"}`)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Missing token", decode(t, w)["error"])
	f.profiles.AssertNotCalled(t, "Ensure", mock.Anything)
}

func TestMeReturnsProfileDirect(t *testing.T) {
	f := newFixture()
	f.allowToken("tok")
	name := "alice"
	f.profiles.On("Ensure", testUserID).Return(&models.Profile{ID: testUserID, Username: &name}, nil)

	w := f.post(`{"action":"me","token":"tok"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	// Profile is the top-level object, not wrapped.
	assert.Equal(t, testUserID, body["id"])
	assert.Equal(t, "alice", body["username"])
}

func TestSetUsernameConflict(t *testing.T) {
	f := newFixture()
	f.allowToken("tok")
	f.profiles.On("SetUsername", testUserID, "taken_name").Return(nil, errors.ErrUsernameTaken)

	w := f.post(`{"action":"set-username","token":"tok","username":"taken_name"}`)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Username taken", decode(t, w)["error"])
}

func TestSetUsernameSuccess(t *testing.T) {
	f := newFixture()
	f.allowToken("tok")
	name := "alice"
	f.profiles.On("SetUsername", testUserID, "alice").Return(&models.Profile{ID: testUserID, Username: &name}, nil)

	w := f.post(`{"action":"set-username","token":"tok","username":"alice"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]any{"username": "alice"}, decode(t, w))
}

func TestGetProfileNeedsUsernameOrToken(t *testing.T) {
	f := newFixture()

	w := f.post(`{"action":"get-profile"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Provide username or token", decode(t, w)["error"])
}

func TestGetProfileByUsername(t *testing.T) {
	f := newFixture()
	name := "bob"
	f.profiles.On("GetByUsername", "bob").Return(&models.Profile{ID: "x", Username: &name}, nil)

	w := f.post(`{"action":"get-profile","username":"bob"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "bob", decode(t, w)["username"])
	// Unauthenticated read: the resolver is never consulted.
	f.resolver.AssertNotCalled(t, "Resolve", mock.Anything)
}

func TestListMessagesPublicAndEmpty(t *testing.T) {
	f := newFixture()
	f.chat.On("List", int64(0), 0).Return(nil, nil)

	w := f.post(`{"action":"list-messages"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	// nil from the service still serializes as [].
	assert.JSONEq(t, `{"messages":[]}`, w.Body.String())
	f.resolver.AssertNotCalled(t, "Resolve", mock.Anything)
}

func TestListMessagesForwardsCursor(t *testing.T) {
	f := newFixture()
	f.chat.On("List", int64(42), 10).Return([]models.ChatMessage{
		{ID: 43, Username: "alice", Content: "hola"},
	}, nil)

	w := f.post(`{"action":"list-messages","after_id":42,"limit":10}`)

	assert.Equal(t, http.StatusOK, w.Code)
	msgs := decode(t, w)["messages"].([]any)
	assert.Len(t, msgs, 1)
	f.chat.AssertExpectations(t)
}

func TestSendMessageRequiresUsername(t *testing.T) {
	f := newFixture()
	f.allowToken("tok")
	f.chat.On("Send", testUserID, "hola").Return(nil, errors.ErrUsernameNotSet)

	w := f.post(`{"action":"send-message","token":"tok","content":"hola"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Username not set", decode(t, w)["error"])
}

func TestSendMessageRateLimited(t *testing.T) {
	f := newFixture()
	f.allowToken("tok")
	f.chat.On("Send", testUserID, "spam").Return(nil, errors.ErrRateLimited)

	w := f.post(`{"action":"send-message","token":"tok","content":"spam"}`)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestCreateListingRequiresPrice(t *testing.T) {
	f := newFixture()
	f.allowToken("tok")

	w := f.post(`{"action":"create-listing","token":"tok","title":"Bici","address":"Calle 1","region_code":"RM"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	f.listings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestGetListingMissingID(t *testing.T) {
	f := newFixture()

	w := f.post(`{"action":"get-listing"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Missing id", decode(t, w)["error"])
}

func TestGetListingNotFound(t *testing.T) {
	f := newFixture()
	f.listings.On("Get", int64(99)).Return(nil, errors.ErrListingNotFound)

	w := f.post(`{"action":"get-listing","id":99}`)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Listing not found", decode(t, w)["error"])
}

func TestListAllListingsForwardsFilters(t *testing.T) {
	f := newFixture()
	f.listings.On("ListAll", "V", "bici", 20).Return([]models.ListingSummary{}, nil)

	w := f.post(`{"action":"list-all-listings","region_code":"V","search":"bici","limit":20}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"listings":[]}`, w.Body.String())
	f.listings.AssertExpectations(t)
}

func TestListUserListingsMissingUsername(t *testing.T) {
	f := newFixture()

	w := f.post(`{"action":"list-user-listings"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Missing username", decode(t, w)["error"])
}

func TestStartDmForwardsInput(t *testing.T) {
	f := newFixture()
	f.allowToken("tok")
	f.dm.On("Start", testUserID, mock.MatchedBy(func(in dm.StartInput) bool {
		return in.TargetUsername != nil && *in.TargetUsername == "bob" && in.ListingID == nil
	})).Return(&models.ThreadView{ID: 5, OtherUsername: "bob"}, nil)

	w := f.post(`{"action":"start-dm","token":"tok","target_username":"bob"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	thread := decode(t, w)["thread"].(map[string]any)
	assert.Equal(t, float64(5), thread["id"])
	assert.Equal(t, "bob", thread["other_username"])
}

func TestGetDmThreadForbidden(t *testing.T) {
	f := newFixture()
	f.allowToken("tok")
	f.dm.On("GetThread", testUserID, int64(7)).Return(nil, errors.ErrNotThreadMember)

	w := f.post(`{"action":"get-dm-thread","token":"tok","thread_id":7}`)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestGetDmThreadMissingID(t *testing.T) {
	f := newFixture()
	f.allowToken("tok")

	w := f.post(`{"action":"get-dm-thread","token":"tok"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Missing thread_id", decode(t, w)["error"])
}

func TestListDmThreadsEmpty(t *testing.T) {
	f := newFixture()
	f.allowToken("tok")
	f.dm.On("ListThreads", testUserID, (*int64)(nil), 0).Return(nil, nil)

	w := f.post(`{"action":"list-dm-threads","token":"tok"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"threads":[]}`, w.Body.String())
}

func TestSendDmMessage(t *testing.T) {
	f := newFixture()
	f.allowToken("tok")
	f.dm.On("Send", testUserID, int64(7), "hola").Return(&models.ThreadMessage{
		ID: 1, ThreadID: 7, SenderID: testUserID, SenderUsername: "alice", Content: "hola",
	}, nil)

	w := f.post(`{"action":"send-dm-message","token":"tok","thread_id":7,"content":"hola"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	msg := decode(t, w)["message"].(map[string]any)
	assert.Equal(t, "hola", msg["content"])
}

func TestHealthz(t *testing.T) {
	f := newFixture()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}
