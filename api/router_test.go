package api

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Domenick1991/sejour/internal/apperror"
	"github.com/Domenick1991/sejour/internal/auth"
	"github.com/Domenick1991/sejour/internal/domain"
	"github.com/Domenick1991/sejour/internal/service/image"
	"github.com/Domenick1991/sejour/internal/service/message"
	"github.com/Domenick1991/sejour/internal/service/user"
	"github.com/Domenick1991/sejour/internal/upload"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

type testServer struct {
	router     *gin.Engine
	bookings   *MockBookingUseCase
	properties *MockPropertyUseCase
	users      *MockUserUseCase
	messages   *MockMessageUseCase
	images     *MockImageUseCase
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := &testServer{
		bookings:   &MockBookingUseCase{},
		properties: &MockPropertyUseCase{},
		users:      &MockUserUseCase{},
		messages:   &MockMessageUseCase{},
		images:     &MockImageUseCase{},
	}
	tokens := staticTokens{
		"owner": {UserID: 2},
		"guest": {UserID: 7},
	}
	s.router = NewRouter(RouterConfig{}, tokens, s.properties, Handlers{
		Auth:       NewAuthHandler(s.users),
		Users:      NewUserHandler(s.users, s.messages),
		Properties: NewPropertyHandler(s.properties),
		Bookings:   NewBookingHandler(s.bookings),
		Messages:   NewMessageHandler(s.messages),
		Images:     NewImageHandler(s.images, 1<<20, 4),
	})
	return s
}

func (s *testServer) do(method, target, token, contentType string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func TestRouter_health(t *testing.T) {
	s := newTestServer(t)
	w := s.do("GET", "/health", "", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestRouter_bookingRequiresLogin(t *testing.T) {
	s := newTestServer(t)

	body := []byte(`{"startDate":"2024-05-01T00:00:00Z","endDate":"2024-05-03T00:00:00Z"}`)
	w := s.do("POST", "/properties/3/bookings", "", "application/json", body)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do("POST", "/properties/3/bookings", "forged", "application/json", body)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	s.bookings.AssertNotCalled(t, "CreateBooking", mock.Anything, mock.Anything)
}

func TestRouter_createBooking(t *testing.T) {
	s := newTestServer(t)
	s.bookings.On("CreateBooking", mock.Anything, mock.AnythingOfType("booking.CreateBookingInput")).
		Return(&domain.Booking{ID: 11, PropertyID: 3, GuestID: 7}, nil)

	body := []byte(`{"startDate":"2024-05-01T00:00:00Z","endDate":"2024-05-03T00:00:00Z"}`)
	w := s.do("POST", "/properties/3/bookings", "guest", "application/json", body)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"id":11`)
}

func TestRouter_propertyOwnerGuard(t *testing.T) {
	s := newTestServer(t)
	s.properties.On("GetOwnerID", mock.Anything, int64(3)).Return(int64(2), nil)
	s.properties.On("GetOwnerID", mock.Anything, int64(404)).Return(int64(0), apperror.NotFound("property not found"))
	s.properties.On("Archive", mock.Anything, int64(3)).Return(nil)

	w := s.do("DELETE", "/properties/3", "guest", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do("DELETE", "/properties/404", "owner", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do("DELETE", "/properties/3", "owner", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	s.properties.AssertNumberOfCalls(t, "Archive", 1)
}

func TestRouter_correctUserGuard(t *testing.T) {
	s := newTestServer(t)
	s.messages.On("Inbox", mock.Anything, int64(7)).Return([]domain.UserMessage{{ID: 1, Body: "hi"}}, nil)

	w := s.do("GET", "/users/7/to", "owner", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do("GET", "/users/7/to", "guest", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"body":"hi"`)
}

func TestRouter_authFlow(t *testing.T) {
	s := newTestServer(t)
	s.users.On("Register", mock.Anything, user.RegisterInput{
		Email: "ann@example.com", Password: "secret", FirstName: "Ann", LastName: "Lee",
	}).Return("tok", nil)
	s.users.On("Login", mock.Anything, "ann@example.com", "wrong").
		Return("", apperror.Unauthorized("invalid email/password"))

	w := s.do("POST", "/auth/register", "", "application/json",
		[]byte(`{"email":"ann@example.com","password":"secret","firstName":"Ann","lastName":"Lee"}`))
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"token":"tok"}`, w.Body.String())

	w = s.do("POST", "/auth/login", "", "application/json", []byte(`{"email":"ann@example.com","password":"wrong"}`))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_messages(t *testing.T) {
	s := newTestServer(t)
	s.messages.On("Send", mock.Anything, message.SendInput{FromID: 7, ToID: 2, Body: "is it free?"}).
		Return(&domain.Message{ID: 4, FromID: 7, ToID: 2, Body: "is it free?"}, nil)
	s.messages.On("MarkRead", mock.Anything, int64(4), int64(7)).
		Return(nil, apperror.Unauthorized("only the recipient can mark a message read"))

	w := s.do("POST", "/messages", "guest", "application/json", []byte(`{"toId":2,"body":"is it free?"}`))
	assert.Equal(t, http.StatusCreated, w.Code)

	w = s.do("PATCH", "/messages/4", "guest", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func multipartBody(t *testing.T, files map[string][]byte) (string, []byte) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for name, data := range files {
		part, err := mw.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return mw.FormDataContentType(), buf.Bytes()
}

func TestRouter_uploadImages(t *testing.T) {
	s := newTestServer(t)
	s.properties.On("GetOwnerID", mock.Anything, int64(3)).Return(int64(2), nil)
	s.images.On("Upload", mock.Anything, int64(3), mock.MatchedBy(func(files []*upload.File) bool {
		return len(files) == 1 && files[0].ContentType == "image/png"
	})).Return(&image.UploadResult{
		Images: []domain.Image{{ID: 1, ImageKey: "k.png"}},
		Errors: []string{"b.png: upload failed"},
	}, nil)

	contentType, body := multipartBody(t, map[string][]byte{"a.png": pngHeader})
	w := s.do("POST", "/properties/3/images", "owner", contentType, body)

	assert.Equal(t, http.StatusMultiStatus, w.Code)
	assert.Contains(t, w.Body.String(), "upload failed")
}

func TestRouter_uploadRejectsNonImage(t *testing.T) {
	s := newTestServer(t)
	s.properties.On("GetOwnerID", mock.Anything, int64(3)).Return(int64(2), nil)

	contentType, body := multipartBody(t, map[string][]byte{"notes.txt": []byte("plain text")})
	w := s.do("POST", "/properties/3/images", "owner", contentType, body)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "notes.txt"))
	s.images.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything)
}

func TestRouter_deleteImages(t *testing.T) {
	s := newTestServer(t)
	s.properties.On("GetOwnerID", mock.Anything, int64(3)).Return(int64(2), nil)
	s.images.On("Delete", mock.Anything, int64(3), []string{"k.png"}).
		Return(&image.DeleteResult{Deleted: []string{"k.png"}}, nil)
	s.images.On("SetCover", mock.Anything, int64(3), int64(8)).
		Return(&domain.Image{ID: 8, ImageKey: "c.png", IsCoverImage: true}, nil)

	w := s.do("DELETE", "/properties/3/images", "owner", "application/json", []byte(`{"imageKeys":["k.png"]}`))
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do("PATCH", "/properties/3/images/8", "owner", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "c.png")
}

func TestAuthenticate_ignoresInvalidToken(t *testing.T) {
	c, _ := newTestContext("GET", "/", nil)
	c.Request.Header.Set("Authorization", "Bearer nope")

	Authenticate(staticTokens{"ok": &auth.Claims{UserID: 1}})(c)

	_, ok := callerClaims(c)
	assert.False(t, ok)
	assert.False(t, c.IsAborted())
}
