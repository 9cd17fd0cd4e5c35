package handlers

import (
	"bytes"
	"encoding/json"
	"feedserver/auth"
	"feedserver/db"
	"feedserver/feed"
	"feedserver/models"
	"feedserver/posts"
	"feedserver/storage"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type server struct {
	t      *testing.T
	tx     *gorm.DB
	engine *gin.Engine
	cache  *feed.MemoryCache
}

func newServer(t *testing.T) *server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	tx, err := db.OpenInMemory()
	require.NoError(t, err)
	require.NoError(t, models.Migrate(tx))

	cache := feed.NewMemoryCache(20*time.Second, 100)
	images := storage.NewDiskStorage(t.TempDir(), "/media")
	h := &Handlers{
		DB:        tx,
		Feed:      feed.NewAssembler(tx, cache),
		Posts:     posts.NewService(tx, images, 64),
		PageCache: cache,
	}
	engine := gin.New()
	engine.Use(auth.SessionMiddleware(tx, false))
	h.Register(engine)
	return &server{t: t, tx: tx, engine: engine, cache: cache}
}

// signup creates a user through the API and returns a bearer token for them
func (s *server) signup(username string) string {
	s.t.Helper()
	form := url.Values{"username": {username}, "password": {"secret-" + username}}
	w := s.form(http.MethodPost, "/auth/signup", "", form)
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())

	w = s.form(http.MethodPost, "/auth/login", "", form)
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())
	body := struct {
		Token string `json:"token"`
	}{}
	require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotEmpty(s.t, body.Token)
	return body.Token
}

func (s *server) do(req *http.Request, token string) *httptest.ResponseRecorder {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func (s *server) get(path, token string) *httptest.ResponseRecorder {
	return s.do(httptest.NewRequest(http.MethodGet, path, nil), token)
}

func (s *server) form(method, path, token string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return s.do(req, token)
}

func (s *server) createPost(token, text string) models.Post {
	s.t.Helper()
	w := s.form(http.MethodPost, "/post", token, url.Values{"text": {text}})
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())
	post := models.Post{}
	require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &post))
	return post
}

func (s *server) makeAdmin(username string) {
	s.t.Helper()
	require.NoError(s.t, s.tx.Model(&models.User{}).Where("username = ?", username).Update("is_admin", true).Error)
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestAnonymousIsRedirectedToLogin(t *testing.T) {
	s := newServer(t)
	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/feed/following?page=2"},
		{http.MethodPost, "/post"},
		{http.MethodPost, "/post/1"},
		{http.MethodPost, "/post/1/delete"},
		{http.MethodPost, "/post/1/comment"},
		{http.MethodPost, "/profile/leo/follow"},
		{http.MethodPost, "/profile/leo/unfollow"},
		{http.MethodPost, "/admin/cache/clear"},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := s.form(tt.method, tt.path, "", url.Values{})
			assert.Equal(t, http.StatusFound, w.Code)
			assert.Equal(t, "/auth/login?next="+url.QueryEscape(tt.path), w.Header().Get("Location"))
		})
	}
}

func TestSignupAndLogin(t *testing.T) {
	s := newServer(t)
	s.signup("leo")

	tests := []struct {
		name   string
		path   string
		form   url.Values
		status int
	}{
		{"duplicate username", "/auth/signup", url.Values{"username": {"leo"}, "password": {"x"}}, http.StatusConflict},
		{"missing password", "/auth/signup", url.Values{"username": {"anna"}}, http.StatusBadRequest},
		{"wrong password", "/auth/login", url.Values{"username": {"leo"}, "password": {"nope"}}, http.StatusUnauthorized},
		{"unknown user", "/auth/login", url.Values{"username": {"ghost"}, "password": {"x"}}, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.form(http.MethodPost, tt.path, "", tt.form)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}
}

func TestLoginSessionCookie(t *testing.T) {
	s := newServer(t)
	s.signup("leo")

	w := s.form(http.MethodPost, "/auth/login", "", url.Values{
		"username": {"leo"}, "password": {"secret-leo"}, "next": {"//evil.example"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "/", decode[map[string]any](t, w)["next"])
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	req := httptest.NewRequest(http.MethodGet, "/feed/following", nil)
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	w = s.do(req, "")
	assert.Equal(t, http.StatusOK, w.Code, "session cookie authenticates the caller")
}

func TestPostLifecycle(t *testing.T) {
	s := newServer(t)
	u1 := s.signup("u1")
	u2 := s.signup("u2")

	post := s.createPost(u1, "hello")
	path := "/post/" + strconv.FormatUint(post.ID, 10)

	w := s.get("/feed/all", "")
	require.Equal(t, http.StatusOK, w.Code)
	page := decode[feed.Page](t, w)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "hello", page.Items[0].Text)

	w = s.form(http.MethodPost, path, u2, url.Values{"text": {"hacked"}})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, path, w.Header().Get("Location"))

	w = s.form(http.MethodPost, path, u1, url.Values{"text": {"hello v2"}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.get(path, "")
	require.Equal(t, http.StatusOK, w.Code)
	detail := decode[feed.PostDetail](t, w)
	assert.Equal(t, "hello v2", detail.Post.Text)

	w = s.get("/feed/all", "")
	assert.Equal(t, "hello", decode[feed.Page](t, w).Items[0].Text, "cached page is stale until the TTL")

	s.makeAdmin("u1")
	w = s.form(http.MethodPost, "/admin/cache/clear", u2, url.Values{})
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = s.form(http.MethodPost, "/admin/cache/clear", u1, url.Values{})
	require.Equal(t, http.StatusOK, w.Code)
	w = s.get("/feed/all", "")
	assert.Equal(t, "hello v2", decode[feed.Page](t, w).Items[0].Text)

	w = s.form(http.MethodPost, path+"/comment", u2, url.Values{"text": {"nice"}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = s.form(http.MethodPost, path+"/comment", u2, url.Values{"text": {""}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.form(http.MethodPost, path+"/delete", u2, url.Values{})
	assert.Equal(t, http.StatusFound, w.Code)
	w = s.form(http.MethodPost, path+"/delete", u1, url.Values{})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, http.StatusNotFound, s.get(path, "").Code)
}

func TestPostDetailETag(t *testing.T) {
	s := newServer(t)
	token := s.signup("leo")
	post := s.createPost(token, "hello")
	path := "/post/" + strconv.FormatUint(post.ID, 10)

	w := s.get(path, "")
	require.Equal(t, http.StatusOK, w.Code)
	etag := w.Header().Get("ETag")
	require.NotEmpty(t, etag)

	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("If-None-Match", etag)
	assert.Equal(t, http.StatusNotModified, s.do(req, "").Code)
}

func TestPostCreateValidation(t *testing.T) {
	s := newServer(t)
	token := s.signup("leo")

	tests := []struct {
		name   string
		form   url.Values
		status int
	}{
		{"empty text", url.Values{"text": {"  "}}, http.StatusBadRequest},
		{"unknown group", url.Values{"text": {"hi"}, "group": {"nope"}}, http.StatusNotFound},
		{"plain post", url.Values{"text": {"hi"}}, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.form(http.MethodPost, "/post", token, tt.form)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}
	assert.Equal(t, http.StatusNotFound, s.get("/post/abc", "").Code)
	assert.Equal(t, http.StatusNotFound, s.get("/post/999", "").Code)
}

func TestPostCreateWithImage(t *testing.T) {
	s := newServer(t)
	token := s.signup("leo")

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	require.NoError(t, writer.WriteField("text", "look"))
	part, err := writer.CreateFormFile("image", "cat.png")
	require.NoError(t, err)
	require.NoError(t, png.Encode(part, image.NewRGBA(image.Rect(0, 0, 100, 100))))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/post", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := s.do(req, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	post := decode[models.Post](t, w)
	assert.Equal(t, "look", post.Text)
	assert.True(t, strings.HasPrefix(post.ImageURL, "/media/posts/"), post.ImageURL)
}

func TestPostCreateMalformedImage(t *testing.T) {
	s := newServer(t)
	token := s.signup("leo")

	// The image part is cut off before the closing boundary
	body := "--xyz\r\nContent-Disposition: form-data; name=\"text\"\r\n\r\nlook\r\n" +
		"--xyz\r\nContent-Disposition: form-data; name=\"image\"; filename=\"cat.png\"\r\n" +
		"Content-Type: image/png\r\n\r\n\x89PNG"
	req := httptest.NewRequest(http.MethodPost, "/post", strings.NewReader(body))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=xyz")
	w := s.do(req, token)
	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

	var count int64
	require.NoError(t, s.tx.Model(&models.Post{}).Count(&count).Error)
	assert.Zero(t, count, "no post is created without its attachment")
}

func TestFeeds(t *testing.T) {
	s := newServer(t)
	reader := s.signup("reader")
	author := s.signup("author")
	s.createPost(author, "by author")
	s.makeAdmin("reader")

	w := s.form(http.MethodPost, "/admin/group/create", reader, url.Values{"title": {"Cats"}, "slug": {"cats"}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = s.form(http.MethodPost, "/admin/group/create", reader, url.Values{"title": {"Cats"}, "slug": {"cats"}})
	assert.Equal(t, http.StatusConflict, w.Code)
	w = s.form(http.MethodPost, "/post", author, url.Values{"text": {"meow"}, "group": {"cats"}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.get("/feed/group/cats", "")
	require.Equal(t, http.StatusOK, w.Code)
	page := decode[feed.Page](t, w)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "meow", page.Items[0].Text)
	assert.Equal(t, http.StatusNotFound, s.get("/feed/group/dogs", "").Code)

	w = s.get("/feed/following", reader)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[feed.Page](t, w).Items)

	w = s.form(http.MethodPost, "/profile/author/follow", reader, url.Values{})
	require.Equal(t, http.StatusOK, w.Code)
	w = s.form(http.MethodPost, "/profile/reader/follow", reader, url.Values{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = s.form(http.MethodPost, "/profile/ghost/follow", reader, url.Values{})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.get("/feed/following", reader)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[feed.Page](t, w).Items, 2)

	w = s.get("/feed/author/author", reader)
	require.Equal(t, http.StatusOK, w.Code)
	profile := decode[feed.Profile](t, w)
	assert.True(t, profile.Following)
	assert.Equal(t, int64(2), profile.PostCount)
	assert.Equal(t, http.StatusNotFound, s.get("/feed/author/ghost", "").Code)

	w = s.form(http.MethodPost, "/profile/author/unfollow", reader, url.Values{})
	require.Equal(t, http.StatusOK, w.Code)
	w = s.get("/feed/author/author", reader)
	assert.False(t, decode[feed.Profile](t, w).Following)

	w = s.form(http.MethodPost, "/admin/group/delete", reader, url.Values{"slug": {"cats"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, http.StatusNotFound, s.get("/feed/group/cats", "").Code)
}

func TestAdminUserDelete(t *testing.T) {
	s := newServer(t)
	admin := s.signup("root")
	author := s.signup("leo")
	s.makeAdmin("root")
	post := s.createPost(author, "bye")

	w := s.form(http.MethodPost, "/admin/user/delete", author, url.Values{"id": {strconv.FormatUint(post.AuthorID, 10)}})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.form(http.MethodPost, "/admin/user/delete", admin, url.Values{"id": {strconv.FormatUint(post.AuthorID, 10)}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, http.StatusNotFound, s.get("/post/"+strconv.FormatUint(post.ID, 10), "").Code)

	w = s.form(http.MethodPost, "/post", author, url.Values{"text": {"ghost post"}})
	assert.Equal(t, http.StatusFound, w.Code, "token of a deleted user no longer authenticates")
}
