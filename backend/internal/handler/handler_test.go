package handler

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/itchan-dev/bloghub/shared/config"
	"github.com/itchan-dev/bloghub/shared/domain"
	mw "github.com/itchan-dev/bloghub/shared/middleware"
	"github.com/stretchr/testify/require"
)

type testHandler struct {
	*Handler
	auth    *MockAuthService
	account *MockAccountService
	blog    *MockBlogService
	post    *MockPostService
	comment *MockCommentService
	pinger  *MockPinger
}

func newTestHandler() *testHandler {
	th := &testHandler{
		auth:    &MockAuthService{},
		account: &MockAccountService{},
		blog:    &MockBlogService{},
		post:    &MockPostService{},
		comment: &MockCommentService{},
		pinger:  &MockPinger{},
	}
	cfg := &config.Config{Public: config.Public{
		RequireEmailConfirmation: true,
		MaxUploadSize:            1 << 20,
		AllowedImageMimeTypes:    []string{"image/png", "image/jpeg"},
	}}
	th.Handler = New(th.auth, th.account, th.blog, th.post, th.comment, paragraphRenderer{}, th.pinger, cfg)
	return th
}

// serve routes one request through a chi router registered with pattern.
// A non-nil actor is put into the request context as the auth middleware would.
func serve(method, pattern string, fn http.HandlerFunc, req *http.Request, actor *domain.Actor) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Method(method, pattern, fn)
	if actor != nil {
		req = req.WithContext(mw.WithActor(req.Context(), actor))
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

type formFile struct {
	field, name string
	data        []byte
}

func multipartRequest(t *testing.T, method, target string, fields map[string]string, files ...formFile) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mpw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mpw.WriteField(k, v))
	}
	for _, f := range files {
		part, err := mpw.CreateFormFile(f.field, f.name)
		require.NoError(t, err)
		_, err = part.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, mpw.Close())

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", mpw.FormDataContentType())
	return req
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))))
	return buf.Bytes()
}

type envelope struct {
	Data         json.RawMessage `json:"data"`
	Message      string          `json:"message"`
	Details      string          `json:"details"`
	Success      bool            `json:"success"`
	Page         int             `json:"page"`
	Size         int             `json:"size"`
	TotalPages   int             `json:"totalPages"`
	TotalRecords int             `json:"totalRecords"`
	NextPage     *string         `json:"nextPage"`
	PreviousPage *string         `json:"previousPage"`
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&env), "body: %s", rr.Body.String())
	return env
}

func decodeData(t *testing.T, env envelope, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, v))
}

var (
	actor = &domain.Actor{Id: 7, Roles: []domain.RoleName{domain.RoleUser}}
	admin = &domain.Actor{Id: 1, Roles: []domain.RoleName{domain.RoleUser, domain.RoleAdmin}}
)

func readAll(t *testing.T, r io.Reader) string {
	t.Helper()
	b, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(b)
}
