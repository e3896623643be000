package adapters_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	relay "github.com/dmitrymomot/relay"
	"github.com/dmitrymomot/relay/adapters"
	"github.com/dmitrymomot/relay/pkg/validator"
)

type itemStore struct {
	mu    sync.Mutex
	items map[int]string
	next  int
}

func newItemStore() *itemStore {
	return &itemStore{items: make(map[int]string), next: 1}
}

func (s *itemStore) add(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.next
	s.next++
	s.items[id] = name
	return id
}

func (s *itemStore) get(id int) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	name, ok := s.items[id]
	return name, ok
}

type createItemRequest struct {
	Name string `json:"name"`
	Note string `json:"note"`
}

func (createItemRequest) Rules() []validator.FieldRules {
	return []validator.FieldRules{
		validator.Field("name", validator.Required(), validator.MinLen(3)),
		validator.Field("note", validator.MaxLen(100)).Sanitized(),
	}
}

type uploadRequest struct {
	Doc *relay.UploadedFile `json:"doc"`
}

func (uploadRequest) Rules() []validator.FieldRules {
	return []validator.FieldRules{
		validator.Field("doc", validator.RequiredFile(), validator.MaxFileSize(1<<20)),
	}
}

type itemController struct {
	store *itemStore
}

func newItemController(store *itemStore) *itemController {
	return &itemController{store: store}
}

func (*itemController) Prefix() string { return "/items" }

func (*itemController) Routes() []relay.RouteDef {
	return []relay.RouteDef{
		relay.GET("", "List", relay.Query("limit").Default("10")),
		relay.GET("/{id}", "Show", relay.Path("id")),
		relay.POST("", "Create"),
		relay.POST("/upload", "Upload"),
	}
}

func (ctrl *itemController) List(limit int) *relay.Outcome {
	return relay.OK(map[string]any{"limit": limit})
}

func (ctrl *itemController) Show(id int) (*relay.Outcome, error) {
	name, ok := ctrl.store.get(id)
	if !ok {
		return nil, relay.ErrNotFound("item not found")
	}
	return relay.OK(map[string]any{"id": id, "name": name}), nil
}

func (ctrl *itemController) Create(req *createItemRequest) (*relay.Outcome, error) {
	id := ctrl.store.add(req.Name)
	return relay.OK(map[string]any{"id": id, "name": req.Name, "note": req.Note}).WithStatus(http.StatusCreated), nil
}

func (ctrl *itemController) Upload(req *uploadRequest) *relay.Outcome {
	return relay.OK(map[string]any{
		"filename": req.Doc.FileName(),
		"size":     req.Doc.FileSize(),
	})
}

func newTestServer(t *testing.T, store *itemStore) *httptest.Server {
	t.Helper()

	app := relay.New(relay.WithLogger(slog.New(slog.DiscardHandler)))
	app.Register(store)
	require.NoError(t, app.Provide(newItemController))
	require.NoError(t, app.Controllers(&itemController{}))

	srv := httptest.NewServer(adapters.NewHandler(app))
	t.Cleanup(srv.Close)
	return srv
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()

	body := make(map[string]any)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestHandlerDispatch(t *testing.T) {
	t.Parallel()

	store := newItemStore()
	seededID := store.add("first")
	srv := newTestServer(t, store)

	t.Run("path parameter resolves the record", func(t *testing.T) {
		t.Parallel()

		resp, err := http.Get(srv.URL + "/items/1")
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Equal(t, true, body["success"])
		data := body["data"].(map[string]any)
		assert.Equal(t, float64(seededID), data["id"])
		assert.Equal(t, "first", data["name"])
	})

	t.Run("missing record maps to 404 outcome", func(t *testing.T) {
		t.Parallel()

		resp, err := http.Get(srv.URL + "/items/999")
		require.NoError(t, err)
		require.Equal(t, http.StatusNotFound, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Equal(t, false, body["success"])
	})

	t.Run("non-numeric path parameter is a routing miss", func(t *testing.T) {
		t.Parallel()

		resp, err := http.Get(srv.URL + "/items/abc")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("unknown route is 404", func(t *testing.T) {
		t.Parallel()

		resp, err := http.Get(srv.URL + "/nothing/here")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Equal(t, "not found", body["message"])
	})

	t.Run("query default applies when absent", func(t *testing.T) {
		t.Parallel()

		resp, err := http.Get(srv.URL + "/items")
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		data := body["data"].(map[string]any)
		assert.Equal(t, float64(10), data["limit"])
	})

	t.Run("query value overrides the default", func(t *testing.T) {
		t.Parallel()

		resp, err := http.Get(srv.URL + "/items?limit=25")
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		data := body["data"].(map[string]any)
		assert.Equal(t, float64(25), data["limit"])
	})
}

func TestHandlerBodies(t *testing.T) {
	t.Parallel()

	store := newItemStore()
	srv := newTestServer(t, store)

	t.Run("json body creates a record", func(t *testing.T) {
		t.Parallel()

		resp, err := http.Post(srv.URL+"/items", "application/json",
			strings.NewReader(`{"name":"widget"}`))
		require.NoError(t, err)
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		body := decodeBody(t, resp)
		data := body["data"].(map[string]any)
		assert.Equal(t, "widget", data["name"])

		name, ok := store.get(int(data["id"].(float64)))
		require.True(t, ok)
		assert.Equal(t, "widget", name)
	})

	t.Run("form body creates a record", func(t *testing.T) {
		t.Parallel()

		resp, err := http.PostForm(srv.URL+"/items", url.Values{"name": {"gadget"}})
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
	})

	t.Run("invalid body aggregates into a 422", func(t *testing.T) {
		t.Parallel()

		resp, err := http.Post(srv.URL+"/items", "application/json",
			strings.NewReader(`{"name":"ab"}`))
		require.NoError(t, err)
		require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Equal(t, false, body["success"])
		errs := body["errors"].(map[string]any)
		assert.NotEmpty(t, errs["name"])
	})

	t.Run("sanitized field strips markup before assignment", func(t *testing.T) {
		t.Parallel()

		resp, err := http.Post(srv.URL+"/items", "application/json",
			strings.NewReader(`{"name":"clean","note":"<script>x</script>plain"}`))
		require.NoError(t, err)
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		body := decodeBody(t, resp)
		data := body["data"].(map[string]any)
		assert.NotContains(t, data["note"], "<script>")
		assert.Contains(t, data["note"], "plain")
	})

	t.Run("malformed json is a 400", func(t *testing.T) {
		t.Parallel()

		resp, err := http.Post(srv.URL+"/items", "application/json",
			strings.NewReader(`{"name":`))
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("multipart upload reaches the handler", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		part, err := mw.CreateFormFile("doc", "report.txt")
		require.NoError(t, err)
		_, err = io.WriteString(part, "contents")
		require.NoError(t, err)
		require.NoError(t, mw.Close())

		resp, err := http.Post(srv.URL+"/items/upload", mw.FormDataContentType(), &buf)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		data := body["data"].(map[string]any)
		assert.Equal(t, "report.txt", data["filename"])
		assert.Equal(t, float64(len("contents")), data["size"])
	})

	t.Run("missing upload fails validation", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		require.NoError(t, mw.WriteField("unrelated", "x"))
		require.NoError(t, mw.Close())

		resp, err := http.Post(srv.URL+"/items/upload", mw.FormDataContentType(), &buf)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	})
}
