package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ridloal/retail-admin-console/internal/platform/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *session.Session) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	sess := session.New()
	return NewClient(srv.URL+"/api/", 2*time.Second, sess), sess
}

func TestClient_Do_SetsHeadersAndDecodes(t *testing.T) {
	var gotAuth, gotAccept, gotType, gotPath string
	client, sess := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")
		gotType = r.Header.Get("Content-Type")
		gotPath = r.URL.Path
		json.NewEncoder(w).Encode(item{ID: 7, Name: "Pen"})
	})
	sess.Set("tok-123")

	var out item
	err := client.Do(context.Background(), http.MethodGet, "/products/7", nil, &out)

	require.NoError(t, err)
	assert.Equal(t, item{ID: 7, Name: "Pen"}, out)
	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.Equal(t, "application/json", gotAccept)
	assert.Equal(t, "application/json", gotType)
	assert.Equal(t, "/api/products/7", gotPath)
}

func TestClient_Do_NoTokenNoAuthHeader(t *testing.T) {
	var hadAuth bool
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, hadAuth = r.Header["Authorization"]
		w.WriteHeader(http.StatusNoContent)
	})

	err := client.Do(context.Background(), http.MethodPost, "/login", map[string]string{"email": "a@b.c"}, nil)

	require.NoError(t, err)
	assert.False(t, hadAuth)
}

func TestClient_Do_APIError(t *testing.T) {
	t.Run("structured message and field errors", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			io.WriteString(w, `{"message":"The given data was invalid.","errors":{"email":["The email has already been taken."]}}`)
		})

		err := client.Do(context.Background(), http.MethodPost, "/users", map[string]string{}, nil)

		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusUnprocessableEntity, apiErr.Status)
		assert.Equal(t, "The given data was invalid.", apiErr.Error())
		assert.Equal(t, "The email has already been taken.", apiErr.FirstError())
		assert.Equal(t, "The email has already been taken.", Message(err, "fallback"))
	})

	t.Run("empty body falls back to status", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})

		err := client.Do(context.Background(), http.MethodGet, "/products", nil, nil)

		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, "Error 500", apiErr.Message)
	})
}

func TestClient_Do_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	client := NewClient(url, time.Second, nil)
	err := client.Do(context.Background(), http.MethodGet, "/products", nil, nil)

	assert.ErrorIs(t, err, ErrTransport)
	assert.Equal(t, "fallback", Message(err, "fallback"))
}

func TestClient_DoMultipart(t *testing.T) {
	var fields map[string]string
	var fileBody, ctype string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		ctype = r.Header.Get("Content-Type")
		if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		fields = map[string]string{}
		for k, v := range r.MultipartForm.Value {
			fields[k] = v[0]
		}
		f, _, err := r.FormFile("image")
		if !assert.NoError(t, err) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		b, _ := io.ReadAll(f)
		fileBody = string(b)
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"id":3,"name":"Pen"}`)
	})

	var out item
	err := client.DoMultipart(context.Background(), "/products/3",
		map[string]string{"name": "Pen", "_method": "PUT"},
		&FilePart{Field: "image", Filename: "pen.png", Content: strings.NewReader("PNGDATA")},
		&out)

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ctype, "multipart/form-data; boundary="))
	assert.Equal(t, "PUT", fields["_method"])
	assert.Equal(t, "Pen", fields["name"])
	assert.Equal(t, "PNGDATA", fileBody)
	assert.Equal(t, 3, out.ID)
}

func TestDecodeList(t *testing.T) {
	bare, err := DecodeList[item](json.RawMessage(`[{"id":1,"name":"Pen"}]`))
	require.NoError(t, err)
	assert.Equal(t, []item{{ID: 1, Name: "Pen"}}, bare)

	wrapped, err := DecodeList[item](json.RawMessage(`{"data":[{"id":2,"name":"Eraser"}]}`))
	require.NoError(t, err)
	assert.Equal(t, []item{{ID: 2, Name: "Eraser"}}, wrapped)

	empty, err := DecodeList[item](json.RawMessage(`{"message":"ok"}`))
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = DecodeList[item](json.RawMessage(`"nope"`))
	assert.Error(t, err)
}

func TestGetList(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"data":[{"id":1,"name":"Pen"},{"id":2,"name":"Notebook"}]}`)
	})

	list, err := GetList[item](context.Background(), client, "/products")

	require.NoError(t, err)
	assert.Len(t, list, 2)
}
