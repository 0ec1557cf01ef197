package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	culturelog "github.com/w-h-a/culturelog"
	blobmemory "github.com/w-h-a/culturelog/blob/memory"
	"github.com/w-h-a/culturelog/culture"
	"github.com/w-h-a/culturelog/identity"
	"github.com/w-h-a/culturelog/identity/static"
	"github.com/w-h-a/culturelog/media"
	storememory "github.com/w-h-a/culturelog/store/memory"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	blobs := blobmemory.NewBlob()

	id := static.NewIdentity(
		identity.WithUser("tok-1", culture.User{Id: "u1", DisplayName: "Aki"}),
		identity.WithUser("tok-2", culture.User{Id: "u2", DisplayName: "Ben"}),
	)

	app := culturelog.New(
		storememory.NewStore(),
		blobs,
		id,
		media.NewUploadConverter(blobs),
		func(ctx context.Context, rec culture.Record) bool { return true },
	)

	server := NewServer(app)

	ts := httptest.NewServer(server.Handler())
	t.Cleanup(ts.Close)

	return ts
}

func multipartBody(t *testing.T, fields map[string]string, file *media.File) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}

	if file != nil {
		part, err := writer.CreateFormFile("image", file.Name)
		require.NoError(t, err)
		_, err = part.Write(file.Data)
		require.NoError(t, err)
	}

	require.NoError(t, writer.Close())

	return body, writer.FormDataContentType()
}

func doRequest(t *testing.T, method, url, token string, body io.Reader, contentType string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(method, url, body)
	require.NoError(t, err)

	if len(token) > 0 {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if len(contentType) > 0 {
		req.Header.Set("Content-Type", contentType)
	}

	rsp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)

	return rsp
}

func decodeRecords(t *testing.T, rsp *http.Response) []culture.Record {
	t.Helper()
	defer rsp.Body.Close()

	var recs []culture.Record
	require.NoError(t, json.NewDecoder(rsp.Body).Decode(&recs))

	return recs
}

func TestRequestsWithoutTokenAreRejected(t *testing.T) {
	ts := newTestServer(t)

	rsp := doRequest(t, http.MethodGet, ts.URL+"/api/v1/logs", "", nil, "")
	defer rsp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, rsp.StatusCode)
}

func TestRequestsWithUnknownTokenAreRejected(t *testing.T) {
	ts := newTestServer(t)

	rsp := doRequest(t, http.MethodGet, ts.URL+"/api/v1/logs", "bogus", nil, "")
	defer rsp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, rsp.StatusCode)
}

func TestCreateAndList(t *testing.T) {
	ts := newTestServer(t)

	body, contentType := multipartBody(t, map[string]string{
		"note":     "day 1",
		"tags":     `["mycelium"]`,
		"category": "培養",
	}, nil)

	rsp := doRequest(t, http.MethodPost, ts.URL+"/api/v1/logs", "tok-1", body, contentType)
	recs := decodeRecords(t, rsp)

	assert.Equal(t, http.StatusCreated, rsp.StatusCode)
	require.Len(t, recs, 1)
	assert.Equal(t, "day 1", recs[0].Note)
	assert.Equal(t, []string{"mycelium"}, recs[0].Tags)
	assert.Equal(t, "培養", recs[0].Category)
	assert.Equal(t, "u1", recs[0].OwnerId)

	rsp = doRequest(t, http.MethodGet, ts.URL+"/api/v1/logs", "tok-1", nil, "")
	listed := decodeRecords(t, rsp)
	assert.Equal(t, http.StatusOK, rsp.StatusCode)
	assert.Len(t, listed, 1)
}

func TestCreateWithImage(t *testing.T) {
	ts := newTestServer(t)

	body, contentType := multipartBody(t, map[string]string{
		"note": "with image",
	}, &media.File{Name: "plate.png", Data: []byte("png-bytes")})

	rsp := doRequest(t, http.MethodPost, ts.URL+"/api/v1/logs", "tok-1", body, contentType)
	recs := decodeRecords(t, rsp)

	require.Equal(t, http.StatusCreated, rsp.StatusCode)
	require.Len(t, recs, 1)
	assert.Equal(t, culture.ImageRemote, recs[0].Image.Kind)
	assert.NotEmpty(t, recs[0].Image.URL)
}

func TestCreateWithEmptyNote(t *testing.T) {
	ts := newTestServer(t)

	body, contentType := multipartBody(t, map[string]string{"note": "   "}, nil)

	rsp := doRequest(t, http.MethodPost, ts.URL+"/api/v1/logs", "tok-1", body, contentType)
	defer rsp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, rsp.StatusCode)
}

func TestListIsScopedToOwner(t *testing.T) {
	ts := newTestServer(t)

	body, contentType := multipartBody(t, map[string]string{"note": "mine"}, nil)
	rsp := doRequest(t, http.MethodPost, ts.URL+"/api/v1/logs", "tok-1", body, contentType)
	rsp.Body.Close()
	require.Equal(t, http.StatusCreated, rsp.StatusCode)

	rsp = doRequest(t, http.MethodGet, ts.URL+"/api/v1/logs", "tok-2", nil, "")
	recs := decodeRecords(t, rsp)
	assert.Empty(t, recs)
}

func TestUpdate(t *testing.T) {
	ts := newTestServer(t)

	body, contentType := multipartBody(t, map[string]string{"note": "day 1"}, nil)
	rsp := doRequest(t, http.MethodPost, ts.URL+"/api/v1/logs", "tok-1", body, contentType)
	created := decodeRecords(t, rsp)
	require.Len(t, created, 1)

	body, contentType = multipartBody(t, map[string]string{
		"note": "day 1 updated",
		"tags": `["mycelium"]`,
	}, nil)
	rsp = doRequest(t, http.MethodPut, fmt.Sprintf("%s/api/v1/logs/%s", ts.URL, created[0].Id), "tok-1", body, contentType)
	updated := decodeRecords(t, rsp)

	assert.Equal(t, http.StatusOK, rsp.StatusCode)
	require.Len(t, updated, 1)
	assert.Equal(t, created[0].Id, updated[0].Id)
	assert.Equal(t, "day 1 updated", updated[0].Note)
}

func TestUpdateSomeoneElsesRecord(t *testing.T) {
	ts := newTestServer(t)

	body, contentType := multipartBody(t, map[string]string{"note": "mine"}, nil)
	rsp := doRequest(t, http.MethodPost, ts.URL+"/api/v1/logs", "tok-1", body, contentType)
	created := decodeRecords(t, rsp)
	require.Len(t, created, 1)

	body, contentType = multipartBody(t, map[string]string{"note": "stolen"}, nil)
	rsp = doRequest(t, http.MethodPut, fmt.Sprintf("%s/api/v1/logs/%s", ts.URL, created[0].Id), "tok-2", body, contentType)
	defer rsp.Body.Close()

	assert.Equal(t, http.StatusNotFound, rsp.StatusCode)
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	ts := newTestServer(t)

	body, contentType := multipartBody(t, map[string]string{"note": "stay"}, nil)
	rsp := doRequest(t, http.MethodPost, ts.URL+"/api/v1/logs", "tok-1", body, contentType)
	created := decodeRecords(t, rsp)
	require.Len(t, created, 1)

	rsp = doRequest(t, http.MethodDelete, fmt.Sprintf("%s/api/v1/logs/%s", ts.URL, created[0].Id), "tok-1", nil, "")
	rsp.Body.Close()
	assert.Equal(t, http.StatusPreconditionRequired, rsp.StatusCode)

	// still there
	rsp = doRequest(t, http.MethodGet, ts.URL+"/api/v1/logs", "tok-1", nil, "")
	assert.Len(t, decodeRecords(t, rsp), 1)

	rsp = doRequest(t, http.MethodDelete, fmt.Sprintf("%s/api/v1/logs/%s?confirm=true", ts.URL, created[0].Id), "tok-1", nil, "")
	rsp.Body.Close()
	assert.Equal(t, http.StatusNoContent, rsp.StatusCode)

	rsp = doRequest(t, http.MethodGet, ts.URL+"/api/v1/logs", "tok-1", nil, "")
	assert.Empty(t, decodeRecords(t, rsp))
}

func TestListWithKeywordFilter(t *testing.T) {
	ts := newTestServer(t)

	for _, fields := range []map[string]string{
		{"note": "a", "tags": `["mycelium"]`},
		{"note": "b", "category": "培地"},
		{"note": "c"},
	} {
		body, contentType := multipartBody(t, fields, nil)
		rsp := doRequest(t, http.MethodPost, ts.URL+"/api/v1/logs", "tok-1", body, contentType)
		rsp.Body.Close()
		require.Equal(t, http.StatusCreated, rsp.StatusCode)
	}

	rsp := doRequest(t, http.MethodGet, ts.URL+"/api/v1/logs?q=myc", "tok-1", nil, "")
	recs := decodeRecords(t, rsp)
	require.Len(t, recs, 1)
	assert.Equal(t, "a", recs[0].Note)
}

func TestSession(t *testing.T) {
	ts := newTestServer(t)

	rsp := doRequest(t, http.MethodPost, ts.URL+"/api/v1/session", "", nil, "")
	defer rsp.Body.Close()
	require.Equal(t, http.StatusOK, rsp.StatusCode)

	var user culture.User
	require.NoError(t, json.NewDecoder(rsp.Body).Decode(&user))
	assert.Equal(t, "u1", user.Id)

	out := doRequest(t, http.MethodDelete, ts.URL+"/api/v1/session", "tok-1", nil, "")
	out.Body.Close()
	assert.Equal(t, http.StatusNoContent, out.StatusCode)
}
