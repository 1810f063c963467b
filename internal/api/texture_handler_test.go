package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skinloft/texture-library/pkg/texturelib"
	memoryrepo "github.com/skinloft/texture-library/pkg/texturelib/repo/memory"
	memorystorage "github.com/skinloft/texture-library/pkg/texturelib/storage/memory"
)

func newTestService(t *testing.T) (texturelib.Service, texturelib.Repository) {
	t.Helper()
	repo := memoryrepo.New()
	svc, err := texturelib.New(
		texturelib.WithRepository(repo),
		texturelib.WithBlobStore(memorystorage.New()),
		texturelib.WithPricing(texturelib.Pricing{
			PublicRate:           1,
			PrivateRate:          3,
			ClosetItemCost:       1,
			TakeBackAward:        true,
			ReturnScoreOnRemoval: true,
		}),
	)
	require.NoError(t, err)
	return svc, repo
}

func seedUser(t *testing.T, repo texturelib.Repository, score int64) texturelib.Actor {
	t.Helper()
	user := &texturelib.User{
		ID:        uuid.New(),
		Nickname:  "tester",
		Score:     score,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, repo.CreateUser(context.Background(), user))
	return texturelib.Actor{ID: user.ID}
}

// asActor injects the actor the way ActorContext would after verifying a
// token.
func asActor(r *http.Request, actor texturelib.Actor) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), actorKey, actor))
}

func multipartUpload(t *testing.T, name, kind, public string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "texture.png")
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.WriteField("name", name))
	require.NoError(t, mw.WriteField("type", kind))
	require.NoError(t, mw.WriteField("public", public))
	require.NoError(t, mw.Close())
	return &body, mw.FormDataContentType()
}

func TestTextureHandler_Upload(t *testing.T) {
	svc, repo := newTestService(t)
	handler := NewTextureHandler(svc)
	router := handler.Routes()

	alice := seedUser(t, repo, 100)
	data := bytes.Repeat([]byte{0xAA}, 2048)

	body, contentType := multipartUpload(t, "My Skin", "steve", "true", data)
	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, asActor(req, alice))

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp UploadResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Repeated)
	assert.Equal(t, "My Skin", resp.Texture.Name)
	assert.Equal(t, int64(3), resp.Cost)

	// Identical content again: 200 with the repeated flag
	body, contentType = multipartUpload(t, "Copy", "steve", "true", data)
	req = httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", contentType)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, asActor(req, alice))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Repeated)
}

func TestTextureHandler_UploadRequiresAuth(t *testing.T) {
	svc, _ := newTestService(t)
	router := NewTextureHandler(svc).Routes()

	body, contentType := multipartUpload(t, "x", "steve", "true", []byte("data"))
	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestTextureHandler_ErrorMapping(t *testing.T) {
	svc, repo := newTestService(t)
	router := NewTextureHandler(svc).Routes()

	alice := seedUser(t, repo, 100)
	bob := seedUser(t, repo, 2)

	result, err := svc.Upload(context.Background(), texturelib.UploadRequest{
		Actor: alice, Name: "private", Kind: texturelib.KindSteve, Public: false,
		Data: bytes.Repeat([]byte{1}, 1024),
	})
	require.NoError(t, err)

	tests := []struct {
		name     string
		method   string
		path     string
		actor    *texturelib.Actor
		body     string
		wantCode int
		wantErr  string
	}{
		{
			name:   "malformed id",
			method: http.MethodGet, path: "/not-a-uuid",
			wantCode: http.StatusBadRequest, wantErr: "invalid_input",
		},
		{
			name:   "unknown id",
			method: http.MethodGet, path: "/" + uuid.NewString(),
			wantCode: http.StatusNotFound, wantErr: "not_found",
		},
		{
			name:   "private texture hidden from strangers",
			method: http.MethodGet, path: "/" + result.Texture.ID.String(),
			actor:    &bob,
			wantCode: http.StatusForbidden, wantErr: "permission_denied",
		},
		{
			name:   "rename by non-owner",
			method: http.MethodPut, path: "/" + result.Texture.ID.String() + "/name",
			actor: &bob, body: `{"name":"stolen"}`,
			wantCode: http.StatusForbidden, wantErr: "permission_denied",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var reqBody *bytes.Buffer
			if tt.body != "" {
				reqBody = bytes.NewBufferString(tt.body)
			} else {
				reqBody = &bytes.Buffer{}
			}
			req := httptest.NewRequest(tt.method, tt.path, reqBody)
			if tt.actor != nil {
				req = asActor(req, *tt.actor)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			require.Equal(t, tt.wantCode, rec.Code, rec.Body.String())

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantErr, resp.Code)
		})
	}
}

func TestTextureHandler_InsufficientScore(t *testing.T) {
	svc, repo := newTestService(t)
	router := NewTextureHandler(svc).Routes()

	poor := seedUser(t, repo, 1)

	body, contentType := multipartUpload(t, "too expensive", "steve", "true", bytes.Repeat([]byte{2}, 4096))
	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, asActor(req, poor))

	require.Equal(t, http.StatusPaymentRequired, rec.Code, rec.Body.String())

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "insufficient_score", resp.Code)
}

func TestTextureHandler_SearchAndDownload(t *testing.T) {
	svc, repo := newTestService(t)
	router := NewTextureHandler(svc).Routes()

	alice := seedUser(t, repo, 100)
	data := bytes.Repeat([]byte{3}, 1024)

	result, err := svc.Upload(context.Background(), texturelib.UploadRequest{
		Actor: alice, Name: "findable", Kind: texturelib.KindSteve, Public: true, Data: data,
	})
	require.NoError(t, err)

	// Anonymous search sees the public texture
	req := httptest.NewRequest(http.MethodGet, "/?keyword=findable", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var page texturelib.TexturePage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	require.Len(t, page.Items, 1)
	assert.Equal(t, result.Texture.ID, page.Items[0].ID)

	// Raw download returns the stored bytes
	req = httptest.NewRequest(http.MethodGet, fmt.Sprintf("/%s/raw", result.Texture.ID), nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, data, rec.Body.Bytes())
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
}

func TestTextureHandler_TogglePrivacy(t *testing.T) {
	svc, repo := newTestService(t)
	router := NewTextureHandler(svc).Routes()

	alice := seedUser(t, repo, 100)

	result, err := svc.Upload(context.Background(), texturelib.UploadRequest{
		Actor: alice, Name: "flip", Kind: texturelib.KindSteve, Public: true,
		Data: bytes.Repeat([]byte{4}, 1024),
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPut, fmt.Sprintf("/%s/privacy", result.Texture.ID), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, asActor(req, alice))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var texture texturelib.Texture
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &texture))
	assert.False(t, texture.Public)
}

func TestTextureHandler_Delete(t *testing.T) {
	svc, repo := newTestService(t)
	router := NewTextureHandler(svc).Routes()

	alice := seedUser(t, repo, 100)

	result, err := svc.Upload(context.Background(), texturelib.UploadRequest{
		Actor: alice, Name: "gone", Kind: texturelib.KindSteve, Public: true,
		Data: bytes.Repeat([]byte{5}, 1024),
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodDelete, "/"+result.Texture.ID.String(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, asActor(req, alice))
	require.Equal(t, http.StatusNoContent, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/"+result.Texture.ID.String(), nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
