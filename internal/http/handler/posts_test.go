package handler_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestPostCRUDOverHTTP(t *testing.T) {
	f := newFixture(t)
	f.register(t, "writer", "writer@example.com", "password")
	f.activate(t)
	access, _ := f.login(t, "writer@example.com", "password")

	// Writes require a token.
	rec := f.do(t, request{method: http.MethodPost, path: "/posts", body: gin.H{"title": "t", "content": "c"}})
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.do(t, request{method: http.MethodPost, path: "/tags", token: access, body: gin.H{"name": "golang"}})
	require.Equal(t, http.StatusCreated, rec.Code)
	var tag struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tag))

	rec = f.do(t, request{method: http.MethodPost, path: "/posts", token: access, body: gin.H{
		"title":   "First post",
		"content": "Hello.",
		"tag_ids": []int64{tag.ID},
	}})
	require.Equal(t, http.StatusCreated, rec.Code)
	var post struct {
		ID   int64 `json:"id"`
		Tags []struct {
			Name string `json:"name"`
		} `json:"tags"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &post))
	require.Len(t, post.Tags, 1)
	require.Equal(t, "golang", post.Tags[0].Name)

	// The public feed serves it without a token.
	rec = f.do(t, request{method: http.MethodGet, path: "/posts"})
	require.Equal(t, http.StatusOK, rec.Code)
	var feed []json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &feed))
	require.Len(t, feed, 1)

	rec = f.do(t, request{method: http.MethodPut, path: fmt.Sprintf("/posts/%d", post.ID), token: access, body: gin.H{
		"title": "Renamed",
	}})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, request{method: http.MethodDelete, path: fmt.Sprintf("/posts/%d", post.ID), token: access})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, request{method: http.MethodGet, path: fmt.Sprintf("/posts/%d", post.ID)})
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPostForbiddenForNonAuthor(t *testing.T) {
	f := newFixture(t)
	f.register(t, "writer", "writer@example.com", "password")
	f.activate(t)
	writerToken, _ := f.login(t, "writer@example.com", "password")

	f.register(t, "rival", "rival@example.com", "password")
	f.activate(t)
	rivalToken, _ := f.login(t, "rival@example.com", "password")

	rec := f.do(t, request{method: http.MethodPost, path: "/posts", token: writerToken, body: gin.H{
		"title":   "Mine",
		"content": "text",
	}})
	require.Equal(t, http.StatusCreated, rec.Code)
	var post struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &post))

	rec = f.do(t, request{method: http.MethodPut, path: fmt.Sprintf("/posts/%d", post.ID), token: rivalToken, body: gin.H{
		"title": "Hijacked",
	}})
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Equal(t, "forbidden", errorCode(t, rec))

	rec = f.do(t, request{method: http.MethodDelete, path: fmt.Sprintf("/posts/%d", post.ID), token: rivalToken})
	require.Equal(t, http.StatusForbidden, rec.Code)
}
