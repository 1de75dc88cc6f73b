package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientDecodesResponses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/analytics/dashboard":
			w.Write([]byte(`{"total_followers":320,"total_posts":2,"total_engagement":17,"engagement_rate":8.5,"growth_rate":10}`))
		case "/api/analytics/top-posts":
			assert.Equal(t, "3", r.URL.Query().Get("limit"))
			w.Write([]byte(`[{"id":1,"content":"a","platform":"twitter","published_time":null,"likes":5,"comments":1,"shares":0,"total_engagement":6}]`))
		case "/api/posts":
			assert.Equal(t, "draft", r.URL.Query().Get("status"))
			assert.Equal(t, "7", r.URL.Query().Get("account_id"))
			assert.Empty(t, r.URL.Query().Get("skip"))
			w.Write([]byte(`[]`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	ctx := context.Background()

	stats, err := c.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(320), stats.TotalFollowers)
	assert.Equal(t, 8.5, stats.EngagementRate)

	top, err := c.TopPosts(ctx, 3)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, int64(6), top[0].TotalEngagement)
	assert.Nil(t, top[0].PublishedTime)

	posts, err := c.Posts(ctx, PostsFilter{AccountID: 7, Status: "draft"})
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestClientAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"error":true,"type":"CONFLICT","message":"Post already published","request_id":"abc"}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Publish(context.Background(), 1)
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	assert.Equal(t, "CONFLICT", apiErr.Type)
	assert.Equal(t, "abc", apiErr.RequestID)
	assert.Contains(t, err.Error(), "Post already published")
}

func TestClientErrorWithoutBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Health(context.Background())

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusText(http.StatusBadGateway), apiErr.Message)
}

func TestClientDaemonDown(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewClient(url).Dashboard(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is daemon running?")
}

func TestDefaultBaseURL(t *testing.T) {
	t.Setenv("SOCIALDASH_URL", "")
	assert.Equal(t, DefaultBaseURL, GetDefaultBaseURL())

	t.Setenv("SOCIALDASH_URL", "http://example:9000")
	assert.Equal(t, "http://example:9000", GetDefaultBaseURL())
}
