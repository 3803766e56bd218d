package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shortcutbulk/config"
)

// テスト用クライアントを作成します（sleepは記録のみで実際には待機しません）
func newTestClient(baseURL string) (*ShortcutClient, *[]time.Duration) {
	client := NewShortcutClient(&config.Config{
		APIToken: "test-token",
		BaseURL:  baseURL,
	})
	var delays []time.Duration
	client.sleep = func(d time.Duration) {
		delays = append(delays, d)
	}
	return client, &delays
}

func TestAuthHeader(t *testing.T) {
	var gotToken string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get("Shortcut-Token")
		_ = json.NewEncoder(w).Encode([]Member{})
	}))
	defer server.Close()

	client, _ := newTestClient(server.URL)
	_, err := client.ListMembers()
	require.NoError(t, err)
	assert.Equal(t, "test-token", gotToken)
}

func TestRetryExponentialBackoff(t *testing.T) {
	// 常に500を返すサーバー: 初回+5回のリトライで打ち切られます
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client, delays := newTestClient(server.URL)
	_, err := client.ListMembers()

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)

	assert.Equal(t, 6, requests, "初回リクエスト + 5回のリトライ")
	assert.Equal(t, []time.Duration{
		1 * time.Second,
		2 * time.Second,
		4 * time.Second,
		8 * time.Second,
		16 * time.Second,
	}, *delays, "指数バックオフは上限まで単調増加")
}

func TestRetryAfterHeaderOverridesBackoff(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if requests == 1 {
			w.Header().Set("Retry-After", "7")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_ = json.NewEncoder(w).Encode([]Group{{ID: "g1", Name: "Platform"}})
	}))
	defer server.Close()

	client, delays := newTestClient(server.URL)
	groups, err := client.ListGroups()
	require.NoError(t, err)
	require.Len(t, groups, 1)

	assert.Equal(t, []time.Duration{7 * time.Second}, *delays,
		"Retry-Afterの秒数が指数バックオフより優先される")
}

func TestRetryAfterCappedAtMaxDelay(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if requests == 1 {
			w.Header().Set("Retry-After", "120")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_ = json.NewEncoder(w).Encode([]Group{})
	}))
	defer server.Close()

	client, delays := newTestClient(server.URL)
	_, err := client.ListGroups()
	require.NoError(t, err)

	assert.Equal(t, []time.Duration{30 * time.Second}, *delays,
		"どのような待機時間も上限30秒でキャップされる")
}

func TestUnparsableRetryAfterFallsBackToBackoff(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if requests <= 2 {
			w.Header().Set("Retry-After", "later")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_ = json.NewEncoder(w).Encode([]Group{})
	}))
	defer server.Close()

	client, delays := newTestClient(server.URL)
	_, err := client.ListGroups()
	require.NoError(t, err)

	assert.Equal(t, []time.Duration{1 * time.Second, 2 * time.Second}, *delays)
}

func TestNonRetryableStatusFailsImmediately(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusUnprocessableEntity)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "name is required"})
	}))
	defer server.Close()

	client, delays := newTestClient(server.URL)
	_, err := client.CreateEpic(&CreateEpicRequest{})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.Status)
	assert.Equal(t, "name is required", apiErr.Message, "JSONボディのmessageフィールドを抽出")
	assert.Equal(t, 1, requests)
	assert.Empty(t, *delays)
}

func TestErrorMessageFallsBackToRawBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("plain text failure"))
	}))
	defer server.Close()

	client, _ := newTestClient(server.URL)
	_, err := client.ListWorkflows()

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "plain text failure", apiErr.Message)
}

func TestRetryResendsIdenticalBody(t *testing.T) {
	// リトライのたびに同一ボディが再送されることを確認します
	var bodies []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		bodies = append(bodies, string(body))
		if len(bodies) <= 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_ = json.NewEncoder(w).Encode(Story{ID: 99, Name: "retry me"})
	}))
	defer server.Close()

	client, _ := newTestClient(server.URL)
	story, err := client.CreateStory(&CreateStoryRequest{Name: "retry me"})
	require.NoError(t, err)
	assert.Equal(t, int64(99), story.ID)

	require.Len(t, bodies, 3)
	assert.Equal(t, bodies[0], bodies[1])
	assert.Equal(t, bodies[1], bodies[2])
}

func TestCreateObjectiveDecodesResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/objectives", r.URL.Path)

		var req CreateObjectiveRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Q3 Reliability", req.Name)

		_ = json.NewEncoder(w).Encode(Objective{
			ID:     42,
			Name:   req.Name,
			State:  "to do",
			AppURL: "https://app.shortcut.com/example/objective/42",
		})
	}))
	defer server.Close()

	client, _ := newTestClient(server.URL)
	objective, err := client.CreateObjective(&CreateObjectiveRequest{Name: "Q3 Reliability"})
	require.NoError(t, err)
	assert.Equal(t, int64(42), objective.ID)
	assert.Equal(t, "https://app.shortcut.com/example/objective/42", objective.AppURL)
}
