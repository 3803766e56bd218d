package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"shortcutbulk/config"
)

const (
	// maxRetries はリトライの最大回数です（初回リクエストは含まない）
	maxRetries = 5
	// baseDelay は指数バックオフの基準待機時間です
	baseDelay = 1 * time.Second
	// maxDelay は1回の待機時間の上限です
	maxDelay = 30 * time.Second
)

// retryableStatuses はリトライ対象のHTTPステータスコードです
var retryableStatuses = map[int]bool{
	http.StatusTooManyRequests:     true, // 429
	http.StatusInternalServerError: true, // 500
	http.StatusServiceUnavailable:  true, // 503
	http.StatusGatewayTimeout:      true, // 504
}

// APIError はShortcut APIが返した非2xxレスポンスを表します
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Shortcut APIエラー (HTTP %d): %s", e.Status, e.Message)
}

// ShortcutClient はShortcut APIとのやり取りを処理します
type ShortcutClient struct {
	config *config.Config
	client *http.Client

	// sleep はバックオフ待機に使用されます（テストで差し替え可能）
	sleep func(time.Duration)
}

// NewShortcutClient は新しいShortcutクライアントを作成します
func NewShortcutClient(cfg *config.Config) *ShortcutClient {
	return &ShortcutClient{
		config: cfg,
		client: &http.Client{Timeout: 60 * time.Second},
		sleep:  time.Sleep,
	}
}

// requestSpec は再送可能なイミュータブルなリクエスト記述子です
// リトライのたびに同一内容のリクエストを再構築します
type requestSpec struct {
	method string
	url    string
	body   []byte
}

// sendWithRetry はリクエストを送信し、一時的なエラーを指数バックオフでリトライします
// 429レスポンスの Retry-After ヘッダー（秒数）を優先します
func (s *ShortcutClient) sendWithRetry(spec requestSpec) (*http.Response, error) {
	attempt := 0
	for {
		req, err := s.buildRequest(spec)
		if err != nil {
			return nil, err
		}

		resp, err := s.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("リクエスト送信エラー: %w", err)
		}

		if !retryableStatuses[resp.StatusCode] || attempt >= maxRetries {
			return resp, nil
		}

		delay := retryDelay(resp, attempt)
		resp.Body.Close()

		attempt++
		s.sleep(delay)
	}
}

// buildRequest はリクエスト記述子からHTTPリクエストを構築します
func (s *ShortcutClient) buildRequest(spec requestSpec) (*http.Request, error) {
	var bodyReader io.Reader
	if spec.body != nil {
		bodyReader = bytes.NewReader(spec.body)
	}

	req, err := http.NewRequest(spec.method, spec.url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("リクエスト作成エラー: %w", err)
	}

	req.Header.Set("Shortcut-Token", s.config.APIToken)
	req.Header.Set("User-Agent", "shortcutbulk/1.0")
	if spec.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}

// retryDelay は次のリトライまでの待機時間を計算します
func retryDelay(resp *http.Response, attempt int) time.Duration {
	delay := baseDelay * time.Duration(1<<attempt)

	if resp.StatusCode == http.StatusTooManyRequests {
		// Retry-After: <秒数> が解釈できる場合はそちらを優先
		if seconds, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil {
			delay = time.Duration(seconds) * time.Second
		}
	}

	if delay > maxDelay {
		delay = maxDelay
	}
	return delay
}

// handleResponse はレスポンスを解析し、非2xxの場合はAPIErrorに変換します
// エラーボディのJSONに message フィールドがあればそれを使用します
func handleResponse(resp *http.Response, out interface{}) error {
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("レスポンス解析エラー: %w", err)
		}
		return nil
	}

	body, _ := io.ReadAll(resp.Body)
	message := string(body)

	var errBody struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &errBody); err == nil && errBody.Message != "" {
		message = errBody.Message
	}

	return &APIError{Status: resp.StatusCode, Message: message}
}

// get はGETリクエストを実行し、レスポンスをoutにデコードします
func (s *ShortcutClient) get(path string, out interface{}) error {
	resp, err := s.sendWithRetry(requestSpec{
		method: http.MethodGet,
		url:    s.config.BaseURL + path,
	})
	if err != nil {
		return err
	}
	return handleResponse(resp, out)
}

// post はPOSTリクエストを実行し、レスポンスをoutにデコードします
func (s *ShortcutClient) post(path string, body interface{}, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("JSONエンコードエラー: %w", err)
	}

	resp, err := s.sendWithRetry(requestSpec{
		method: http.MethodPost,
		url:    s.config.BaseURL + path,
		body:   payload,
	})
	if err != nil {
		return err
	}
	return handleResponse(resp, out)
}

// ------------------------------------------------------------------
// 読み取りエンドポイント（名前解決用）
// ------------------------------------------------------------------

// ListMembers はワークスペースの全メンバーを取得します
func (s *ShortcutClient) ListMembers() ([]Member, error) {
	var members []Member
	if err := s.get("/members", &members); err != nil {
		return nil, err
	}
	return members, nil
}

// ListGroups はワークスペースの全チーム（グループ）を取得します
func (s *ShortcutClient) ListGroups() ([]Group, error) {
	var groups []Group
	if err := s.get("/groups", &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// ListWorkflows はワークスペースの全ワークフロー定義を取得します
func (s *ShortcutClient) ListWorkflows() ([]Workflow, error) {
	var workflows []Workflow
	if err := s.get("/workflows", &workflows); err != nil {
		return nil, err
	}
	return workflows, nil
}

// CurrentMember は認証トークンに対応するメンバー情報を取得します（認証確認用）
func (s *ShortcutClient) CurrentMember() (*Member, error) {
	var member Member
	if err := s.get("/member", &member); err != nil {
		return nil, err
	}
	return &member, nil
}

// ------------------------------------------------------------------
// 作成エンドポイント
// ------------------------------------------------------------------

// CreateObjective はオブジェクティブを作成します
func (s *ShortcutClient) CreateObjective(req *CreateObjectiveRequest) (*Objective, error) {
	var objective Objective
	if err := s.post("/objectives", req, &objective); err != nil {
		return nil, err
	}
	return &objective, nil
}

// CreateEpic はエピックを作成します
func (s *ShortcutClient) CreateEpic(req *CreateEpicRequest) (*Epic, error) {
	var epic Epic
	if err := s.post("/epics", req, &epic); err != nil {
		return nil, err
	}
	return &epic, nil
}

// CreateStory はストーリーを作成します
func (s *ShortcutClient) CreateStory(req *CreateStoryRequest) (*Story, error) {
	var story Story
	if err := s.post("/stories", req, &story); err != nil {
		return nil, err
	}
	return &story, nil
}
