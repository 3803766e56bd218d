package api

// CreateLabelParams はラベル指定の共通パラメータです
type CreateLabelParams struct {
	Name string `json:"name"`
}

// CreateObjectiveRequest は POST /objectives のリクエストボディです
type CreateObjectiveRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	// "in progress" | "to do" | "done"
	State string `json:"state,omitempty"`
}

// Objective は作成されたオブジェクティブを表します
type Objective struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	State       string `json:"state"`
	AppURL      string `json:"app_url"`
}

// CreateEpicRequest は POST /epics のリクエストボディです
type CreateEpicRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	// "in progress" | "to do" | "done"
	State string `json:"state,omitempty"`
	// 関連付けるオブジェクティブのID
	ObjectiveIDs []int64 `json:"objective_ids,omitempty"`
	// オーナーのメンバーUUID
	OwnerIDs []string `json:"owner_ids,omitempty"`
	// チーム（グループ）のUUID
	GroupIDs []string            `json:"group_ids,omitempty"`
	Labels   []CreateLabelParams `json:"labels,omitempty"`
	// ISO 8601形式の日付 (例: "2024-01-15")
	PlannedStartDate string `json:"planned_start_date,omitempty"`
	Deadline         string `json:"deadline,omitempty"`
}

// Epic は作成されたエピックを表します
type Epic struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	State       string `json:"state"`
	AppURL      string `json:"app_url"`
}

// CreateStoryRequest は POST /stories のリクエストボディです
type CreateStoryRequest struct {
	Name string `json:"name"`
	// "feature" (デフォルト) | "bug" | "chore"
	StoryType   string `json:"story_type,omitempty"`
	Description string `json:"description,omitempty"`
	// オーナーのメンバーUUID
	OwnerIDs []string `json:"owner_ids,omitempty"`
	// ストーリーは単一のチームUUIDのみ
	GroupID string `json:"group_id,omitempty"`
	// 親エピックの整数ID
	EpicID int64 `json:"epic_id,omitempty"`
	// ワークフローステートの整数ID（省略時は最初のunstartedステート）
	WorkflowStateID int64               `json:"workflow_state_id,omitempty"`
	Labels          []CreateLabelParams `json:"labels,omitempty"`
	// ストーリーポイント見積もり
	Estimate *int64 `json:"estimate,omitempty"`
	// ISO 8601形式の日付
	Deadline string `json:"deadline,omitempty"`
}

// Story は作成されたストーリーを表します
type Story struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	StoryType string `json:"story_type"`
	AppURL    string `json:"app_url"`
}

// Member はワークスペースのメンバーを表します（名前解決用の読み取り専用データ）
type Member struct {
	ID       string        `json:"id"`
	Profile  MemberProfile `json:"profile"`
	Disabled bool          `json:"disabled"`
}

// MemberProfile はメンバーのプロフィール情報です
type MemberProfile struct {
	Name         string `json:"name"`
	MentionName  string `json:"mention_name"`
	EmailAddress string `json:"email_address"`
}

// Group はチーム（グループ）を表します
type Group struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	MentionName string `json:"mention_name"`
	Archived    bool   `json:"archived"`
}

// Workflow はワークフロー定義を表します
type Workflow struct {
	ID             int64           `json:"id"`
	Name           string          `json:"name"`
	DefaultStateID int64           `json:"default_state_id"`
	States         []WorkflowState `json:"states"`
}

// WorkflowState はワークフローの1ステートを表します
type WorkflowState struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	// "unstarted" | "started" | "done"
	Type string `json:"type"`
}
