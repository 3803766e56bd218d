package models

// InputFile は入力ファイル全体を表します（objectives / epics / stories の3セクション）
// すべてのセクションは省略可能で、エピックのみのファイルなども許容されます
type InputFile struct {
	Objectives []InputObjective `yaml:"objectives"`
	Epics      []InputEpic      `yaml:"epics"`
	Stories    []InputStory     `yaml:"stories"`
}

// Total は入力ファイルに含まれるアイテムの総数を返します
func (f *InputFile) Total() int {
	return len(f.Objectives) + len(f.Epics) + len(f.Stories)
}

// InputObjective は作成前のオブジェクティブを表します
type InputObjective struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	// "in progress" | "to do" | "done"
	State string `yaml:"state"`
}

// InputEpic は作成前のエピックを表します
type InputEpic struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	// オブジェクティブ名（IDに解決される）または数値ID文字列
	Objective string `yaml:"objective"`
	// オーナー名のリスト（YAMLではリストまたはカンマ区切り文字列）
	Owners StringList `yaml:"owners"`
	// チーム名のリスト
	Teams StringList `yaml:"teams"`
	// ラベル名のリスト
	Labels StringList `yaml:"labels"`
	// "in progress" | "to do" | "done"
	State string `yaml:"state"`
	// ISO 8601形式の日付 (例: "2024-01-15")
	StartDate string `yaml:"start_date"`
	Deadline  string `yaml:"deadline"`
	// エピックごとのmarkdownテンプレートファイルパス
	// 省略時はグローバルの -template フラグが使用されます
	Template string `yaml:"template"`
}

// InputStory は作成前のストーリーを表します
type InputStory struct {
	Name string `yaml:"name"`
	// "feature" (デフォルト) | "bug" | "chore"
	Type        string `yaml:"type"`
	Description string `yaml:"description"`
	// エピック名（IDに解決される）または数値ID文字列
	Epic string `yaml:"epic"`
	// オーナー名のリスト
	Owners StringList `yaml:"owners"`
	// ストーリーは単一のチーム名のみ
	Team string `yaml:"team"`
	// ラベル名のリスト
	Labels StringList `yaml:"labels"`
	// ストーリーポイント見積もり
	Estimate *int64 `yaml:"estimate"`
	// ISO 8601形式の日付
	DueDate string `yaml:"due_date"`
	// ワークフローステート名 (例: "Backlog", "In Progress")
	WorkflowState string `yaml:"workflow_state"`
}

// RunFailure は1レコードの作成失敗を表します
type RunFailure struct {
	Kind    string // "objective" | "epic" | "story"
	Name    string
	Message string
}

// String は失敗をサマリー表示用の1行に整形します
func (f RunFailure) String() string {
	switch f.Kind {
	case "objective":
		return "オブジェクティブ '" + f.Name + "': " + f.Message
	case "epic":
		return "エピック '" + f.Name + "': " + f.Message
	default:
		return "ストーリー '" + f.Name + "': " + f.Message
	}
}

// RunResults は1回の実行の集計結果を保持します
type RunResults struct {
	ObjectivesCreated int
	EpicsCreated      int
	StoriesCreated    int
	Failures          []RunFailure
}

// HasFailures は1件以上の失敗が記録されているかを返します
func (r *RunResults) HasFailures() bool {
	return len(r.Failures) > 0
}
