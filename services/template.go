package services

import (
	"fmt"
	"os"
	"strings"

	"shortcutbulk/models"
)

// Template はエピック説明文用のmarkdownテンプレートです
//
// テンプレートファイルは一度だけ読み込まれ、エピックごとに {{変数}} を
// フィールド値で置換してレンダリングされます
//
// 使用可能な変数:
//   - {{name}}        エピック名
//   - {{description}} 入力ファイルの説明文（空の場合あり）
//   - {{objective}}   関連付けたオブジェクティブ名（空の場合あり）
//   - {{owners}}      オーナー名のカンマ区切り
//   - {{teams}}       チーム名のカンマ区切り
//   - {{labels}}      ラベル名のカンマ区切り
//   - {{start_date}}  開始予定日
//   - {{deadline}}    締め切り
type Template struct {
	content string
}

// LoadTemplate はテンプレートファイルを読み込みます
func LoadTemplate(path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("テンプレート '%s' を読み込めません: %w", path, err)
	}
	return &Template{content: string(data)}, nil
}

// Render はエピックのフィールド値でテンプレートをレンダリングします
// 未知のプレースホルダーはそのまま残されます
func (t *Template) Render(epic *models.InputEpic) string {
	replacer := strings.NewReplacer(
		"{{name}}", epic.Name,
		"{{description}}", epic.Description,
		"{{objective}}", epic.Objective,
		"{{owners}}", strings.Join(epic.Owners, ", "),
		"{{teams}}", strings.Join(epic.Teams, ", "),
		"{{labels}}", strings.Join(epic.Labels, ", "),
		"{{start_date}}", epic.StartDate,
		"{{deadline}}", epic.Deadline,
	)
	return replacer.Replace(t.content)
}
