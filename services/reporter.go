package services

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"shortcutbulk/models"
)

// Reporter は処理結果をCLIレイヤーに通知するインターフェースです
type Reporter interface {
	// Parsed は入力ファイルの解析結果を通知します
	Parsed(objectives, epics, stories int)
	// Created は1レコードの作成成功を通知します
	Created(kind, name string, id int64, url string)
	// Failed は1レコードの作成失敗を通知します
	Failed(kind, name, message string)
	// Summary は実行全体の集計を通知します
	Summary(results *models.RunResults)
	// DryRun はドライラン検証の結果を通知します
	DryRun(violations []string)
}

// スタイル定義
var (
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))   // 緑
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))   // 赤
	countStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))   // シアン
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")) // グレー
)

// TextReporter は人間向けの色付きテキスト出力を行います
type TextReporter struct {
	w io.Writer
}

// NewTextReporter は新しいテキストレポーターを作成します
func NewTextReporter(w io.Writer) *TextReporter {
	return &TextReporter{w: w}
}

func (r *TextReporter) Parsed(objectives, epics, stories int) {
	fmt.Fprintf(r.w, "解析結果: オブジェクティブ %s 件  エピック %s 件  ストーリー %s 件\n",
		countStyle.Render(fmt.Sprintf("%d", objectives)),
		countStyle.Render(fmt.Sprintf("%d", epics)),
		countStyle.Render(fmt.Sprintf("%d", stories)))
}

func (r *TextReporter) Created(kind, name string, id int64, url string) {
	line := fmt.Sprintf("  %s %s: %s  (#%d)", okStyle.Render("✓"), kind, name, id)
	if url != "" {
		line += "  " + dimStyle.Render(url)
	}
	fmt.Fprintln(r.w, line)
}

func (r *TextReporter) Failed(kind, name, message string) {
	fmt.Fprintf(r.w, "  %s %s: %s\n    %s\n", errStyle.Render("✗"), kind, name, message)
}

func (r *TextReporter) Summary(results *models.RunResults) {
	fmt.Fprintf(r.w, "\n%s\n", dimStyle.Render("─── 実行結果 ──────────────────────────────────"))
	fmt.Fprintf(r.w, "  オブジェクティブ作成 : %s\n", okStyle.Render(fmt.Sprintf("%d", results.ObjectivesCreated)))
	fmt.Fprintf(r.w, "  エピック作成         : %s\n", okStyle.Render(fmt.Sprintf("%d", results.EpicsCreated)))
	fmt.Fprintf(r.w, "  ストーリー作成       : %s\n", okStyle.Render(fmt.Sprintf("%d", results.StoriesCreated)))
	if results.HasFailures() {
		fmt.Fprintf(r.w, "  エラー               : %s\n", errStyle.Render(fmt.Sprintf("%d", len(results.Failures))))
		for _, f := range results.Failures {
			fmt.Fprintf(r.w, "    %s %s\n", errStyle.Render("✗"), f.String())
		}
	}
}

func (r *TextReporter) DryRun(violations []string) {
	if len(violations) == 0 {
		fmt.Fprintf(r.w, "%s すべての検証に合格しました。リソースは作成されていません（ドライラン）\n",
			okStyle.Render("✓"))
		return
	}
	fmt.Fprintf(r.w, "%s 検証エラー %d 件:\n", errStyle.Render("✗"), len(violations))
	for _, v := range violations {
		fmt.Fprintf(r.w, "  %s %s\n", errStyle.Render("•"), v)
	}
}

// JSONReporter は1行1イベントのJSON (NDJSON) を出力します
type JSONReporter struct {
	enc *json.Encoder
}

// NewJSONReporter は新しいJSONレポーターを作成します
func NewJSONReporter(w io.Writer) *JSONReporter {
	return &JSONReporter{enc: json.NewEncoder(w)}
}

func (r *JSONReporter) Parsed(objectives, epics, stories int) {
	// JSONモードでは解析結果の通知は省略されます（サマリーに集約）
}

func (r *JSONReporter) Created(kind, name string, id int64, url string) {
	_ = r.enc.Encode(map[string]interface{}{
		"event": "created",
		"kind":  kind,
		"id":    id,
		"name":  name,
		"url":   url,
	})
}

func (r *JSONReporter) Failed(kind, name, message string) {
	_ = r.enc.Encode(map[string]interface{}{
		"event": "error",
		"kind":  kind,
		"name":  name,
		"error": message,
	})
}

func (r *JSONReporter) Summary(results *models.RunResults) {
	errors := make([]string, 0, len(results.Failures))
	for _, f := range results.Failures {
		errors = append(errors, f.String())
	}
	_ = r.enc.Encode(map[string]interface{}{
		"event":              "summary",
		"objectives_created": results.ObjectivesCreated,
		"epics_created":      results.EpicsCreated,
		"stories_created":    results.StoriesCreated,
		"error_count":        len(results.Failures),
		"errors":             errors,
	})
}

func (r *JSONReporter) DryRun(violations []string) {
	_ = r.enc.Encode(map[string]interface{}{
		"event":  "dry_run",
		"valid":  len(violations) == 0,
		"errors": violations,
	})
}
