package services

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"shortcutbulk/models"
	"shortcutbulk/utils"
)

// parseCSV は指定されたリソースタイプのCSVファイルを読み込みます
// 複数値フィールド（owners, teams, labels）はセル内をセミコロン (;) で
// 区切ります（カンマはCSVの区切り文字のため）
func parseCSV(path string, resourceType ResourceType) (*models.InputFile, error) {
	records, err := readCSVRecords(path)
	if err != nil {
		return nil, err
	}

	input := &models.InputFile{}
	switch resourceType {
	case ResourceObjective:
		for _, rec := range records {
			input.Objectives = append(input.Objectives, rowToObjective(rec))
		}
	case ResourceEpic:
		for _, rec := range records {
			input.Epics = append(input.Epics, rowToEpic(rec))
		}
	case ResourceStory:
		for _, rec := range records {
			input.Stories = append(input.Stories, rowToStory(rec))
		}
	}

	utils.LogInfo("CSVファイル '%s' を読み込みました: %d 行", path, len(records))
	return input, nil
}

// readCSVRecords はCSVを読み込み、ヘッダー名→値のマップのリストに変換します
func readCSVRecords(path string) ([]map[string]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("CSVオープンエラー: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("CSV読み込みエラー: %w", err)
	}

	if len(rows) < 1 {
		return nil, fmt.Errorf("CSVデータが不足しています")
	}

	headers := rows[0]
	for i, h := range headers {
		headers[i] = strings.TrimSpace(strings.ToLower(h))
	}

	result := make([]map[string]string, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if len(row) != len(headers) {
			utils.LogWarn("行 %d: フィールド数が不一致（ヘッダー: %d, 行: %d）", i+2, len(headers), len(row))
			continue
		}
		rowData := make(map[string]string, len(headers))
		for j, value := range row {
			rowData[headers[j]] = value
		}
		result = append(result, rowData)
	}

	return result, nil
}

// CSV列: name, description, state
func rowToObjective(rec map[string]string) models.InputObjective {
	return models.InputObjective{
		Name:        strings.TrimSpace(rec["name"]),
		Description: strings.TrimSpace(rec["description"]),
		State:       strings.TrimSpace(rec["state"]),
	}
}

// CSV列: name, description, objective, owners, teams, labels, state,
//
//	start_date, deadline, template
//
// 複数値の列（owners, teams, labels）はセミコロン区切りです
func rowToEpic(rec map[string]string) models.InputEpic {
	return models.InputEpic{
		Name:        strings.TrimSpace(rec["name"]),
		Description: strings.TrimSpace(rec["description"]),
		Objective:   strings.TrimSpace(rec["objective"]),
		Owners:      models.SplitList(rec["owners"], ";"),
		Teams:       models.SplitList(rec["teams"], ";"),
		Labels:      models.SplitList(rec["labels"], ";"),
		State:       strings.TrimSpace(rec["state"]),
		StartDate:   strings.TrimSpace(rec["start_date"]),
		Deadline:    strings.TrimSpace(rec["deadline"]),
		Template:    strings.TrimSpace(rec["template"]),
	}
}

// CSV列: name, type, description, epic, owners, team, labels,
//
//	estimate, due_date, workflow_state
//
// 複数値の列（owners, labels）はセミコロン区切りです
func rowToStory(rec map[string]string) models.InputStory {
	return models.InputStory{
		Name:          strings.TrimSpace(rec["name"]),
		Type:          strings.TrimSpace(rec["type"]),
		Description:   strings.TrimSpace(rec["description"]),
		Epic:          strings.TrimSpace(rec["epic"]),
		Owners:        models.SplitList(rec["owners"], ";"),
		Team:          strings.TrimSpace(rec["team"]),
		Labels:        models.SplitList(rec["labels"], ";"),
		Estimate:      parseEstimate(rec["estimate"]),
		DueDate:       strings.TrimSpace(rec["due_date"]),
		WorkflowState: strings.TrimSpace(rec["workflow_state"]),
	}
}

// parseEstimate は見積もりセルを数値に変換します（空または非数値はnil）
func parseEstimate(s string) *int64 {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return nil
	}
	return &v
}
