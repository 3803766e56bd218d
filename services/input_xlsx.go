package services

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"shortcutbulk/models"
	"shortcutbulk/utils"
)

// parseXLSX はExcel (.xlsx) ファイルを読み込みます
//
// -type が指定されていれば最初のシートを使用します
// 指定が無ければ、シート名に "objective" / "epic" / "stor" を含むシートを
// 自動判定して解析します（大文字小文字は区別しません）
func parseXLSX(path string, resourceType ResourceType) (*models.InputFile, error) {
	workbook, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("Excelファイル '%s' を開けません: %w", path, err)
	}
	defer workbook.Close()

	sheets := workbook.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("Excelファイルにシートがありません")
	}

	input := &models.InputFile{}

	if resourceType != "" {
		records, err := sheetRecords(workbook, sheets[0])
		if err != nil {
			return nil, err
		}
		switch resourceType {
		case ResourceObjective:
			input.Objectives = recordsToObjectives(records)
		case ResourceEpic:
			input.Epics = recordsToEpics(records)
		case ResourceStory:
			input.Stories = recordsToStories(records)
		}
		utils.LogInfo("Excelファイル '%s' を読み込みました: %d 件", path, input.Total())
		return input, nil
	}

	matched := false
	for _, sheet := range sheets {
		lower := strings.ToLower(sheet)

		var records []map[string]string
		switch {
		case strings.Contains(lower, "objective"):
			records, err = sheetRecords(workbook, sheet)
			if err != nil {
				return nil, err
			}
			input.Objectives = recordsToObjectives(records)
			matched = true
		case strings.Contains(lower, "epic"):
			records, err = sheetRecords(workbook, sheet)
			if err != nil {
				return nil, err
			}
			input.Epics = recordsToEpics(records)
			matched = true
		case strings.Contains(lower, "stor"):
			records, err = sheetRecords(workbook, sheet)
			if err != nil {
				return nil, err
			}
			input.Stories = recordsToStories(records)
			matched = true
		}
	}

	if !matched {
		return nil, fmt.Errorf("'%s' に認識できるシート名がありません。"+
			"シート名を 'Objectives', 'Epics', 'Stories' にするか、-type で最初のシートを指定してください", path)
	}

	utils.LogInfo("Excelファイル '%s' を読み込みました: %d 件", path, input.Total())
	return input, nil
}

// sheetRecords はシートを読み込み、ヘッダー名→値のマップのリストに変換します
func sheetRecords(workbook *excelize.File, sheet string) ([]map[string]string, error) {
	rows, err := workbook.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("シート '%s' の読み取りエラー: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(strings.ToLower(h))
	}

	records := make([]map[string]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := make(map[string]string, len(headers))
		for j, header := range headers {
			// 行末の空セルは省略されることがあります
			if j < len(row) {
				rec[header] = row[j]
			} else {
				rec[header] = ""
			}
		}
		records = append(records, rec)
	}

	return records, nil
}

// 名前が空の行はスキップされます

func recordsToObjectives(records []map[string]string) []models.InputObjective {
	var out []models.InputObjective
	for _, rec := range records {
		if strings.TrimSpace(rec["name"]) == "" {
			continue
		}
		out = append(out, rowToObjective(rec))
	}
	return out
}

func recordsToEpics(records []map[string]string) []models.InputEpic {
	var out []models.InputEpic
	for _, rec := range records {
		if strings.TrimSpace(rec["name"]) == "" {
			continue
		}
		out = append(out, rowToEpic(rec))
	}
	return out
}

func recordsToStories(records []map[string]string) []models.InputStory {
	var out []models.InputStory
	for _, rec := range records {
		if strings.TrimSpace(rec["name"]) == "" {
			continue
		}
		out = append(out, rowToStory(rec))
	}
	return out
}
