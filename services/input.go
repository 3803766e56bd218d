package services

import (
	"fmt"
	"path/filepath"
	"strings"

	"shortcutbulk/models"
)

// ResourceType はCSV/XLSXファイルが含むリソースの種類です
type ResourceType string

const (
	ResourceObjective ResourceType = "objective"
	ResourceEpic      ResourceType = "epic"
	ResourceStory     ResourceType = "story"
)

// ParseResourceType は -type フラグの値を検証して変換します
func ParseResourceType(s string) (ResourceType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "objective":
		return ResourceObjective, nil
	case "epic":
		return ResourceEpic, nil
	case "story":
		return ResourceStory, nil
	default:
		return "", fmt.Errorf("無効なリソースタイプ '%s' です。objective | epic | story のいずれかを指定してください", s)
	}
}

// ParseInputFile は拡張子からファイル形式を判定して解析します
//
// YAML – トップレベルのキーからタイプを判定します（resourceTypeは無視）
// CSV  – resourceTypeの指定が必須です
// XLSX – resourceTypeは省略可能。省略時はシート名から自動判定します
func ParseInputFile(path string, resourceType ResourceType) (*models.InputFile, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))

	switch ext {
	case "yaml", "yml":
		return parseYAML(path)
	case "csv":
		if resourceType == "" {
			return nil, fmt.Errorf("CSVファイルには -type の指定が必須です。-type objective | epic | story を使用してください")
		}
		return parseCSV(path, resourceType)
	case "xlsx", "xls":
		return parseXLSX(path, resourceType)
	default:
		return nil, fmt.Errorf("サポートされていない拡張子 '.%s' です。.yaml, .csv, .xlsx のいずれかを使用してください", ext)
	}
}
