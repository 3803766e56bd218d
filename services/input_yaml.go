package services

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"shortcutbulk/models"
	"shortcutbulk/utils"
)

// parseYAML はYAMLマニフェストを読み込みます
// objectives / epics / stories の3セクションはすべて省略可能です
func parseYAML(path string) (*models.InputFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("YAMLオープンエラー: %w", err)
	}

	var input models.InputFile
	if err := yaml.Unmarshal(data, &input); err != nil {
		return nil, fmt.Errorf("YAMLファイル '%s' の解析に失敗しました: %w", path, err)
	}

	utils.LogInfo("YAMLファイル '%s' を読み込みました: %d 件", path, input.Total())
	return &input, nil
}
