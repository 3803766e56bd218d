package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultBaseURL はShortcut API v3のベースURLです
const DefaultBaseURL = "https://api.app.shortcut.com/api/v3"

// Config はアプリケーション全体の設定を保持します
type Config struct {
	// Shortcut API設定
	APIToken string
	BaseURL  string
}

// configFile は設定ファイル (~/.config/shortcutbulk/config.yaml) のスキーマです
type configFile struct {
	APIToken string `yaml:"api_token"`
}

// LoadConfig は設定を読み込みます
// トークンの優先順位: コマンドラインフラグ > 環境変数 > 設定ファイル
func LoadConfig(cliToken string) (*Config, error) {
	// .envファイルを読み込む
	_ = godotenv.Load()

	config := &Config{
		APIToken: cliToken,
		BaseURL:  strings.TrimRight(getEnvWithDefault("SHORTCUT_API_URL", DefaultBaseURL), "/"),
	}

	// フラグで指定されていなければ環境変数から取得
	if config.APIToken == "" {
		config.APIToken = os.Getenv("SHORTCUT_API_TOKEN")
	}

	// それでもなければ設定ファイルから取得
	if config.APIToken == "" {
		config.APIToken = tokenFromConfigFile()
	}

	if config.APIToken == "" {
		return nil, fmt.Errorf("APIトークンが見つかりません。以下のいずれかで指定してください:\n" +
			"  • -token フラグ\n" +
			"  • SHORTCUT_API_TOKEN 環境変数\n" +
			"  • ~/.config/shortcutbulk/config.yaml (api_token フィールド)")
	}

	return config, nil
}

// 設定ファイルからAPIトークンを読み込みます（見つからなければ空文字列）
func tokenFromConfigFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}

	path := filepath.Join(dir, "shortcutbulk", "config.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}

	var cf configFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return ""
	}

	return strings.TrimSpace(cf.APIToken)
}

// デフォルト値付きで環境変数を取得
func getEnvWithDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
