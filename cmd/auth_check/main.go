package main

import (
	"flag"
	"fmt"
	"os"

	"shortcutbulk/api"
	"shortcutbulk/config"
	"shortcutbulk/utils"
)

func main() {
	// フラグの定義
	token := flag.String("token", "", "Shortcut APIトークン（環境変数より優先）")
	help := flag.Bool("help", false, "ヘルプを表示する")

	// フラグのパース
	flag.Parse()

	// ヘルプフラグが指定された場合はヘルプを表示
	if *help {
		printHelp()
		return
	}

	utils.LogInfo("Shortcut認証確認ツール")

	// 設定の読み込み
	cfg, err := config.LoadConfig(*token)
	if err != nil {
		utils.LogError("設定の読み込みに失敗しました: %v", err)
		os.Exit(1)
	}

	// Shortcutクライアントの初期化
	client := api.NewShortcutClient(cfg)

	// 認証チェック
	utils.LogInfo("Shortcut APIの認証を確認しています...")
	member, err := client.CurrentMember()
	if err != nil {
		utils.LogError("Shortcut認証エラー: %v", err)
		utils.LogError("認証情報を確認してください。")
		os.Exit(1)
	}

	utils.LogInfo("Shortcut認証成功！ メンバー: %s (@%s)", member.Profile.Name, member.Profile.MentionName)
	utils.LogInfo("Shortcut APIの認証情報は正常です。")
}

// ヘルプメッセージを表示する関数
func printHelp() {
	fmt.Printf(`
Shortcut認証確認ツール

使用方法:
  %s [オプション]

オプション:
  -token=TOKEN        Shortcut APIトークン
  -help               このヘルプを表示する

環境変数:
  SHORTCUT_API_TOKEN  Shortcut APIトークン (必須)

説明:
  このツールはShortcut APIの認証情報が正しく設定されているかを確認します。
  認証が成功すれば、一括作成ツールも正常に動作する可能性が高いです。
`, os.Args[0])
}
