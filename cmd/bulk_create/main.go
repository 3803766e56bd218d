package main

import (
	"flag"
	"fmt"
	"os"

	"shortcutbulk/api"
	"shortcutbulk/config"
	"shortcutbulk/services"
	"shortcutbulk/utils"
)

func main() {
	// コマンドラインフラグの定義
	file := flag.String("file", "", "入力ファイル (.yaml/.yml, .csv, .xlsx)")
	resourceType := flag.String("type", "", "リソースタイプ (objective | epic | story)。CSV/XLSXで使用")
	templatePath := flag.String("template", "", "エピック説明文のmarkdownテンプレートファイル")
	dryRun := flag.Bool("dry-run", false, "リソースを作成せずに名前と構造を検証する")
	output := flag.String("output", "text", "出力形式 (text | json)")
	token := flag.String("token", "", "Shortcut APIトークン（環境変数より優先）")
	help := flag.Bool("help", false, "ヘルプを表示する")

	// フラグのパース
	flag.Parse()

	// ヘルプフラグが指定された場合はヘルプを表示
	if *help {
		printHelp()
		return
	}

	if *file == "" {
		utils.LogError("-file フラグで入力ファイルを指定してください")
		os.Exit(1)
	}

	// レポーターの選択
	var reporter services.Reporter
	switch *output {
	case "text":
		reporter = services.NewTextReporter(os.Stdout)
	case "json":
		reporter = services.NewJSONReporter(os.Stdout)
	default:
		utils.LogError("無効な出力形式 '%s' です。text | json のいずれかを指定してください", *output)
		os.Exit(1)
	}

	// 設定の読み込み
	cfg, err := config.LoadConfig(*token)
	if err != nil {
		utils.LogError("設定の読み込みに失敗しました: %v", err)
		os.Exit(1)
	}

	// リソースタイプの検証（CSV/XLSX用）
	var rt services.ResourceType
	if *resourceType != "" {
		rt, err = services.ParseResourceType(*resourceType)
		if err != nil {
			utils.LogError("%v", err)
			os.Exit(1)
		}
	}

	// 入力ファイルの解析
	input, err := services.ParseInputFile(*file, rt)
	if err != nil {
		utils.LogError("入力ファイルの読み込みに失敗しました: %v", err)
		os.Exit(1)
	}

	if input.Total() == 0 {
		utils.LogWarn("入力ファイルにアイテムが見つかりません")
		return
	}

	// グローバルテンプレートの読み込み（指定時のみ）
	var globalTemplate *services.Template
	if *templatePath != "" {
		globalTemplate, err = services.LoadTemplate(*templatePath)
		if err != nil {
			utils.LogError("%v", err)
			os.Exit(1)
		}
	}

	// サービスの初期化
	client := api.NewShortcutClient(cfg)
	creationService := services.NewCreationService(cfg, client, reporter, globalTemplate)

	// ドライラン: 検証のみを行い、作成リクエストは発行しない
	if *dryRun {
		violations, err := creationService.DryRun(input)
		if err != nil {
			utils.LogError("ドライランに失敗しました: %v", err)
			os.Exit(1)
		}
		if len(violations) > 0 {
			os.Exit(1)
		}
		return
	}

	// 一括作成の実行
	results, err := creationService.Run(input)
	if err != nil {
		utils.LogError("一括作成に失敗しました: %v", err)
		os.Exit(1)
	}

	// 一部のレコードが失敗していた場合も終了コードで失敗を通知する
	if results.HasFailures() {
		os.Exit(1)
	}
}

// ヘルプメッセージを表示する関数
func printHelp() {
	fmt.Printf(`
Shortcut一括作成ツール

使用方法:
  %s -file <FILE> [オプション]

オプション:
  -file=FILE          入力ファイル (.yaml/.yml, .csv, .xlsx)
                      YAMLはobjectives/epics/storiesを1ファイルにまとめられます
                      CSV/XLSXは -type でリソースタイプを指定します
  -type=TYPE          リソースタイプ (objective | epic | story)
                      CSVでは必須。XLSXでは省略するとシート名から自動判定
  -template=FILE      エピック説明文のmarkdownテンプレートファイル
                      変数: {{name}}, {{description}}, {{objective}},
                            {{owners}}, {{teams}}, {{labels}},
                            {{start_date}}, {{deadline}}
  -dry-run            リソースを作成せずに名前と構造を検証する
                      （名前解決のためAPIへの読み取りアクセスは発生します）
  -output=FORMAT      出力形式 (text | json)。jsonは1行1イベントのJSON
  -token=TOKEN        Shortcut APIトークン
  -help               このヘルプを表示する

環境変数:
  SHORTCUT_API_TOKEN  Shortcut APIトークン
  SHORTCUT_API_URL    APIベースURL (デフォルト: %s)

例:
  # YAMLファイルから一括作成
  %s -file backlog.yaml

  # 作成前に検証のみを実行
  %s -file backlog.yaml -dry-run

  # CSVからストーリーのみをインポート
  %s -file stories.csv -type story

  # テンプレートを適用してJSONイベントを出力
  %s -file epics.yaml -template epic.md -output json
`, os.Args[0], config.DefaultBaseURL, os.Args[0], os.Args[0], os.Args[0], os.Args[0])
}
