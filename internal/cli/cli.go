// Package cli provides the maintenance command-line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/hito-kotaro/torch/internal/api/middleware"
	"github.com/hito-kotaro/torch/internal/config"
)

var (
	db            *gorm.DB
	cfg           *config.Config
	apiKeyManager *middleware.APIKeyManager
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "torch",
	Short: "Torch メール取り込みバッチ",
	Long: `Torch は営業窓口メールを仕分けて案件・人材情報を取り込むバッチサービスです。

このコマンドラインツールは以下の機能を提供します：
  - バッチ実行：取り込みバッチを即時実行
  - 仕分け確認：メール本文の分類結果を確認
  - キー管理：API キーの表示・リセット
  - 重複キャッシュ：処理済みマークの削除

使用例：
  torch run                      # バッチを1回実行
  torch classify                 # 標準入力のメールを仕分け
  torch key show                 # 現在の API キーを表示
  torch key reset                # API キーをリセット
  torch cache forget <msg-id>    # 処理済みマークを削除`,
}

// Execute runs the CLI with the provided database and config
func Execute(database *gorm.DB, conf *config.Config) {
	db = database
	cfg = conf

	// Initialize API key manager
	var err error
	apiKeyManager, err = middleware.NewAPIKeyManager(cfg.DataDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "エラー: API キー管理の初期化に失敗しました: %v\n", err)
		os.Exit(1)
	}

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Add subcommands
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(keyCmd)
	rootCmd.AddCommand(cacheCmd)
}
