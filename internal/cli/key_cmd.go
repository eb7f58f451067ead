package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// keyCmd represents the key command group
var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "API キー管理",
	Long:  `API キーの表示とリセットを行います。`,
}

// keyShowCmd shows the current API key
var keyShowCmd = &cobra.Command{
	Use:   "show",
	Short: "現在の API キーを表示",
	Run: func(cmd *cobra.Command, args []string) {
		if apiKeyManager == nil {
			fmt.Fprintln(os.Stderr, "エラー: API キー管理が初期化されていません")
			os.Exit(1)
		}

		currentKey := apiKeyManager.GetCurrentKey()
		if currentKey == "" {
			fmt.Fprintln(os.Stderr, "エラー: API キーを取得できません")
			os.Exit(1)
		}

		fmt.Println("現在の API キー:")
		fmt.Println(currentKey)
	},
}

// keyResetCmd resets the API key
var keyResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "API キーをリセット",
	Long:  `新しい API キーを生成します。旧キーは無効になります。確認が必要です。`,
	Run: func(cmd *cobra.Command, args []string) {
		if apiKeyManager == nil {
			fmt.Fprintln(os.Stderr, "エラー: API キー管理が初期化されていません")
			os.Exit(1)
		}

		// Show current key
		oldKey := apiKeyManager.GetCurrentKey()
		fmt.Println("現在の API キー:")
		fmt.Println(oldKey)
		fmt.Println()

		// Ask for confirmation
		fmt.Print("警告: リセット後、旧キーを使う全クライアントがアクセスできなくなります。\n")
		fmt.Print("API キーをリセットしますか？(yes/no): ")

		reader := bufio.NewReader(os.Stdin)
		input, err := reader.ReadString('\n')
		if err != nil {
			fmt.Fprintf(os.Stderr, "エラー: 入力の読み込みに失敗しました: %v\n", err)
			os.Exit(1)
		}

		input = strings.TrimSpace(strings.ToLower(input))
		if input != "yes" && input != "y" {
			fmt.Println("キャンセルしました。")
			return
		}

		// Reset the key
		newKey, err := apiKeyManager.ResetKey()
		if err != nil {
			fmt.Fprintf(os.Stderr, "エラー: キーのリセットに失敗しました: %v\n", err)
			os.Exit(1)
		}

		fmt.Println()
		fmt.Println("API キーをリセットしました。")
		fmt.Println("新しい API キー:")
		fmt.Println(newKey)
	},
}

func init() {
	keyCmd.AddCommand(keyShowCmd)
	keyCmd.AddCommand(keyResetCmd)
}
