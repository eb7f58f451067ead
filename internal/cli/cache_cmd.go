package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hito-kotaro/torch/internal/dedup"
)

// cacheCmd represents the dedup cache command group
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "処理済みキャッシュ管理",
	Long:  `処理済みマークを削除し、対象メールの再取り込みを可能にします。`,
}

// cacheForgetCmd removes the processed mark for a message
var cacheForgetCmd = &cobra.Command{
	Use:   "forget <message-id>",
	Short: "処理済みマークを削除",
	Long:  `指定した Message-ID の処理済みマークを削除します。次回バッチで再処理されます。`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		if cfg.RedisURL == "" {
			fmt.Fprintln(os.Stderr, "エラー: redis_url が未設定です。メモリストアのマークはプロセス再起動で消えます。")
			os.Exit(1)
		}

		store, err := dedup.NewRedisStore(ctx, cfg.RedisURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "エラー: Redis への接続に失敗しました: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()

		gate := dedup.NewGate(store, cfg.ProcessedTTL())
		if err := gate.Forget(ctx, args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "エラー: マークの削除に失敗しました: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("処理済みマークを削除しました: %s\n", args[0])
	},
}

func init() {
	cacheCmd.AddCommand(cacheForgetCmd)
}
