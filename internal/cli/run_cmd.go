package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hito-kotaro/torch/internal/database/models"
	"github.com/hito-kotaro/torch/internal/pipeline"
)

// runCmd executes one batch immediately
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "取り込みバッチを1回実行",
	Long:  `メール取得から取り込みまでのバッチを1回実行し、集計を表示します。`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		runner, err := pipeline.BuildRunner(ctx, db, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "エラー: バッチの初期化に失敗しました: %v\n", err)
			os.Exit(1)
		}

		run, err := runner.Run(ctx, models.TriggerManual)
		if err != nil {
			fmt.Fprintf(os.Stderr, "エラー: バッチが失敗しました: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("バッチ #%d 完了\n", run.ID)
		fmt.Printf("  取得:     %d\n", run.Fetched)
		fmt.Printf("  重複:     %d\n", run.Deduplicated)
		fmt.Printf("  案件:     %d\n", run.JobCount)
		fmt.Printf("  人材:     %d\n", run.TalentCount)
		fmt.Printf("  除外:     %d\n", run.ExcludedCount)
		fmt.Printf("  取込成功: %d\n", run.SuccessCount)
		fmt.Printf("  スキップ: %d\n", run.SkipCount)
		fmt.Printf("  エラー:   %d\n", run.ErrorCount)
		if run.Aborted {
			fmt.Println("  ※ レート制限により中断されました")
		}
	},
}
