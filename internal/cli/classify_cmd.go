package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hito-kotaro/torch/internal/classify"
)

// classifyCmd classifies a mail read from stdin, for tuning the keyword lists
var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "標準入力のメールを仕分け",
	Long: `標準入力からメールを読み込み、キーワード仕分けの結果とスコアを表示します。
1行目を件名、2行目以降を本文として扱います。`,
	Run: func(cmd *cobra.Command, args []string) {
		reader := bufio.NewReader(os.Stdin)

		subject, err := reader.ReadString('\n')
		if err != nil && err != io.EOF {
			fmt.Fprintf(os.Stderr, "エラー: 入力の読み込みに失敗しました: %v\n", err)
			os.Exit(1)
		}
		body, _ := io.ReadAll(reader)

		classifier := classify.NewKeywordClassifier(classify.DefaultKeywordConfig())
		result, err := classifier.Classify(context.Background(), strings.TrimSpace(subject), string(body))
		if err != nil {
			fmt.Fprintf(os.Stderr, "エラー: 仕分けに失敗しました: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("判定:         %s\n", result.Decision)
		fmt.Printf("案件スコア:   %d\n", result.JobScore)
		fmt.Printf("人材スコア:   %d\n", result.TalentScore)
	},
}
