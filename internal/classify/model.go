package classify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Generator produces a JSON text completion for a prompt. Satisfied by
// extract.Client.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ModelClassifier defers the job/talent decision to the extraction model
// instead of keyword scoring. It is the second pipeline variant found in
// production; select it with classifier_strategy = "model".
type ModelClassifier struct {
	generator Generator
}

// NewModelClassifier creates a model-backed classifier
func NewModelClassifier(generator Generator) *ModelClassifier {
	return &ModelClassifier{generator: generator}
}

// typeDetectionResponse is the JSON shape the type-detection prompt requests
type typeDetectionResponse struct {
	Type string `json:"type"`
}

// Classify asks the model whether the message is a job posting, a talent
// profile, or neither. Scores are not available in this strategy and stay 0.
func (c *ModelClassifier) Classify(ctx context.Context, subject, body string) (Result, error) {
	prompt := buildTypeDetectionPrompt(subject, body)

	raw, err := c.generator.Generate(ctx, prompt)
	if err != nil {
		return Result{}, fmt.Errorf("type detection failed: %w", err)
	}

	var resp typeDetectionResponse
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &resp); err != nil {
		return Result{}, fmt.Errorf("type detection returned invalid JSON: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(resp.Type)) {
	case "job", "anken":
		return Result{Decision: DecisionJob}, nil
	case "talent", "jinzai":
		return Result{Decision: DecisionTalent}, nil
	default:
		return Result{Decision: DecisionExcluded}, nil
	}
}

// buildTypeDetectionPrompt asks for a one-field JSON classification
func buildTypeDetectionPrompt(subject, body string) string {
	return fmt.Sprintf(`以下のメールを分析し、内容が「案件情報」「人材情報」「その他」のどれに該当するかを判断してください。

【判断基準】
- 案件情報: 求人情報、プロジェクト募集、業務委託案件。「案件名」「必須スキル」「勤務地」「単価」などが含まれる傾向があります。
- 人材情報: エンジニアの経歴書やスキルシート。「氏名」「年齢」「スキル」「希望単価」などが含まれる傾向があります。
- その他: 挨拶、日程調整、御礼などの営業メール。

【メール件名】
%s

【メール本文】
%s

【出力形式】
必ず以下のJSON形式で返却してください。
{
  "type": "（job, talent, other のいずれか）"
}
`, subject, body)
}
