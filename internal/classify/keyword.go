package classify

import (
	"context"
	"strings"
)

// Keyword weights per tier
const (
	weightHigh   = 3
	weightMedium = 2
	weightLow    = 1
)

// Tiers groups keywords by signal strength
type Tiers struct {
	High   []string
	Medium []string
	Low    []string
}

// KeywordConfig holds the keyword lists and decision thresholds. The lists
// are tuned heuristics carried over from production mail traffic; they are
// data, not logic, and callers may supply their own.
type KeywordConfig struct {
	// Exclusions short-circuit classification unless a high-weight job
	// keyword is also present.
	Exclusions []string
	Job        Tiers
	Talent     Tiers
	// JobThreshold is the minimum jobScore to accept a message as a job.
	JobThreshold int
	// TalentThreshold is the minimum talentScore to treat a message as a
	// candidate posting.
	TalentThreshold int
}

// DefaultKeywordConfig returns the production keyword lists
func DefaultKeywordConfig() KeywordConfig {
	return KeywordConfig{
		// 挨拶・日程調整・御礼などの営業ノイズ
		Exclusions: []string{
			"ご挨拶", "ご面識", "打ち合わせ", "打合せ", "ミーティング",
			"日程調整", "日程のご相談", "ありがとうございました", "御礼", "お礼",
			"セミナー", "勉強会",
		},
		Job: Tiers{
			// 案件・募集・単価はほぼ案件メールでしか使われない
			High: []string{"案件", "募集", "単価"},
			// 原文プロンプトの案件定義（求人情報・プロジェクト募集・業務委託）に由来
			Medium: []string{"求人", "業務委託", "プロジェクト"},
			// 技術スタック系の汎用語は人材メールとも共有される弱シグナル
			Low: []string{"エンジニア", "開発"},
		},
		Talent: Tiers{
			High:   []string{"スキルシート", "経歴書", "候補者"},
			Medium: []string{"希望単価", "稼働可能"},
			Low:    []string{"歳", "性別", "最寄駅", "所属"},
		},
		JobThreshold:    2,
		TalentThreshold: 3,
	}
}

// KeywordClassifier scores messages by case-insensitive substring matching.
// Substring (not token) matching is deliberate: it handles compound
// Japanese/English mixed text without a tokenizer.
type KeywordClassifier struct {
	config KeywordConfig
}

// NewKeywordClassifier creates a classifier with the given keyword config
func NewKeywordClassifier(config KeywordConfig) *KeywordClassifier {
	return &KeywordClassifier{config: config}
}

// Classify applies the triage rules in their documented order:
// exclusion check, talent score, job score. The order matters for messages
// with mixed signals and must not be rearranged.
func (c *KeywordClassifier) Classify(_ context.Context, subject, body string) (Result, error) {
	return c.classify(subject, body), nil
}

// classify is the synchronous core, shared with tests
func (c *KeywordClassifier) classify(subject, body string) Result {
	text := strings.ToLower(subject + " " + body)

	result := Result{Decision: DecisionExcluded}

	// Exclusion check: noise keywords win only when no strong job signal
	// is present. A high-weight job keyword overrides the exclusion rule,
	// but the message is still subject to the talent check below.
	if containsAny(text, c.config.Exclusions) && !containsAny(text, c.config.Job.High) {
		return result
	}

	result.TalentScore = scoreTiers(text, c.config.Talent)
	result.JobScore = scoreTiers(text, c.config.Job)

	if result.TalentScore >= c.config.TalentThreshold {
		result.Decision = DecisionTalent
		return result
	}

	if result.JobScore >= c.config.JobThreshold {
		result.Decision = DecisionJob
	}

	return result
}

// scoreTiers sums the tier weights over all keywords found in text
func scoreTiers(text string, tiers Tiers) int {
	score := 0
	score += weightHigh * countKeywordMatches(text, tiers.High)
	score += weightMedium * countKeywordMatches(text, tiers.Medium)
	score += weightLow * countKeywordMatches(text, tiers.Low)
	return score
}

// countKeywordMatches counts how many keywords are found in the text
func countKeywordMatches(text string, keywords []string) int {
	count := 0
	for _, keyword := range keywords {
		if strings.Contains(text, strings.ToLower(keyword)) {
			count++
		}
	}
	return count
}

// containsAny reports whether text contains any of the keywords
func containsAny(text string, keywords []string) bool {
	return countKeywordMatches(text, keywords) > 0
}
