package classify

import (
	"context"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// genNoiseText generates text free of every keyword the default config
// knows. All default keywords contain Japanese characters, so plain ASCII
// text can never match any of them.
func genNoiseText() gopter.Gen {
	return gen.AlphaString()
}

// TestProperty_NoKeywords_Excluded: text containing no keywords always lands
// in excluded with both scores zero
func TestProperty_NoKeywords_Excluded(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 20
	properties := gopter.NewProperties(parameters)

	classifier := NewKeywordClassifier(DefaultKeywordConfig())

	properties.Property("keyword_free_text_is_excluded_with_zero_scores", prop.ForAll(
		func(subject, body string) bool {
			result, err := classifier.Classify(context.Background(), subject, body)
			if err != nil {
				return false
			}
			return result.Decision == DecisionExcluded &&
				result.JobScore == 0 &&
				result.TalentScore == 0
		},
		genNoiseText(),
		genNoiseText(),
	))

	properties.TestingRun(t)
}

// TestProperty_Classify_Deterministic: the same input always produces the
// same decision and scores
func TestProperty_Classify_Deterministic(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 20
	properties := gopter.NewProperties(parameters)

	classifier := NewKeywordClassifier(DefaultKeywordConfig())
	fragments := []string{
		"案件のご紹介", "スキルシート添付", "単価70万円", "ご挨拶", "候補者",
		"募集します", "経歴書", "希望単価60万", "お打ち合わせ", "エンジニア",
	}

	properties.Property("same_input_same_result", prop.ForAll(
		func(indices []int) bool {
			var sb strings.Builder
			for _, i := range indices {
				sb.WriteString(fragments[i%len(fragments)])
				sb.WriteString(" ")
			}
			text := sb.String()

			first, err1 := classifier.Classify(context.Background(), "件名", text)
			second, err2 := classifier.Classify(context.Background(), "件名", text)
			if err1 != nil || err2 != nil {
				return false
			}
			return first == second
		},
		gen.SliceOf(gen.IntRange(0, 9)),
	))

	properties.TestingRun(t)
}

// TestProperty_TalentThreshold_Overrides: whenever the talent score crosses
// its threshold, the decision is talent regardless of the job score
func TestProperty_TalentThreshold_Overrides(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 20
	properties := gopter.NewProperties(parameters)

	config := DefaultKeywordConfig()
	classifier := NewKeywordClassifier(config)

	jobFragments := []string{"案件", "募集", "単価", "求人", "業務委託", "プロジェクト"}

	properties.Property("talent_threshold_beats_any_job_score", prop.ForAll(
		func(jobIndices []int) bool {
			var sb strings.Builder
			// Guaranteed talent signal above the threshold
			sb.WriteString("スキルシート 経歴書 候補者 ")
			for _, i := range jobIndices {
				sb.WriteString(jobFragments[i%len(jobFragments)])
				sb.WriteString(" ")
			}

			result, err := classifier.Classify(context.Background(), "", sb.String())
			if err != nil {
				return false
			}
			return result.TalentScore >= config.TalentThreshold &&
				result.Decision == DecisionTalent
		},
		gen.SliceOf(gen.IntRange(0, 5)),
	))

	properties.TestingRun(t)
}
