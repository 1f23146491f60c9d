package scorer

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestFusePerfectSignals 验证五个正信号全满、无罚分时得到满分
func TestFusePerfectSignals(t *testing.T) {
	result := Fuse(Signals{
		Semantic:            1.0,
		SkillFit:            1.0,
		KeywordDensity:      1.0,
		ActionVerbRatio:     1.0,
		ExperienceRelevance: 1.0,
		FormattingPenalty:   0.0,
	}, nil)

	assert.Equal(t, 100.0, result.FinalScore)
	assert.Equal(t, "Excellent match - highly likely to pass ATS", result.Interpretation)
	assert.Empty(t, result.Suggestions)
}

// TestFuseFormattingOnlySubtracts 验证罚分项只会往下拉分
func TestFuseFormattingOnlySubtracts(t *testing.T) {
	perfect := Fuse(Signals{1, 1, 1, 1, 1, 0}, nil)
	penalized := Fuse(Signals{1, 1, 1, 1, 1, 1}, nil)

	assert.Less(t, penalized.FinalScore, perfect.FinalScore)
	// (0.95 - 0.05) / 0.95
	assert.InDelta(t, 94.74, penalized.FinalScore, 0.01)
	assert.LessOrEqual(t, penalized.FinalScore, 100.0)
}

// TestFuseAllZeros 验证全零输入钳制到非负
func TestFuseAllZeros(t *testing.T) {
	result := Fuse(Signals{0, 0, 0, 0, 0, 1}, nil)
	assert.GreaterOrEqual(t, result.FinalScore, 0.0)
	assert.Equal(t, 0.0, result.FinalScore)
}

// TestFuseClampsInputs 验证越界输入先被钳制到[0,1]
func TestFuseClampsInputs(t *testing.T) {
	result := Fuse(Signals{2.5, -1, 1.5, 0.5, 0.5, -0.3}, nil)
	assert.GreaterOrEqual(t, result.FinalScore, 0.0)
	assert.LessOrEqual(t, result.FinalScore, 100.0)
	assert.Equal(t, 100.0, result.Components["semantic"])
	assert.Equal(t, 0.0, result.Components["skills"])
}

// TestFuseDisplayScoreIsLogistic 验证展示分是对原始加权值的logistic压缩
func TestFuseDisplayScoreIsLogistic(t *testing.T) {
	result := Fuse(Signals{1, 1, 1, 1, 1, 0}, nil)

	raw := 0.95
	expected := 100 / (1 + math.Exp(-(raw/0.25 - 2.0)))
	assert.InDelta(t, expected, result.DisplayScore, 0.01)
	// 规范分与展示分不可互换
	assert.NotEqual(t, result.FinalScore, result.DisplayScore)
}

// TestFuseSuggestionsFixedOrder 验证建议按固定顺序触发
func TestFuseSuggestionsFixedOrder(t *testing.T) {
	result := Fuse(Signals{
		Semantic:            0.5,
		SkillFit:            0.5, // 50 < 60
		KeywordDensity:      0.4, // 40 < 50
		ActionVerbRatio:     0.3, // 30 < 40
		ExperienceRelevance: 0.4, // 40 < 50
		FormattingPenalty:   0.6, // 60 > 50
	}, nil)

	require.Len(t, result.Suggestions, 5)
	assert.Contains(t, result.Suggestions[0], "technical skills")
	assert.Contains(t, result.Suggestions[1], "JD keywords")
	assert.Contains(t, result.Suggestions[2], "active verbs")
	assert.Contains(t, result.Suggestions[3], "formatting")
	assert.Contains(t, result.Suggestions[4], "years of experience")
}

// TestFuseSuggestionsNotTriggered 验证阈值之上的信号不产生建议
func TestFuseSuggestionsNotTriggered(t *testing.T) {
	result := Fuse(Signals{0.9, 0.9, 0.9, 0.9, 0.9, 0.1}, nil)
	assert.Empty(t, result.Suggestions)
}

// TestFuseExplanationsPresent 验证每个分量都有解释条目
func TestFuseExplanationsPresent(t *testing.T) {
	result := Fuse(Signals{0.5, 0.5, 0.5, 0.5, 0.5, 0.5}, nil)
	require.Len(t, result.Explanations, 6)
	assert.Contains(t, result.Explanations[5], "penalty")
}

// TestFuseCustomWeights 验证自定义权重生效
func TestFuseCustomWeights(t *testing.T) {
	weights := map[string]float64{
		WeightSemantic:    1.0,
		WeightSkills:      0,
		WeightKeywords:    0,
		WeightActionVerbs: 0,
		WeightExperience:  0,
		WeightFormatting:  0,
	}
	result := Fuse(Signals{Semantic: 0.6}, weights)
	assert.InDelta(t, 60.0, result.FinalScore, 1e-9)
}

// TestInterpretScoreBands 验证解读分档
func TestInterpretScoreBands(t *testing.T) {
	assert.Contains(t, interpretScore(85), "Excellent")
	assert.Contains(t, interpretScore(65), "Good")
	assert.Contains(t, interpretScore(45), "Moderate")
	assert.Contains(t, interpretScore(20), "Poor")
}

// TestScoreEndToEnd 验证辅助信号计算与融合的整体路径
func TestScoreEndToEnd(t *testing.T) {
	resume := strings.Repeat("Built and improved distributed services using Go and Kafka. ", 30) +
		"\n\n- Led migrations\n- Reduced latency\n- Designed APIs"
	jd := "Looking for a Go engineer with Kafka experience."

	result := Score(resume, jd, 0.8, 0.7, []string{"Go", "Kafka"}, nil)

	assert.GreaterOrEqual(t, result.FinalScore, 0.0)
	assert.LessOrEqual(t, result.FinalScore, 100.0)
	assert.Equal(t, 100.0, result.Components["keyword_density"], "显式关键词全部命中")
	assert.Equal(t, 80.0, result.Components["semantic"])
	assert.NotEmpty(t, result.Interpretation)
}
