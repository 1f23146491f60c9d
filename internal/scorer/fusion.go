package scorer

import (
	"fmt"
	"math"

	"resume-match-go/internal/types"
)

// 各信号的权重键名
const (
	WeightSemantic    = "semantic"
	WeightSkills      = "skills"
	WeightKeywords    = "keywords"
	WeightActionVerbs = "action_verbs"
	WeightExperience  = "experience"
	WeightFormatting  = "formatting"
)

// Signals 分数融合的六个输入信号，使用前都会被钳制到 [0,1]
type Signals struct {
	Semantic            float64
	SkillFit            float64
	KeywordDensity      float64
	ActionVerbRatio     float64
	ExperienceRelevance float64
	FormattingPenalty   float64
}

// DefaultWeights 默认权重。formatting 是唯一的负权重，表示罚分而非贡献
func DefaultWeights() map[string]float64 {
	return map[string]float64{
		WeightSemantic:    0.30,
		WeightSkills:      0.30,
		WeightKeywords:    0.15,
		WeightActionVerbs: 0.08,
		WeightExperience:  0.12,
		WeightFormatting:  -0.05,
	}
}

// Fuse 把六个信号融合为一个可解释的 0..100 分数。
// FinalScore 是规范口径：加权线性和除以正权重绝对值之和后钳制；持久化以此为准。
// DisplayScore 是展示口径：对同一个加权原始值做logistic压缩，只用于前端渲染，
// 两者不可互相替换。
func Fuse(in Signals, weights map[string]float64) types.ScoreResult {
	if len(weights) == 0 {
		weights = DefaultWeights()
	}

	sSem := clamp01(in.Semantic)
	sSki := clamp01(in.SkillFit)
	sKey := clamp01(in.KeywordDensity)
	sAct := clamp01(in.ActionVerbRatio)
	sExp := clamp01(in.ExperienceRelevance)
	sFmt := clamp01(in.FormattingPenalty)

	components := map[string]float64{
		"semantic":             round2(sSem * 100),
		"skills":               round2(sSki * 100),
		"keyword_density":      round2(sKey * 100),
		"action_verb_ratio":    round2(sAct * 100),
		"experience_relevance": round2(sExp * 100),
		"formatting_penalty":   round2(sFmt * 100),
	}

	positiveSum := weights[WeightSemantic]*sSem +
		weights[WeightSkills]*sSki +
		weights[WeightKeywords]*sKey +
		weights[WeightActionVerbs]*sAct +
		weights[WeightExperience]*sExp

	// formatting权重为负，该项只会往下拉分
	formattingTerm := weights[WeightFormatting] * sFmt
	if formattingTerm > 0 {
		formattingTerm = 0
	}
	raw := positiveSum + formattingTerm

	var positiveWeightSum float64
	for key, w := range weights {
		if key != WeightFormatting {
			positiveWeightSum += math.Abs(w)
		}
	}
	if positiveWeightSum == 0 {
		positiveWeightSum = 1
	}

	finalScore := round2(clamp01(raw/positiveWeightSum) * 100)
	displayScore := round2(100 / (1 + math.Exp(-(raw/0.25 - 2.0))))

	explanations := []string{
		fmt.Sprintf("Semantic match contributes %.1f%% -> %.2f pts", weights[WeightSemantic]*100, components["semantic"]),
		fmt.Sprintf("Skill fit contributes %.1f%% -> %.2f pts", weights[WeightSkills]*100, components["skills"]),
		fmt.Sprintf("Keyword density contributes %.1f%% -> %.2f pts", weights[WeightKeywords]*100, components["keyword_density"]),
		fmt.Sprintf("Action verbs contribute %.1f%% -> %.2f pts", weights[WeightActionVerbs]*100, components["action_verb_ratio"]),
		fmt.Sprintf("Experience relevance contributes %.1f%% -> %.2f pts", weights[WeightExperience]*100, components["experience_relevance"]),
	}
	if weights[WeightFormatting] < 0 {
		explanations = append(explanations,
			fmt.Sprintf("Formatting penalty (subtracts) %.1f%% -> %.2f pts penalty", math.Abs(weights[WeightFormatting])*100, components["formatting_penalty"]))
	}

	// 建议按固定顺序触发，可能同时命中多条
	var suggestions []string
	if components["skills"] < 60 {
		suggestions = append(suggestions, "Add or highlight missing technical skills that match the JD (see 'missing_skills' in comparison).")
	}
	if components["keyword_density"] < 50 {
		suggestions = append(suggestions, "Include more JD keywords (exact phrases) in relevant bullet points, without fabricating experience.")
	}
	if components["action_verb_ratio"] < 40 {
		suggestions = append(suggestions, "Use more active verbs (achieved, improved, designed, led) to describe responsibilities and impact.")
	}
	if components["formatting_penalty"] > 50 {
		suggestions = append(suggestions, "Improve formatting: use concise bullets, add section headers, and increase resume length if under 120 words.")
	}
	if components["experience_relevance"] < 50 {
		suggestions = append(suggestions, "Clarify years of experience and emphasize senior-level roles or results if applicable.")
	}

	return types.ScoreResult{
		Components:     components,
		Weights:        weights,
		FinalScore:     finalScore,
		DisplayScore:   displayScore,
		Interpretation: interpretScore(finalScore),
		Explanations:   explanations,
		Suggestions:    suggestions,
	}
}

// interpretScore 人类可读的分数解读
func interpretScore(score float64) string {
	switch {
	case score >= 80:
		return "Excellent match - highly likely to pass ATS"
	case score >= 60:
		return "Good match - likely to pass ATS"
	case score >= 40:
		return "Moderate match - may pass ATS with optimization"
	default:
		return "Poor match - significant optimization needed"
	}
}

// Score 计算全部辅助信号并融合。语义分和技能契合指数由匹配阶段预先算好传入
func Score(resumeText, jdText string, semanticScore, skillFitIndex float64, jdKeywords []string, weights map[string]float64) types.ScoreResult {
	return Fuse(Signals{
		Semantic:            semanticScore,
		SkillFit:            skillFitIndex,
		KeywordDensity:      KeywordDensity(resumeText, jdText, jdKeywords),
		ActionVerbRatio:     ActionVerbRatio(resumeText),
		ExperienceRelevance: ExperienceRelevance(resumeText, jdText),
		FormattingPenalty:   FormattingPenalty(resumeText),
	}, weights)
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
