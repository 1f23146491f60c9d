package matcher

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strings"

	"resume-match-go/internal/embedding"
	"resume-match-go/internal/logger"
	"resume-match-go/internal/types"
)

const (
	// lexicalOverlapThreshold 第一轮词面匹配的接受阈值（严格大于）
	lexicalOverlapThreshold = 0.6
	// DefaultSemanticThreshold 第二轮语义匹配的默认接受阈值
	DefaultSemanticThreshold = 0.75
)

var skillNormalizeRe = regexp.MustCompile(`[^a-z0-9+#.\- ]`)

// SkillComparator 把简历技能映射到JD技能。
// 第一轮按词面重叠贪心匹配，第二轮对剩余技能做语义匹配。
// 贪心匹配依赖输入顺序，这是刻意保留的行为：同样的输入必须得到同样的划分，
// 换成全局最优分配会悄悄改变历史分数。
type SkillComparator struct {
	embedder          embedding.TextEmbedder // 为nil时跳过语义轮
	semanticThreshold float64
}

// NewSkillComparator 创建技能比对器
func NewSkillComparator(embedder embedding.TextEmbedder, semanticThreshold float64) *SkillComparator {
	if semanticThreshold <= 0 || semanticThreshold > 1 {
		semanticThreshold = DefaultSemanticThreshold
	}
	return &SkillComparator{
		embedder:          embedder,
		semanticThreshold: semanticThreshold,
	}
}

// NormalizeSkill 比对用的技能归一化：小写、去除无关符号、折叠空白
func NormalizeSkill(s string) string {
	x := strings.ToLower(strings.TrimSpace(s))
	x = skillNormalizeRe.ReplaceAllString(x, "")
	return strings.Join(strings.Fields(x), " ")
}

// TokenOverlap 归一化后token集合的重叠率: |A∩B| / |A∪B|
func TokenOverlap(a, b string) float64 {
	aset := tokenSet(NormalizeSkill(a))
	bset := tokenSet(NormalizeSkill(b))
	if len(aset) == 0 || len(bset) == 0 {
		return 0
	}
	inter := 0
	for t := range aset {
		if _, ok := bset[t]; ok {
			inter++
		}
	}
	union := len(aset) + len(bset) - inter
	return float64(inter) / float64(union)
}

func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, t := range strings.Fields(s) {
		set[t] = struct{}{}
	}
	return set
}

// Compare 比对两个技能列表。
// 每个JD技能恰好出现在 matched 或 missing 之一；空JD列表按全匹配处理。
func (c *SkillComparator) Compare(ctx context.Context, resumeSkills, jdSkills []string) types.SkillComparison {
	rNorm := make([]string, len(resumeSkills))
	for i, s := range resumeSkills {
		rNorm[i] = NormalizeSkill(s)
	}
	jNorm := make([]string, len(jdSkills))
	for j, s := range jdSkills {
		jNorm[j] = NormalizeSkill(s)
	}

	matched := make([]types.MatchedSkill, 0)
	matchedJIdx := make(map[int]struct{})
	matchedRIdx := make(map[int]struct{})

	// 第一轮：词面匹配。完全一致立即接受，否则取重叠率最高且 > 0.6 的候选
	for i, r := range rNorm {
		bestJ := -1
		bestSim := 0.0
		for j, jj := range jNorm {
			if _, taken := matchedJIdx[j]; taken {
				continue
			}
			sim := TokenOverlap(r, jj)
			if sim > bestSim {
				bestSim = sim
				bestJ = j
			}
			if r == jj && r != "" {
				bestSim = 1.0
				bestJ = j
				break
			}
		}
		if bestJ >= 0 && bestSim > lexicalOverlapThreshold {
			matched = append(matched, types.MatchedSkill{
				ResumeSkill: resumeSkills[i],
				JDSkill:     jdSkills[bestJ],
				Similarity:  round3(bestSim),
			})
			matchedJIdx[bestJ] = struct{}{}
			matchedRIdx[i] = struct{}{}
		}
	}

	// 第二轮：对剩余技能做语义匹配
	if c.embedder != nil {
		if err := c.semanticPass(ctx, resumeSkills, jdSkills, matchedRIdx, matchedJIdx, &matched); err != nil {
			logger.Warn().Err(err).Msg("技能语义匹配失败，只保留词面匹配结果")
		}
	}

	// 划分 missing 和 extras
	missing := make([]types.MissingSkill, 0)
	for j, skill := range jdSkills {
		if _, ok := matchedJIdx[j]; !ok {
			missing = append(missing, types.MissingSkill{
				Skill:      skill,
				Suggestion: fmt.Sprintf("Include relevant projects or keywords related to '%s' (e.g., 'Worked with %s to ...')", skill, skill),
			})
		}
	}
	extras := make([]string, 0)
	for i, skill := range resumeSkills {
		if _, ok := matchedRIdx[i]; !ok {
			extras = append(extras, skill)
		}
	}

	// 空JD列表视为全匹配
	matchPct := 1.0
	if len(jdSkills) > 0 {
		matchPct = float64(len(matched)) / float64(len(jdSkills))
	}

	avgSim := 0.0
	if len(matched) > 0 {
		for _, m := range matched {
			avgSim += m.Similarity
		}
		avgSim /= float64(len(matched))
	}
	sfi := 0.7*matchPct + 0.3*avgSim

	return types.SkillComparison{
		SkillFitIndex:     round4(sfi),
		MatchPercentage:   math.Round(matchPct*100*100) / 100,
		MatchedSkills:     matched,
		MissingSkills:     missing,
		ExtraResumeSkills: extras,
		Summary:           fmt.Sprintf("Matched %d of %d JD skills.", len(matched), len(jdSkills)),
	}
}

// semanticPass 对第一轮未匹配的技能做embedding相似度贪心匹配
func (c *SkillComparator) semanticPass(
	ctx context.Context,
	resumeSkills, jdSkills []string,
	matchedRIdx, matchedJIdx map[int]struct{},
	matched *[]types.MatchedSkill,
) error {
	var rIdx, jIdx []int
	for i := range resumeSkills {
		if _, ok := matchedRIdx[i]; !ok {
			rIdx = append(rIdx, i)
		}
	}
	for j := range jdSkills {
		if _, ok := matchedJIdx[j]; !ok {
			jIdx = append(jIdx, j)
		}
	}
	if len(rIdx) == 0 || len(jIdx) == 0 {
		return nil
	}

	texts := make([]string, 0, len(rIdx)+len(jIdx))
	for _, i := range rIdx {
		texts = append(texts, resumeSkills[i])
	}
	for _, j := range jIdx {
		texts = append(texts, jdSkills[j])
	}
	embs, err := c.embedder.EmbedStrings(ctx, texts)
	if err != nil {
		return err
	}
	if len(embs) != len(texts) {
		return fmt.Errorf("向量数量不匹配: 期望%d, 实际%d", len(texts), len(embs))
	}
	rEmbs := embs[:len(rIdx)]
	jEmbs := embs[len(rIdx):]

	for a, i := range rIdx {
		bestB := -1
		bestSim := 0.0
		for b, j := range jIdx {
			if _, taken := matchedJIdx[j]; taken {
				continue
			}
			if sim := Cosine(rEmbs[a], jEmbs[b]); sim > bestSim {
				bestSim = sim
				bestB = b
			}
		}
		if bestB >= 0 && bestSim >= c.semanticThreshold {
			j := jIdx[bestB]
			*matched = append(*matched, types.MatchedSkill{
				ResumeSkill: resumeSkills[i],
				JDSkill:     jdSkills[j],
				Similarity:  round3(bestSim),
			})
			matchedJIdx[j] = struct{}{}
			matchedRIdx[i] = struct{}{}
		}
	}
	return nil
}

func round3(x float64) float64 {
	return math.Round(x*1000) / 1000
}

func round4(x float64) float64 {
	return math.Round(x*10000) / 10000
}
