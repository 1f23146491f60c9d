package scorer

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

const jdKeywordTopN = 30

// 精选的动作动词表，衡量简历语言的主动性
var actionVerbs = map[string]struct{}{
	"achieved": {}, "improved": {}, "reduced": {}, "increased": {},
	"developed": {}, "designed": {}, "built": {}, "led": {}, "managed": {},
	"created": {}, "launched": {}, "delivered": {}, "optimized": {},
	"implemented": {}, "engineered": {}, "streamlined": {}, "orchestrated": {},
	"spearheaded": {}, "coordinated": {}, "advised": {},
}

var (
	jdKeywordSplitRe = regexp.MustCompile(`[^\w+#.\-]+`)
	sentenceSplitRe  = regexp.MustCompile(`[.?!\n]+`)
	wordRe           = regexp.MustCompile(`\w+`)
	paragraphSplitRe = regexp.MustCompile(`\n{2,}`)
	bulletLineRe     = regexp.MustCompile(`(?m)^[\-*•]\s+`)
	yearsMentionRe   = regexp.MustCompile(`(\d+)\+?\s*(years|yrs|year)`)
	seniorityWordRe  = regexp.MustCompile(`\b(senior|lead|principal|manager|director)\b`)
	experienceHintRe = regexp.MustCompile(`\b(years?|\d{4})\b`)
)

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// KeywordDensity 计算JD关键词在简历中的覆盖率 (0..1)。
// 关键词按大小写不敏感的字面子串匹配；未提供显式列表时，
// 从JD文本中取出现频次最高的前30个token（长度>1）作为列表。
func KeywordDensity(resumeText, jdText string, jdKeywords []string) float64 {
	if len(jdKeywords) == 0 {
		jdKeywords = deriveJDKeywords(jdText)
	}
	if len(jdKeywords) == 0 {
		return 0
	}

	rt := strings.ToLower(resumeText)
	found := 0
	for _, kw := range jdKeywords {
		kw = strings.TrimSpace(kw)
		if kw != "" && strings.Contains(rt, strings.ToLower(kw)) {
			found++
		}
	}
	return clamp01(float64(found) / float64(len(jdKeywords)))
}

// deriveJDKeywords 按词频取JD中的候选关键词。频次相同按字典序，保证稳定
func deriveJDKeywords(jdText string) []string {
	counts := make(map[string]int)
	for _, t := range jdKeywordSplitRe.Split(jdText, -1) {
		if len(t) > 1 {
			counts[strings.ToLower(t)]++
		}
	}
	tokens := make([]string, 0, len(counts))
	for t := range counts {
		tokens = append(tokens, t)
	}
	sort.Slice(tokens, func(i, j int) bool {
		if counts[tokens[i]] != counts[tokens[j]] {
			return counts[tokens[i]] > counts[tokens[j]]
		}
		return tokens[i] < tokens[j]
	})
	if len(tokens) > jdKeywordTopN {
		tokens = tokens[:jdKeywordTopN]
	}
	return tokens
}

// ActionVerbRatio 含动作动词的句子占比 (0..1)。
// 句子按 .?! 和换行切分，空白片段不计入分母。
func ActionVerbRatio(resumeText string) float64 {
	var sentences []string
	for _, s := range sentenceSplitRe.Split(resumeText, -1) {
		if strings.TrimSpace(s) != "" {
			sentences = append(sentences, s)
		}
	}
	if len(sentences) == 0 {
		return 0
	}

	hit := 0
	for _, s := range sentences {
		for _, w := range strings.Fields(s) {
			w = strings.ToLower(strings.Trim(w, ".,;:()"))
			if _, ok := actionVerbs[w]; ok {
				hit++
				break
			}
		}
	}
	return clamp01(float64(hit) / float64(len(sentences)))
}

// ExperienceRelevance 年限/资历相关性启发式 (0..1)。
// JD声明了年限要求时按达标程度打分；双方都没写年限时退回资历关键词判断。
func ExperienceRelevance(resumeText, jdText string) float64 {
	resumeLower := strings.ToLower(resumeText)
	jdLower := strings.ToLower(jdText)

	reqYears := extractYears(jdLower)
	resYears := extractYears(resumeLower)

	var score float64
	switch {
	case reqYears > 0 && resYears > 0:
		if resYears >= reqYears {
			score = 1.0
		} else {
			score = clamp01(0.5 + 0.5*float64(resYears)/float64(reqYears))
		}
	case reqYears > 0:
		// 简历没写年限，看资历关键词
		if seniorityWordRe.MatchString(resumeLower) {
			score = 0.9
		} else {
			score = 0.5
		}
	default:
		if seniorityWordRe.MatchString(jdLower) {
			if seniorityWordRe.MatchString(resumeLower) {
				score = 0.8
			} else {
				score = 0.4
			}
		} else if experienceHintRe.MatchString(resumeLower) {
			score = 0.75
		} else {
			score = 0.45
		}
	}
	return clamp01(score)
}

// extractYears 解析 "N years" 式的年限声明，未找到时返回0
func extractYears(s string) int {
	m := yearsMentionRe.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}

// FormattingPenalty 结构质量罚分 (0..1)，1为最差。
// 由三部分叠加：极短的简历、过长的未分段文本块、过少的列表符号。
func FormattingPenalty(resumeText string) float64 {
	text := strings.TrimSpace(resumeText)
	if text == "" {
		return 1.0
	}

	var basePen float64
	words := wordRe.FindAllString(text, -1)
	switch {
	case len(words) < 120:
		basePen = 0.7
	case len(words) < 250:
		basePen = 0.3
	}

	var longParaPen float64
	var paragraphs []string
	for _, p := range paragraphSplitRe.Split(text, -1) {
		if strings.TrimSpace(p) != "" {
			paragraphs = append(paragraphs, p)
		}
	}
	if len(paragraphs) > 0 {
		total := 0
		for _, p := range paragraphs {
			total += len(p)
		}
		avgLen := float64(total) / float64(len(paragraphs))
		if avgLen > 1000 {
			longParaPen = 0.4
		} else if avgLen > 400 {
			longParaPen = 0.2
		}
	}

	var bulletPen float64
	if len(bulletLineRe.FindAllString(text, -1)) < 3 {
		bulletPen = 0.2
	}

	return clamp01(basePen + longParaPen + bulletPen)
}
