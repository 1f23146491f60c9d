package parser

import (
	"regexp"
	"sort"
	"strings"

	"resume-match-go/internal/types"
)

const (
	// maxSkillListLen 每类技能列表的上限
	maxSkillListLen = 120
	// maxExperienceLines 保留的经历行上限
	maxExperienceLines = 20
	// maxEducationLines 保留的教育行上限
	maxEducationLines = 10
	// minSkillsBeforeFallback 标签提取不足该数量时启用词频兜底
	minSkillsBeforeFallback = 8
	// fallbackTopTerms 词频兜底取的候选数
	fallbackTopTerms = 80
)

// 技能列表的行内标签
var skillLabels = []string{
	"skills", "technical skills", "technologies", "tools",
	"proficient in", "skills & technologies", "tech stack",
}

// 词频兜底时排除的常见词
var skillStopWords = map[string]struct{}{
	"and": {}, "or": {}, "the": {}, "a": {}, "an": {}, "with": {},
	"experience": {}, "years": {}, "year": {}, "candidate": {},
	"worked": {}, "work": {}, "in": {}, "of": {}, "for": {}, "to": {},
	"on": {}, "as": {}, "is": {},
}

// 软技能词表
var knownSoftSkills = map[string]struct{}{
	"communication": {}, "leadership": {}, "teamwork": {}, "collaboration": {},
	"management": {}, "problem solving": {}, "adaptability": {},
	"time management": {}, "presentation": {}, "negotiation": {},
}

var (
	// 保留 + - # . 以识别 c++ / c# / node.js 这类写法
	tokenKeepRe  = regexp.MustCompile(`[^a-z0-9+\-#.\s]`)
	multiSpaceRe = regexp.MustCompile(`\s+`)
	wordTokenRe  = regexp.MustCompile(`[A-Za-z0-9+#.\-]+`)
	listSplitRe  = regexp.MustCompile(`[;,|/•·]`)
	expLineRe    = regexp.MustCompile(`\b(years?|yrs?|\d{4})\b`)
	eduLineRe    = regexp.MustCompile(`\b(bachelor|master|b\.sc|m\.sc|phd|degree|university|college)\b`)
	toolLikeRe   = regexp.MustCompile(`^(c#|c\+\+|python|java(script)?|node|nodejs|react|angular|tensorflow|pytorch|sql|postgres|mysql|excel|docker|kubernetes|aws|azure|gcp|matlab|r|scala|bash|powershell|keras|spark|hadoop|git)$`)
)

// SkillExtraction 技能提取的完整输出
type SkillExtraction struct {
	Skills          types.SkillSet
	ExperienceLines []string
	EducationLines  []string
}

// NormalizeSkillToken 技能token归一化：小写、去除无关符号、折叠空白
func NormalizeSkillToken(tok string) string {
	t := strings.ToLower(strings.TrimSpace(tok))
	t = tokenKeepRe.ReplaceAllString(t, "")
	t = multiSpaceRe.ReplaceAllString(t, " ")
	return strings.TrimSpace(t)
}

// ExtractSkills 从自由文本中启发式提取技能、经历行和教育行。
// 提取顺序决定输出顺序，同一输入永远得到同一结果。
func ExtractSkills(text string) SkillExtraction {
	var rawSkills []string

	// 1) 行内标签列表，例如 "Skills: Python, SQL, TensorFlow"
	for _, item := range extractLabeledLists(text, skillLabels) {
		if n := NormalizeSkillToken(item); n != "" {
			rawSkills = append(rawSkills, n)
		}
	}

	// 2) 经历行和教育行
	var expLines, eduLines []string
	for _, ln := range strings.Split(text, "\n") {
		ln = strings.TrimSpace(ln)
		if ln == "" {
			continue
		}
		low := strings.ToLower(ln)
		if expLineRe.MatchString(low) && len(ln) > 20 {
			expLines = append(expLines, ln)
		}
		if eduLineRe.MatchString(low) {
			eduLines = append(eduLines, ln)
		}
	}
	if len(expLines) > maxExperienceLines {
		expLines = expLines[:maxExperienceLines]
	}
	if len(eduLines) > maxEducationLines {
		eduLines = eduLines[:maxEducationLines]
	}

	// 3) 标签提取太少时用词频兜底
	if len(rawSkills) < minSkillsBeforeFallback {
		for _, t := range topTermsByFrequency(text, fallbackTopTerms) {
			if n := NormalizeSkillToken(t); n != "" {
				rawSkills = append(rawSkills, n)
			}
		}
	}

	// 4) 去重后按启发式拆分成工具和技能
	candidates := dedupeOrdered(rawSkills)
	var tools, skills, soft []string
	toolSet := make(map[string]struct{})
	for _, c := range candidates {
		if toolLikeRe.MatchString(c) {
			tools = append(tools, c)
			toolSet[c] = struct{}{}
		}
	}
	for _, c := range candidates {
		if _, isTool := toolSet[c]; !isTool {
			skills = append(skills, c)
		}
		if _, isSoft := knownSoftSkills[c]; isSoft {
			soft = append(soft, c)
		}
	}

	return SkillExtraction{
		Skills: types.SkillSet{
			Skills:     capList(skills, maxSkillListLen),
			Tools:      capList(tools, maxSkillListLen),
			SoftSkills: capList(dedupeOrdered(soft), maxSkillListLen),
		},
		ExperienceLines: expLines,
		EducationLines:  eduLines,
	}
}

// extractLabeledLists 找出包含标签的行，解析逗号/分号/竖线分隔的值
func extractLabeledLists(text string, labels []string) []string {
	var results []string
	for _, line := range strings.Split(text, "\n") {
		low := strings.ToLower(line)
		for _, label := range labels {
			idx := strings.Index(low, label)
			if idx == -1 {
				continue
			}
			// 取标签后面的部分，容忍 ":" 或 "-" 分隔
			rest := low[idx+len(label):]
			rest = strings.TrimLeft(rest, " \t:-")
			if rest == "" {
				rest = low
			}
			for _, v := range listSplitRe.Split(rest, -1) {
				if v = strings.TrimSpace(v); v != "" {
					results = append(results, v)
				}
			}
		}
	}
	return results
}

// topTermsByFrequency 词频兜底：统计非停用词token的出现次数，取前n个。
// 频次相同时按字典序，保证结果稳定。
func topTermsByFrequency(text string, n int) []string {
	counts := make(map[string]int)
	for _, tok := range wordTokenRe.FindAllString(text, -1) {
		low := strings.ToLower(tok)
		if _, stop := skillStopWords[low]; stop || len(tok) <= 1 {
			continue
		}
		counts[low]++
	}

	terms := make([]string, 0, len(counts))
	for t := range counts {
		terms = append(terms, t)
	}
	sort.Slice(terms, func(i, j int) bool {
		if counts[terms[i]] != counts[terms[j]] {
			return counts[terms[i]] > counts[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if len(terms) > n {
		terms = terms[:n]
	}
	return terms
}

// dedupeOrdered 保序去重
func dedupeOrdered(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	var out []string
	for _, it := range items {
		if it == "" {
			continue
		}
		if _, ok := seen[it]; ok {
			continue
		}
		seen[it] = struct{}{}
		out = append(out, it)
	}
	return out
}

func capList(items []string, max int) []string {
	if len(items) > max {
		return items[:max]
	}
	return items
}
