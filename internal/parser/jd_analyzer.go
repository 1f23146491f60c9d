package parser

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"resume-match-go/internal/logger"
	"resume-match-go/internal/types"

	"github.com/cloudwego/eino/components/model"
	einoschema "github.com/cloudwego/eino/schema"
)

const jdExtractionPromptTemplate = `从下面的岗位描述中提取一个JSON对象，包含以下键:
- required_skills: 必备技能短语列表
- preferred_skills: 加分技能短语列表
- responsibilities: 职责的简短描述列表
- seniority: junior、mid、senior 三者之一
只返回JSON，不要返回其他内容。

岗位描述:
---
%s
---
`

var (
	jdTokenRe          = regexp.MustCompile(`\b[A-Za-z+#.\-]{2,}\b`)
	responsibilityRe   = regexp.MustCompile(`(?i)\b(responsibilit|responsible|must have|should|experience|responsibilities)\b`)
	senioritySeniorRe  = regexp.MustCompile(`(?i)\b(senior|lead|principal)\b`)
	seniorityJuniorRe  = regexp.MustCompile(`(?i)\b(junior|entry)\b`)
	jdHeuristicStopSet = map[string]struct{}{
		"and": {}, "or": {}, "the": {}, "to": {}, "with": {}, "of": {}, "in": {}, "for": {}, "on": {},
	}
)

// LLMJDAnalyzer 从岗位描述中提取结构化要求。
// 优先走LLM抽取，模型不可用或输出无法解析时退回确定性启发式。
type LLMJDAnalyzer struct {
	llmModel model.ToolCallingChatModel
}

// NewLLMJDAnalyzer 创建JD分析器。llmModel 为 nil 时只使用启发式
func NewLLMJDAnalyzer(llmModel model.ToolCallingChatModel) *LLMJDAnalyzer {
	return &LLMJDAnalyzer{llmModel: llmModel}
}

// llmJDResponse LLM抽取结果的JSON结构
type llmJDResponse struct {
	RequiredSkills   []string `json:"required_skills"`
	PreferredSkills  []string `json:"preferred_skills"`
	Responsibilities []string `json:"responsibilities"`
	Seniority        string   `json:"seniority"`
}

// Analyze 提取岗位要求。LLM失败只会降级到启发式，本实现不返回错误
func (a *LLMJDAnalyzer) Analyze(ctx context.Context, jdText string) (types.JDRequirements, error) {
	if a.llmModel != nil {
		if req, err := a.extractWithLLM(ctx, jdText); err == nil {
			return req, nil
		} else {
			logger.Warn().Err(err).Msg("LLM提取岗位要求失败，退回启发式")
		}
	}
	return HeuristicExtract(jdText), nil
}

// extractWithLLM 调用LLM提取结构化要求
func (a *LLMJDAnalyzer) extractWithLLM(ctx context.Context, jdText string) (types.JDRequirements, error) {
	systemMsg := einoschema.SystemMessage("你是一位资深的招聘信息分析助手，擅长从岗位描述中提取结构化要求。")
	userMsg := einoschema.UserMessage(fmt.Sprintf(jdExtractionPromptTemplate, jdText))

	response, err := a.llmModel.Generate(ctx, []*einoschema.Message{systemMsg, userMsg})
	if err != nil {
		return types.JDRequirements{}, fmt.Errorf("LLM调用失败: %w", err)
	}
	if response == nil || response.Content == "" {
		return types.JDRequirements{}, fmt.Errorf("LLM返回空响应")
	}

	processedContent := strings.TrimPrefix(response.Content, "\uFEFF")
	jsonStr := extractJSONBlock(processedContent)
	if jsonStr == "" {
		return types.JDRequirements{}, fmt.Errorf("响应中未找到JSON")
	}
	if !utf8.ValidString(jsonStr) {
		jsonStr = strings.ToValidUTF8(jsonStr, "")
	}

	var parsed llmJDResponse
	// ① 正常解析
	if err := json.Unmarshal([]byte(jsonStr), &parsed); err != nil {
		// ② 解析失败 -> 自动修复再试一次
		fixed := sanitizeJSON(jsonStr)
		if jsonErr := json.Unmarshal([]byte(fixed), &parsed); jsonErr != nil {
			return types.JDRequirements{}, fmt.Errorf("JSON解析失败: %w (修复后: %v)", err, jsonErr)
		}
	}

	seniority := types.SeniorityLevel(strings.ToLower(strings.TrimSpace(parsed.Seniority)))
	switch seniority {
	case types.SeniorityJunior, types.SeniorityMid, types.SenioritySenior:
	default:
		seniority = types.SeniorityMid
	}

	return types.JDRequirements{
		RequiredSkills:   parsed.RequiredSkills,
		PreferredSkills:  parsed.PreferredSkills,
		Responsibilities: parsed.Responsibilities,
		Seniority:        seniority,
	}, nil
}

// HeuristicExtract 确定性的启发式岗位要求提取。
// token扫描 + 停用词过滤得到技能候选，关键词行作为职责，资历按关键词判级。
func HeuristicExtract(jdText string) types.JDRequirements {
	seen := make(map[string]struct{})
	var skills []string
	for _, tok := range jdTokenRe.FindAllString(jdText, -1) {
		low := strings.ToLower(tok)
		if _, stop := jdHeuristicStopSet[low]; stop || len(tok) <= 2 {
			continue
		}
		if _, ok := seen[low]; ok {
			continue
		}
		seen[low] = struct{}{}
		skills = append(skills, tok)
	}
	if len(skills) > maxSkillListLen {
		skills = skills[:maxSkillListLen]
	}

	var responsibilities []string
	for _, ln := range strings.Split(jdText, "\n") {
		if ln = strings.TrimSpace(ln); ln != "" && responsibilityRe.MatchString(ln) {
			responsibilities = append(responsibilities, ln)
		}
	}

	seniority := types.SeniorityMid
	if senioritySeniorRe.MatchString(jdText) {
		seniority = types.SenioritySenior
	} else if seniorityJuniorRe.MatchString(jdText) {
		seniority = types.SeniorityJunior
	}

	return types.JDRequirements{
		RequiredSkills:   skills,
		Responsibilities: responsibilities,
		Seniority:        seniority,
	}
}
