package parser

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"resume-match-go/internal/types"

	"github.com/cloudwego/eino/components/model"
	einoschema "github.com/cloudwego/eino/schema"
)

const (
	// optimizerFallbackMaxChars 非JSON响应兜底时保留的最大字符数
	optimizerFallbackMaxChars = 4000
)

const optimizerPromptTemplate = `你是一位严谨的简历优化助手。
给定候选人简历和岗位要求，请产出:
1) 一份精炼的优化后简历文本（不得虚构）
2) 3-6个建议补充的优先关键词
3) 一段简短的修改说明

以JSON返回，键为: optimized_resume, suggested_keywords, changelog。

简历:
---
%s

岗位要求:
---
%s

约束:
- 不得虚构经历或日期。
- 把要点改写为成果/动作导向的表述。
- 保持简历总长度相近，不要写成长文。

只返回JSON。
`

// LLMResumeOptimizer 用LLM把简历向岗位要求调优。
// 优化是增强项而不是评分依赖，调用方可以容忍失败。
type LLMResumeOptimizer struct {
	llmModel model.ToolCallingChatModel
}

// NewLLMResumeOptimizer 创建简历优化器
func NewLLMResumeOptimizer(llmModel model.ToolCallingChatModel) *LLMResumeOptimizer {
	return &LLMResumeOptimizer{llmModel: llmModel}
}

// Optimize 生成面向岗位的优化简历。
// LLM返回的非JSON文本会被截断后兜底返回，模型调用失败才返回错误。
func (o *LLMResumeOptimizer) Optimize(ctx context.Context, resumeText string, jd types.JDRequirements) (*types.OptimizedResume, error) {
	if o.llmModel == nil {
		return nil, fmt.Errorf("优化器未配置LLM后端")
	}

	jdJSON, err := json.Marshal(jd)
	if err != nil {
		return nil, fmt.Errorf("序列化岗位要求失败: %w", err)
	}

	systemMsg := einoschema.SystemMessage("你是一位严谨的简历优化助手，只做措辞与结构优化，从不虚构内容。")
	userMsg := einoschema.UserMessage(fmt.Sprintf(optimizerPromptTemplate, resumeText, string(jdJSON)))

	response, err := o.llmModel.Generate(ctx, []*einoschema.Message{systemMsg, userMsg})
	if err != nil {
		return nil, fmt.Errorf("LLM调用失败: %w", err)
	}
	if response == nil || response.Content == "" {
		return nil, fmt.Errorf("LLM返回空响应")
	}

	content := strings.TrimPrefix(response.Content, "\uFEFF")
	jsonStr := extractJSONBlock(content)
	if jsonStr == "" {
		// 没有JSON块，截断原始输出兜底
		return &types.OptimizedResume{
			OptimizedResume:   truncateRunes(content, optimizerFallbackMaxChars),
			SuggestedKeywords: []string{},
			Changelog:         "LLM未返回JSON，已截断原始输出。",
		}, nil
	}
	if !utf8.ValidString(jsonStr) {
		jsonStr = strings.ToValidUTF8(jsonStr, "")
	}

	var result types.OptimizedResume
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		fixed := sanitizeJSON(jsonStr)
		if jsonErr := json.Unmarshal([]byte(fixed), &result); jsonErr != nil {
			return &types.OptimizedResume{
				OptimizedResume:   truncateRunes(content, optimizerFallbackMaxChars),
				SuggestedKeywords: []string{},
				Changelog:         "LLM返回的JSON无法解析，已截断原始输出。",
			}, nil
		}
	}
	if result.SuggestedKeywords == nil {
		result.SuggestedKeywords = []string{}
	}
	return &result, nil
}

// truncateRunes 按字符数截断，避免截出半个多字节字符
func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) > max {
		return string(runes[:max])
	}
	return s
}
