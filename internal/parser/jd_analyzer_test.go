package parser

import (
	"context"
	"fmt"
	"testing"

	"resume-match-go/internal/types"

	"github.com/cloudwego/eino/components/model"
	einoschema "github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubChatModel 返回固定内容或固定错误的测试模型
type stubChatModel struct {
	content string
	err     error
}

func (s *stubChatModel) Generate(ctx context.Context, messages []*einoschema.Message, options ...model.Option) (*einoschema.Message, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &einoschema.Message{Role: einoschema.RoleType("assistant"), Content: s.content}, nil
}

func (s *stubChatModel) Stream(ctx context.Context, messages []*einoschema.Message, options ...model.Option) (*einoschema.StreamReader[*einoschema.Message], error) {
	return nil, fmt.Errorf("未实现")
}

func (s *stubChatModel) WithTools(tools []*einoschema.ToolInfo) (model.ToolCallingChatModel, error) {
	return s, nil
}

const sampleJD = `Senior Backend Engineer

Responsibilities: design and operate high-traffic services.
Must have 5 years experience with Go and Kubernetes.
`

// TestAnalyzeWithLLM 验证LLM返回合法JSON时的解析
func TestAnalyzeWithLLM(t *testing.T) {
	m := &stubChatModel{content: `分析结果如下:
{"required_skills": ["Go", "Kubernetes"], "preferred_skills": ["AWS"], "responsibilities": ["design services"], "seniority": "senior"}`}
	a := NewLLMJDAnalyzer(m)

	req, err := a.Analyze(context.Background(), sampleJD)
	require.NoError(t, err)
	assert.Equal(t, []string{"Go", "Kubernetes"}, req.RequiredSkills)
	assert.Equal(t, []string{"AWS"}, req.PreferredSkills)
	assert.Equal(t, types.SenioritySenior, req.Seniority)
}

// TestAnalyzeFallsBackOnLLMError 验证模型不可用时退回启发式
func TestAnalyzeFallsBackOnLLMError(t *testing.T) {
	m := &stubChatModel{err: fmt.Errorf("backend unreachable")}
	a := NewLLMJDAnalyzer(m)

	req, err := a.Analyze(context.Background(), sampleJD)
	require.NoError(t, err)
	require.NotEmpty(t, req.RequiredSkills, "启发式应提取到技能候选")
	assert.Equal(t, types.SenioritySenior, req.Seniority)
}

// TestAnalyzeFallsBackOnNonJSON 验证LLM返回非JSON时退回启发式
func TestAnalyzeFallsBackOnNonJSON(t *testing.T) {
	m := &stubChatModel{content: "抱歉，我无法处理这个请求。"}
	a := NewLLMJDAnalyzer(m)

	req, err := a.Analyze(context.Background(), sampleJD)
	require.NoError(t, err)
	require.NotEmpty(t, req.RequiredSkills)
}

// TestAnalyzeWithoutModel 验证未配置模型时直接走启发式
func TestAnalyzeWithoutModel(t *testing.T) {
	a := NewLLMJDAnalyzer(nil)
	req, err := a.Analyze(context.Background(), sampleJD)
	require.NoError(t, err)
	require.NotEmpty(t, req.RequiredSkills)
}

// TestAnalyzeInvalidSeniorityDefaultsToMid 验证非法资历值归为mid
func TestAnalyzeInvalidSeniorityDefaultsToMid(t *testing.T) {
	m := &stubChatModel{content: `{"required_skills": ["Go"], "seniority": "guru"}`}
	a := NewLLMJDAnalyzer(m)

	req, err := a.Analyze(context.Background(), sampleJD)
	require.NoError(t, err)
	assert.Equal(t, types.SeniorityMid, req.Seniority)
}

// TestHeuristicExtract 验证启发式提取的各个输出
func TestHeuristicExtract(t *testing.T) {
	req := HeuristicExtract(sampleJD)

	assert.Contains(t, req.RequiredSkills, "Kubernetes")
	assert.NotContains(t, req.RequiredSkills, "and", "停用词应被过滤")
	require.NotEmpty(t, req.Responsibilities)
	assert.Contains(t, req.Responsibilities[0], "Responsibilities")
	assert.Equal(t, types.SenioritySenior, req.Seniority)
}

// TestHeuristicExtractJunior 验证junior关键词的判级
func TestHeuristicExtractJunior(t *testing.T) {
	req := HeuristicExtract("Entry level position for a junior developer.")
	assert.Equal(t, types.SeniorityJunior, req.Seniority)
}
