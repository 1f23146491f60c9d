package orchestrator

import (
	"context"

	"resume-match-go/internal/parser"
	"resume-match-go/internal/types"
)

//
// 编排引擎消费的协作组件接口。实现方返回具体结构体，引擎只依赖这里的抽象。
//

// ResumeExtractor 简历文本提取器接口
type ResumeExtractor interface {
	// Extract 从文件路径或原始文本提取简历文本和章节映射
	Extract(source string) (string, map[string]string, error)

	// Clean 对提取的文本做确定性清洗归一化
	Clean(text string) string
}

// JDAnalyzer 岗位描述分析器接口
type JDAnalyzer interface {
	// Analyze 从岗位描述中提取结构化要求
	Analyze(ctx context.Context, jdText string) (types.JDRequirements, error)
}

// SemanticMatcher 块级语义匹配器接口
type SemanticMatcher interface {
	// Match 计算简历与JD的块级语义匹配结果
	Match(ctx context.Context, resumeText, jdText string) (types.SemanticMatch, error)
}

// SkillComparator 技能比对器接口
type SkillComparator interface {
	// Compare 对简历技能和JD技能做两轮（词面+语义）比对
	Compare(ctx context.Context, resumeSkills, jdSkills []string) types.SkillComparison
}

// ResumeOptimizer 简历优化器接口
type ResumeOptimizer interface {
	// Optimize 基于岗位要求生成优化后的简历文本
	Optimize(ctx context.Context, resumeText string, jd types.JDRequirements) (*types.OptimizedResume, error)
}

// ResultStore 分析结果持久化接口
type ResultStore interface {
	// Save 持久化一条分析记录，返回存储位置
	Save(ctx context.Context, record *types.AnalysisRecord) (string, error)
}

// SkillExtractFunc 自由文本技能提取函数，默认为 parser.ExtractSkills
type SkillExtractFunc func(text string) parser.SkillExtraction

// ScoreFunc 信号融合评分函数，默认为 scorer.Score
type ScoreFunc func(resumeText, jdText string, semanticScore, skillFitIndex float64, jdKeywords []string, weights map[string]float64) types.ScoreResult
