package types

// SeniorityLevel 表示岗位或候选人的资历级别
type SeniorityLevel string

const (
	// SeniorityJunior 初级
	SeniorityJunior SeniorityLevel = "junior"
	// SeniorityMid 中级
	SeniorityMid SeniorityLevel = "mid"
	// SenioritySenior 高级
	SenioritySenior SeniorityLevel = "senior"
)

// RunStatus 表示一次分析运行的整体状态
type RunStatus string

const (
	// StatusSuccess 运行成功（允许包含局部降级的子结果）
	StatusSuccess RunStatus = "success"
	// StatusError 运行失败（不可恢复的输入/解析错误）
	StatusError RunStatus = "error"
)

// SkillSet 从自由文本中启发式提取出的技能集合
type SkillSet struct {
	Skills     []string `json:"skills"`      // 技术技能（已归一化、大小写不敏感去重）
	Tools      []string `json:"tools"`       // 工具/平台类技能
	SoftSkills []string `json:"soft_skills"` // 软技能
}

// ParsedResume 解析后的简历数据，一旦生成即不再修改
type ParsedResume struct {
	RawText         string            `json:"raw_text"`         // 原始提取文本
	CleanText       string            `json:"clean_text"`       // 清洗归一化后的文本
	Sections        map[string]string `json:"sections"`         // 章节标题 -> 章节内容
	Skills          SkillSet          `json:"skills"`           // 提取出的技能集合
	ExperienceLines []string          `json:"experience_lines"` // 关键经历行
	EducationLines  []string          `json:"education_lines"`  // 教育经历行
}

// AllSkills 合并技术技能和工具技能并去重，用于下游技能比对
func (p *ParsedResume) AllSkills() []string {
	seen := make(map[string]struct{}, len(p.Skills.Skills)+len(p.Skills.Tools))
	var out []string
	for _, group := range [][]string{p.Skills.Skills, p.Skills.Tools} {
		for _, s := range group {
			if _, ok := seen[s]; ok {
				continue
			}
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	return out
}

// JDRequirements 从岗位描述中提取的结构化要求
type JDRequirements struct {
	RequiredSkills   []string       `json:"required_skills"`  // 必备技能
	PreferredSkills  []string       `json:"preferred_skills"` // 加分技能
	Responsibilities []string       `json:"responsibilities"` // 职责描述
	Seniority        SeniorityLevel `json:"seniority"`        // 资历级别
}

// ParsedJD 解析后的岗位描述数据，一旦生成即不再修改
type ParsedJD struct {
	Requirements JDRequirements `json:"requirements"`    // 结构化要求
	ParsedSkills SkillSet       `json:"parsed_skills"`   // 启发式提取的技能
	RawText      string         `json:"raw_text"`        // 原始JD文本
	Error        string         `json:"error,omitempty"` // 阶段性失败时的错误描述（降级结果）
}

// ParagraphScore 单个简历段落的语义匹配结果
type ParagraphScore struct {
	Paragraph         string  `json:"paragraph"`           // 简历段落文本
	Score             float64 `json:"score"`               // 与最佳匹配JD块的余弦相似度 (0..1)
	BestMatchingChunk string  `json:"best_matching_chunk"` // 得分最高的JD块，用于解释匹配来源
}

// SemanticMatch 简历与JD的块级语义匹配结果
type SemanticMatch struct {
	OverallScore    float64          `json:"overall_score"`    // 按词数加权的整体得分 (0..1)
	OverallPct      float64          `json:"overall_pct"`      // 整体得分的百分比表示 (0..100)
	ParagraphScores []ParagraphScore `json:"paragraph_scores"` // 逐段落的匹配明细
}

// MatchedSkill 一对匹配成功的技能
type MatchedSkill struct {
	ResumeSkill string  `json:"resume_skill"` // 简历侧技能
	JDSkill     string  `json:"jd_skill"`     // JD侧技能
	Similarity  float64 `json:"similarity"`   // 匹配相似度 (0..1)
}

// MissingSkill JD要求但简历缺失的技能，附带改进建议
type MissingSkill struct {
	Skill      string `json:"skill"`
	Suggestion string `json:"suggestion"`
}

// SkillComparison 技能比对结果。每个JD技能恰好落在 matched 或 missing 之一
type SkillComparison struct {
	SkillFitIndex     float64        `json:"skill_fit_index"`     // 技能契合指数 (0..1)
	MatchPercentage   float64        `json:"match_percentage"`    // 匹配百分比 (0..100)
	MatchedSkills     []MatchedSkill `json:"matched_skills"`      // 匹配成功的技能对
	MissingSkills     []MissingSkill `json:"missing_skills"`      // JD要求但未匹配的技能
	ExtraResumeSkills []string       `json:"extra_resume_skills"` // 简历中未被JD消费的技能
	Summary           string         `json:"summary"`
}

// MatchResult 匹配阶段的聚合结果
type MatchResult struct {
	Semantic        SemanticMatch   `json:"semantic"`
	SkillComparator SkillComparison `json:"skill_comparator"`
	Error           string          `json:"error,omitempty"` // 阶段性失败时的错误描述（降级结果）
}

// ScoreResult 分数融合引擎的输出
type ScoreResult struct {
	Components     map[string]float64 `json:"components"`     // 各信号的分量得分 (0..100)
	Weights        map[string]float64 `json:"weights"`        // 使用的权重（formatting 为负）
	FinalScore     float64            `json:"final_score"`    // 规范口径最终分 (0..100)，持久化以此为准
	DisplayScore   float64            `json:"display_score"`  // logistic 压缩后的展示分 (0..100)，仅用于前端渲染
	Interpretation string             `json:"interpretation"` // 人类可读的分数解读
	Explanations   []string           `json:"explanations"`   // 各分量贡献的解释
	Suggestions    []string           `json:"suggestions"`    // 按固定顺序触发的改进建议
	Error          string             `json:"error,omitempty"`
}

// OptimizedResume LLM优化简历的输出，可空（优化失败不影响运行）
type OptimizedResume struct {
	OptimizedResume   string   `json:"optimized_resume"`   // 优化后的简历文本
	SuggestedKeywords []string `json:"suggested_keywords"` // 建议补充的关键词
	Changelog         string   `json:"changelog"`          // 修改说明
}

// RunMeta 一次运行的元数据
type RunMeta struct {
	RunID      string  `json:"run_id"`                // 运行唯一标识
	StartedAt  int64   `json:"started_at"`            // 运行开始的Unix时间戳，同时作为持久化键
	ElapsedS   float64 `json:"elapsed_s"`             // 运行耗时（秒）
	TargetRole string  `json:"target_role,omitempty"` // 目标岗位名称
	ResultPath string  `json:"result_path,omitempty"` // 持久化成功后的存储位置
}

// AnalysisRecord 一次完整分析的最终记录。
// 组装完成后只持久化一次，之后不再修改。
// Status 为 error 时 Matcher/ATS 保持零值，不会出现半填充状态。
type AnalysisRecord struct {
	Meta            RunMeta          `json:"meta"`
	Resume          ParsedResume     `json:"resume"`
	JD              ParsedJD         `json:"jd"`
	Matcher         MatchResult      `json:"matcher"`
	OptimizedResume *OptimizedResume `json:"optimized_resume"` // 为空表示优化被跳过或失败
	ATS             ScoreResult      `json:"ats"`
	Status          RunStatus        `json:"status"`
	Error           string           `json:"error,omitempty"`
}
