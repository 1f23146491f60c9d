package orchestrator

// Option 引擎组件选项，仅在构造时应用
type Option func(*Engine)

// WithResumeExtractor 注入简历提取器
func WithResumeExtractor(extractor ResumeExtractor) Option {
	return func(e *Engine) { e.extractor = extractor }
}

// WithJDAnalyzer 注入岗位描述分析器
func WithJDAnalyzer(analyzer JDAnalyzer) Option {
	return func(e *Engine) { e.jdAnalyzer = analyzer }
}

// WithSemanticMatcher 注入语义匹配器
func WithSemanticMatcher(matcher SemanticMatcher) Option {
	return func(e *Engine) { e.semantic = matcher }
}

// WithSkillComparator 注入技能比对器
func WithSkillComparator(comparator SkillComparator) Option {
	return func(e *Engine) { e.skills = comparator }
}

// WithOptimizer 注入简历优化器，为 nil 时跳过优化阶段
func WithOptimizer(optimizer ResumeOptimizer) Option {
	return func(e *Engine) { e.optimizer = optimizer }
}

// WithResultStore 注入结果存储，为 nil 时跳过持久化
func WithResultStore(store ResultStore) Option {
	return func(e *Engine) { e.store = store }
}

// WithSkillExtract 覆盖技能提取函数
func WithSkillExtract(fn SkillExtractFunc) Option {
	return func(e *Engine) {
		if fn != nil {
			e.skillExtract = fn
		}
	}
}

// WithScoreFunc 覆盖评分函数
func WithScoreFunc(fn ScoreFunc) Option {
	return func(e *Engine) {
		if fn != nil {
			e.scoreFn = fn
		}
	}
}

// WithWeights 覆盖分数融合权重
func WithWeights(weights map[string]float64) Option {
	return func(e *Engine) { e.weights = weights }
}

// WithConcurrency 设置共享并发闸门容量，非正值保持默认
func WithConcurrency(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.bulkhead = make(chan struct{}, n)
		}
	}
}
