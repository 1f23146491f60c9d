package orchestrator

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"resume-match-go/internal/logger"
	"resume-match-go/internal/parser"
	"resume-match-go/internal/scorer"
	"resume-match-go/internal/types"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const defaultBulkheadCapacity = 2

// Engine 多信号匹配分析的编排引擎。
// 负责阶段间的依赖顺序、并发闸门和降级策略，本身不做任何信号计算。
type Engine struct {
	extractor    ResumeExtractor
	jdAnalyzer   JDAnalyzer
	semantic     SemanticMatcher
	skills       SkillComparator
	optimizer    ResumeOptimizer
	store        ResultStore
	skillExtract SkillExtractFunc
	scoreFn      ScoreFunc

	weights map[string]float64
	// bulkhead 共享并发闸门，限制同时访问模型后端的阶段数
	bulkhead chan struct{}
	tracer   trace.Tracer
}

// NewEngine 创建编排引擎。未通过选项注入的组件保持 nil，
// 对应阶段会被跳过（优化）或产出降级结果（匹配）。
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		skillExtract: parser.ExtractSkills,
		scoreFn:      scorer.Score,
		bulkhead:     make(chan struct{}, defaultBulkheadCapacity),
		tracer:       otel.Tracer("resume-match-go/orchestrator"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run 执行一次完整的简历/JD匹配分析。
// 返回的记录总是完整成形：简历解析失败时 Status 为 error 且 Matcher/ATS 保持零值，
// 其余阶段的失败只会降级对应的子结果。持久化是尽力而为的，失败不影响运行状态。
func (e *Engine) Run(ctx context.Context, resumeSource, jdText, targetRole string) (*types.AnalysisRecord, error) {
	start := time.Now()
	record := &types.AnalysisRecord{
		Meta: types.RunMeta{
			RunID:      uuid.NewString(),
			StartedAt:  start.Unix(),
			TargetRole: targetRole,
		},
	}

	ctx, span := e.tracer.Start(ctx, "orchestrator.Run",
		trace.WithAttributes(attribute.String("run.id", record.Meta.RunID)))
	defer span.End()

	logger.Info().
		Str("run_id", record.Meta.RunID).
		Str("target_role", targetRole).
		Msg("开始分析运行")

	// 阶段一：简历解析与JD分析并行，互不依赖
	var wg sync.WaitGroup
	var resumeErr error
	wg.Add(2)
	go func() {
		defer wg.Done()
		record.Resume, resumeErr = e.parseResume(ctx, record.Meta.RunID, resumeSource)
	}()
	go func() {
		defer wg.Done()
		record.JD = e.analyzeJD(ctx, record.Meta.RunID, jdText)
	}()
	wg.Wait()

	if resumeErr != nil {
		record.Status = types.StatusError
		record.Error = resumeErr.Error()
		e.finish(ctx, record, start)
		span.RecordError(resumeErr)
		return record, resumeErr
	}

	// 阶段二：匹配与优化并行，共享并发闸门
	wg.Add(2)
	go func() {
		defer wg.Done()
		record.Matcher = e.match(ctx, record)
	}()
	go func() {
		defer wg.Done()
		record.OptimizedResume = e.optimize(ctx, record)
	}()
	wg.Wait()

	// 阶段三：信号融合评分，依赖匹配结果
	record.ATS = e.score(ctx, record)

	record.Status = types.StatusSuccess
	e.finish(ctx, record, start)
	return record, nil
}

// parseResume 提取、清洗简历文本并抽取技能。失败是不可恢复的
func (e *Engine) parseResume(ctx context.Context, runID, source string) (types.ParsedResume, error) {
	_, span := e.tracer.Start(ctx, "stage.parse_resume")
	defer span.End()

	raw, sections, err := e.extractor.Extract(source)
	if err != nil {
		span.RecordError(err)
		return types.ParsedResume{}, NewResumeParseError(runID, err.Error())
	}

	extraction := e.skillExtract(raw)
	return types.ParsedResume{
		RawText:         raw,
		CleanText:       e.extractor.Clean(raw),
		Sections:        sections,
		Skills:          extraction.Skills,
		ExperienceLines: extraction.ExperienceLines,
		EducationLines:  extraction.EducationLines,
	}, nil
}

// analyzeJD 分析岗位描述。失败时降级为携带错误描述的空要求
func (e *Engine) analyzeJD(ctx context.Context, runID, jdText string) types.ParsedJD {
	ctx, span := e.tracer.Start(ctx, "stage.analyze_jd")
	defer span.End()

	jd := types.ParsedJD{RawText: jdText}
	req, err := e.jdAnalyzer.Analyze(ctx, jdText)
	if err != nil {
		stageErr := NewJDAnalyzeError(runID, err.Error())
		span.RecordError(stageErr)
		logger.Warn().Err(stageErr).Msg("JD分析降级")
		jd.Error = err.Error()
		return jd
	}
	jd.Requirements = req
	jd.ParsedSkills = e.skillExtract(jdText).Skills
	return jd
}

// match 语义匹配加技能比对。语义匹配失败时降级为携带错误描述的空结果
func (e *Engine) match(ctx context.Context, record *types.AnalysisRecord) types.MatchResult {
	ctx, span := e.tracer.Start(ctx, "stage.match")
	defer span.End()

	e.bulkhead <- struct{}{}
	defer func() { <-e.bulkhead }()

	var result types.MatchResult
	semantic, err := e.semantic.Match(ctx, record.Resume.RawText, record.JD.RawText)
	if err != nil {
		stageErr := NewMatchError(record.Meta.RunID, err.Error())
		span.RecordError(stageErr)
		logger.Warn().Err(stageErr).Msg("语义匹配降级")
		result.Error = err.Error()
		return result
	}
	result.Semantic = semantic
	result.SkillComparator = e.skills.Compare(ctx, record.Resume.AllSkills(), record.JD.ParsedSkills.Skills)
	return result
}

// optimize 生成优化简历。组件缺失或失败时返回 nil，不影响运行状态
func (e *Engine) optimize(ctx context.Context, record *types.AnalysisRecord) *types.OptimizedResume {
	if e.optimizer == nil {
		return nil
	}
	ctx, span := e.tracer.Start(ctx, "stage.optimize")
	defer span.End()

	e.bulkhead <- struct{}{}
	defer func() { <-e.bulkhead }()

	optimized, err := e.optimizer.Optimize(ctx, record.Resume.RawText, record.JD.Requirements)
	if err != nil {
		span.RecordError(err)
		logger.Warn().Err(err).Str("run_id", record.Meta.RunID).Msg("简历优化失败，跳过")
		return nil
	}
	return optimized
}

// score 融合全部信号。关键词列表优先取结构化的必备技能，退回启发式技能。
// 评分阶段的panic被降级为携带错误描述的空结果
func (e *Engine) score(ctx context.Context, record *types.AnalysisRecord) (result types.ScoreResult) {
	_, span := e.tracer.Start(ctx, "stage.score")
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			stageErr := NewScoreError(record.Meta.RunID, fmt.Sprint(r))
			span.RecordError(stageErr)
			logger.Warn().Err(stageErr).Msg("评分阶段降级")
			result = types.ScoreResult{Error: fmt.Sprint(r)}
		}
	}()

	jdKeywords := record.JD.Requirements.RequiredSkills
	if len(jdKeywords) == 0 {
		jdKeywords = record.JD.ParsedSkills.Skills
	}
	return e.scoreFn(
		record.Resume.RawText,
		record.JD.RawText,
		record.Matcher.Semantic.OverallScore,
		record.Matcher.SkillComparator.SkillFitIndex,
		jdKeywords,
		e.weights,
	)
}

// finish 补齐耗时并尽力持久化，任何持久化失败都只记日志
func (e *Engine) finish(ctx context.Context, record *types.AnalysisRecord, start time.Time) {
	record.Meta.ElapsedS = math.Round(time.Since(start).Seconds()*1000) / 1000

	if e.store == nil {
		return
	}
	path, err := e.store.Save(ctx, record)
	if err != nil {
		persistErr := NewPersistError(record.Meta.RunID, err.Error())
		logger.Warn().Err(persistErr).Msg("结果持久化失败")
		return
	}
	record.Meta.ResultPath = path
	logger.Info().
		Str("run_id", record.Meta.RunID).
		Str("result_path", path).
		Float64("elapsed_s", record.Meta.ElapsedS).
		Msg("分析运行结束")
}
