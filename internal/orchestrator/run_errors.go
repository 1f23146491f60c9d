package orchestrator

import (
	"errors"
	"fmt"
)

// 预定义的阶段错误，用于 errors.Is 判断
var (
	// ErrResumeParseFailed 简历解析失败（不可恢复，整次运行标记为error）
	ErrResumeParseFailed = errors.New("简历解析失败")
	// ErrJDAnalyzeFailed 岗位描述分析失败（可降级）
	ErrJDAnalyzeFailed = errors.New("岗位描述分析失败")
	// ErrMatchFailed 匹配阶段失败（可降级）
	ErrMatchFailed = errors.New("匹配阶段失败")
	// ErrScoreFailed 评分阶段失败（可降级）
	ErrScoreFailed = errors.New("评分阶段失败")
	// ErrPersistFailed 结果持久化失败（仅记录，不影响运行状态）
	ErrPersistFailed = errors.New("结果持久化失败")
)

// RunError 带运行上下文的阶段错误
type RunError struct {
	RunID   string // 运行唯一标识
	Op      string // 失败的阶段名
	BaseErr error  // 基础错误类型
	Detail  string // 详细错误信息
}

// Error 实现 error 接口
func (e *RunError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("运行 %s 在 %s 阶段出错: %v (%s)", e.RunID, e.Op, e.BaseErr, e.Detail)
	}
	return fmt.Sprintf("运行 %s 在 %s 阶段出错: %v", e.RunID, e.Op, e.BaseErr)
}

// Unwrap 支持 errors.Is/As 链式判断
func (e *RunError) Unwrap() error {
	return e.BaseErr
}

// Is 支持与预定义错误直接比较
func (e *RunError) Is(target error) bool {
	return errors.Is(e.BaseErr, target)
}

// NewResumeParseError 创建简历解析错误
func NewResumeParseError(runID, detail string) error {
	return &RunError{RunID: runID, Op: "parse_resume", BaseErr: ErrResumeParseFailed, Detail: detail}
}

// NewJDAnalyzeError 创建岗位描述分析错误
func NewJDAnalyzeError(runID, detail string) error {
	return &RunError{RunID: runID, Op: "analyze_jd", BaseErr: ErrJDAnalyzeFailed, Detail: detail}
}

// NewMatchError 创建匹配阶段错误
func NewMatchError(runID, detail string) error {
	return &RunError{RunID: runID, Op: "match", BaseErr: ErrMatchFailed, Detail: detail}
}

// NewScoreError 创建评分阶段错误
func NewScoreError(runID, detail string) error {
	return &RunError{RunID: runID, Op: "score", BaseErr: ErrScoreFailed, Detail: detail}
}

// NewPersistError 创建持久化错误
func NewPersistError(runID, detail string) error {
	return &RunError{RunID: runID, Op: "persist", BaseErr: ErrPersistFailed, Detail: detail}
}
