package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"resume-match-go/internal/logger"
	"resume-match-go/internal/types"
)

// FileResultStore 把分析记录以JSON文件形式落盘。
// 文件名以运行开始时间戳为键，追加写入，已存在的记录不会被覆盖。
type FileResultStore struct {
	dir string
}

// NewFileResultStore 创建文件结果存储
func NewFileResultStore(dir string) *FileResultStore {
	return &FileResultStore{dir: dir}
}

// Save 写入一条分析记录，返回文件路径
func (s *FileResultStore) Save(ctx context.Context, record *types.AnalysisRecord) (string, error) {
	if record == nil {
		return "", fmt.Errorf("分析记录为空")
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("创建结果目录失败: %w", err)
	}

	path := filepath.Join(s.dir, fmt.Sprintf("resumatch_result_%d.json", record.Meta.StartedAt))
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("创建结果文件失败: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(record); err != nil {
		return "", fmt.Errorf("序列化分析记录失败: %w", err)
	}

	logger.Debug().
		Str("run_id", record.Meta.RunID).
		Str("path", path).
		Msg("分析记录已落盘")
	return path, nil
}
