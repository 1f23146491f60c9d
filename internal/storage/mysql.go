package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"resume-match-go/internal/config"
	"resume-match-go/internal/types"

	"gorm.io/datatypes"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// AnalysisRow 分析记录表。完整记录以JSON负载存储，关键字段冗余为列便于查询
type AnalysisRow struct {
	ID         uint64         `gorm:"primaryKey;autoIncrement"`
	RunID      string         `gorm:"type:char(36);uniqueIndex:idx_analysis_run_id_unique"`
	StartedAt  int64          `gorm:"index:idx_analysis_started_at"`
	TargetRole string         `gorm:"type:varchar(255)"`
	Status     string         `gorm:"type:varchar(16);not null"`
	FinalScore float64        `gorm:"type:double"`
	Payload    datatypes.JSON `gorm:"type:json;not null"`
	CreatedAt  time.Time      `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6)"`
}

func (AnalysisRow) TableName() string {
	return "analysis_records"
}

// MySQLResultStore 把分析记录持久化到MySQL，只追加不更新
type MySQLResultStore struct {
	db *gorm.DB
}

// NewMySQLResultStore 连接MySQL并自动迁移表结构
func NewMySQLResultStore(cfg *config.MySQLConfig) (*MySQLResultStore, error) {
	if cfg == nil {
		return nil, fmt.Errorf("MySQL配置不能为空")
	}

	gormConfig := &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   gormlogger.Default.LogMode(gormlogger.Warn),
		PrepareStmt:                              true,
	}

	db, err := gorm.Open(mysql.Open(cfg.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("连接MySQL失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取底层 sql.DB 失败: %w", err)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	if err := db.AutoMigrate(&AnalysisRow{}); err != nil {
		return nil, fmt.Errorf("迁移分析记录表失败: %w", err)
	}

	return &MySQLResultStore{db: db}, nil
}

// Save 插入一条分析记录，返回行定位符
func (s *MySQLResultStore) Save(ctx context.Context, record *types.AnalysisRecord) (string, error) {
	if record == nil {
		return "", fmt.Errorf("分析记录为空")
	}

	payload, err := json.Marshal(record)
	if err != nil {
		return "", fmt.Errorf("序列化分析记录失败: %w", err)
	}

	row := AnalysisRow{
		RunID:      record.Meta.RunID,
		StartedAt:  record.Meta.StartedAt,
		TargetRole: record.Meta.TargetRole,
		Status:     string(record.Status),
		FinalScore: record.ATS.FinalScore,
		Payload:    datatypes.JSON(payload),
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return "", fmt.Errorf("写入分析记录失败: %w", err)
	}
	return fmt.Sprintf("mysql://%s/%d", row.TableName(), row.ID), nil
}

// Close 关闭底层数据库连接
func (s *MySQLResultStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
