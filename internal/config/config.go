package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config 应用程序配置
type Config struct {
	Aliyun struct {
		APIKey     string            `yaml:"api_key"`
		APIURL     string            `yaml:"api_url"`
		Model      string            `yaml:"model"`
		TaskModels map[string]string `yaml:"task_models"` // 任务专用模型
		Embedding  EmbeddingConfig   `yaml:"embedding"`   // Embedding专用配置
	} `yaml:"aliyun"`

	// 本地Embedding服务配置（OpenAI兼容协议，主后端不可用时的降级目标）
	LocalEmbedding EmbeddingConfig `yaml:"local_embedding"`

	// Redis向量缓存配置
	Redis RedisConfig `yaml:"redis"`

	// MySQL结果存储配置
	MySQL MySQLConfig `yaml:"mysql"`

	// 结果存储配置
	Storage StorageConfig `yaml:"storage"`

	// 匹配与评分配置
	Matcher MatcherConfig `yaml:"matcher"`

	// 日志配置
	Logger LoggerConfig `yaml:"logger"`
}

// EmbeddingConfig Embedding后端配置（OpenAI兼容endpoint）
type EmbeddingConfig struct {
	Model      string `yaml:"model"`
	Dimensions int    `yaml:"dimensions"`
	BaseURL    string `yaml:"base_url"`
}

// RedisConfig Redis向量缓存配置。Address为空时禁用Redis缓存
type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	// 连接池设置
	PoolSize     int `yaml:"pool_size"`      // 连接池大小
	MinIdleConns int `yaml:"min_idle_conns"` // 最小空闲连接数
	// 缓存过期时间(天)
	VectorExpireDays int `yaml:"vector_expire_days"`
}

// MySQLConfig MySQL配置结构
type MySQLConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	// 连接池设置
	MaxIdleConns int `yaml:"max_idle_conns"` // 最大空闲连接数
	MaxOpenConns int `yaml:"max_open_conns"` // 最大打开连接数
}

// DSN 构建MySQL连接串
func (m MySQLConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		m.Username, m.Password, m.Host, m.Port, m.Database)
}

// StorageConfig 分析记录的持久化配置
type StorageConfig struct {
	// Driver 结果存储驱动: "file"（默认）或 "mysql"
	Driver string `yaml:"driver"`
	// ResultsDir 文件驱动的结果目录
	ResultsDir string `yaml:"results_dir"`
}

// MatcherConfig 匹配与评分相关的可调参数
type MatcherConfig struct {
	// SemanticThreshold 技能比对第二轮（语义）接受的余弦相似度阈值
	SemanticThreshold float64 `yaml:"semantic_threshold"`
	// LLMConcurrency 共享并发闸门容量，限制同时进行的模型后端调用数
	LLMConcurrency int `yaml:"llm_concurrency"`
	// Weights 分数融合权重，缺省时使用内置默认值
	Weights map[string]float64 `yaml:"weights"`
}

// LoggerConfig 日志配置
type LoggerConfig struct {
	Level        string `yaml:"level"`         // debug, info, warn, error
	Format       string `yaml:"format"`        // json, pretty
	TimeFormat   string `yaml:"time_format"`   // 时间格式
	ReportCaller bool   `yaml:"report_caller"` // 是否报告调用位置
}

// GetModelForTask 根据任务名获取专用模型，未配置时回退到默认模型
func (c *Config) GetModelForTask(task string) string {
	if c.Aliyun.TaskModels != nil {
		if m, ok := c.Aliyun.TaskModels[task]; ok && m != "" {
			return m
		}
	}
	return c.Aliyun.Model
}

// LoadConfig 从文件加载配置
func LoadConfig(configPath string) (*Config, error) {
	// 如果未指定配置文件路径，则尝试在默认位置查找
	if configPath == "" {
		searchPaths := []string{
			"config.yaml",
			"./config.yaml",
			"../config.yaml",
			filepath.Join(os.Getenv("HOME"), ".resume-match", "config.yaml"),
		}
		for _, path := range searchPaths {
			if _, err := os.Stat(path); err == nil {
				configPath = path
				break
			}
		}
		// 仍未找到则直接使用默认配置
		if configPath == "" {
			cfg := createDefaultConfig()
			applyEnvOverrides(cfg)
			return cfg, nil
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	config := createDefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	applyEnvOverrides(config)
	normalize(config)
	return config, nil
}

// applyEnvOverrides 从环境变量覆盖配置（如果存在）
func applyEnvOverrides(config *Config) {
	if envKey := os.Getenv("ALIYUN_API_KEY"); envKey != "" {
		config.Aliyun.APIKey = envKey
	}
	if envURL := os.Getenv("ALIYUN_API_URL"); envURL != "" {
		config.Aliyun.APIURL = envURL
	}
	if envModel := os.Getenv("ALIYUN_MODEL"); envModel != "" {
		config.Aliyun.Model = envModel
	}
	if envAddr := os.Getenv("REDIS_ADDRESS"); envAddr != "" {
		config.Redis.Address = envAddr
	}
	if envDir := os.Getenv("RESULTS_DIR"); envDir != "" {
		config.Storage.ResultsDir = envDir
	}
}

// normalize 修正不合法的配置值
func normalize(config *Config) {
	if config.Matcher.LLMConcurrency <= 0 {
		config.Matcher.LLMConcurrency = 2
	}
	if config.Matcher.SemanticThreshold <= 0 || config.Matcher.SemanticThreshold > 1 {
		config.Matcher.SemanticThreshold = 0.75
	}
	if config.Storage.Driver == "" {
		config.Storage.Driver = "file"
	}
	config.Storage.Driver = strings.ToLower(config.Storage.Driver)
	if config.Storage.ResultsDir == "" {
		config.Storage.ResultsDir = filepath.Join("data", "results")
	}
}

// createDefaultConfig 创建带默认值的配置
func createDefaultConfig() *Config {
	cfg := &Config{}
	cfg.Aliyun.APIURL = "https://dashscope.aliyuncs.com/compatible-mode/v1/chat/completions"
	cfg.Aliyun.Model = "qwen-plus"
	cfg.Aliyun.Embedding = EmbeddingConfig{
		Model:      "text-embedding-v3",
		Dimensions: 1024,
		BaseURL:    "https://dashscope.aliyuncs.com/compatible-mode/v1/embeddings",
	}
	cfg.LocalEmbedding = EmbeddingConfig{
		Dimensions: 384,
	}
	cfg.Redis.VectorExpireDays = 7
	cfg.Storage.Driver = "file"
	cfg.Storage.ResultsDir = filepath.Join("data", "results")
	cfg.Matcher.SemanticThreshold = 0.75
	cfg.Matcher.LLMConcurrency = 2
	cfg.Logger = LoggerConfig{
		Level:  "info",
		Format: "json",
	}
	return cfg
}
