package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoadConfigFromYAML 验证YAML配置文件能否被正确加载
func TestLoadConfigFromYAML(t *testing.T) {
	yamlContent := `
aliyun:
  api_key: "test-key"
  model: "qwen-max"
  task_models:
    jd_analyzer: "qwen-plus"
    optimizer: "qwen-max-longcontext"
  embedding:
    model: "text-embedding-v3"
    dimensions: 1024
matcher:
  semantic_threshold: 0.8
  llm_concurrency: 3
storage:
  driver: "MySQL"
  results_dir: "/tmp/results"
`
	tmpDir, err := os.MkdirTemp("", "config-test")
	require.NoError(t, err, "无法创建临时目录")
	defer os.RemoveAll(tmpDir)

	configPath := filepath.Join(tmpDir, "config.yaml")
	err = os.WriteFile(configPath, []byte(yamlContent), 0644)
	require.NoError(t, err, "无法写入临时配置文件")

	config, err := LoadConfig(configPath)
	require.NoError(t, err, "加载合法配置不应返回错误")
	require.NotNil(t, config, "配置对象不应为 nil")

	assert.Equal(t, "test-key", config.Aliyun.APIKey)
	assert.Equal(t, "qwen-max", config.Aliyun.Model)
	assert.Equal(t, 1024, config.Aliyun.Embedding.Dimensions)
	assert.Equal(t, 0.8, config.Matcher.SemanticThreshold)
	assert.Equal(t, 3, config.Matcher.LLMConcurrency)
	// 驱动名应被归一化为小写
	assert.Equal(t, "mysql", config.Storage.Driver)
	assert.Equal(t, "/tmp/results", config.Storage.ResultsDir)
}

// TestGetModelForTask 验证任务专用模型的查找与回退逻辑
func TestGetModelForTask(t *testing.T) {
	cfg := createDefaultConfig()
	cfg.Aliyun.Model = "qwen-plus"
	cfg.Aliyun.TaskModels = map[string]string{
		"jd_analyzer": "qwen-max",
		"optimizer":   "",
	}

	assert.Equal(t, "qwen-max", cfg.GetModelForTask("jd_analyzer"), "已配置的任务应使用专用模型")
	assert.Equal(t, "qwen-plus", cfg.GetModelForTask("optimizer"), "空模型名应回退到默认模型")
	assert.Equal(t, "qwen-plus", cfg.GetModelForTask("unknown"), "未知任务应回退到默认模型")
}

// TestLoadConfigDefaults 验证缺省字段会填充默认值
func TestLoadConfigDefaults(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "config-test-defaults")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	configPath := filepath.Join(tmpDir, "config.yaml")
	err = os.WriteFile(configPath, []byte("aliyun:\n  api_key: \"k\"\n"), 0644)
	require.NoError(t, err)

	config, err := LoadConfig(configPath)
	require.NoError(t, err)

	assert.Equal(t, 2, config.Matcher.LLMConcurrency, "并发闸门容量默认为2")
	assert.Equal(t, 0.75, config.Matcher.SemanticThreshold, "语义阈值默认为0.75")
	assert.Equal(t, "file", config.Storage.Driver, "默认使用文件存储驱动")
	assert.NotEmpty(t, config.Storage.ResultsDir)
	assert.Equal(t, "qwen-plus", config.Aliyun.Model)
}

// TestEnvOverrides 验证环境变量优先于配置文件
func TestEnvOverrides(t *testing.T) {
	t.Setenv("ALIYUN_API_KEY", "env-key")
	t.Setenv("RESULTS_DIR", "/tmp/env-results")

	tmpDir, err := os.MkdirTemp("", "config-test-env")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	configPath := filepath.Join(tmpDir, "config.yaml")
	err = os.WriteFile(configPath, []byte("aliyun:\n  api_key: \"file-key\"\n"), 0644)
	require.NoError(t, err)

	config, err := LoadConfig(configPath)
	require.NoError(t, err)

	assert.Equal(t, "env-key", config.Aliyun.APIKey, "环境变量应覆盖文件中的API Key")
	assert.Equal(t, "/tmp/env-results", config.Storage.ResultsDir)
}
