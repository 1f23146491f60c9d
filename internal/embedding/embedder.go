package embedding

import (
	"context"

	"github.com/cloudwego/eino/components/embedding"
)

// Variant 标识Embedding后端的能力等级，构造时确定，运行中不再改变
type Variant string

const (
	// VariantPrimary 托管的OpenAI兼容端点
	VariantPrimary Variant = "primary"
	// VariantLocalFallback 本地部署的OpenAI兼容端点（主后端不可用时的降级目标）
	VariantLocalFallback Variant = "local_fallback"
	// VariantDeterministicStub 确定性哈希向量桩（离线/测试环境）
	VariantDeterministicStub Variant = "deterministic_stub"
)

// TextEmbedder 文本向量化接口，兼容 cloudwego/eino embedding.Embedder
type TextEmbedder interface {
	// EmbedStrings 将一批文本转换为向量，返回顺序与输入一一对应
	EmbedStrings(ctx context.Context, texts []string, opts ...embedding.Option) ([][]float64, error)
	// GetDimensions 返回向量维度
	GetDimensions() int
}
