package embedding

import (
	"context"

	"github.com/cloudwego/eino/components/embedding"
)

const (
	// hashDimensions 哈希向量的固定维度
	hashDimensions = 384
	// hashMaxChars 参与哈希的最大字符数，超出部分截断
	hashMaxChars = 200
)

// HashEmbedder 确定性哈希向量桩。
// 不依赖任何外部服务，同一文本永远产生同一向量。
// 向量质量远低于真实模型，仅保证离线环境下流水线可以完整跑通。
type HashEmbedder struct{}

// NewHashEmbedder 创建确定性哈希Embedder
func NewHashEmbedder() *HashEmbedder {
	return &HashEmbedder{}
}

// GetDimensions 返回固定的向量维度
func (h *HashEmbedder) GetDimensions() int {
	return hashDimensions
}

// ModelVersion 返回固定的版本标识
func (h *HashEmbedder) ModelVersion() string {
	return "hash-v1"
}

// EmbedStrings 将文本映射为字符码累加的哈希向量
func (h *HashEmbedder) EmbedStrings(ctx context.Context, texts []string, opts ...embedding.Option) ([][]float64, error) {
	out := make([][]float64, len(texts))
	for i, text := range texts {
		out[i] = hashVector(text)
	}
	return out, nil
}

// hashVector 按字符位置取模累加，只看前 hashMaxChars 个字符
func hashVector(text string) []float64 {
	vec := make([]float64, hashDimensions)
	runes := []rune(text)
	if len(runes) > hashMaxChars {
		runes = runes[:hashMaxChars]
	}
	for i, r := range runes {
		vec[i%hashDimensions] += float64(int(r) % 97)
	}
	return vec
}
