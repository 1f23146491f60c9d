package embedding

import (
	"context"
	"fmt"
	"sync"

	"resume-match-go/internal/config"
	"resume-match-go/internal/logger"

	"github.com/cloudwego/eino/components/embedding"
)

// Provider 带缓存的Embedding提供方。
// 后端变体在构造时确定，之后对调用方呈现统一接口。
// 进程内缓存只增不减，同一文本在一次进程生命周期内至多向后端请求一次。
type Provider struct {
	variant Variant
	inner   TextEmbedder
	version string

	mu    sync.RWMutex
	cache map[string][]float64

	// 可选的二级Redis缓存，失败只记日志不影响主流程
	shared *RedisVectorCache
}

// versionedEmbedder 后端可以报告模型版本，用于共享缓存的版本校验
type versionedEmbedder interface {
	ModelVersion() string
}

// NewProvider 用指定后端构造Provider
func NewProvider(variant Variant, inner TextEmbedder) *Provider {
	version := string(variant)
	if v, ok := inner.(versionedEmbedder); ok {
		version = v.ModelVersion()
	}
	return &Provider{
		variant: variant,
		inner:   inner,
		version: version,
		cache:   make(map[string][]float64),
	}
}

// NewProviderFromConfig 根据配置选择后端变体。
// 优先托管端点，其次本地端点，两者都不可用时退化到哈希桩。
func NewProviderFromConfig(cfg *config.Config) (*Provider, error) {
	if cfg.Aliyun.APIKey != "" {
		inner, err := NewAliyunEmbedder(cfg.Aliyun.APIKey, cfg.Aliyun.Embedding)
		if err != nil {
			return nil, fmt.Errorf("创建托管embedding后端失败: %w", err)
		}
		return NewProvider(VariantPrimary, inner), nil
	}

	if cfg.LocalEmbedding.BaseURL != "" {
		// 本地端点不校验密钥，占位即可
		inner, err := NewAliyunEmbedder("local", cfg.LocalEmbedding)
		if err != nil {
			return nil, fmt.Errorf("创建本地embedding后端失败: %w", err)
		}
		logger.Warn().Msg("未配置API密钥，使用本地embedding端点")
		return NewProvider(VariantLocalFallback, inner), nil
	}

	logger.Warn().Msg("未配置embedding后端，使用确定性哈希向量桩")
	return NewProvider(VariantDeterministicStub, NewHashEmbedder()), nil
}

// WithSharedCache 挂载Redis二级缓存
func (p *Provider) WithSharedCache(cache *RedisVectorCache) *Provider {
	p.shared = cache
	return p
}

// Variant 返回构造时确定的后端变体
func (p *Provider) Variant() Variant {
	return p.variant
}

// GetDimensions 返回后端向量维度
func (p *Provider) GetDimensions() int {
	return p.inner.GetDimensions()
}

// EmbedStrings 批量获取向量，已缓存的文本不再请求后端。
// 返回顺序与输入一一对应。
func (p *Provider) EmbedStrings(ctx context.Context, texts []string, opts ...embedding.Option) ([][]float64, error) {
	out := make([][]float64, len(texts))

	// 第一遍：进程内缓存
	var missIdx []int
	p.mu.RLock()
	for i, text := range texts {
		if vec, ok := p.cache[text]; ok {
			out[i] = vec
		} else {
			missIdx = append(missIdx, i)
		}
	}
	p.mu.RUnlock()

	// 第二遍：共享缓存
	if p.shared != nil && len(missIdx) > 0 {
		remaining := missIdx[:0]
		for _, i := range missIdx {
			vec, err := p.shared.Get(ctx, texts[i], p.version)
			if err != nil {
				if err != ErrCacheMiss {
					logger.Warn().Err(err).Msg("读取共享向量缓存失败")
				}
				remaining = append(remaining, i)
				continue
			}
			out[i] = vec
			p.store(texts[i], vec)
		}
		missIdx = remaining
	}

	if len(missIdx) == 0 {
		return out, nil
	}

	// 第三遍：后端批量请求
	missTexts := make([]string, len(missIdx))
	for j, i := range missIdx {
		missTexts[j] = texts[i]
	}
	vectors, err := p.inner.EmbedStrings(ctx, missTexts, opts...)
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(missTexts) {
		return nil, fmt.Errorf("后端返回向量数量不匹配: 期望%d, 实际%d", len(missTexts), len(vectors))
	}

	for j, i := range missIdx {
		out[i] = vectors[j]
		p.store(texts[i], vectors[j])
		if p.shared != nil {
			if err := p.shared.Set(ctx, texts[i], vectors[j], p.version); err != nil {
				logger.Warn().Err(err).Msg("写入共享向量缓存失败")
			}
		}
	}
	return out, nil
}

// store 写入进程内缓存，已存在的键不覆盖
func (p *Provider) store(text string, vec []float64) {
	p.mu.Lock()
	if _, ok := p.cache[text]; !ok {
		p.cache[text] = vec
	}
	p.mu.Unlock()
}
