package matcher

import (
	"context"
	"fmt"
	"math"
	"testing"

	"resume-match-go/internal/embedding"

	einoembedding "github.com/cloudwego/eino/components/embedding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mapEmbedder 按预置映射返回向量，未知文本返回错误
type mapEmbedder struct {
	vectors map[string][]float64
}

func (m *mapEmbedder) EmbedStrings(ctx context.Context, texts []string, opts ...einoembedding.Option) ([][]float64, error) {
	out := make([][]float64, len(texts))
	for i, t := range texts {
		v, ok := m.vectors[t]
		if !ok {
			return nil, fmt.Errorf("未知文本: %q", t)
		}
		out[i] = v
	}
	return out, nil
}

func (m *mapEmbedder) GetDimensions() int { return 2 }

// TestMatchWordCountWeighting 验证整体分按块词数加权
func TestMatchWordCountWeighting(t *testing.T) {
	shortChunk := "one two three four five"
	longChunk := "a b c d e f g h i j k l m n o"
	jdChunk := "job description text"

	m := NewSemanticMatcher(&mapEmbedder{vectors: map[string][]float64{
		shortChunk: {0.4, math.Sqrt(1 - 0.4*0.4)},
		longChunk:  {0.8, 0.6},
		jdChunk:    {1, 0},
	}})

	result, err := m.Match(context.Background(), shortChunk+"\n\n"+longChunk, jdChunk)
	require.NoError(t, err)

	// (5*0.4 + 15*0.8) / 20 = 0.70
	assert.InDelta(t, 0.70, result.OverallScore, 1e-9)
	assert.InDelta(t, 70.0, result.OverallPct, 1e-9)
	require.Len(t, result.ParagraphScores, 2)
	assert.InDelta(t, 0.4, result.ParagraphScores[0].Score, 1e-9)
	assert.Equal(t, jdChunk, result.ParagraphScores[0].BestMatchingChunk)
	assert.InDelta(t, 0.8, result.ParagraphScores[1].Score, 1e-9)
}

// TestMatchIdenticalTexts 验证完全相同的文本得分接近1.0
func TestMatchIdenticalTexts(t *testing.T) {
	text := "Experienced Go developer.\n\nBuilt concurrent data pipelines with Kafka."
	m := NewSemanticMatcher(embedding.NewHashEmbedder())

	result, err := m.Match(context.Background(), text, text)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, result.OverallScore, 1e-9)
}

// TestChunkTextBlankLines 验证按空行切块
func TestChunkTextBlankLines(t *testing.T) {
	chunks := ChunkText("para one\n\npara two\n\n\npara three")
	assert.Equal(t, []string{"para one", "para two", "para three"}, chunks)
}

// TestChunkTextSentenceFallback 验证无空行结构时按3句一组兜底
func TestChunkTextSentenceFallback(t *testing.T) {
	text := "First. Second. Third. Fourth. Fifth."
	chunks := ChunkText(text)
	require.Len(t, chunks, 2)
	assert.Equal(t, "First Second Third", chunks[0])
	assert.Equal(t, "Fourth Fifth.", chunks[1])
}

// TestChunkTextDegenerateInput 验证退化输入也至少返回一个块
func TestChunkTextDegenerateInput(t *testing.T) {
	assert.Len(t, ChunkText(""), 1)
	assert.Len(t, ChunkText("word"), 1)
}

// TestCosine 验证余弦相似度的边界行为
func TestCosine(t *testing.T) {
	assert.InDelta(t, 1.0, Cosine([]float64{1, 2}, []float64{2, 4}), 1e-9)
	assert.InDelta(t, 0.0, Cosine([]float64{1, 0}, []float64{0, 1}), 1e-9)
	assert.Equal(t, 0.0, Cosine([]float64{0, 0}, []float64{1, 1}), "零向量返回0")
	assert.Equal(t, 0.0, Cosine([]float64{1}, []float64{1, 2}), "维度不一致返回0")
	assert.Equal(t, 0.0, Cosine(nil, nil))
}
