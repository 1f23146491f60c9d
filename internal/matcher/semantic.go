package matcher

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strings"

	"resume-match-go/internal/embedding"
	"resume-match-go/internal/types"
)

const sentenceGroupSize = 3

var (
	blankLineRe = regexp.MustCompile(`\n{2,}`)
	sentenceRe  = regexp.MustCompile(`[.?!]\s+`)
)

// SemanticMatcher 计算简历与JD的块级语义相似度。
// 每个简历块取与其最相似的JD块作为得分，整体分按词数加权平均，
// 让实质性段落的权重高于零散短句。
type SemanticMatcher struct {
	embedder embedding.TextEmbedder
}

// NewSemanticMatcher 创建语义匹配器
func NewSemanticMatcher(embedder embedding.TextEmbedder) *SemanticMatcher {
	return &SemanticMatcher{embedder: embedder}
}

// Match 计算简历与JD的语义匹配结果
func (m *SemanticMatcher) Match(ctx context.Context, resumeText, jdText string) (types.SemanticMatch, error) {
	resumeChunks := ChunkText(resumeText)
	jdChunks := ChunkText(jdText)

	// 一次批量请求覆盖双方所有块
	texts := append(append([]string{}, resumeChunks...), jdChunks...)
	embs, err := m.embedder.EmbedStrings(ctx, texts)
	if err != nil {
		return types.SemanticMatch{}, fmt.Errorf("获取块向量失败: %w", err)
	}
	if len(embs) != len(texts) {
		return types.SemanticMatch{}, fmt.Errorf("向量数量不匹配: 期望%d, 实际%d", len(texts), len(embs))
	}
	rEmbs := embs[:len(resumeChunks)]
	jEmbs := embs[len(resumeChunks):]

	paragraphScores := make([]types.ParagraphScore, 0, len(resumeChunks))
	var weightedSum, weightTotal float64
	for i, chunk := range resumeChunks {
		bestScore := 0.0
		bestChunk := ""
		for j, jEmb := range jEmbs {
			if sc := Cosine(rEmbs[i], jEmb); sc > bestScore {
				bestScore = sc
				bestChunk = jdChunks[j]
			}
		}
		paragraphScores = append(paragraphScores, types.ParagraphScore{
			Paragraph:         chunk,
			Score:             bestScore,
			BestMatchingChunk: bestChunk,
		})

		// 词数下限为1，空白块不会让权重归零
		w := float64(len(strings.Fields(chunk)))
		if w < 1 {
			w = 1
		}
		weightedSum += bestScore * w
		weightTotal += w
	}

	overall := 0.0
	if weightTotal > 0 {
		overall = weightedSum / weightTotal
	}

	return types.SemanticMatch{
		OverallScore:    overall,
		OverallPct:      math.Round(overall*100*100) / 100,
		ParagraphScores: paragraphScores,
	}, nil
}

// ChunkText 把文本切分为段落块。
// 优先按空行边界切分；没有空行结构时退回每3句一组；
// 退化输入也保证至少返回一个块。
func ChunkText(text string) []string {
	normalized := strings.ReplaceAll(text, "\r\n", "\n")

	var parts []string
	for _, p := range blankLineRe.Split(normalized, -1) {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) > 0 {
		return parts
	}

	// 按句子分组兜底
	sentences := sentenceRe.Split(strings.TrimSpace(normalized), -1)
	var cleaned []string
	for _, s := range sentences {
		if s = strings.TrimSpace(s); s != "" {
			cleaned = append(cleaned, s)
		}
	}
	var chunks []string
	for i := 0; i < len(cleaned); i += sentenceGroupSize {
		end := i + sentenceGroupSize
		if end > len(cleaned) {
			end = len(cleaned)
		}
		chunks = append(chunks, strings.Join(cleaned[i:end], " "))
	}
	if len(chunks) == 0 {
		return []string{text}
	}
	return chunks
}

// Cosine 余弦相似度。零向量或维度不一致时返回0
func Cosine(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	denom := math.Sqrt(normA) * math.Sqrt(normB)
	if denom == 0 {
		return 0
	}
	return dot / denom
}
