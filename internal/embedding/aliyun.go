package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"resume-match-go/internal/config"
	"resume-match-go/internal/logger"

	"github.com/cloudwego/eino/components/embedding"
)

// AliyunEmbedder 通过OpenAI兼容端点获取文本向量，实现 embedding.Embedder 接口。
// 同一实现同时服务于托管端点和本地降级端点，二者仅base_url不同。
type AliyunEmbedder struct {
	apiKey     string
	model      string
	dimensions int
	httpClient *http.Client
	baseURL    string
}

// NewAliyunEmbedder 创建新的阿里云Embedder (OpenAI兼容端点)
func NewAliyunEmbedder(apiKey string, embeddingCfg config.EmbeddingConfig) (*AliyunEmbedder, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API密钥不能为空")
	}

	model := embeddingCfg.Model
	if model == "" {
		model = "text-embedding-v3"
	}
	baseURL := embeddingCfg.BaseURL
	if baseURL == "" {
		baseURL = "https://dashscope.aliyuncs.com/compatible-mode/v1/embeddings"
	}

	return &AliyunEmbedder{
		apiKey:     apiKey,
		model:      model,
		dimensions: embeddingCfg.Dimensions,
		httpClient: &http.Client{},
		baseURL:    baseURL,
	}, nil
}

// GetDimensions 返回嵌入器配置的维度
func (a *AliyunEmbedder) GetDimensions() int {
	return a.dimensions
}

// ModelVersion 返回后端模型名，用于缓存的模型版本校验
func (a *AliyunEmbedder) ModelVersion() string {
	return a.model
}

// openAIEmbeddingRequest OpenAI兼容的Embedding请求结构
type openAIEmbeddingRequest struct {
	Input          interface{} `json:"input"` // string 或 []string
	Model          string      `json:"model"`
	Dimensions     int         `json:"dimensions,omitempty"`
	EncodingFormat string      `json:"encoding_format,omitempty"`
}

// openAIEmbeddingResponse OpenAI兼容的Embedding响应结构
type openAIEmbeddingResponse struct {
	Object string            `json:"object"`
	Data   []openAIDataEntry `json:"data"`
	Model  string            `json:"model"`
	Usage  openAIUsage       `json:"usage"`
	Error  *openAIWireError  `json:"error,omitempty"`
}

type openAIDataEntry struct {
	Object    string    `json:"object"`
	Embedding []float64 `json:"embedding"`
	Index     int       `json:"index"`
}

type openAIUsage struct {
	PromptTokens int `json:"prompt_tokens"`
	TotalTokens  int `json:"total_tokens"`
}

// openAIWireError API在200响应中携带的错误
type openAIWireError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    string `json:"code"`
}

// EmbedStrings 将文本转换为向量, 实现 cloudwego/eino embedding.Embedder 接口
func (a *AliyunEmbedder) EmbedStrings(ctx context.Context, texts []string, opts ...embedding.Option) ([][]float64, error) {
	options := &embedding.Options{}
	embedding.GetCommonOptions(options, opts...)

	effectiveModel := a.model
	if options.Model != nil && *options.Model != "" {
		effectiveModel = *options.Model
	}

	if len(texts) == 0 {
		return [][]float64{}, nil
	}

	var inputBody interface{}
	if len(texts) == 1 {
		inputBody = texts[0]
	} else {
		inputBody = texts
	}

	reqBody := openAIEmbeddingRequest{
		Input: inputBody,
		Model: effectiveModel,
	}
	if a.dimensions > 0 {
		reqBody.Dimensions = a.dimensions
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("序列化请求失败: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("创建HTTP请求失败: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.apiKey)

	logger.Debug().
		Str("url", a.baseURL).
		Str("model", effectiveModel).
		Int("texts", len(texts)).
		Msg("发送embedding请求")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("发送HTTP请求失败: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("读取响应体失败: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiError openAIWireError
		if json.Unmarshal(body, &apiError) == nil && apiError.Message != "" {
			return nil, fmt.Errorf("API调用失败, 状态码: %d, 类型: %s, 错误: %s, Code: %s",
				resp.StatusCode, apiError.Type, apiError.Message, apiError.Code)
		}
		return nil, fmt.Errorf("API调用失败, 状态码: %d, 响应: %s", resp.StatusCode, string(body))
	}

	var parsedResp openAIEmbeddingResponse
	if err := json.Unmarshal(body, &parsedResp); err != nil {
		return nil, fmt.Errorf("解析响应JSON失败: %w", err)
	}
	if parsedResp.Error != nil && parsedResp.Error.Message != "" {
		return nil, fmt.Errorf("API返回错误: 类型=%s, 消息='%s', Code=%s",
			parsedResp.Error.Type, parsedResp.Error.Message, parsedResp.Error.Code)
	}
	if len(parsedResp.Data) != len(texts) {
		return nil, fmt.Errorf("响应向量数量不匹配: 期望%d, 实际%d", len(texts), len(parsedResp.Data))
	}

	// 按Index归位，响应顺序不保证与请求一致
	outputEmbeddings := make([][]float64, len(texts))
	for _, entry := range parsedResp.Data {
		if entry.Index < 0 || entry.Index >= len(texts) {
			return nil, fmt.Errorf("响应向量索引越界: %d", entry.Index)
		}
		outputEmbeddings[entry.Index] = entry.Embedding
	}

	logger.Debug().
		Int("texts", len(texts)).
		Int("prompt_tokens", parsedResp.Usage.PromptTokens).
		Msg("embedding请求完成")

	return outputEmbeddings, nil
}
