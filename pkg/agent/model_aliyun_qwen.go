package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"resume-match-go/internal/logger"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

const (
	// DashScope的OpenAI兼容endpoint
	openAICompatibleQwenAPIURL = "https://dashscope.aliyuncs.com/compatible-mode/v1/chat/completions"
	defaultQwenModelName       = "qwen-plus"
)

// AliyunQwenChatModel 实现 model.ToolCallingChatModel 接口，
// 用于与阿里云通义千问模型交互。
// 本项目的两个生成式任务（JD要求抽取、简历优化）都只用纯文本补全，不绑定工具。
type AliyunQwenChatModel struct {
	apiKey     string
	modelName  string
	apiURL     string
	httpClient *http.Client
}

// NewAliyunQwenChatModel 创建一个新的 AliyunQwenChatModel 实例
func NewAliyunQwenChatModel(apiKey string, modelName string, apiURL string) (*AliyunQwenChatModel, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("API 密钥不能为空")
	}

	mn := modelName
	if strings.TrimSpace(mn) == "" {
		mn = defaultQwenModelName
	}

	url := apiURL
	if strings.TrimSpace(url) == "" {
		url = openAICompatibleQwenAPIURL
	}

	logger.Info().Str("url", url).Str("model", mn).Msg("初始化阿里云通义千问客户端")

	return &AliyunQwenChatModel{
		apiKey:     apiKey,
		modelName:  mn,
		apiURL:     url,
		httpClient: &http.Client{},
	}, nil
}

type openAIChatCompletionRequest struct {
	Model       string            `json:"model"`
	Messages    []*schema.Message `json:"messages"`
	Temperature *float64          `json:"temperature,omitempty"`
}

type openAIChatMessage struct {
	Role    string  `json:"role"`
	Content *string `json:"content"`
}

type openAIChatChoice struct {
	Index        int               `json:"index"`
	Message      openAIChatMessage `json:"message"`
	FinishReason string            `json:"finish_reason"`
}

type openAICompletionResponse struct {
	Id      string             `json:"id"`
	Object  string             `json:"object"`
	Created int64              `json:"created"`
	Model   string             `json:"model"`
	Choices []openAIChatChoice `json:"choices"`
}

// Generate 实现 model.ChatModel 接口
func (aq *AliyunQwenChatModel) Generate(ctx context.Context, messages []*schema.Message, options ...model.Option) (*schema.Message, error) {
	reqPayload := openAIChatCompletionRequest{
		Model:    aq.modelName,
		Messages: messages,
	}

	jsonData, err := json.Marshal(reqPayload)
	if err != nil {
		return nil, fmt.Errorf("序列化请求体失败: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, aq.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("创建 HTTP 请求失败: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+aq.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	logger.Debug().
		Str("url", aq.apiURL).
		Str("model", aq.modelName).
		Int("messages", len(messages)).
		Msg("发送chat completion请求")

	httpResp, err := aq.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("发送 HTTP 请求失败: %w", err)
	}
	defer httpResp.Body.Close()

	bodyBytes, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("读取响应体失败: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API 请求失败，状态 %s: %s", httpResp.Status, string(bodyBytes))
	}

	var openAIResp openAICompletionResponse
	if err := json.Unmarshal(bodyBytes, &openAIResp); err != nil {
		return nil, fmt.Errorf("反序列化 API 响应失败: %w。响应体: %s", err, string(bodyBytes))
	}

	if len(openAIResp.Choices) == 0 {
		return nil, fmt.Errorf("从 API 收到空选项: %s", string(bodyBytes))
	}

	apiMessage := openAIResp.Choices[0].Message
	responseContent := ""
	if apiMessage.Content != nil {
		responseContent = *apiMessage.Content
	}

	resultMessage := &schema.Message{
		Role:    schema.RoleType(apiMessage.Role),
		Content: responseContent,
	}
	if resultMessage.Role == "" {
		resultMessage.Role = schema.RoleType("assistant")
	}

	return resultMessage, nil
}

// Stream 实现 model.ChatModel 接口。流式输出暂未接入
func (aq *AliyunQwenChatModel) Stream(ctx context.Context, messages []*schema.Message, options ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, fmt.Errorf("AliyunQwenChatModel 的 Stream 方法未实现")
}

// BindTools 实现 model.ChatModel 接口。本项目不使用工具调用
func (aq *AliyunQwenChatModel) BindTools(tools []*schema.ToolInfo) error {
	if len(tools) > 0 {
		return fmt.Errorf("AliyunQwenChatModel 不支持工具绑定")
	}
	return nil
}

// WithTools 实现 model.ToolCallingChatModel 接口
func (aq *AliyunQwenChatModel) WithTools(tools []*schema.ToolInfo) (model.ToolCallingChatModel, error) {
	if err := aq.BindTools(tools); err != nil {
		return nil, err
	}
	return aq, nil
}

var _ model.ChatModel = (*AliyunQwenChatModel)(nil)
var _ model.ToolCallingChatModel = (*AliyunQwenChatModel)(nil)
