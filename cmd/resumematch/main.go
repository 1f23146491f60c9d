package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"resume-match-go/internal/config"
	"resume-match-go/internal/embedding"
	"resume-match-go/internal/logger"
	"resume-match-go/internal/matcher"
	"resume-match-go/internal/orchestrator"
	"resume-match-go/internal/parser"
	"resume-match-go/internal/storage"
	"resume-match-go/pkg/agent"

	"github.com/cloudwego/eino/components/model"
	"github.com/spf13/pflag"
)

// 命令行参数定义
var (
	configPath = pflag.String("config", "", "配置文件路径，为空时按默认搜索路径查找")
	resumeArg  = pflag.String("resume", "", "简历文件路径或原始文本 (必填)")
	jdArg      = pflag.String("jd", "", "岗位描述原始文本")
	jdFileArg  = pflag.String("jd-file", "", "岗位描述文件路径，与 --jd 二选一")
	roleArg    = pflag.String("role", "", "目标岗位名称")
	prettyArg  = pflag.Bool("pretty", true, "控制台格式日志输出")
)

func main() {
	pflag.Parse()

	if *resumeArg == "" {
		fmt.Fprintln(os.Stderr, "错误: 必须提供 --resume")
		pflag.Usage()
		os.Exit(1)
	}
	jdText, err := resolveJDText()
	if err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	logCfg := logger.Config{
		Level:        cfg.Logger.Level,
		Format:       cfg.Logger.Format,
		TimeFormat:   cfg.Logger.TimeFormat,
		ReportCaller: cfg.Logger.ReportCaller,
	}
	if *prettyArg {
		logCfg.Format = "pretty"
	}
	logger.Init(logCfg)

	engine, err := buildEngine(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("初始化分析引擎失败")
	}

	record, err := engine.Run(context.Background(), *resumeArg, jdText, *roleArg)
	if err != nil {
		logger.Error().Err(err).Msg("分析运行失败")
	}

	out, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		logger.Fatal().Err(err).Msg("序列化结果失败")
	}
	fmt.Println(string(out))

	if record.Status != "success" {
		os.Exit(1)
	}
}

// resolveJDText 从 --jd 或 --jd-file 取得岗位描述文本
func resolveJDText() (string, error) {
	if *jdArg != "" {
		return *jdArg, nil
	}
	if *jdFileArg != "" {
		data, err := os.ReadFile(*jdFileArg)
		if err != nil {
			return "", fmt.Errorf("读取岗位描述文件失败: %w", err)
		}
		return string(data), nil
	}
	return "", fmt.Errorf("必须提供 --jd 或 --jd-file")
}

// buildEngine 按配置组装全部协作组件
func buildEngine(cfg *config.Config) (*orchestrator.Engine, error) {
	provider, err := embedding.NewProviderFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("初始化Embedding后端失败: %w", err)
	}
	if cfg.Redis.Address != "" {
		cache, err := embedding.NewRedisVectorCache(&cfg.Redis)
		if err != nil {
			logger.Warn().Err(err).Msg("Redis向量缓存不可用，仅使用进程内缓存")
		} else {
			provider = provider.WithSharedCache(cache)
		}
	}

	// 聊天模型可选：无API密钥时JD分析走启发式、优化阶段跳过
	var chatModel model.ToolCallingChatModel
	if cfg.Aliyun.APIKey != "" {
		qwen, err := agent.NewAliyunQwenChatModel(
			cfg.Aliyun.APIKey,
			cfg.GetModelForTask("jd_analyze"),
			cfg.Aliyun.APIURL,
		)
		if err != nil {
			return nil, fmt.Errorf("初始化聊天模型失败: %w", err)
		}
		chatModel = qwen
	} else {
		logger.Warn().Msg("未配置API密钥，JD分析使用启发式，优化阶段禁用")
	}

	store, err := buildResultStore(cfg)
	if err != nil {
		return nil, err
	}

	opts := []orchestrator.Option{
		orchestrator.WithResumeExtractor(parser.NewTextResumeExtractor()),
		orchestrator.WithJDAnalyzer(parser.NewLLMJDAnalyzer(chatModel)),
		orchestrator.WithSemanticMatcher(matcher.NewSemanticMatcher(provider)),
		orchestrator.WithSkillComparator(matcher.NewSkillComparator(provider, cfg.Matcher.SemanticThreshold)),
		orchestrator.WithResultStore(store),
		orchestrator.WithWeights(cfg.Matcher.Weights),
		orchestrator.WithConcurrency(cfg.Matcher.LLMConcurrency),
	}
	if chatModel != nil {
		opts = append(opts, orchestrator.WithOptimizer(parser.NewLLMResumeOptimizer(chatModel)))
	}
	return orchestrator.NewEngine(opts...), nil
}

// buildResultStore 根据存储驱动选择持久化实现
func buildResultStore(cfg *config.Config) (orchestrator.ResultStore, error) {
	switch cfg.Storage.Driver {
	case "mysql":
		store, err := storage.NewMySQLResultStore(&cfg.MySQL)
		if err != nil {
			return nil, fmt.Errorf("初始化MySQL结果存储失败: %w", err)
		}
		return store, nil
	default:
		return storage.NewFileResultStore(cfg.Storage.ResultsDir), nil
	}
}
