package summarize

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/go-shiori/go-readability"
	"golang.org/x/time/rate"

	"github.com/iWorld-y/rss_digest/pkg/config"
	"github.com/iWorld-y/rss_digest/pkg/logger"
	dm "github.com/iWorld-y/rss_digest/pkg/model"
)

// defaultPromptTemplate 未配置 prompt_template 时使用的默认提示词
const defaultPromptTemplate = `你是一个专业的科研资讯编辑。以下是来源【{source_name}】今日命中的文章列表，请阅读并撰写一段 100-200 字的中文速览，概括主要话题与值得关注的内容。直接输出正文，不要任何额外标记。

{articles}`

// Summarizer 调用 LLM 为每个来源生成速览
type Summarizer struct {
	cfg       config.SummaryConfig
	chatModel model.ChatModel
	limiter   *rate.Limiter
}

// NewSummarizer 初始化 LLM 客户端
func NewSummarizer(ctx context.Context, cfg config.SummaryConfig) (*Summarizer, error) {
	mc := &openai.ChatModelConfig{
		BaseURL: cfg.BaseURL,
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
	}
	if cfg.Temperature > 0 {
		mc.Temperature = &cfg.Temperature
	}
	if cfg.MaxTokens > 0 {
		mc.MaxTokens = &cfg.MaxTokens
	}

	chatModel, err := openai.NewChatModel(ctx, mc)
	if err != nil {
		return nil, fmt.Errorf("LLM 初始化失败: %w", err)
	}

	return &Summarizer{
		cfg:       cfg,
		chatModel: chatModel,
		limiter:   rate.NewLimiter(rate.Every(2*time.Second), 1),
	}, nil
}

// SummarizeGroups 按文档顺序逐个来源生成总结。
// 任何一个来源失败只影响它自己：告警后继续下一个，整体不会失败。
func (s *Summarizer) SummarizeGroups(ctx context.Context, doc *dm.Document) map[string]string {
	summaries := make(map[string]string)

	for _, g := range doc.Groups {
		name := g.Identity.DisplayName
		text, err := s.summarizeGroup(ctx, name, g.Detail)
		if err != nil {
			logger.Log.Warnf("来源 [%s] 总结失败: %v", name, err)
			continue
		}
		if text != "" {
			summaries[name] = text
		}
	}

	return summaries
}

func (s *Summarizer) summarizeGroup(ctx context.Context, sourceName string, items []dm.Item) (string, error) {
	limit := s.cfg.MaxArticles
	if limit <= 0 || limit > len(items) {
		limit = len(items)
	}
	if limit == 0 {
		return "", nil
	}

	var sb strings.Builder
	for i, item := range items[:limit] {
		desc := strings.TrimSpace(item.Description)
		// 描述太短时尝试抓取原文补充
		if len(desc) < 200 && item.Link != "" {
			if fetched, err := fetchAndCleanContent(item.Link); err == nil && len(fetched) > len(desc) {
				desc = fetched
			}
		}
		if len(desc) > 3000 {
			desc = desc[:3000]
		}
		fmt.Fprintf(&sb, "文章 %d:\n标题: %s\n内容: %s\n\n", i+1, item.Title, desc)
	}

	tpl := s.cfg.PromptTemplate
	if tpl == "" {
		tpl = defaultPromptTemplate
	}
	prompt := strings.ReplaceAll(tpl, "{source_name}", sourceName)
	prompt = strings.ReplaceAll(prompt, "{articles}", sb.String())

	maxRetries := 2
	baseDelay := 2 * time.Second
	var lastErr error

	for i := 0; i <= maxRetries; i++ {
		if err := s.limiter.Wait(ctx); err != nil {
			return "", err
		}

		messages := []*schema.Message{
			{Role: schema.User, Content: prompt},
		}

		resp, err := s.chatModel.Generate(ctx, messages)
		if err != nil {
			lastErr = err
			// 429 限流指数退避后重试，其余错误直接放弃
			if strings.Contains(err.Error(), "429") || strings.Contains(strings.ToLower(err.Error()), "too many requests") {
				if i < maxRetries {
					delay := baseDelay * time.Duration(1<<i)
					logger.Log.Warnf("触发 429 限流，等待 %v 后重试 (%d/%d)...", delay, i+1, maxRetries)
					select {
					case <-ctx.Done():
						return "", ctx.Err()
					case <-time.After(delay):
						continue
					}
				}
			}
			return "", err
		}

		// 清理可能的 markdown 标记
		clean := strings.TrimSpace(resp.Content)
		clean = strings.TrimPrefix(clean, "```json")
		clean = strings.TrimPrefix(clean, "```")
		clean = strings.TrimSuffix(clean, "```")
		return strings.TrimSpace(clean), nil
	}

	return "", fmt.Errorf("max retries exceeded: %v", lastErr)
}

// fetchAndCleanContent 抓取 URL 并提取核心文本
func fetchAndCleanContent(url string) (string, error) {
	article, err := readability.FromURL(url, 30*time.Second)
	if err != nil {
		return "", err
	}
	return article.TextContent, nil
}
