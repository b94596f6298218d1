package render

import (
	"strings"
	"time"

	"github.com/iWorld-y/rss_digest/pkg/model"
)

// priorityThreshold 命中关键词达到该数量的条目会加上优先标记
const priorityThreshold = 3

// Options 渲染选项，对三种输出格式生效
type Options struct {
	DescriptionMaxLength int  // 描述截断长度，0 表示不截断
	ShowMoreSection      bool // 是否输出"更多内容"区域
	KeywordStatsLimit    int  // 关键词统计表最多行数
	Now                  func() time.Time
}

func (o Options) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

func (o Options) statsLimit() int {
	if o.KeywordStatsLimit <= 0 {
		return 20
	}
	return o.KeywordStatsLimit
}

// Slug 由来源显示名生成锚点，纯函数：空格换成连字符并转小写。
// 正文中的"文末"提示与附录标题必须使用同一锚点。
func Slug(name string) string {
	return strings.ToLower(strings.ReplaceAll(name, " ", "-"))
}

// truncate 按字符数截断描述，超出部分以省略号结尾
func truncate(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}

// priorityMark 关键词数达到阈值时返回优先标记
func priorityMark(item model.Item) string {
	if len(item.MatchedKeywords) >= priorityThreshold {
		return "⭐ "
	}
	return ""
}

// joinKeywords 用顿号拼接关键词
func joinKeywords(keywords []string) string {
	return strings.Join(keywords, "、")
}

// hasSummaries 文档中是否存在任何非空的来源总结
func hasSummaries(doc *model.Document) bool {
	for _, g := range doc.Groups {
		if doc.Summaries[g.Identity.DisplayName] != "" {
			return true
		}
	}
	return false
}
