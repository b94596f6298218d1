package render

import (
	"fmt"
	"strings"

	"github.com/iWorld-y/rss_digest/pkg/model"
)

// Hugo 在 Markdown 正文前加上 Hugo 站点所需的 front matter。
// 正文与 Markdown 输出完全一致，tags 取当日出现次数最高的若干关键词。
func Hugo(doc *model.Document, opts Options) string {
	date := doc.Date.Format("2006-01-02")

	tagLimit := 5
	if tagLimit > len(doc.KeywordStats) {
		tagLimit = len(doc.KeywordStats)
	}
	tags := make([]string, 0, tagLimit)
	for _, stat := range doc.KeywordStats[:tagLimit] {
		tags = append(tags, fmt.Sprintf("%q", stat.Keyword))
	}

	var sb strings.Builder
	sb.WriteString("---\n")
	fmt.Fprintf(&sb, "title: \"Daily Report %s\"\n", date)
	sb.WriteString("author: \"RSS Digest\"\n")
	fmt.Fprintf(&sb, "date: %s\n", date)
	sb.WriteString("categories: [\"日报\"]\n")
	fmt.Fprintf(&sb, "tags: [%s]\n", strings.Join(tags, ", "))
	sb.WriteString("---\n\n")
	sb.WriteString(Markdown(doc, opts))

	return sb.String()
}
