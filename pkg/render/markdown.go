package render

import (
	"fmt"
	"strings"

	"github.com/iWorld-y/rss_digest/pkg/model"
)

// Markdown 把每日文档渲染为 Markdown 报告
func Markdown(doc *model.Document, opts Options) string {
	var lines []string

	lines = append(lines,
		fmt.Sprintf("# 📅 Daily Report - %s", doc.Date.Format("2006-01-02")),
		"",
		fmt.Sprintf("> 今日筛选出 **%d** 条内容，来自 **%d** 个来源", doc.Total, doc.SourceCount),
		"",
		"---",
		"",
	)

	// ===== AI 速览 =====
	if doc.Summaries != nil {
		lines = append(lines, "## 🤖 AI 速览", "")
		if hasSummaries(doc) {
			for _, g := range doc.Groups {
				summary := doc.Summaries[g.Identity.DisplayName]
				if summary == "" {
					continue
				}
				lines = append(lines, fmt.Sprintf("> **%s %s**", g.Identity.Icon, g.Identity.DisplayName), ">")
				for _, l := range strings.Split(strings.TrimSpace(summary), "\n") {
					lines = append(lines, "> "+l)
				}
				lines = append(lines, "")
			}
		} else {
			lines = append(lines, "> 暂无 AI 总结", "")
		}
		lines = append(lines, "---", "")
	}

	// ===== 分类浏览 =====
	lines = append(lines, "## 📚 分类浏览", "")

	type moreSection struct {
		identity model.SourceIdentity
		anchor   string
		items    []model.Item
	}
	var moreSections []moreSection

	for _, g := range doc.Groups {
		lines = append(lines, fmt.Sprintf("### %s %s (%d条)", g.Identity.Icon, g.Identity.DisplayName, g.Count()), "")

		if len(g.Detail) > 0 {
			header := fmt.Sprintf("#### 详细内容（全部%d条）", len(g.Detail))
			if len(g.Overflow) > 0 {
				header = fmt.Sprintf("#### 详细内容（前%d条）", len(g.Detail))
			}
			lines = append(lines, header, "")

			for idx, item := range g.Detail {
				lines = append(lines, fmt.Sprintf("**%d.** %s**%s**", idx+1, priorityMark(item), item.Title))
				if item.Author != "" {
					lines = append(lines, fmt.Sprintf("- ✍️ **作者**：%s", item.Author))
				}
				lines = append(lines, fmt.Sprintf("- 🏷️ **关键词**：%s", joinKeywords(item.MatchedKeywords)))
				if desc := strings.TrimSpace(item.Description); desc != "" {
					lines = append(lines, fmt.Sprintf("- 📝 **描述**：%s", truncate(desc, opts.DescriptionMaxLength)))
				}
				if item.Link != "" {
					lines = append(lines, fmt.Sprintf("- 🔗 [查看原文](%s)", item.Link))
				}
				lines = append(lines, "")
			}
		}

		if len(g.Overflow) > 0 {
			anchor := Slug(g.Identity.DisplayName)
			lines = append(lines, fmt.Sprintf("> 💡 该来源还有 %d 条内容，详见 [文末](#更多-%s)", len(g.Overflow), anchor))
			moreSections = append(moreSections, moreSection{identity: g.Identity, anchor: anchor, items: g.Overflow})
		}

		lines = append(lines, "", "---", "")
	}

	// ===== 关键词统计 =====
	lines = append(lines, "## 📊 关键词统计", "", "| 关键词 | 出现次数 |", "|--------|----------|")
	for i, stat := range doc.KeywordStats {
		if i >= opts.statsLimit() {
			break
		}
		lines = append(lines, fmt.Sprintf("| %s | %d |", stat.Keyword, stat.Count))
	}
	lines = append(lines, "", "---", "")

	// ===== 更多内容 =====
	if opts.ShowMoreSection && len(moreSections) > 0 {
		lines = append(lines, "## 📎 更多内容", "")
		for _, sec := range moreSections {
			lines = append(lines, fmt.Sprintf("### <a name=\"更多-%s\"></a>%s %s 其他内容 (%d条)",
				sec.anchor, sec.identity.Icon, sec.identity.DisplayName, len(sec.items)), "")
			for _, item := range sec.items {
				if item.Link != "" {
					lines = append(lines, fmt.Sprintf("- [%s](%s)", item.Title, item.Link))
				} else {
					lines = append(lines, fmt.Sprintf("- %s", item.Title))
				}
			}
			lines = append(lines, "")
		}
		lines = append(lines, "---", "")
	}

	// 页脚
	lines = append(lines,
		fmt.Sprintf("*📅 报告生成时间：%s*  ", opts.now().Format("2006-01-02 15:04")),
		"*🤖 由 GitHub Actions 自动生成*",
	)

	return strings.Join(lines, "\n")
}

// MonthlyMarkdown 把月度文档渲染为 Markdown 报告
func MonthlyMarkdown(doc *model.MonthlyDocument, opts Options) string {
	var lines []string

	lines = append(lines,
		fmt.Sprintf("# 📅 Monthly Report - %d年%d月", doc.Year, doc.Month),
		"",
		"> RSS 订阅月报",
		"",
		"---",
		"",
		"## 📊 本月概览",
		"",
		fmt.Sprintf("- 📅 统计周期：%s 至 %s", doc.Start.Format("2006-01-02"), doc.End.Format("2006-01-02")),
		fmt.Sprintf("- ✅ 总命中条目：%d", doc.Total),
		fmt.Sprintf("- 📆 活跃天数：%d", doc.ActiveDays),
	)

	avg := 0
	if doc.ActiveDays > 0 {
		avg = doc.Total / doc.ActiveDays
	}
	lines = append(lines,
		fmt.Sprintf("- 📈 日均条目：%d", avg),
		"",
		"---",
		"",
		"## 🏷️ 本月关键词统计",
		"",
	)
	for _, stat := range doc.KeywordStats {
		lines = append(lines, fmt.Sprintf("- %s：%d 次", stat.Keyword, stat.Count))
	}
	lines = append(lines, "", "---", "", "## 📆 每日摘要", "")

	for _, day := range doc.Days {
		lines = append(lines, fmt.Sprintf("### %s (%d 条)", day.Date, len(day.Items)), "")
		// 每天最多列出 10 条标题
		limit := len(day.Items)
		if limit > 10 {
			limit = 10
		}
		for _, item := range day.Items[:limit] {
			lines = append(lines, fmt.Sprintf("- [%s](%s) *(%s)*", item.Title, item.Link, joinKeywords(item.MatchedKeywords)))
		}
		if len(day.Items) > 10 {
			lines = append(lines, fmt.Sprintf("- *...还有 %d 条*", len(day.Items)-10))
		}
		lines = append(lines, "")
	}

	lines = append(lines,
		"---",
		"",
		fmt.Sprintf("*报告生成时间：%s*", opts.now().Format("2006-01-02 15:04")),
	)

	return strings.Join(lines, "\n")
}
