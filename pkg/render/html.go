package render

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/iWorld-y/rss_digest/pkg/model"
)

// htmlView 供模板渲染的视图数据，入模板前已完成截断、锚点等计算
type htmlView struct {
	Date          string
	Total         int
	SourceCount   int
	HasSummaries  bool
	ShowSummaries bool
	Summaries     []htmlSummary
	Groups        []htmlGroup
	Keywords      []model.KeywordCount
	More          []htmlMore
	GeneratedAt   string
}

type htmlSummary struct {
	Icon    string
	Name    string
	Content string
}

type htmlGroup struct {
	Icon          string
	Name          string
	Count         int
	Detail        []htmlItem
	OverflowCount int
	AnchorAttr    template.HTMLAttr
}

type htmlItem struct {
	Index       int
	Priority    bool
	Title       string
	Author      string
	Keywords    string
	Description string
	Link        string
}

type htmlMore struct {
	Icon       string
	Name       string
	AnchorName string
	Items      []htmlLink
}

type htmlLink struct {
	Title string
	Link  string
}

const htmlTpl = `<!DOCTYPE html>
<html lang="zh-CN">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Daily Report - {{.Date}}</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif; max-width: 800px; margin: 0 auto; padding: 20px; line-height: 1.6; color: #333; }
        h1 { text-align: center; color: #2c3e50; }
        .overview { text-align: center; color: #666; }
        details { border: 1px solid #eee; border-radius: 5px; padding: 10px 15px; margin-bottom: 15px; }
        summary { cursor: pointer; font-weight: bold; font-size: 1.1em; color: #2c3e50; }
        .item { border-bottom: 1px solid #f0f0f0; padding: 10px 0; }
        .item .title { font-weight: bold; color: #2c3e50; text-decoration: none; }
        .item .meta { font-size: 0.9em; color: #7f8c8d; }
        .item .desc { background-color: #f9f9f9; padding: 10px; border-radius: 5px; margin-top: 5px; }
        .ai-summary { background-color: #eef6fd; padding: 15px; border-radius: 5px; border-left: 4px solid #3498db; margin-bottom: 15px; }
        .ai-summary .source { font-weight: bold; margin-bottom: 5px; }
        table { border-collapse: collapse; width: 100%; }
        th, td { border: 1px solid #ddd; padding: 6px 12px; text-align: left; }
        th { background-color: #f5f5f5; }
        .footer { text-align: center; color: #999; font-size: 0.9em; margin-top: 30px; }
        .more-hint { color: #7f8c8d; font-size: 0.9em; }
    </style>
</head>
<body>
    <h1>📅 Daily Report - {{.Date}}</h1>
    <p class="overview">今日筛选出 <b>{{.Total}}</b> 条内容，来自 <b>{{.SourceCount}}</b> 个来源</p>

    {{if .ShowSummaries}}
    <h2>🤖 AI 速览</h2>
    {{if .HasSummaries}}
    {{range .Summaries}}
    <div class="ai-summary">
        <div class="source">{{.Icon}} {{.Name}}</div>
        <div>{{.Content}}</div>
    </div>
    {{end}}
    {{else}}
    <div class="ai-summary">暂无 AI 总结</div>
    {{end}}
    {{end}}

    <h2>📚 分类浏览</h2>
    {{range .Groups}}
    <details open>
        <summary>{{.Icon}} {{.Name}} ({{.Count}}条)</summary>
        {{range .Detail}}
        <div class="item">
            <div>{{.Index}}. {{if .Priority}}⭐ {{end}}{{if .Link}}<a class="title" href="{{.Link}}" target="_blank">{{.Title}}</a>{{else}}<span class="title">{{.Title}}</span>{{end}}</div>
            <div class="meta">{{if .Author}}✍️ {{.Author}} | {{end}}🏷️ {{.Keywords}}</div>
            {{if .Description}}<div class="desc">{{.Description}}</div>{{end}}
        </div>
        {{end}}
        {{if .OverflowCount}}<p class="more-hint">💡 该来源还有 {{.OverflowCount}} 条内容，详见 <a {{.AnchorAttr}}>文末</a></p>{{end}}
    </details>
    {{end}}

    <h2>📊 关键词统计</h2>
    <table>
        <tr><th>关键词</th><th>出现次数</th></tr>
        {{range .Keywords}}<tr><td>{{.Keyword}}</td><td>{{.Count}}</td></tr>
        {{end}}
    </table>

    {{if .More}}
    <h2>📎 更多内容</h2>
    {{range .More}}
    <details>
        <summary><a name="{{.AnchorName}}"></a>{{.Icon}} {{.Name}} 其他内容 ({{len .Items}}条)</summary>
        <ul>
        {{range .Items}}{{if .Link}}<li><a href="{{.Link}}" target="_blank">{{.Title}}</a></li>{{else}}<li>{{.Title}}</li>{{end}}
        {{end}}</ul>
    </details>
    {{end}}
    {{end}}

    <div class="footer">
        <p>📅 报告生成时间：{{.GeneratedAt}}</p>
        <p>🤖 由 GitHub Actions 自动生成</p>
    </div>
</body>
</html>`

var htmlTemplate = template.Must(template.New("daily").Parse(htmlTpl))

// HTML 把每日文档渲染为带折叠区域的 HTML 页面。
// 章节顺序与 Markdown 输出保持一致，折叠区域使用 details/summary。
func HTML(doc *model.Document, opts Options) (string, error) {
	view := htmlView{
		Date:          doc.Date.Format("2006-01-02"),
		Total:         doc.Total,
		SourceCount:   doc.SourceCount,
		ShowSummaries: doc.Summaries != nil,
		HasSummaries:  hasSummaries(doc),
		GeneratedAt:   opts.now().Format("2006-01-02 15:04"),
	}

	for _, g := range doc.Groups {
		if summary := doc.Summaries[g.Identity.DisplayName]; summary != "" {
			view.Summaries = append(view.Summaries, htmlSummary{
				Icon:    g.Identity.Icon,
				Name:    g.Identity.DisplayName,
				Content: strings.TrimSpace(summary),
			})
		}

		// href 与附录的 name 必须是同一个锚点字符串。
		// 模板的 URL 上下文会对非 ASCII 做百分号编码，导致两侧不一致，
		// 因此整个属性在这里拼好，原样进入模板。
		anchor := "更多-" + Slug(g.Identity.DisplayName)
		hg := htmlGroup{
			Icon:          g.Identity.Icon,
			Name:          g.Identity.DisplayName,
			Count:         g.Count(),
			OverflowCount: len(g.Overflow),
			AnchorAttr:    template.HTMLAttr(`href="#` + anchor + `"`),
		}
		for idx, item := range g.Detail {
			hg.Detail = append(hg.Detail, htmlItem{
				Index:       idx + 1,
				Priority:    priorityMark(item) != "",
				Title:       item.Title,
				Author:      item.Author,
				Keywords:    joinKeywords(item.MatchedKeywords),
				Description: truncate(strings.TrimSpace(item.Description), opts.DescriptionMaxLength),
				Link:        item.Link,
			})
		}
		view.Groups = append(view.Groups, hg)

		if opts.ShowMoreSection && len(g.Overflow) > 0 {
			more := htmlMore{
				Icon:       g.Identity.Icon,
				Name:       g.Identity.DisplayName,
				AnchorName: anchor,
			}
			for _, item := range g.Overflow {
				more.Items = append(more.Items, htmlLink{Title: item.Title, Link: item.Link})
			}
			view.More = append(view.More, more)
		}
	}

	limit := opts.statsLimit()
	if limit > len(doc.KeywordStats) {
		limit = len(doc.KeywordStats)
	}
	view.Keywords = doc.KeywordStats[:limit]

	var sb strings.Builder
	if err := htmlTemplate.Execute(&sb, view); err != nil {
		return "", fmt.Errorf("渲染 HTML 模板失败: %w", err)
	}
	return sb.String(), nil
}
