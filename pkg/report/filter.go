package report

import (
	"time"

	"github.com/iWorld-y/rss_digest/pkg/config"
	"github.com/iWorld-y/rss_digest/pkg/keyword"
	"github.com/iWorld-y/rss_digest/pkg/logger"
	"github.com/iWorld-y/rss_digest/pkg/model"
	"github.com/iWorld-y/rss_digest/pkg/timeparse"
)

// minColumns 一行数据至少要有的列数，不足则整行跳过
const minColumns = 6

// Filter 按日期与关键词筛选表格数据
type Filter struct {
	cols    config.ColumnsConfig
	matcher *keyword.Matcher
}

// NewFilter 创建筛选器
func NewFilter(cols config.ColumnsConfig, matcher *keyword.Matcher) *Filter {
	return &Filter{cols: cols, matcher: matcher}
}

// cell 取某行的第 idx 列（1 起始），越界返回空串
func cell(row []string, idx int) string {
	if idx <= 0 || idx > len(row) {
		return ""
	}
	return row[idx-1]
}

// ByDate 筛选指定日期的数据并做关键词过滤，保持行顺序。
// rows 的第一行是表头，会被跳过。
func (f *Filter) ByDate(rows [][]string, target time.Time) []model.Item {
	var items []model.Item
	if len(rows) == 0 {
		return items
	}

	for _, row := range rows[1:] {
		if len(row) < minColumns {
			continue
		}

		crawlStr := cell(row, f.cols.CrawlTime)
		crawlTime, err := timeparse.Parse(crawlStr)
		if err != nil {
			logger.Log.Debugf("跳过无法解析时间的行: %v", err)
			continue
		}

		// 只比较年月日
		if !timeparse.SameDay(crawlTime, target) {
			continue
		}

		title := cell(row, f.cols.Title)
		matched := f.matcher.Match(title)
		if len(matched) == 0 {
			continue
		}

		items = append(items, model.Item{
			CrawlTime:       crawlStr,
			CrawlTimeParsed: crawlTime,
			Attribute:       cell(row, f.cols.Attribute),
			SourceName:      cell(row, f.cols.SourceName),
			Category:        cell(row, f.cols.Category),
			Title:           title,
			Link:            cell(row, f.cols.Link),
			Description:     cell(row, f.cols.Description),
			PublishTime:     cell(row, f.cols.PublishTime),
			Author:          cell(row, f.cols.Author),
			MatchedKeywords: matched,
		})
	}

	return items
}

// ByMonth 按自然日逐天筛选整月数据，结果按日期先后拼接
func (f *Filter) ByMonth(rows [][]string, year int, month time.Month) []model.Item {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	end := start.AddDate(0, 1, 0)

	var items []model.Item
	for day := start; day.Before(end); day = day.AddDate(0, 0, 1) {
		items = append(items, f.ByDate(rows, day)...)
	}
	return items
}

// LatestCrawlDate 返回表格中最新的抓取日期，用于未指定目标日期的场景
func (f *Filter) LatestCrawlDate(rows [][]string) (time.Time, bool) {
	var latest time.Time
	var found bool

	if len(rows) == 0 {
		return latest, false
	}
	for _, row := range rows[1:] {
		s := cell(row, f.cols.CrawlTime)
		if s == "" {
			continue
		}
		t, err := timeparse.Parse(s)
		if err != nil {
			continue
		}
		if !found || t.After(latest) {
			latest = t
			found = true
		}
	}
	return latest, found
}
