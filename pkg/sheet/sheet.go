package sheet

import (
	"context"
	"sort"
	"time"

	"github.com/iWorld-y/rss_digest/pkg/logger"
	"github.com/iWorld-y/rss_digest/pkg/timeparse"
)

// Sheet 表格数据源的窄接口，核心逻辑只依赖它
type Sheet interface {
	// Values 返回整张表的二维字符串数组，第一行为表头
	Values(ctx context.Context) ([][]string, error)
	// DeleteRow 删除第 idx 行（0 起始，含表头行）
	DeleteRow(ctx context.Context, idx int) error
}

// Cleanup 删除抓取时间早于 now-days 的数据行，返回删除条数。
// 时间无法解析的行一律保留；删除按行号从大到小执行，避免行号位移。
// 单行删除失败只告警并跳过，不中断整个清理。
func Cleanup(ctx context.Context, s Sheet, crawlCol int, days int, now time.Time) (int, error) {
	rows, err := s.Values(ctx)
	if err != nil {
		return 0, err
	}

	cutoff := now.AddDate(0, 0, -days)
	var stale []int

	for i := 1; i < len(rows); i++ { // 跳过表头
		row := rows[i]
		if crawlCol <= 0 || crawlCol > len(row) {
			continue
		}
		t, err := timeparse.Parse(row[crawlCol-1])
		if err != nil {
			// 无法解析时间的行视为永久保留
			continue
		}
		if t.Before(cutoff) {
			stale = append(stale, i)
		}
	}

	// 行号从大到小删除，保证前面的行号不受影响
	sort.Sort(sort.Reverse(sort.IntSlice(stale)))

	deleted := 0
	for _, idx := range stale {
		if err := s.DeleteRow(ctx, idx); err != nil {
			logger.Log.Warnf("删除第 %d 行失败，跳过: %v", idx, err)
			continue
		}
		deleted++
	}

	logger.Log.Infof("清理完成：共 %d 行过期数据，成功删除 %d 行", len(stale), deleted)
	return deleted, nil
}
