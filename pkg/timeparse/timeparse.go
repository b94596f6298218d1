package timeparse

import (
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// layouts 按优先级排列的已知时间格式
var layouts = []string{
	"1/2/2006 15:04:05", // 10/29/2025 0:58:55
	"1/2/2006 15:04",    // 8/12/2025 10:30
	"1/2/2006",          // 8/12/2025
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02",
}

// Parse 解析异构的日期时间字符串。
// 依次尝试已知格式，全部失败后退回到 dateparse 的宽松解析
// （可处理 "Mon, 11 Aug 2025 22:37:00 +0800" 这类 RFC-822 风格）。
func Parse(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("空的时间字符串")
	}

	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}

	t, err := dateparse.ParseAny(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("无法解析时间 %q: %w", s, err)
	}
	return t, nil
}

// SameDay 判断两个时间是否为同一天（只比较年月日，忽略时区与时刻）
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
