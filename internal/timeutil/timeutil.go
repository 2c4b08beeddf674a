package timeutil

import (
	"fmt"
	"strings"
	"time"
)

// isoLayouts ISO 8601 优先
var isoLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// customLayouts 常见来源格式，按精度从高到低排列：
// 中文日期、横线、斜线、紧凑写法，以及英文月份与 12 小时制的变体。
var customLayouts = []string{
	"2006年01月02日 15:04:05",
	"2006-01-02 15:04:05",
	"2006/01/02 15:04:05",
	"20060102 15:04:05",
	"2006年01月02日 15:04",
	"2006-01-02 15:04",
	"2006/01/02 15:04",
	"20060102 15:04",
	"2006年01月02日",
	"2006-01-02",
	"2006/01/02",
	"20060102",
	"01/02/2006 15:04:05",
	"01/02/2006 03:04:05 PM",
	"02/01/2006 15:04:05",
	"02/01/2006 03:04:05 PM",
	"Jan 2, 2006 15:04:05",
	"Jan 2, 2006 03:04:05 PM",
	"2 Jan 2006 15:04:05",
	"2 Jan 2006 03:04:05 PM",
}

// Parse 把来源站点的发布时间字符串解析为 time.Time。
// 全部格式都不匹配时返回错误，由调用方决定丢字段还是丢整条。
func Parse(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("时间字符串为空")
	}

	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}

	for _, layout := range customLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("无法解析日期时间字符串：%s", s)
}

// TimestampMillis 毫秒级时间戳字符串，部分列表接口要求带 _ 参数防缓存
func TimestampMillis(now time.Time) string {
	return fmt.Sprintf("%d", now.UnixMilli())
}

// DateCompact YYYYMMDD，新浪热榜的 top_time 参数格式
func DateCompact(now time.Time) string {
	return now.Format("20060102")
}
