package extract

import (
	"fmt"
	"regexp"
)

// CallbackPattern 构造匹配 name({...}) 或 name([...]) 形式 JSONP 包裹的正则。
// (?s) 允许跨行匹配，捕获组 1 是 JSON 本体。
func CallbackPattern(name string) *regexp.Regexp {
	return regexp.MustCompile(`(?s)` + regexp.QuoteMeta(name) + `\(\s*([\[{].*[\]}])\s*\)`)
}

// VarPattern 构造匹配 var name = {...}; 形式赋值包裹的正则
func VarPattern(name string) *regexp.Regexp {
	return regexp.MustCompile(`(?s)var\s+` + regexp.QuoteMeta(name) + `\s*=\s*(\{.*?\});`)
}

// UnwrapJSONP 从 JSONP 信封中剥出 JSON 本体。
// pattern 的第一个捕获组必须是 JSON 字符串。
func UnwrapJSONP(raw []byte, pattern *regexp.Regexp) ([]byte, error) {
	m := pattern.FindSubmatch(raw)
	if len(m) < 2 {
		return nil, fmt.Errorf("未找到有效的 JSON 数据")
	}
	return m[1], nil
}
