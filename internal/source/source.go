// Package source 收录各新闻站点的列表端点与解析规则。
// 每个站点只描述"去哪儿拿、怎么解析"，抓取调度统一交给 harvest。
package source

import (
	"fmt"
	"sort"

	"github.com/leafny/newsharvest/internal/extract"
	"github.com/leafny/newsharvest/internal/harvest"
	"github.com/leafny/newsharvest/internal/model"
)

// detailItem 通用详情解析：正文提取结果映射到新闻结构
func detailItem(raw []byte, pageURL string) model.NewsItem {
	art := extract.Content(string(raw), pageURL)
	return model.NewsItem{
		URL:         pageURL,
		Title:       art.Title,
		Author:      art.Author,
		PublishTime: art.PublishTime,
		Content:     art.Content,
		Images:      art.Images,
		Meta:        art.Meta,
	}
}

// 详情字段白名单的两种常见组合
var (
	detailFieldsFull     = []string{"url", "title", "author", "publish_time", "content", "images"}
	detailFieldsNoAuthor = []string{"url", "title", "publish_time", "content", "images"}
)

// Registry 按编码索引全部已注册来源
type Registry struct {
	sources map[string]harvest.ListSource
	order   []string
}

func NewRegistry() *Registry {
	r := &Registry{sources: map[string]harvest.ListSource{}}
	for _, s := range []harvest.ListSource{
		NewSina(),
		NewTencent(),
		NewNetease(),
		NewCCTV(),
		NewToutiao(),
		NewBaidu(),
		NewWeibo(),
		NewThePaper(),
		NewZhihu(),
		NewSZTV(),
		NewIfeng(),
	} {
		r.sources[s.Name()] = s
		r.order = append(r.order, s.Name())
	}
	return r
}

// Get 按编码返回来源
func (r *Registry) Get(name string) (harvest.ListSource, error) {
	s, ok := r.sources[name]
	if !ok {
		return nil, fmt.Errorf("未知的新闻来源: %s", name)
	}
	return s, nil
}

// All 按注册顺序返回全部来源
func (r *Registry) All() []harvest.ListSource {
	out := make([]harvest.ListSource, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.sources[name])
	}
	return out
}

// Names 返回全部来源编码，字典序
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.sources))
	for name := range r.sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
