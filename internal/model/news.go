package model

// Category 新闻分类标签，与数据库枚举保持一致
type Category string

const (
	CategoryHot                 Category = "hot"
	CategoryLatestChina         Category = "latest_china"
	CategoryLatestInternational Category = "latest_international"
)

// NewsType 指定一次采集抓取哪类新闻
type NewsType string

const (
	NewsTypeHot         NewsType = "hot_news"
	NewsTypeLatestChina NewsType = "latest_china_news"
)

// Category 返回该新闻类型入库时使用的分类标签
func (t NewsType) Category() Category {
	switch t {
	case NewsTypeLatestChina:
		return CategoryLatestChina
	default:
		return CategoryHot
	}
}

// Label 用于日志前缀与通知标题
func (t NewsType) Label() string {
	switch t {
	case NewsTypeLatestChina:
		return "最新国内新闻"
	default:
		return "热点新闻"
	}
}

// 新闻来源站点编码
const (
	SourceSina     = "sina"
	SourceTencent  = "tencent"
	SourceNetease  = "netease"
	SourceCCTV     = "cctv"
	SourceToutiao  = "toutiao"
	SourceBaidu    = "baidu"
	SourceThePaper = "the_paper"
	SourceZhihu    = "zhihu"
	SourceWeibo    = "weibo"
	SourceIfeng    = "feng_huang"
	SourceSZTV     = "sztv"
)

// Stub 列表解析产出的半成品：只有标题和链接（偶尔带简介），
// 仅在一轮采集内存活，详情抓取后即丢弃。
type Stub struct {
	Title       string
	URL         string
	Description string
}

// NewsItem 统一的新闻结构，URL 是跨全站的自然主键。
// PublishTime 保留来源站点的原始字符串，入库时再解析。
type NewsItem struct {
	URL         string         `json:"url"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	Author      string         `json:"author,omitempty"`
	PublishTime string         `json:"publish_time,omitempty"`
	Content     string         `json:"content,omitempty"`
	Images      []string       `json:"images,omitempty"`
	Meta        map[string]any `json:"meta,omitempty"`
}

// FromStub 用 stub 初始化一条未补全的新闻
func FromStub(s Stub) NewsItem {
	return NewsItem{
		URL:         s.URL,
		Title:       s.Title,
		Description: s.Description,
	}
}
