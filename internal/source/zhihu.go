package source

import (
	"log"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/leafny/newsharvest/internal/harvest"
	"github.com/leafny/newsharvest/internal/model"
)

// Zhihu 知乎热榜，榜单页 DOM 解析，不抓详情页
type Zhihu struct{}

func NewZhihu() *Zhihu { return &Zhihu{} }

func (s *Zhihu) Name() string        { return model.SourceZhihu }
func (s *Zhihu) DisplayName() string { return "知乎热榜" }

func (s *Zhihu) ListRequest(t model.NewsType) (*harvest.Request, error) {
	if t != model.NewsTypeHot {
		return nil, harvest.ErrUnsupported
	}
	return &harvest.Request{
		Method: "GET",
		URL:    "https://www.zhihu.com/hot",
	}, nil
}

func (s *Zhihu) ParseList(t model.NewsType, raw []byte) []model.Stub {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(raw)))
	if err != nil {
		log.Printf("warn: 知乎热榜页解析失败: %v", err)
		return nil
	}

	var stubs []model.Stub
	doc.Find("div.HotItem-content").Each(func(_ int, item *goquery.Selection) {
		href, _ := item.Find("a").First().Attr("href")
		title := strings.TrimSpace(item.Find("h2.HotItem-title").First().Text())
		desc := strings.TrimSpace(item.Find("p.HotItem-excerpt").First().Text())
		if title == "" || href == "" {
			return
		}
		stubs = append(stubs, model.Stub{Title: title, URL: href, Description: desc})
	})
	return stubs
}
