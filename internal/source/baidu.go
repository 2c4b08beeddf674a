package source

import (
	"log"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/leafny/newsharvest/internal/harvest"
	"github.com/leafny/newsharvest/internal/model"
)

// Baidu 百度热搜榜，榜单页自带简介，不抓详情页
type Baidu struct{}

func NewBaidu() *Baidu { return &Baidu{} }

func (s *Baidu) Name() string        { return model.SourceBaidu }
func (s *Baidu) DisplayName() string { return "百度热搜" }

func (s *Baidu) ListRequest(t model.NewsType) (*harvest.Request, error) {
	if t != model.NewsTypeHot {
		return nil, harvest.ErrUnsupported
	}
	return &harvest.Request{
		Method: "GET",
		URL:    "https://top.baidu.com/board",
		Params: map[string]string{"tab": "realtime"},
	}, nil
}

func (s *Baidu) ParseList(t model.NewsType, raw []byte) []model.Stub {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(raw)))
	if err != nil {
		log.Printf("warn: 百度热搜页解析失败: %v", err)
		return nil
	}

	var stubs []model.Stub
	doc.Find("div.category-wrap_iQLoo").Each(func(_ int, item *goquery.Selection) {
		title := strings.TrimSpace(item.Find("div.c-single-text-ellipsis").First().Text())
		href, _ := item.Find("a.img-wrapper_29V76").First().Attr("href")
		if title == "" || href == "" {
			return
		}

		// 简介有 large/small 两种排版
		desc := strings.TrimSpace(item.Find("div.hot-desc_1m_jR.large_nSuFU").First().Text())
		if desc == "" {
			desc = strings.TrimSpace(item.Find("div.hot-desc_1m_jR.small_Uvkd3").First().Text())
		}
		desc = strings.TrimSuffix(desc, "查看更多>")

		stubs = append(stubs, model.Stub{Title: title, URL: href, Description: strings.TrimSpace(desc)})
	})
	return stubs
}
