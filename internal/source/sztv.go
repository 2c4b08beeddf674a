package source

import (
	"log"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/leafny/newsharvest/internal/harvest"
	"github.com/leafny/newsharvest/internal/model"
)

// SZTV 深圳卫视。列表页和详情页都靠脚本拼 DOM，必须走浏览器渲染。
type SZTV struct{}

func NewSZTV() *SZTV { return &SZTV{} }

func (s *SZTV) Name() string        { return model.SourceSZTV }
func (s *SZTV) DisplayName() string { return "深圳卫视" }

func (s *SZTV) Rendered() bool { return true }

// Concurrency 渲染抓取开销大，压低并发
func (s *SZTV) Concurrency() int { return 2 }

func (s *SZTV) ListRequest(t model.NewsType) (*harvest.Request, error) {
	if t != model.NewsTypeHot {
		return nil, harvest.ErrUnsupported
	}
	return &harvest.Request{
		Method: "GET",
		URL:    "https://www.sztv.com.cn/news/",
	}, nil
}

func (s *SZTV) ParseList(t model.NewsType, raw []byte) []model.Stub {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(raw)))
	if err != nil {
		log.Printf("warn: 深圳卫视列表页解析失败: %v", err)
		return nil
	}

	var stubs []model.Stub
	doc.Find("div.news-list-more-list div.item_article").Each(func(_ int, item *goquery.Selection) {
		href, _ := item.Find("a[href]").First().Attr("href")
		title := strings.TrimSpace(item.Find("div.item_text").First().Text())
		if title == "" || href == "" {
			return
		}
		stubs = append(stubs, model.Stub{Title: title, URL: href})
	})
	return stubs
}

func (s *SZTV) DetailRequest(stub model.Stub) *harvest.Request {
	return &harvest.Request{Method: "GET", URL: stub.URL}
}

func (s *SZTV) ParseDetail(raw []byte, pageURL string) model.NewsItem {
	return detailItem(raw, pageURL)
}

func (s *SZTV) AllowedFields() []string { return detailFieldsFull }
