package source

import (
	"encoding/json"
	"log"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/leafny/newsharvest/internal/extract"
	"github.com/leafny/newsharvest/internal/harvest"
	"github.com/leafny/newsharvest/internal/model"
)

var neteasePattern = extract.CallbackPattern("data_callback")

// Netease 网易新闻。
// 最新国内新闻是 data_callback 包裹的 JSON 数组，热门新闻直接解析频道页 DOM。
type Netease struct{}

func NewNetease() *Netease { return &Netease{} }

func (s *Netease) Name() string        { return model.SourceNetease }
func (s *Netease) DisplayName() string { return "网易新闻" }

func (s *Netease) ListRequest(t model.NewsType) (*harvest.Request, error) {
	switch t {
	case model.NewsTypeLatestChina:
		return &harvest.Request{
			Method: "GET",
			URL:    "https://news.163.com/special/cm_guonei/",
		}, nil
	case model.NewsTypeHot:
		return &harvest.Request{
			Method: "GET",
			URL:    "https://news.163.com/domestic/",
		}, nil
	default:
		return nil, harvest.ErrUnsupported
	}
}

func (s *Netease) ParseList(t model.NewsType, raw []byte) []model.Stub {
	if t == model.NewsTypeHot {
		return s.parseHotList(raw)
	}
	return s.parseRollList(raw)
}

func (s *Netease) parseRollList(raw []byte) []model.Stub {
	payload, err := extract.UnwrapJSONP(raw, neteasePattern)
	if err != nil {
		log.Printf("warn: 网易列表解包失败: %v", err)
		return nil
	}

	var entries []struct {
		Title  string `json:"title"`
		DocURL string `json:"docurl"`
	}
	if err := json.Unmarshal(payload, &entries); err != nil {
		log.Printf("warn: 网易列表解析失败: %v", err)
		return nil
	}

	stubs := make([]model.Stub, 0, len(entries))
	for _, e := range entries {
		if e.Title == "" || e.DocURL == "" {
			continue
		}
		stubs = append(stubs, model.Stub{Title: e.Title, URL: e.DocURL})
	}
	return stubs
}

// parseHotList 解析频道页"今日推荐"栏目里的条目
func (s *Netease) parseHotList(raw []byte) []model.Stub {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(raw)))
	if err != nil {
		log.Printf("warn: 网易热门页解析失败: %v", err)
		return nil
	}

	var stubs []model.Stub
	doc.Find("div.mt15.mod_jrtj li a").Each(func(_ int, sel *goquery.Selection) {
		title, _ := sel.Attr("title")
		href, _ := sel.Attr("href")
		if title != "" && href != "" {
			stubs = append(stubs, model.Stub{Title: title, URL: href})
		}
	})
	return stubs
}

func (s *Netease) DetailRequest(stub model.Stub) *harvest.Request {
	return &harvest.Request{Method: "GET", URL: stub.URL}
}

func (s *Netease) ParseDetail(raw []byte, pageURL string) model.NewsItem {
	item := detailItem(raw, pageURL)
	// 正文前缀带分享栏文案时剥掉
	if idx := strings.LastIndex(item.Content, "朋友圈\n"); idx >= 0 {
		item.Content = item.Content[idx+len("朋友圈\n"):]
	}
	return item
}

func (s *Netease) AllowedFields() []string { return detailFieldsFull }
