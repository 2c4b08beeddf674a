package source

import (
	"encoding/json"
	"log"

	"github.com/leafny/newsharvest/internal/harvest"
	"github.com/leafny/newsharvest/internal/model"
)

// ThePaper 澎湃新闻热榜。
// 列表接口只给 contId，详情链接按固定前缀拼出。
type ThePaper struct{}

func NewThePaper() *ThePaper { return &ThePaper{} }

func (s *ThePaper) Name() string        { return model.SourceThePaper }
func (s *ThePaper) DisplayName() string { return "澎湃新闻" }

func (s *ThePaper) ListRequest(t model.NewsType) (*harvest.Request, error) {
	if t != model.NewsTypeHot {
		return nil, harvest.ErrUnsupported
	}
	return &harvest.Request{
		Method: "GET",
		URL:    "https://cache.thepaper.cn/contentapi/wwwIndex/rightSidebar",
	}, nil
}

func (s *ThePaper) ParseList(t model.NewsType, raw []byte) []model.Stub {
	var body struct {
		Data struct {
			HotNews []struct {
				Name   string `json:"name"`
				ContID string `json:"contId"`
			} `json:"hotNews"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		log.Printf("warn: 澎湃热榜解析失败: %v", err)
		return nil
	}

	stubs := make([]model.Stub, 0, len(body.Data.HotNews))
	for _, d := range body.Data.HotNews {
		if d.Name == "" || d.ContID == "" {
			continue
		}
		stubs = append(stubs, model.Stub{
			Title: d.Name,
			URL:   "https://www.thepaper.cn/newsDetail_forward_" + d.ContID,
		})
	}
	return stubs
}

func (s *ThePaper) DetailRequest(stub model.Stub) *harvest.Request {
	return &harvest.Request{Method: "GET", URL: stub.URL}
}

func (s *ThePaper) ParseDetail(raw []byte, pageURL string) model.NewsItem {
	return detailItem(raw, pageURL)
}

func (s *ThePaper) AllowedFields() []string { return detailFieldsNoAuthor }
