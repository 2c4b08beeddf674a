package source

import (
	"encoding/json"
	"log"
	"regexp"

	"github.com/leafny/newsharvest/internal/extract"
	"github.com/leafny/newsharvest/internal/harvest"
	"github.com/leafny/newsharvest/internal/model"
)

var (
	cctvChinaPattern = extract.CallbackPattern("china")
	cctvNewsPattern  = extract.CallbackPattern("news")
)

const cctvHotLimit = 50

// CCTV 央视新闻，两个类别都是 jsonp 静态文件
type CCTV struct{}

func NewCCTV() *CCTV { return &CCTV{} }

func (s *CCTV) Name() string        { return model.SourceCCTV }
func (s *CCTV) DisplayName() string { return "CCTV新闻" }

func (s *CCTV) ListRequest(t model.NewsType) (*harvest.Request, error) {
	switch t {
	case model.NewsTypeLatestChina:
		return &harvest.Request{
			Method: "GET",
			URL:    "https://news.cctv.com/2019/07/gaiban/cmsdatainterface/page/china_1.jsonp",
		}, nil
	case model.NewsTypeHot:
		return &harvest.Request{
			Method: "GET",
			URL:    "https://news.cctv.com/2019/07/gaiban/cmsdatainterface/page/news_1.jsonp",
			Params: map[string]string{"cb": "news"},
		}, nil
	default:
		return nil, harvest.ErrUnsupported
	}
}

func (s *CCTV) ParseList(t model.NewsType, raw []byte) []model.Stub {
	pattern := cctvChinaPattern
	limit := 0
	if t == model.NewsTypeHot {
		pattern = cctvNewsPattern
		limit = cctvHotLimit
	}
	return parseCCTVList(raw, pattern, limit)
}

func parseCCTVList(raw []byte, pattern *regexp.Regexp, limit int) []model.Stub {
	payload, err := extract.UnwrapJSONP(raw, pattern)
	if err != nil {
		log.Printf("warn: 央视列表解包失败: %v", err)
		return nil
	}

	var body struct {
		Data struct {
			List []struct {
				Title string `json:"title"`
				URL   string `json:"url"`
				Brief string `json:"brief"`
			} `json:"list"`
		} `json:"data"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		log.Printf("warn: 央视列表解析失败: %v", err)
		return nil
	}

	entries := body.Data.List
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}

	stubs := make([]model.Stub, 0, len(entries))
	for _, e := range entries {
		if e.Title == "" || e.URL == "" {
			continue
		}
		stubs = append(stubs, model.Stub{Title: e.Title, URL: e.URL, Description: e.Brief})
	}
	return stubs
}

func (s *CCTV) DetailRequest(stub model.Stub) *harvest.Request {
	return &harvest.Request{Method: "GET", URL: stub.URL}
}

func (s *CCTV) ParseDetail(raw []byte, pageURL string) model.NewsItem {
	return detailItem(raw, pageURL)
}

func (s *CCTV) AllowedFields() []string { return detailFieldsFull }
