package source

import (
	"encoding/json"
	"log"
	"time"

	"github.com/leafny/newsharvest/internal/extract"
	"github.com/leafny/newsharvest/internal/harvest"
	"github.com/leafny/newsharvest/internal/model"
	"github.com/leafny/newsharvest/internal/timeutil"
)

// 新浪两个列表接口都走 JSONP：滚动接口用回调函数包裹，
// 热榜接口返回一段 var 赋值的脚本。
var (
	sinaRollPattern = extract.CallbackPattern("feedCardJsonpCallback")
	sinaHotPattern  = extract.VarPattern("all_1_data01")
)

type Sina struct{}

func NewSina() *Sina { return &Sina{} }

func (s *Sina) Name() string        { return model.SourceSina }
func (s *Sina) DisplayName() string { return "新浪新闻" }

func (s *Sina) ListRequest(t model.NewsType) (*harvest.Request, error) {
	now := timeutil.TimestampMillis(time.Now())
	switch t {
	case model.NewsTypeLatestChina:
		return &harvest.Request{
			Method: "GET",
			URL:    "https://feed.sina.com.cn/api/roll/get",
			Params: map[string]string{
				"pageid":        "121",
				"lid":           "1356",
				"num":           "20",
				"versionNumber": "1.2.4",
				"page":          "1",
				"encode":        "utf-8",
				"callback":      "feedCardJsonpCallback",
				"_":             now,
			},
			Headers: map[string]string{
				"referer": "https://news.sina.com.cn/china/",
			},
		}, nil
	case model.NewsTypeHot:
		return &harvest.Request{
			Method: "GET",
			URL:    "https://top.news.sina.com.cn/ws/GetTopDataList.php",
			Params: map[string]string{
				"top_type":     "day",
				"top_cat":      "www_www_all_suda_suda",
				"top_time":     timeutil.DateCompact(time.Now()),
				"top_show_num": "50",
				"top_order":    "DESC",
				"short_title":  "1",
				"js_var":       "all_1_data01",
				"_":            now,
			},
		}, nil
	default:
		return nil, harvest.ErrUnsupported
	}
}

func (s *Sina) ParseList(t model.NewsType, raw []byte) []model.Stub {
	if t == model.NewsTypeHot {
		return s.parseHotList(raw)
	}
	return s.parseRollList(raw)
}

func (s *Sina) parseRollList(raw []byte) []model.Stub {
	payload, err := extract.UnwrapJSONP(raw, sinaRollPattern)
	if err != nil {
		log.Printf("warn: 新浪滚动列表解包失败: %v", err)
		return nil
	}

	var body struct {
		Result struct {
			Data []struct {
				Title string `json:"title"`
				URL   string `json:"url"`
				Intro string `json:"intro"`
			} `json:"data"`
		} `json:"result"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		log.Printf("warn: 新浪滚动列表解析失败: %v", err)
		return nil
	}

	stubs := make([]model.Stub, 0, len(body.Result.Data))
	for _, d := range body.Result.Data {
		if d.Title == "" || d.URL == "" {
			continue
		}
		stubs = append(stubs, model.Stub{Title: d.Title, URL: d.URL, Description: d.Intro})
	}
	return stubs
}

func (s *Sina) parseHotList(raw []byte) []model.Stub {
	payload, err := extract.UnwrapJSONP(raw, sinaHotPattern)
	if err != nil {
		log.Printf("warn: 新浪热榜解包失败: %v", err)
		return nil
	}

	var body struct {
		Data []struct {
			Title string `json:"title"`
			URL   string `json:"url"`
		} `json:"data"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		log.Printf("warn: 新浪热榜解析失败: %v", err)
		return nil
	}

	stubs := make([]model.Stub, 0, len(body.Data))
	for _, d := range body.Data {
		if d.Title == "" || d.URL == "" {
			continue
		}
		stubs = append(stubs, model.Stub{Title: d.Title, URL: d.URL})
	}
	return stubs
}

func (s *Sina) DetailRequest(stub model.Stub) *harvest.Request {
	return &harvest.Request{Method: "GET", URL: stub.URL}
}

func (s *Sina) ParseDetail(raw []byte, pageURL string) model.NewsItem {
	return detailItem(raw, pageURL)
}

func (s *Sina) AllowedFields() []string { return detailFieldsFull }
