package notify

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/leafny/newsharvest/internal/model"
)

func TestSignMatchesHMACContract(t *testing.T) {
	const secret = "sec-123"
	const ts = int64(1737700000)

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte("1737700000\n" + secret))
	want := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	if got := Sign(secret, ts); got != want {
		t.Fatalf("Sign = %q, want %q", got, want)
	}
}

func TestSignedURLAppendsParams(t *testing.T) {
	base := "https://open.feishu.cn/open-apis/bot/v2/hook/abc?x=1"
	signed := SignedURL(base, "sec", 1737700000)
	if !strings.Contains(signed, "&timestamp=1737700000&sign=") {
		t.Fatalf("signed url missing params: %s", signed)
	}

	u, err := url.Parse(signed)
	if err != nil {
		t.Fatalf("signed url not parseable: %v", err)
	}
	if u.Query().Get("sign") == "" {
		t.Fatalf("sign query param empty")
	}

	// 无密钥时不加签
	if got := SignedURL(base, "", 1737700000); got != base {
		t.Fatalf("unsigned url should be unchanged: %s", got)
	}
}

func TestSignedURLWithoutExistingQuery(t *testing.T) {
	// 真实机器人 webhook 不带查询串，签名参数应以 ? 起头
	base := "https://open.feishu.cn/open-apis/bot/v2/hook/abc"
	signed := SignedURL(base, "sec", 1737700000)
	if !strings.HasPrefix(signed, base+"?timestamp=1737700000&sign=") {
		t.Fatalf("signed url malformed: %s", signed)
	}
	u, err := url.Parse(signed)
	if err != nil {
		t.Fatalf("signed url not parseable: %v", err)
	}
	if u.Query().Get("timestamp") != "1737700000" || u.Query().Get("sign") == "" {
		t.Fatalf("signed params missing: %s", signed)
	}
}

func TestFeishuNotifyBatchPostsNumberedLinks(t *testing.T) {
	var payload map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if r.URL.Query().Get("sign") == "" {
			t.Errorf("expected signed request")
		}
		_, _ = w.Write([]byte(`{"code":0}`))
	}))
	defer srv.Close()

	n := NewFeishuNotifier(srv.URL+"?k=1", "secret", true)
	n.now = func() time.Time { return time.Unix(1737700000, 0) }

	items := []model.NewsItem{
		{Title: "新闻A", URL: "https://x/a"},
		{Title: "新闻C", URL: "https://x/c"},
	}
	if err := n.NotifyBatch(context.Background(), items, "汇总"); err != nil {
		t.Fatalf("NotifyBatch error: %v", err)
	}

	if payload["msg_type"] != "post" {
		t.Fatalf("msg_type = %v, want post", payload["msg_type"])
	}
	raw, _ := json.Marshal(payload)
	if !strings.Contains(string(raw), "1. 新闻A") || !strings.Contains(string(raw), "2. 新闻C") {
		t.Fatalf("numbered titles missing: %s", raw)
	}
}

func TestFeishuDisabledPerformsNoRequest(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
	}))
	defer srv.Close()

	n := NewFeishuNotifier(srv.URL, "", false)
	if err := n.NotifyBatch(context.Background(), []model.NewsItem{{Title: "t", URL: "u"}}, "x"); err != nil {
		t.Fatalf("disabled notifier should return nil, got %v", err)
	}
	if hits != 0 {
		t.Fatalf("disabled notifier must not call webhook, hits=%d", hits)
	}
}

func TestFeishuEmptyBatchNoOp(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
	}))
	defer srv.Close()

	n := NewFeishuNotifier(srv.URL, "", true)
	if err := n.NotifyBatch(context.Background(), nil, "x"); err != nil {
		t.Fatalf("empty batch should be a successful no-op, got %v", err)
	}
	if hits != 0 {
		t.Fatalf("empty batch must not call webhook, hits=%d", hits)
	}
}

func TestFeishuCardGroupsAndMoreButton(t *testing.T) {
	var raw []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ = io.ReadAll(r.Body)
		_, _ = w.Write([]byte(`{"code":0}`))
	}))
	defer srv.Close()

	n := NewFeishuNotifier(srv.URL, "", true)
	items := make([]model.NewsItem, 7)
	for i := range items {
		items[i] = model.NewsItem{Title: "t", URL: "https://x"}
	}
	err := n.SendNewsCard(context.Background(), items, CardOptions{
		AtAll: true, GroupSize: 5, MoreURL: "https://news.baidu.com",
	})
	if err != nil {
		t.Fatalf("SendNewsCard error: %v", err)
	}
	s := string(raw)
	if !strings.Contains(s, `"msg_type":"interactive"`) {
		t.Fatalf("card message missing msg_type: %s", s)
	}
	if !strings.Contains(s, "查看更多新闻") {
		t.Fatalf("card message missing more button: %s", s)
	}
}

func TestDingTalkFailureReturnedNotPanicked(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad sign", http.StatusForbidden)
	}))
	defer srv.Close()

	n := NewDingTalkNotifier(srv.URL, "s", true)
	err := n.NotifyBatch(context.Background(), []model.NewsItem{{Title: "t", URL: "u"}}, "汇总")
	if err == nil {
		t.Fatalf("expected error on non-200 response")
	}
}

func TestDingTalkMarkdownShape(t *testing.T) {
	var payload map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&payload)
		_, _ = w.Write([]byte(`{"errcode":0}`))
	}))
	defer srv.Close()

	n := NewDingTalkNotifier(srv.URL+"?a=1", "sec", true)
	n.now = func() time.Time { return time.Unix(1737700000, 0) }
	items := []model.NewsItem{{Title: "标题", URL: "https://x/1"}}
	if err := n.NotifyBatch(context.Background(), items, "热点汇总"); err != nil {
		t.Fatalf("NotifyBatch error: %v", err)
	}

	if payload["msgtype"] != "markdown" {
		t.Fatalf("msgtype = %v", payload["msgtype"])
	}
	md, _ := payload["markdown"].(map[string]any)
	text, _ := md["text"].(string)
	if !strings.Contains(text, "1. [标题](https://x/1)") {
		t.Fatalf("markdown body = %q", text)
	}
}
