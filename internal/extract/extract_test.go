package extract

import (
	"strings"
	"testing"
)

func TestUnwrapJSONPCallback(t *testing.T) {
	raw := []byte(`try{feedCardJsonpCallback({"result":{"data":[{"title":"t1"}]}});}catch(e){};`)
	got, err := UnwrapJSONP(raw, CallbackPattern("feedCardJsonpCallback"))
	if err != nil {
		t.Fatalf("UnwrapJSONP error: %v", err)
	}
	if string(got) != `{"result":{"data":[{"title":"t1"}]}}` {
		t.Fatalf("unexpected JSON body: %s", got)
	}
}

func TestUnwrapJSONPArrayCallback(t *testing.T) {
	raw := []byte("data_callback(\n[{\"title\":\"a\",\"docurl\":\"https://x/1\"}]\n)")
	got, err := UnwrapJSONP(raw, CallbackPattern("data_callback"))
	if err != nil {
		t.Fatalf("UnwrapJSONP error: %v", err)
	}
	if !strings.HasPrefix(string(got), "[{") {
		t.Fatalf("expected array body, got %s", got)
	}
}

func TestUnwrapJSONPVarAssignment(t *testing.T) {
	raw := []byte(`var all_1_data01 = {"data":[{"title":"热点","url":"https://x/2"}]};`)
	got, err := UnwrapJSONP(raw, VarPattern("all_1_data01"))
	if err != nil {
		t.Fatalf("UnwrapJSONP error: %v", err)
	}
	if string(got) != `{"data":[{"title":"热点","url":"https://x/2"}]}` {
		t.Fatalf("unexpected JSON body: %s", got)
	}
}

func TestUnwrapJSONPMalformed(t *testing.T) {
	for _, raw := range []string{"", "<html></html>", "news();"} {
		if _, err := UnwrapJSONP([]byte(raw), CallbackPattern("news")); err == nil {
			t.Fatalf("UnwrapJSONP(%q) should fail", raw)
		}
	}
}

const sampleDetailHTML = `<!DOCTYPE html>
<html><head>
<title>测试新闻标题</title>
<meta name="author" content="记者小王">
<meta name="publishdate" content="2025-01-24 13:28:33">
<meta name="description" content="一段简介">
</head><body>
<article>
<p>这是正文的第一段，内容足够长可以被识别为有效段落，避免被长度过滤器丢掉。</p>
<p>这是正文的第二段，同样写得足够长，用来验证段落拼接与空白归一化的行为是否正确。</p>
<img src="/images/a.png">
</article>
</body></html>`

func TestContentExtractsFields(t *testing.T) {
	art := Content(sampleDetailHTML, "https://news.example.com/2025/0124/1.html")

	if !strings.Contains(art.Title, "测试新闻标题") {
		t.Fatalf("title = %q", art.Title)
	}
	if art.PublishTime != "2025-01-24 13:28:33" {
		t.Fatalf("publish time = %q", art.PublishTime)
	}
	if !strings.Contains(art.Content, "正文的第一段") || !strings.Contains(art.Content, "第二段") {
		t.Fatalf("content missing paragraphs: %q", art.Content)
	}
	if len(art.Images) == 0 || !strings.Contains(art.Images[len(art.Images)-1], "news.example.com/images/a.png") {
		t.Fatalf("images = %v", art.Images)
	}
}

func TestContentMalformedHTMLNeverFails(t *testing.T) {
	for _, raw := range []string{"", "<<<<", "{\"json\":true}", "<html><body></body></html>"} {
		art := Content(raw, "https://x/1")
		if art.Meta == nil {
			t.Fatalf("meta map should always be initialized")
		}
	}
}
