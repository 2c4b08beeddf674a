package notify

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/url"
)

// Sign 计算时间窗签名：对 "{timestamp}\n{secret}" 做 HMAC-SHA256 后 base64。
// 飞书和钉钉的加签算法一致，只是时间戳单位不同（秒 / 毫秒）。
func Sign(secret string, timestamp int64) string {
	stringToSign := fmt.Sprintf("%d\n%s", timestamp, secret)
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(stringToSign))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// SignedURL 把 timestamp 和 sign 追加到 webhook 地址的查询参数上。
// secret 为空时原样返回。机器人 webhook 通常不带查询串，此时用 ? 起头。
func SignedURL(webhookURL, secret string, timestamp int64) string {
	if secret == "" {
		return webhookURL
	}
	sep := "?"
	if u, err := url.Parse(webhookURL); err == nil && u.RawQuery != "" {
		sep = "&"
	}
	sign := Sign(secret, timestamp)
	return fmt.Sprintf("%s%stimestamp=%d&sign=%s", webhookURL, sep, timestamp, url.QueryEscape(sign))
}
