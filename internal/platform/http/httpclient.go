// Package http は外部ソース取得用のHTTPクライアントを提供します。
package http

import (
	"net"
	"net/http"
	"time"
)

// UserAgent は指数ソースなど外部取得時に送るUser-Agentです。
const UserAgent = "boncer-backend/1.0"

// NewHTTPClient は外部ソース取得用に設定されたHTTPクライアントを作成します。
//
// http.DefaultClient にはタイムアウトがないため、常にこのクライアントを使うこと。
// timeout はリクエスト全体の上限で、接続・TLS・レスポンスヘッダーにはより短い上限を設けます。
func NewHTTPClient(timeout time.Duration) *http.Client {
	t := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          20,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ResponseHeaderTimeout: timeout,
	}
	return &http.Client{Timeout: timeout, Transport: userAgentTransport{next: t}}
}

// userAgentTransport は User-Agent 未設定のリクエストに既定値を付けます。
type userAgentTransport struct {
	next http.RoundTripper
}

func (u userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") != "" {
		return u.next.RoundTrip(req)
	}
	r := req.Clone(req.Context())
	r.Header.Set("User-Agent", UserAgent)
	return u.next.RoundTrip(r)
}
