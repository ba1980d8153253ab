// Package retry は外部ソース読み込み用の回数制限付きリトライを提供します。
package retry

import (
	"context"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// Policy はリトライ回数と固定待機時間を表します。
type Policy struct {
	Attempts int           // 最大試行回数（1未満は1として扱う）
	Backoff  time.Duration // 試行間の固定待機時間
}

// DefaultPolicy は短い固定バックオフで3回まで試行します。
var DefaultPolicy = Policy{Attempts: 3, Backoff: 200 * time.Millisecond}

// Do は fn が成功するまで最大 p.Attempts 回実行し、最後のエラーを返します。
// ctx がキャンセルされた場合は待機を打ち切り、その時点の fn のエラーを返します。
func Do(ctx context.Context, p Policy, op string, fn func(ctx context.Context) error) error {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}

	var (
		last  error
		tries int
	)
	_, err := backoff.Retry(ctx,
		func() (struct{}, error) {
			tries++
			last = fn(ctx)
			return struct{}{}, last
		},
		backoff.WithBackOff(backoff.NewConstantBackOff(p.Backoff)),
		backoff.WithMaxTries(uint(attempts)),
		backoff.WithMaxElapsedTime(0),
		backoff.WithNotify(func(err error, next time.Duration) {
			slog.Warn("retrying after failure", "op", op, "attempt", tries, "next", next, "error", err)
		}),
	)
	if err != nil && last != nil {
		return last
	}
	return err
}
