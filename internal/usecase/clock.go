package usecase

import "time"

// Clock は時刻取得の抽象。テストで固定時刻を注入する。
type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time {
	return time.Now().UTC()
}
