package service

import "time"

func utcNow() time.Time { return time.Now().UTC() }

func nowOr(fn func() time.Time) time.Time {
	if fn != nil {
		return fn()
	}
	return utcNow()
}
