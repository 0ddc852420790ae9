// Package utils contains various common utils separate by utility types
package utils

import (
	"time"
)

// CurrentEpochSecsInInt64 returns the current time in epoch seconds
func CurrentEpochSecsInInt64() int64 {
	return time.Now().Unix()
}
