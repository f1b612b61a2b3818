package helper

import (
	"sync"
	"time"

	"golang.org/x/exp/rand"
)

var (
	rngMu sync.Mutex
	rng   = rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
)

// GenerateRandNum 返回 [min, max) 内的随机整数；区间非法时返回 min
func GenerateRandNum(min, max int) int {
	if max <= min {
		return min
	}
	rngMu.Lock()
	defer rngMu.Unlock()
	return min + rng.Intn(max-min)
}
