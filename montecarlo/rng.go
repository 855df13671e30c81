package montecarlo

import (
	"math/rand"
	"time"
)

// deriveSeed mixes the run seed and a trial index into an independent
// 64-bit seed with the SplitMix64 finalizer.
func deriveSeed(parent int64, stream uint64) int64 {
	x := uint64(parent) ^ (stream + 0x9e3779b97f4a7c15)
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	x ^= x >> 31

	return int64(x)
}

// trialRNG returns the stream of trial index i.
// math/rand.Rand is not goroutine-safe; each trial owns its stream.
func trialRNG(seed int64, i int) *rand.Rand {
	return rand.New(rand.NewSource(deriveSeed(seed, uint64(i))))
}

// freshSeed is used when no seed was configured.
func freshSeed() int64 {
	return time.Now().UnixNano()
}
