package classify

import "math"

// Bucket is a half-open range [Min, Max) mapped to a category name.
type Bucket struct {
	Name string
	Min  float64
	Max  float64
}

func (b Bucket) contains(v float64) bool {
	return v >= b.Min && v < b.Max
}

const kib = 1024

// SizeBuckets partitions payload sizes in bytes. The last bucket is open ended.
var SizeBuckets = []Bucket{
	{Name: "ultra_small_0-50KB", Min: 0, Max: 50 * kib},
	{Name: "small_50-200KB", Min: 50 * kib, Max: 200 * kib},
	{Name: "medium_200KB-1MB", Min: 200 * kib, Max: 1024 * kib},
	{Name: "large_1MB-5MB", Min: 1024 * kib, Max: 5 * 1024 * kib},
	{Name: "ultra_large_5MB+", Min: 5 * 1024 * kib, Max: math.Inf(1)},
}

// DurationBuckets partitions audio durations in seconds. The last bucket is open ended.
var DurationBuckets = []Bucket{
	{Name: "ultra_short_0-5s", Min: 0, Max: 5},
	{Name: "short_5-15s", Min: 5, Max: 15},
	{Name: "medium_15-60s", Min: 15, Max: 60},
	{Name: "long_60-300s", Min: 60, Max: 300},
	{Name: "ultra_long_300s+", Min: 300, Max: math.Inf(1)},
}

// SizeBucket returns the size category for n bytes.
func SizeBucket(n int64) string {
	return pick(SizeBuckets, float64(n))
}

// DurationBucket returns the duration category for seconds. NaN and negative
// values land in the shortest bucket.
func DurationBucket(seconds float64) string {
	return pick(DurationBuckets, seconds)
}

func pick(buckets []Bucket, v float64) string {
	for _, b := range buckets {
		if b.contains(v) {
			return b.Name
		}
	}
	return buckets[0].Name
}

func names(buckets []Bucket) []string {
	out := make([]string, len(buckets))
	for i, b := range buckets {
		out[i] = b.Name
	}
	return out
}
