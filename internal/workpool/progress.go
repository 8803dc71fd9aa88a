package workpool

import "time"

// Progress is a sampled view of a running pool.
type Progress struct {
	Done    int
	Total   int
	Elapsed time.Duration
	// Rate is completed items per second.
	Rate float64
	// ETA is zero until the rate is known.
	ETA time.Duration
}

// Percent returns completion in the range [0, 100].
func (p Progress) Percent() float64 {
	if p.Total <= 0 {
		return 100
	}
	return float64(p.Done) * 100 / float64(p.Total)
}

func sample(q *Queue, elapsed time.Duration) Progress {
	p := Progress{Done: q.Done(), Total: q.Total(), Elapsed: elapsed}
	if elapsed > 0 {
		p.Rate = float64(p.Done) / elapsed.Seconds()
	}
	if p.Rate > 0 {
		remaining := p.Total - p.Done
		p.ETA = time.Duration(float64(remaining) / p.Rate * float64(time.Second))
	}
	return p
}
