package progress

import (
	"fmt"
	"io"
	"time"

	"github.com/schollz/progressbar/v3"
)

// BarSink draws a progress bar on a terminal.
type BarSink struct {
	w   io.Writer
	bar *progressbar.ProgressBar
}

// NewBarSink returns a sink drawing to w, normally stderr.
func NewBarSink(w io.Writer) *BarSink {
	return &BarSink{w: w}
}

func (s *BarSink) Start(total int) {
	s.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(s.w),
		progressbar.OptionSetDescription("extracting"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("files"),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionSetWidth(30),
		progressbar.OptionClearOnFinish(),
	)
}

func (s *BarSink) Update(u Update) {
	if s.bar == nil {
		return
	}
	s.bar.Describe(fmt.Sprintf("extracting (%d new, %d dup)", u.Totals.Processed, u.Totals.Duplicates))
	_ = s.bar.Set(u.Done)
}

func (s *BarSink) Finish(u Update) {
	if s.bar == nil {
		return
	}
	_ = s.bar.Set(u.Done)
	_ = s.bar.Finish()
	fmt.Fprintln(s.w, Render(u))
	s.bar = nil
}
