package assets

import (
	"context"
	"fmt"
	"io"
	"math"
)

// Progress is a snapshot of a model download.
type Progress struct {
	Loaded int64
	Total  int64

	// Computable is false when the total size is unknown.
	Computable bool
}

// Percent returns the rounded completion percentage, or -1 when the total
// is unknown.
func (p Progress) Percent() int {
	if !p.Computable || p.Total <= 0 {
		return -1
	}
	return int(math.Round(float64(p.Loaded) / float64(p.Total) * 100))
}

// String renders the progress the way the loading overlay shows it.
func (p Progress) String() string {
	if pct := p.Percent(); pct >= 0 {
		return fmt.Sprintf("downloading model: %d%%", pct)
	}
	return fmt.Sprintf("downloaded: %.2f MB", float64(p.Loaded)/1024/1024)
}

// ProgressFunc receives progress updates. It is called on the loading
// goroutine.
type ProgressFunc func(Progress)

// progressReader reports every read and stops early when ctx is done.
type progressReader struct {
	ctx    context.Context
	r      io.Reader
	total  int64
	loaded int64
	fn     ProgressFunc
}

func (pr *progressReader) Read(p []byte) (int, error) {
	if err := pr.ctx.Err(); err != nil {
		return 0, err
	}
	n, err := pr.r.Read(p)
	if n > 0 {
		pr.loaded += int64(n)
		if pr.fn != nil {
			pr.fn(pr.progress())
		}
	}
	return n, err
}

func (pr *progressReader) progress() Progress {
	return Progress{
		Loaded:     pr.loaded,
		Total:      pr.total,
		Computable: pr.total > 0,
	}
}
