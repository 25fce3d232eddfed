package narration

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"github.com/minikastronot/minik/internal/content"
)

// PreloadReport summarizes a Preload run.
type PreloadReport struct {
	Requested int
	Cached    int
	Failed    int
	Bytes     int64
	Took      time.Duration
}

func (r PreloadReport) String() string {
	return humanize.Comma(int64(r.Cached)) + "/" + humanize.Comma(int64(r.Requested)) +
		" lines, " + humanize.Bytes(uint64(r.Bytes)) + " of audio in " + r.Took.Round(time.Millisecond).String()
}

// Preload warms the cache with plan. Greetings are fetched together and
// waited for; the other lines start BatchSize at a time, one batch every
// BatchDelay, without waiting for the previous batch to land. Preload
// returns once every fetch has settled or ctx is done.
func (n *Narrator) Preload(ctx context.Context, plan content.Plan) PreloadReport {
	start := time.Now()
	var cached, failed atomic.Int64
	var bytes atomic.Int64

	fetch := func(l content.Line) {
		clip, err := n.resolve(ctx, l.Text, l.Voice)
		if err != nil {
			n.logger.Warn("Preload failed", "text", l.Text, "voice", l.Voice, "err", err)
			failed.Add(1)
			return
		}
		cached.Add(1)
		bytes.Add(int64(len(clip.Samples) * 2))
	}

	var greetings errgroup.Group
	for _, l := range plan.Greetings {
		greetings.Go(func() error {
			fetch(l)
			return nil
		})
	}
	_ = greetings.Wait()
	n.logger.Debug("Greetings preloaded", "count", len(plan.Greetings))

	size := plan.BatchSize
	if size <= 0 {
		size = len(plan.Others)
	}
	var others errgroup.Group
	for i := 0; i < len(plan.Others); i += size {
		if i > 0 && plan.BatchDelay > 0 {
			t := time.NewTimer(plan.BatchDelay)
			select {
			case <-ctx.Done():
				t.Stop()
			case <-t.C:
			}
		}
		if ctx.Err() != nil {
			break
		}
		end := min(i+size, len(plan.Others))
		for _, l := range plan.Others[i:end] {
			others.Go(func() error {
				fetch(l)
				return nil
			})
		}
	}
	_ = others.Wait()

	r := PreloadReport{
		Requested: plan.Len(),
		Cached:    int(cached.Load()),
		Failed:    int(failed.Load()),
		Bytes:     bytes.Load(),
		Took:      time.Since(start),
	}
	n.logger.Info("Preload finished", "report", r.String(), "failed", r.Failed)
	return r
}
