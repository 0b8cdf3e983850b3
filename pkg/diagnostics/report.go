package diagnostics

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/tauraamui/framecaster/pkg/frame"
	"github.com/tauraamui/framecaster/pkg/log"
)

// Reporter prints channel averages for on-terminal feedback. Output does
// not feed back into the pipeline.
type Reporter struct {
	out     io.Writer
	history *History
}

// NewReporter writes to stdout; history may be nil to disable retention.
func NewReporter(history *History) *Reporter {
	return &Reporter{out: os.Stdout, history: history}
}

func NewReporterWithWriter(out io.Writer, history *History) *Reporter {
	return &Reporter{out: out, history: history}
}

// Report computes and prints the frame's channel averages. The reported
// duration covers the computation only, which is why this stage runs
// after all publish/stream I/O.
func (r *Reporter) Report(f frame.Frame) Averages {
	begin := time.Now()
	avgs := ComputeAverages(f)
	took := time.Since(begin)

	if !avgs.Supported {
		fmt.Fprintf(r.out, "\rFrametype %s is not supported! (press any key to stop)", f.Format())
		return avgs
	}

	fmt.Fprintf(
		r.out,
		"\rChannel averages: %.3f, %.3f, %.3f took %.3f ms (press any key to stop)     ",
		avgs.Channels[0], avgs.Channels[1], avgs.Channels[2],
		float64(took.Microseconds())/1000,
	)

	if r.history != nil {
		if err := r.history.Append(time.Now(), avgs); err != nil {
			log.Debug("unable to retain channel averages: %s", err)
		}
	}
	return avgs
}
