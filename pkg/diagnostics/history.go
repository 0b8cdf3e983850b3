package diagnostics

import (
	"strconv"
	"time"

	"github.com/nakabonne/tstorage"
	"github.com/tauraamui/xerror"
)

const averagesMetric = "channel_average"

// History retains recent channel averages in an embedded time-series
// store so dashboard-side consumers can query a short window of them.
// It is observability only: nothing in the pipeline reads it back.
type History struct {
	storage tstorage.Storage
}

func NewHistory() (*History, error) {
	storage, err := tstorage.NewStorage(
		tstorage.WithTimestampPrecision(tstorage.Milliseconds),
	)
	if err != nil {
		return nil, xerror.Errorf("unable to open diagnostics history storage: %w", err)
	}
	return &History{storage: storage}, nil
}

func (h *History) Append(at time.Time, avgs Averages) error {
	if !avgs.Supported {
		return nil
	}
	ts := at.UnixNano() / int64(time.Millisecond)
	rows := make([]tstorage.Row, 0, len(avgs.Channels))
	for c, v := range avgs.Channels {
		rows = append(rows, tstorage.Row{
			Metric:    averagesMetric,
			Labels:    []tstorage.Label{{Name: "channel", Value: strconv.Itoa(c)}},
			DataPoint: tstorage.DataPoint{Timestamp: ts, Value: v},
		})
	}
	if err := h.storage.InsertRows(rows); err != nil {
		return xerror.Errorf("unable to append channel averages: %w", err)
	}
	return nil
}

// Window returns the stored datapoints for one channel between start and
// end inclusive.
func (h *History) Window(channel int, start, end time.Time) ([]*tstorage.DataPoint, error) {
	points, err := h.storage.Select(
		averagesMetric,
		[]tstorage.Label{{Name: "channel", Value: strconv.Itoa(channel)}},
		start.UnixNano()/int64(time.Millisecond),
		end.UnixNano()/int64(time.Millisecond),
	)
	if err != nil {
		return nil, xerror.Errorf("unable to select channel averages: %w", err)
	}
	return points, nil
}

func (h *History) Close() error {
	return h.storage.Close()
}
