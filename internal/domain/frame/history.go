package frame

import "fmt"

// Ring sizing.
const (
	initialHistoryCapacity = 64
	minRetainedFrames      = 2
	// RetentionMargin is added on top of twice the longest window.
	RetentionMargin int64 = 5000
)

// History is a most-recent-first ring of frames bounded by capture time.
// Frames older than the retention span behind the newest frame are evicted;
// the ring grows when every retained frame is still inside the span.
type History struct {
	buf       []*Frame
	next      int // slot the next push writes to
	size      int
	total     int64
	retention int64
}

// NewHistory creates a ring that keeps retention milliseconds of frames.
func NewHistory(retention int64) *History {
	if retention < 0 {
		retention = 0
	}
	return &History{
		buf:       make([]*Frame, initialHistoryCapacity),
		retention: retention,
	}
}

// RetentionFor sizes a history for p plus any extra rule windows.
func RetentionFor(p Parameters, extra ...int64) int64 {
	longest := p.LongestWindow()
	for _, e := range extra {
		if e > longest {
			longest = e
		}
	}
	return 2*longest + RetentionMargin
}

// CheckOrder fails with ErrOutOfOrder unless captureTime is after the newest
// frame's. Push relies on callers checking first.
func (h *History) CheckOrder(captureTime int64) error {
	if latest := h.Latest(); latest != nil && captureTime <= latest.Time() {
		return fmt.Errorf("%w: capture time %d is not after previous capture time %d",
			ErrOutOfOrder, captureTime, latest.Time())
	}
	return nil
}

// Push inserts f at the head and evicts frames that fell out of the span.
func (h *History) Push(f *Frame) {
	if h.size == len(h.buf) {
		h.grow()
	}
	h.buf[h.next] = f
	h.next = (h.next + 1) % len(h.buf)
	h.size++
	h.total++
	h.evict()
}

func (h *History) evict() {
	newest := h.At(0).Time()
	for h.size > minRetainedFrames {
		oldestIdx := h.index(h.size - 1)
		if newest-h.buf[oldestIdx].Time() <= h.retention {
			return
		}
		h.buf[oldestIdx] = nil
		h.size--
	}
}

func (h *History) grow() {
	nb := make([]*Frame, len(h.buf)*2)
	for i := 0; i < h.size; i++ {
		// oldest first
		nb[i] = h.At(h.size - 1 - i)
	}
	h.buf = nb
	h.next = h.size
}

func (h *History) index(i int) int {
	n := len(h.buf)
	return ((h.next-1-i)%n + n) % n
}

// At returns the i-th most recent frame (0 is the newest), or nil.
func (h *History) At(i int) *Frame {
	if i < 0 || i >= h.size {
		return nil
	}
	return h.buf[h.index(i)]
}

// Latest returns the newest frame or nil when empty.
func (h *History) Latest() *Frame { return h.At(0) }

// Len returns the number of retained frames.
func (h *History) Len() int { return h.size }

// Total returns the number of frames ever pushed.
func (h *History) Total() int64 { return h.total }

// Each walks retained frames newest first until fn returns false.
func (h *History) Each(fn func(i int, f *Frame) bool) {
	for i := 0; i < h.size; i++ {
		if !fn(i, h.At(i)) {
			return
		}
	}
}
