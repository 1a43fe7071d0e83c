package mqtt

import "github.com/sirupsen/logrus"

// bufferedMsg is a serialized publish held for replay after reconnection.
type bufferedMsg struct {
	topic    string
	payload  []byte
	qos      byte
	retained bool
}

// ringBuffer holds publishes made while disconnected, dropping the oldest
// once full. Not safe for concurrent use; the caller holds the lock.
type ringBuffer struct {
	buf     []bufferedMsg
	head    int // next write position
	count   int
	dropped int // since last drain
	log     logrus.FieldLogger
}

func newRingBuffer(capacity int, log logrus.FieldLogger) *ringBuffer {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &ringBuffer{
		buf: make([]bufferedMsg, capacity),
		log: log,
	}
}

func (r *ringBuffer) push(msg bufferedMsg) {
	r.buf[r.head] = msg
	r.head = (r.head + 1) % len(r.buf)
	if r.count < len(r.buf) {
		r.count++
		return
	}
	// Full: the write above replaced the oldest message.
	if r.dropped == 0 {
		r.log.Warnf("mqtt: offline buffer full (%d messages), dropping oldest", len(r.buf))
	}
	r.dropped++
}

// drainAll returns buffered messages oldest first and the number dropped
// since the previous drain.
func (r *ringBuffer) drainAll() ([]bufferedMsg, int) {
	dropped := r.dropped
	r.dropped = 0
	if r.count == 0 {
		return nil, dropped
	}

	out := make([]bufferedMsg, r.count)
	start := (r.head - r.count + len(r.buf)) % len(r.buf)
	for i := range out {
		out[i] = r.buf[(start+i)%len(r.buf)]
	}
	r.count = 0
	r.head = 0
	return out, dropped
}

func (r *ringBuffer) len() int {
	return r.count
}
