package queue

// An array-based fixed-length queue, used by the balancer for queuing both idle
// workers and waiting requests.

type Queue struct {
	// tracking the length separately in l, because calculating it from (front, back)
	// is difficult in some cases (especially rollover)
	front, back, l int
	queue          []interface{}
}

func NewQueue(capacity int) Queue {
	return Queue{front: 0, back: 0, l: 0, queue: make([]interface{}, capacity)}
}

func (q *Queue) Len() int {
	return q.l
}

func (q *Queue) Cap() int {
	return len(q.queue)
}

// Append to the back. Returns false if the queue is full.
func (q *Queue) Push(e interface{}) bool {
	if q.l < len(q.queue) {
		q.queue[q.back] = e
		q.back = (q.back + 1) % len(q.queue)
		q.l++
		return true
	}
	return false
}

// Get from the front. Returns nil if the queue is empty.
func (q *Queue) Pop() interface{} {
	if q.l > 0 {
		e := q.queue[q.front]
		q.queue[q.front] = nil
		q.front = (q.front + 1) % len(q.queue)
		q.l--
		return e
	}
	return nil
}

// Returns the front element without removing it, or nil.
func (q *Queue) Peek() interface{} {
	if q.l > 0 {
		return q.queue[q.front]
	}
	return nil
}
