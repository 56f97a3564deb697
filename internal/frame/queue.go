package frame

import "sort"

// queue holds pending frame callbacks. Not safe for concurrent use.
type queue struct {
	frames map[ID]func()
	next   ID
}

func (q *queue) request(fn func()) ID {
	if q.frames == nil {
		q.frames = make(map[ID]func())
	}
	q.next++
	q.frames[q.next] = fn
	return q.next
}

func (q *queue) cancel(id ID) {
	delete(q.frames, id)
}

// run invokes every callback queued before the call, oldest first.
// Callbacks queued while running wait for the next run.
func (q *queue) run() int {
	if len(q.frames) == 0 {
		return 0
	}
	ids := make([]ID, 0, len(q.frames))
	for id := range q.frames {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	ran := 0
	for _, id := range ids {
		fn, ok := q.frames[id]
		if !ok {
			continue // canceled by an earlier callback
		}
		delete(q.frames, id)
		fn()
		ran++
	}
	return ran
}

func (q *queue) len() int { return len(q.frames) }
