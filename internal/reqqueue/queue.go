// Package reqqueue implements a FIFO of outstanding requests with
// FindByCSeq for the (rare) linear-scan lookup path. The hot lookup path
// (matching an arriving response to its record) goes through the
// client's own CSeq map instead; this queue only tracks ordering and
// queue membership.
package reqqueue

import "container/list"

// Record is the minimal interface a queued item must satisfy.
type Record interface {
	CSeq() int
}

// Queue is a singly-role FIFO of Records. A Record lives in at most one
// Queue at a time; Queue never enforces that invariant itself — the
// caller (the client's dispatch loop) does, since it is the only
// goroutine ever allowed to touch a Queue.
type Queue struct {
	l *list.List
	m map[int]*list.Element
}

// New allocates an empty Queue.
func New() *Queue {
	return &Queue{l: list.New(), m: make(map[int]*list.Element)}
}

// IsEmpty reports whether the queue has no records, i.e. head == nil.
func (q *Queue) IsEmpty() bool {
	return q.l.Len() == 0
}

// Len returns the number of queued records.
func (q *Queue) Len() int {
	return q.l.Len()
}

// Enqueue appends r at the tail.
func (q *Queue) Enqueue(r Record) {
	e := q.l.PushBack(r)
	q.m[r.CSeq()] = e
}

// Dequeue removes and returns the record at the head, or nil if empty.
func (q *Queue) Dequeue() Record {
	e := q.l.Front()
	if e == nil {
		return nil
	}
	q.l.Remove(e)
	r := e.Value.(Record)
	delete(q.m, r.CSeq())
	return r
}

// FindByCSeq performs a linear scan for a record by CSeq. Returns nil if
// absent.
func (q *Queue) FindByCSeq(cseq int) Record {
	for e := q.l.Front(); e != nil; e = e.Next() {
		r := e.Value.(Record)
		if r.CSeq() == cseq {
			return r
		}
	}
	return nil
}

// Remove removes r from the queue, wherever it sits, in O(1) via the
// internal index.
func (q *Queue) Remove(r Record) {
	e, ok := q.m[r.CSeq()]
	if !ok {
		return
	}
	q.l.Remove(e)
	delete(q.m, r.CSeq())
}

// DrainAll removes and returns every queued record in FIFO order.
func (q *Queue) DrainAll() []Record {
	var out []Record
	for {
		r := q.Dequeue()
		if r == nil {
			break
		}
		out = append(out, r)
	}
	return out
}
