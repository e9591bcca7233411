package memory

import (
	"container/heap"
	"sync"

	"github.com/jwalitptl/patient-registry/internal/model"
	"github.com/jwalitptl/patient-registry/internal/repository"
	"github.com/jwalitptl/patient-registry/pkg/errors"
)

type emergencyItem struct {
	record   *model.Record
	priority int
	seq      uint64
}

// emergencyHeap orders by priority, then by arrival. Dequeue order matches a
// stable sort on priority.
type emergencyHeap []emergencyItem

func (h emergencyHeap) Len() int { return len(h) }

func (h emergencyHeap) Less(i, j int) bool {
	if h[i].priority != h[j].priority {
		return h[i].priority < h[j].priority
	}
	return h[i].seq < h[j].seq
}

func (h emergencyHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *emergencyHeap) Push(x interface{}) {
	*h = append(*h, x.(emergencyItem))
}

func (h *emergencyHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = emergencyItem{}
	*h = old[:n-1]
	return item
}

type emergencyQueue struct {
	mu    sync.Mutex
	items emergencyHeap
	next  uint64
}

func NewEmergencyQueue() repository.EmergencyRepository {
	return &emergencyQueue{}
}

func (q *emergencyQueue) Enqueue(record *model.Record) {
	q.mu.Lock()
	defer q.mu.Unlock()

	heap.Push(&q.items, emergencyItem{
		record:   record,
		priority: record.Priority(),
		seq:      q.next,
	})
	q.next++
}

func (q *emergencyQueue) Dequeue() (*model.Record, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		return nil, errors.NewEmptyCollection("emergency queue")
	}
	return heap.Pop(&q.items).(emergencyItem).record, nil
}

func (q *emergencyQueue) Peek() (*model.Record, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		return nil, errors.NewEmptyCollection("emergency queue")
	}
	return q.items[0].record, nil
}

func (q *emergencyQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
