package frontier

import "container/heap"

// bestFirstItem is one pending token in the BEST_FIRST strategy's priority
// queue. seq breaks ties between equal scores in submission order, so
// BEST_FIRST degrades to FIFO among equally-scored candidates instead of an
// arbitrary heap-internal order.
type bestFirstItem struct {
	token CrawlToken
	score float64
	seq   int
}

// bestFirstQueue is a container/heap max-heap on score: Dequeue always
// returns the highest-scoring pending token first.
type bestFirstQueue []*bestFirstItem

func (q bestFirstQueue) Len() int { return len(q) }

func (q bestFirstQueue) Less(i, j int) bool {
	if q[i].score != q[j].score {
		return q[i].score > q[j].score
	}
	return q[i].seq < q[j].seq
}

func (q bestFirstQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *bestFirstQueue) Push(x any) {
	*q = append(*q, x.(*bestFirstItem))
}

func (q *bestFirstQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return item
}

var _ heap.Interface = (*bestFirstQueue)(nil)
