package hooking

import (
	"sync"
)

// LatencyTracer collects the number of cycles spent on a certain type of
// task. Overlapping tasks are counted independently.
type LatencyTracer struct {
	timeTeller    TimeTeller
	filter        TaskFilter
	lock          sync.Mutex
	inflightTasks map[string]uint64
	totalLatency  uint64
	maxLatency    uint64
	taskCount     uint64
}

// NewLatencyTracer creates a new LatencyTracer. A nil filter accepts all
// tasks.
func NewLatencyTracer(
	timeTeller TimeTeller,
	filter TaskFilter,
) *LatencyTracer {
	t := &LatencyTracer{
		timeTeller:    timeTeller,
		filter:        filter,
		inflightTasks: make(map[string]uint64),
	}

	return t
}

// Func records the start end of a task.
func (t *LatencyTracer) Func(ctx HookCtx) {
	FuncFromCtx(ctx, t.StartTask, t.EndTask)
}

// AverageLatency returns the average number of cycles of the finished tasks.
func (t *LatencyTracer) AverageLatency() float64 {
	t.lock.Lock()
	defer t.lock.Unlock()

	if t.taskCount == 0 {
		return 0
	}

	return float64(t.totalLatency) / float64(t.taskCount)
}

// MaxLatency returns the longest latency observed.
func (t *LatencyTracer) MaxLatency() uint64 {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.maxLatency
}

// TotalCount returns the total number of finished tasks.
func (t *LatencyTracer) TotalCount() uint64 {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.taskCount
}

// StartTask records the task start time
func (t *LatencyTracer) StartTask(taskStart TaskStart) {
	if t.filter != nil && !t.filter(taskStart) {
		return
	}

	t.lock.Lock()
	t.inflightTasks[taskStart.ID] = t.timeTeller.Now()
	t.lock.Unlock()
}

// EndTask records the end of the task
func (t *LatencyTracer) EndTask(taskEnd TaskEnd) {
	t.lock.Lock()
	defer t.lock.Unlock()

	startCycle, ok := t.inflightTasks[taskEnd.ID]
	if !ok {
		return
	}

	latency := t.timeTeller.Now() - startCycle

	t.totalLatency += latency
	if latency > t.maxLatency {
		t.maxLatency = latency
	}
	t.taskCount++

	delete(t.inflightTasks, taskEnd.ID)
}
