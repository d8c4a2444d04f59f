package hooking

// BusyTimeTracer counts the cycles during which a domain has at least one
// task in flight. Overlapping tasks are only counted once.
type BusyTimeTracer struct {
	timeTeller    TimeTeller
	filter        TaskFilter
	inflightTasks map[string]bool
	lastChange    uint64
	busyTime      uint64
}

// NewBusyTimeTracer creates a new BusyTimeTracer
func NewBusyTimeTracer(
	timeTeller TimeTeller,
	filter TaskFilter,
) *BusyTimeTracer {
	t := &BusyTimeTracer{
		timeTeller:    timeTeller,
		filter:        filter,
		inflightTasks: make(map[string]bool),
	}

	return t
}

// Func records the start end of a task.
func (t *BusyTimeTracer) Func(ctx HookCtx) {
	FuncFromCtx(ctx, t.StartTask, t.EndTask)
}

// BusyTime returns the number of busy cycles observed so far, including the
// currently open busy period.
func (t *BusyTimeTracer) BusyTime() uint64 {
	if len(t.inflightTasks) > 0 {
		return t.busyTime + t.timeTeller.Now() - t.lastChange
	}

	return t.busyTime
}

// StartTask records the task start time
func (t *BusyTimeTracer) StartTask(taskStart TaskStart) {
	if t.filter != nil && !t.filter(taskStart) {
		return
	}

	t.advance()
	t.inflightTasks[taskStart.ID] = true
}

// EndTask records the end of the task
func (t *BusyTimeTracer) EndTask(taskEnd TaskEnd) {
	if !t.inflightTasks[taskEnd.ID] {
		return
	}

	t.advance()
	delete(t.inflightTasks, taskEnd.ID)
}

func (t *BusyTimeTracer) advance() {
	now := t.timeTeller.Now()

	if len(t.inflightTasks) > 0 {
		t.busyTime += now - t.lastChange
	}

	t.lastChange = now
}
