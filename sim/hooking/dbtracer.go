package hooking

// TracerBackend is a backend that can store tasks.
type TracerBackend interface {
	// Write writes a task to the storage.
	Write(t Task)

	// Flush flushes the tasks to the storage, in case if the backend buffers
	// the tasks.
	Flush()
}

// DBTracer is a tracer that can store tasks into a database.
type DBTracer struct {
	timeTeller   TimeTeller
	backend      TracerBackend
	tracingTasks map[string]Task
}

// NewDBTracer creates a new DBTracer.
func NewDBTracer(timeTeller TimeTeller, backend TracerBackend) *DBTracer {
	return &DBTracer{
		timeTeller:   timeTeller,
		backend:      backend,
		tracingTasks: make(map[string]Task),
	}
}

// Func records the start end of a task.
func (t *DBTracer) Func(ctx HookCtx) {
	FuncFromCtx(ctx, t.StartTask, t.EndTask)
}

// StartTask marks the start of a task.
func (t *DBTracer) StartTask(taskStart TaskStart) {
	t.startingTaskMustBeValid(taskStart)

	t.tracingTasks[taskStart.ID] = Task{
		ID:         taskStart.ID,
		ParentID:   taskStart.ParentID,
		Kind:       taskStart.Kind,
		What:       taskStart.What,
		Where:      taskStart.Where,
		StartCycle: t.timeTeller.Now(),
	}
}

func (t *DBTracer) startingTaskMustBeValid(task TaskStart) {
	if task.ID == "" {
		panic("task ID must be set")
	}

	if task.Kind == "" {
		panic("task kind must be set")
	}

	if task.What == "" {
		panic("task what must be set")
	}

	if task.Where == "" {
		panic("task where must be set")
	}
}

// EndTask marks the end of a task.
func (t *DBTracer) EndTask(taskEnd TaskEnd) {
	originalTask, ok := t.tracingTasks[taskEnd.ID]
	if !ok {
		return
	}

	originalTask.EndCycle = t.timeTeller.Now()

	delete(t.tracingTasks, taskEnd.ID)

	t.backend.Write(originalTask)
}

// Terminate writes the unfinished tasks, ending them now, and flushes the
// backend.
func (t *DBTracer) Terminate() {
	for _, task := range t.tracingTasks {
		task.EndCycle = t.timeTeller.Now()
		t.backend.Write(task)
	}

	t.tracingTasks = make(map[string]Task)

	t.backend.Flush()
}
