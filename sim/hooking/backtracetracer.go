package hooking

import (
	"fmt"
	"io"
	"sort"
	"sync"
)

// BackTraceTracer keeps the tasks that have started but not finished, so
// that a stalled simulation can report what it is waiting for.
type BackTraceTracer struct {
	timeTeller   TimeTeller
	tracingTasks map[string]Task
	lock         sync.Mutex
}

// NewBackTraceTracer creates a new BackTraceTracer
func NewBackTraceTracer(timeTeller TimeTeller) *BackTraceTracer {
	t := &BackTraceTracer{
		timeTeller:   timeTeller,
		tracingTasks: make(map[string]Task),
	}

	return t
}

// Func records the start end of a task.
func (t *BackTraceTracer) Func(ctx HookCtx) {
	FuncFromCtx(ctx, t.StartTask, t.EndTask)
}

// StartTask records a task as in flight.
func (t *BackTraceTracer) StartTask(taskStart TaskStart) {
	t.lock.Lock()
	defer t.lock.Unlock()

	t.tracingTasks[taskStart.ID] = Task{
		ID:         taskStart.ID,
		ParentID:   taskStart.ParentID,
		Kind:       taskStart.Kind,
		What:       taskStart.What,
		Where:      taskStart.Where,
		StartCycle: t.timeTeller.Now(),
	}
}

// EndTask forgets a finished task.
func (t *BackTraceTracer) EndTask(taskEnd TaskEnd) {
	t.lock.Lock()
	defer t.lock.Unlock()

	delete(t.tracingTasks, taskEnd.ID)
}

// InflightTasks returns the unfinished tasks, oldest first.
func (t *BackTraceTracer) InflightTasks() []Task {
	t.lock.Lock()
	defer t.lock.Unlock()

	tasks := make([]Task, 0, len(t.tracingTasks))
	for _, task := range t.tracingTasks {
		tasks = append(tasks, task)
	}

	sort.Slice(tasks, func(i, j int) bool {
		if tasks[i].StartCycle != tasks[j].StartCycle {
			return tasks[i].StartCycle < tasks[j].StartCycle
		}

		return tasks[i].ID < tasks[j].ID
	})

	return tasks
}

// DumpBackTrace prints the chain of unfinished tasks that starts from the
// given task and follows the parent links.
func (t *BackTraceTracer) DumpBackTrace(w io.Writer, taskID string) {
	t.lock.Lock()
	defer t.lock.Unlock()

	currTask, ok := t.tracingTasks[taskID]

	for ok {
		fmt.Fprintf(w, "%s-%s@%s since cycle %d\n",
			currTask.Kind, currTask.What, currTask.Where, currTask.StartCycle)

		taskID = currTask.ParentID
		currTask, ok = t.tracingTasks[taskID]
	}
}
