package datarecording

import "github.com/sarchlab/memsim/sim/hooking"

// TaskTableName is the table that a TaskBackend writes to.
const TaskTableName = "memsim_tasks"

// TaskBackend stores finished tasks in a DataRecorder.
type TaskBackend struct {
	recorder DataRecorder
}

// NewTaskBackend creates the task table in the recorder.
func NewTaskBackend(recorder DataRecorder) *TaskBackend {
	recorder.CreateTable(TaskTableName, hooking.Task{})

	return &TaskBackend{recorder: recorder}
}

// Write buffers a task.
func (b *TaskBackend) Write(task hooking.Task) {
	b.recorder.InsertData(TaskTableName, task)
}

// Flush writes the buffered tasks into the database.
func (b *TaskBackend) Flush() {
	b.recorder.Flush()
}
