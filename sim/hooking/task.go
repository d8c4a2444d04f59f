package hooking

// A list of hook poses for the hooks to apply to
var (
	HookPosTaskStart = &HookPos{Name: "HookPosTaskStart"}
	HookPosTaskEnd   = &HookPos{Name: "HookPosTaskEnd"}
)

// TaskStart is data that is passed to the hook when a task starts.
type TaskStart struct {
	ID       string
	ParentID string
	Kind     string
	What     string
	Where    string
}

// TaskEnd is data that is passed to the hook when a task ends.
type TaskEnd struct {
	ID string
}

// Task is a finished (or abandoned) task as stored by the tracers.
type Task struct {
	ID         string `json:"id"`
	ParentID   string `json:"parent_id"`
	Kind       string `json:"kind"`
	What       string `json:"what"`
	Where      string `json:"where"`
	StartCycle uint64 `json:"start_cycle"`
	EndCycle   uint64 `json:"end_cycle"`
}

// TaskFilter is a function that can filter interesting tasks. If this function
// returns true, the task is considered useful.
type TaskFilter func(t TaskStart) bool

// A TimeTeller can tell the current cycle.
type TimeTeller interface {
	Now() uint64
}

// FuncFromCtx dispatches a hook context to the start and end handlers of a
// tracer. Items of other positions are ignored.
func FuncFromCtx(
	ctx HookCtx,
	start func(TaskStart),
	end func(TaskEnd),
) {
	switch ctx.Pos {
	case HookPosTaskStart:
		start(ctx.Item.(TaskStart))
	case HookPosTaskEnd:
		end(ctx.Item.(TaskEnd))
	}
}
