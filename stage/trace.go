package stage

import "github.com/sarchlab/memsim/sim/hooking"

// TaskID returns the ID of the task that a stage runs for a request.
func TaskID(reqID string, domain hooking.Domain) string {
	return reqID + "@" + domain.Name()
}

// TraceReqReceive marks that a domain starts to process a request.
func TraceReqReceive(req Request, domain hooking.Domain) {
	if domain.NumHooks() == 0 {
		return
	}

	what := "read"
	if req.IsWrite() {
		what = "write"
	}

	domain.InvokeHook(hooking.HookCtx{
		Domain: domain,
		Pos:    hooking.HookPosTaskStart,
		Item: hooking.TaskStart{
			ID:       TaskID(req.ID, domain),
			ParentID: req.ID,
			Kind:     "req_in",
			What:     what,
			Where:    domain.Name(),
		},
	})
}

// TraceReqComplete marks that a domain has returned the response of a
// request.
func TraceReqComplete(rsp Response, domain hooking.Domain) {
	if domain.NumHooks() == 0 {
		return
	}

	domain.InvokeHook(hooking.HookCtx{
		Domain: domain,
		Pos:    hooking.HookPosTaskEnd,
		Item:   hooking.TaskEnd{ID: TaskID(rsp.ID, domain)},
	})
}
