// Package hook provides before/after run hooks for shortcut dispatch.
//
// When a registered chord matches a key event, the dispatcher builds a Run
// describing it and passes it through the hook chain before invoking the
// chord's commands. Any before-run hook may veto the run; a vetoed run skips
// the commands of that one chord but not of other chords matching the same
// event.
//
// # Priority System
//
// Hooks are ordered by priority:
//
//   - Before-run hooks: higher priority runs first
//   - After-run hooks: lower priority runs first, higher runs last
//
// Standard priority constants:
//
//	PriorityAudit     = 1000  // audit logging and timing
//	PriorityReadOnly  = 800   // read-only enforcement
//	PriorityUser      = 100   // user and script hooks
//
// # Hook Manager
//
//	manager := hook.NewManager()
//	manager.Register(hook.NewAuditHook(logger))
//	manager.RegisterBefore(hook.NewReadOnlyHook(keymap.MutatingActions()))
//
//	if veto, by := manager.RunBefore(run); !veto {
//	    // run the commands
//	    manager.RunAfter(run, result)
//	} else {
//	    log.Printf("vetoed by %s", by)
//	}
//
// All hook types are safe for concurrent use.
package hook
