// Package dispatcher turns host key events into shortcut command runs.
//
// The dispatcher owns a shortcut registry and an event gate. Hosts either call
// HandleKeyDown directly or publish on an event.Bus the dispatcher is attached
// to.
//
// # Dispatch
//
// For each key-down event:
//
//  1. The gate decides whether the event is processed at all (enable check,
//     pause state, pointer-in-canvas state)
//  2. The event is reduced to its code set once
//  3. Every registered chord is tested against the code set, in registration
//     order, using a snapshot of the registry taken before the first test
//  4. On a match, the event's default action is prevented and propagation is
//     stopped, except for the paste chord, whose native paste must proceed
//  5. Before-run hooks and the BeforeShortcutRun callback may veto the chord
//  6. The chord's live command list is run in order
//  7. After-run hooks are called and metrics recorded (if enabled)
//
// Several chords may match one event, for example when the same chord is
// registered under two spellings. Each is handled independently: a veto or
// a recovered panic in one does not affect the others.
//
// No lock is held while commands run, so commands may register or remove
// shortcuts, pause the dispatcher, or save the registry. Changes made during
// a dispatch take effect for the entries not yet visited only if they remove
// them; chords added mid-dispatch wait for the next event.
//
// # Lifecycle
//
// Attach subscribes to the host bus topics; Detach removes the subscriptions
// and is idempotent. A canvas.destroy.before event detaches automatically.
package dispatcher
