// Package event provides the host event bus for canvaskeys.
//
// The bus connects the host window and canvas to the shortcut dispatcher
// without either side importing the other. Hosts publish raw input and
// lifecycle notifications; the dispatcher subscribes while attached.
//
// # Topics
//
// Topics are dot-separated names:
//
//	window.keydown          - a key was pressed; payload is *key.Event
//	canvas.pointer.enter    - the pointer entered the canvas
//	canvas.pointer.leave    - the pointer left the canvas
//	canvas.destroy.before   - the canvas is about to be torn down
//
// Subscriptions may use wildcard patterns:
//
//	canvas.*        - one segment, e.g. canvas.ready
//	canvas.**       - any depth, e.g. canvas.pointer.enter
//
// # Delivery
//
// Publish is synchronous. Handlers run on the publishing goroutine in
// priority order, against a snapshot of the subscriptions taken when
// Publish starts, so handlers may subscribe or cancel re-entrantly.
// Handler errors and panics are collected and returned; they do not stop
// delivery to the remaining handlers.
package event
