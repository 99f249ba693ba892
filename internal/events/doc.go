// Package events provides a minimal in-process event system used to
// decouple services from background task creation: a service emits a
// task request event, and a handler wired up at startup turns it into a
// queued task.
package events
