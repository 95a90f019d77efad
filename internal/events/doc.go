// Package events provides the domain events raised by the services and a
// synchronous in-process emitter.
//
// Services emit events after their own writes have committed, so a failing
// handler never undoes the write that raised the event.
package events
