// Package scheduler drives the polling loop. A fixed heartbeat checks
// which plugins are due and fans the due ones out to a bounded worker
// pool; each poll runs in three phases so the shared store is never
// held across a plugin subprocess run.
package scheduler
