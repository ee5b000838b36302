// Package o2des provides the core object-oriented discrete-event simulation
// kernel: Sandbox, Event, Action, and HourCounter.
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel:
//   - event.go: the Event type and its total (scheduled-time, index) order.
//   - action.go: Action, the generic multicast invocation primitive.
//   - sandbox.go: the tree of event queues, the clock, and the driver loop.
//   - hourcounter.go: time-weighted statistics over an integer state variable.
//
// # Architecture
//
// A Sandbox owns a local heap of Events, a list of child Sandboxes, and a
// list of HourCounters. Only the root Sandbox holds the authoritative clock;
// every other operation delegates upward. The driver loop repeatedly pulls
// the tree-wide earliest Event, advances the root clock to its scheduled
// time, and invokes it.
//
// Everything outside this package — demo queueing models, the CLI, random
// arrival generation, distribution helpers — is an external collaborator
// built against this public surface, not part of the kernel itself.
package o2des
