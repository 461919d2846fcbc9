// Package scheduler decides when reminders fire. Evaluate and Advance are
// pure functions over reminder snapshots; Scheduler ties them to a store and
// a notification sink on a fixed polling period.
//
// Fired flags are written only after a notification was dispatched, so a
// crash between the two produces a duplicate notification rather than a
// lost one.
package scheduler
