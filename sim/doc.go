// Package sim provides the scheduling and operation-execution engine of the
// process-scheduling simulator.
//
// # Reading Guide
//
// Start with these three files to understand the engine:
//   - operation.go: Operation, the unit of simulated work, and the Record stream it is built from
//   - application.go: Application, a queue of operations run to completion or one quantum at a time
//   - simulator.go: the Preparing → Running → Drained state machine and both policy loops
//
// # Architecture
//
// The sim package defines the model, the policies and the collaborator
// interfaces; supporting code lives in sub-packages:
//   - sim/metadata/: meta-data tokenizer producing the Record stream
//   - sim/eventlog/: the EventSink writing timestamped events to monitor and/or file
//   - sim/trace/: dispatch trace recording and summaries
//
// # Key Interfaces
//
//   - CompletionScheduler: orders the pool for FIFO, SJF and SRTF-N
//   - SliceScheduler: picks the next runnable application for RR, FIFO-P and SRTF-P
//   - Clock: elapsed time and simulated delays
//   - EventSink: receives every START/END/SELECTING event
//
// Simulated time is sleep-based: consuming n cycles of an operation takes
// n times the configured cycle time of its processor or device.
package sim
