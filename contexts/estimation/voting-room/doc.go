// Package votingroom implements planning-poker rooms inside the estimation
// context.
//
// The module owns room lifecycle (create, implicit join, leave, kick), the
// voting round (vote, reveal, reset, auto-reveal), observer status and the
// per-viewer vote anonymization of room reads. Room snapshots live behind the
// RoomStore port with memory, redis, postgres and sqlite adapters; change
// notifications go out through the EventPublisher port.
package votingroom
