// File: core/sock/doc.go
//
// Package sock implements the generic socket core: it turns the
// event-driven connection fabric into a blocking/non-blocking call-based
// endpoint, delegating message-exchange semantics to a pattern strategy.
//
// The whole design is one lock and one condition variable. Application
// calls and event dispatch both run inside the reactor's monitor lock, so
// exactly one of them is in the socket's critical section at any instant.
// Blocked senders and receivers park on the condition variable; pattern
// in/out hooks decide, per readiness transition, whether waking them is
// worthwhile.
package sock
