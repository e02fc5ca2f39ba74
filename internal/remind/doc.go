// Package remind implements the reminder scheduling engine.
//
// The engine reconciles a declarative NotificationSettings snapshot against
// the platform notification gateway: every pass cancels the gateway's full
// schedule, then re-registers a daily trigger for each enabled slot, with
// fire times deferred out of the user's quiet-hours window.
//
// The gateway's primitives are individually atomic but not transactional,
// so Reconcile is serialized: at most one reconciliation runs at a time.
//
// One-shot notifications (milestones, goal events) bypass the recurring
// machinery entirely; see Dispatcher.
package remind
