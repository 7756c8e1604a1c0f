// Package replay executes compiled feature programs against historical or
// synthetic events, for testing and backfill. Computed values land in a
// Store, which also serves get_feature reads during evaluation and the
// historical-get capability of feature sets.
//
// Replay is a local stand-in for the serving platform: it makes no attempt
// to match the platform's scheduling, only its values.
package replay
