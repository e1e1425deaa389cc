// Package poll runs the portal's background timers: the meal-feedback prompt and the
// live headcount refresh.
//
// # Architecture boundaries
//
// Pollers read the desk through small interfaces and never mutate the session. Each
// poller owns one time.Ticker and stops when its context is cancelled.
//
// # What this package must NOT do
//
//   - Retry a failed fetch before the next tick.
//   - Prompt for the same meal twice on one day.
//   - Keep running after Run returns.
package poll
