// Package daily holds the day-rollover state machine and the bookkeeping
// that depends on the current calendar day: the wrap-up streak and
// efficiency, and the once-a-day soft reminder.
//
// The pure functions (Rollover, WrapDay, ShouldRemind) take explicit state
// and return the next state. Service loads that state from a state.Repo,
// applies the functions and commits the result. Loop decides when Service
// runs: on start, when the terminal regains focus, at every local midnight
// and on the hourly reminder poll.
//
// Two policies are intentional. A gap of several days between opens shifts
// the buckets once, not once per missed day. The streak counts days on which
// wrap-up was used and never decays on days it was not.
package daily
