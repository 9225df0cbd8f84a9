package reputation

// BotRunThreshold is the run length of identical time-of-day logins at which
// a login is classified bot-like.
const BotRunThreshold = 7

// SpamFloor is the spam score assigned on a first bot detection when the
// account has no prior spam score.
const SpamFloor = 60.0

// SpamMultiplier escalates an existing spam score on each further detection.
const SpamMultiplier = 1.02

// RunLength returns the length of the run of identical time-of-day entries
// ending at the newest login: the newest entry plus the strictly consecutive
// immediately preceding entries equal to it. The scan stops at the first
// non-matching entry; earlier history never contributes.
func RunLength(history []string) int {
	if len(history) == 0 {
		return 0
	}
	newest := history[len(history)-1]
	run := 1
	for i := len(history) - 2; i >= 0; i-- {
		if history[i] != newest {
			break
		}
		run++
	}
	return run
}

// BotLike reports whether the newest login completes a bot-like run.
func BotLike(history []string) bool {
	return RunLength(history) >= BotRunThreshold
}

// SpamPenalty returns the escalated spam score after a bot detection:
// multiplicative on an existing score, SpamFloor otherwise.
func SpamPenalty(current float64) float64 {
	if current > 0 {
		return current * SpamMultiplier
	}
	return SpamFloor
}
