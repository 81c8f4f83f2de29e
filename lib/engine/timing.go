package engine

// RelativeThreshold separates relative from absolute time arguments. Values
// below 30 days (in seconds) are offsets from now, larger values are unix
// timestamps.
const RelativeThreshold int64 = 60 * 60 * 24 * 30

// NeverExpires is the ExpireAt sentinel of entries without expiration.
const NeverExpires int64 = 0

// NormalizeExpiration converts an expiration argument into an absolute unix
// timestamp. Zero means never expires, negative values yield a timestamp in
// the past.
func NormalizeExpiration(now, expiration int64) int64 {
	if expiration == 0 {
		return NeverExpires
	}
	if expiration < RelativeThreshold {
		return now + expiration
	}
	return expiration
}

// NormalizeDelay converts a delete or flush delay into an absolute unix
// timestamp. Zero means now.
func NormalizeDelay(now, delay int64) int64 {
	if delay == 0 {
		return now
	}
	if delay < RelativeThreshold {
		return now + delay
	}
	return delay
}
