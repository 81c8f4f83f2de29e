package engine

import (
	"fmt"
)

// Entry is a stored cache value with its metadata.
type Entry struct {
	Payload  []byte // Serialized value
	Flags    uint32 // Encoding flags of Payload (serializer id, compression)
	ExpireAt int64  // Absolute expiration in unix seconds, NeverExpires for none
}

// Expired reports whether the entry is past its expiration at now. An entry
// expiring exactly at now is still visible.
func (e Entry) Expired(now int64) bool {
	return e.ExpireAt != NeverExpires && e.ExpireAt < now
}

func (e Entry) String() string {
	return fmt.Sprintf("Entry{Size: %d, Flags: %d, ExpireAt: %d}", len(e.Payload), e.Flags, e.ExpireAt)
}
