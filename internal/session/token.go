package session

import (
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	tokenEntropy   = ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)
	tokenEntropyMu sync.Mutex
)

// NewToken generates a completion token participants submit for payment
// verification. ULIDs are short, alphanumeric and collision-free enough
// for that purpose.
func NewToken() string {
	tokenEntropyMu.Lock()
	defer tokenEntropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), tokenEntropy).String()
}
