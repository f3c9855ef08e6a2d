package purchase

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"
)

const (
	orderIDPrefix  = "PTH"
	suffixLength   = 3
	suffixAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// NewOrderID returns a public order identifier such as PTH-MF3K2A1B-X7Q:
// a base-36 millisecond timestamp plus a short random suffix. The suffix
// keeps checkouts within the same millisecond apart; collisions are
// possible in theory but not worth a retry loop at this scale.
func NewOrderID(now time.Time) string {
	ts := strings.ToUpper(strconv.FormatInt(now.UnixMilli(), 36))
	suffix := make([]byte, suffixLength)
	for i := range suffix {
		suffix[i] = suffixAlphabet[rand.Intn(len(suffixAlphabet))]
	}
	return fmt.Sprintf("%s-%s-%s", orderIDPrefix, ts, suffix)
}
