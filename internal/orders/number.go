package orders

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
	"time"
)

const numberAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// NumberPattern matches order numbers such as BB-20261018-7QX2.
var NumberPattern = regexp.MustCompile(`^BB-\d{8}-[A-Z0-9]{4}$`)

// FormatNumber builds an order number from a business-local date and a 4-char suffix.
func FormatNumber(t time.Time, suffix string) string {
	return fmt.Sprintf("BB-%s-%s", t.Format("20060102"), suffix)
}

// randomSuffix returns 4 uppercase alphanumeric characters from crypto/rand.
func randomSuffix() (string, error) {
	b := make([]byte, 4)
	max := big.NewInt(int64(len(numberAlphabet)))
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("random suffix: %w", err)
		}
		b[i] = numberAlphabet[n.Int64()]
	}
	return string(b), nil
}
