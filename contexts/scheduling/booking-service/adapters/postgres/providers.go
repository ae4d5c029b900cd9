package postgresadapter

import (
	"context"
	"crypto/rand"
	"math/big"
	"time"

	"atelier/contexts/scheduling/booking-service/ports"

	"github.com/google/uuid"
)

const (
	tokenLength   = 24
	tokenAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

type UUIDGenerator struct{}

func (UUIDGenerator) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

// CryptoTokenGenerator mints link tokens from crypto/rand. Tokens authorize
// guest access, so math/rand is not an option here.
type CryptoTokenGenerator struct{}

func (CryptoTokenGenerator) NewToken(_ context.Context) (string, error) {
	token := make([]byte, tokenLength)
	max := big.NewInt(int64(len(tokenAlphabet)))
	for i := range token {
		index, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		token[i] = tokenAlphabet[index.Int64()]
	}
	return string(token), nil
}

var _ ports.Clock = SystemClock{}
var _ ports.IDGenerator = UUIDGenerator{}
var _ ports.TokenGenerator = CryptoTokenGenerator{}
