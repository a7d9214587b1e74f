package ledger

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base32"
	"fmt"
	"strings"

	"arena/internal/domain/paymentsrepo"

	"github.com/google/uuid"
)

// References generates external ids for payment intents. The id carries the
// owner for support lookups, a keyed tag so ids cannot be guessed from the
// owner alone, and a random suffix for uniqueness.
type References struct {
	secret string
}

func NewReferences(secret string) *References {
	return &References{secret: secret}
}

func (g *References) Next(kind paymentsrepo.OwnerKind, ownerID int64) string {
	nonce := uuid.NewString()

	mac := hmac.New(sha256.New, []byte(g.secret))
	mac.Write([]byte(fmt.Sprintf("%s:%d|nonce:%s", kind, ownerID, nonce)))
	tag := base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(mac.Sum(nil))

	prefix := "BK"
	if kind == paymentsrepo.OwnerTransaction {
		prefix = "TX"
	}
	return fmt.Sprintf("%s-%d-%s-%s",
		prefix,
		ownerID,
		strings.ToUpper(tag[:6]),
		strings.ToUpper(strings.ReplaceAll(nonce, "-", "")[:12]),
	)
}
