package atom

import (
	"crypto/sha256"
	"encoding/hex"
)

// DomainRecord is the domain-separation prefix for record identity.
// The version suffix leaves room for a future change of algorithm.
const DomainRecord = "atomstore/record/v1"

// RecordID computes a content-addressed id for a record:
// hex(SHA256(domain + 0x00 + Serialize(rec))).
//
// Duplicate records share an id. The store does not enforce uniqueness,
// so the id identifies content, not a line position.
func RecordID(rec List) string {
	h := sha256.New()
	h.Write([]byte(DomainRecord))
	h.Write([]byte{0x00})
	h.Write([]byte(Serialize(rec)))
	return hex.EncodeToString(h.Sum(nil))
}
