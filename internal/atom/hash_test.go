package atom

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecordID(t *testing.T) {
	a := List{Symbol("CG07AU599"), String("car")}
	b := List{Symbol("CG07AU599"), String("car")}
	c := List{Symbol("CG07AU599"), Symbol("car")}

	idA := RecordID(a)
	assert.Len(t, idA, 64)
	assert.Equal(t, idA, RecordID(b), "same content, same id")
	assert.NotEqual(t, idA, RecordID(c), "kind change alters serialized text")
}
