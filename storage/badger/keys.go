package badger

import (
	"fmt"

	"github.com/poiesic/actionbar/core"
)

// Key prefixes for different data types
const (
	appPrefix      = "app"
	nounPrefix     = "noun"
	nounTypePrefix = "ntype"
)

// makeAppKey generates a key for an app by ID.
func makeAppKey(id string) []byte {
	return []byte(fmt.Sprintf("%s:%s", appPrefix, id))
}

// makeNounKey generates a composite key for a noun.
// Format: prefix:type:id
func makeNounKey(t core.NounType, id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%s:%d", nounPrefix, t, id))
}

// makePartialNounKey generates a partial key for nouns of one type.
// Format: prefix:type:
func makePartialNounKey(t core.NounType) []byte {
	return []byte(fmt.Sprintf("%s:%s:", nounPrefix, t))
}

// makeNounTypeKey generates a key for the noun type index.
func makeNounTypeKey(t core.NounType) []byte {
	return []byte(fmt.Sprintf("%s:%s", nounTypePrefix, t))
}

func prefixOf(p string) []byte {
	return []byte(p + ":")
}
