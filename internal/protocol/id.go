package protocol

import "strings"

// ID keys sent by the engine during the handshake.
const (
	IDName   = "name"
	IDAuthor = "author"
)

// ParseID splits an "id <key> <value>" handshake line. The value keeps its
// inner spacing, since engine names routinely contain spaces.
func ParseID(line string) (key, value string, ok bool) {
	rest, found := strings.CutPrefix(strings.TrimSpace(line), "id ")
	if !found {
		return "", "", false
	}

	key, value, found = strings.Cut(strings.TrimLeft(rest, " "), " ")
	if !found || key == "" {
		return "", "", false
	}

	return key, strings.TrimSpace(value), true
}

// IsOptionDecl reports whether line declares an engine option
// ("option name Hash type spin default 16 min 1 max 33554432").
func IsOptionDecl(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "option name ")
}
