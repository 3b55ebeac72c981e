// Package tagcode generates and formats the short public codes written to
// NFC tags.
package tagcode

import (
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Alphabet leaves out 0, 1, I and O so codes survive being read aloud.
const Alphabet = "23456789ABCDEFGHJKLMNPQRSTUVWXYZ"

const Length = 8

func Generate() (string, error) {
	return gonanoid.Generate(Alphabet, Length)
}

// Valid reports whether code has the shape Generate produces.
func Valid(code string) bool {
	if len(code) != Length {
		return false
	}
	for i := 0; i < len(code); i++ {
		if strings.IndexByte(Alphabet, code[i]) < 0 {
			return false
		}
	}
	return true
}

// URL is the public address encoded onto a tag.
func URL(domain, code string) string {
	protocol := "https"
	if strings.Contains(domain, "localhost") {
		protocol = "http"
	}
	return protocol + "://" + domain + "/t/" + code
}
