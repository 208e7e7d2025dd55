package util

import "crypto/rand"

const publicIDAlphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ_-"

// NewPublicID returns a URL-safe random id for public quiz links
// (the /q/{id} slug). 10 characters over a 64-symbol alphabet.
func NewPublicID(length int) string {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	for i, b := range buf {
		buf[i] = publicIDAlphabet[int(b)&63]
	}
	return string(buf)
}
