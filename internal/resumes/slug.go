package resumes

import "crypto/rand"

// SlugLength is the number of characters in a public slug.
const SlugLength = 10

const slugAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789_-"

// NewSlug returns a random URL-safe token. The alphabet has 64 symbols so masking a random
// byte to 6 bits is unbiased.
func NewSlug() (string, error) {
	buf := make([]byte, SlugLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = slugAlphabet[b&63]
	}
	return string(buf), nil
}
