package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword returns the bcrypt digest of the plaintext. The digest
// embeds its own salt and cost, so verification needs no extra state.
func HashPassword(password string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// CheckPassword reports whether the plaintext matches the stored digest.
// The comparison is constant-time inside bcrypt.
func CheckPassword(password, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}
