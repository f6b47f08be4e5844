// Package service defines interfaces for core, stateless domain logic.
// These services encapsulate business rules that don't naturally fit within a
// single entity.
package service

// PasswordHasher defines the interface for password hashing and verification.
// This abstracts the underlying key-derivation function, keeping the domain pure.
type PasswordHasher interface {
	// Hash generates a salted hash from a plaintext password. The returned
	// value is opaque to callers; only Verify can interpret it.
	Hash(password string) (string, error)

	// Verify compares a plaintext password with a stored hash. It fails
	// closed: malformed stored values yield false, never an error.
	Verify(password, encoded string) bool
}
