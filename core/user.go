package core

// User represents a stored user document
//
// Password holds the encoded argon2id hash, never the raw secret.
type User struct {
	ID       string
	Name     string
	Email    string
	Password string
}

// UserPatch lists the fields an update sets. Nil fields are left untouched.
type UserPatch struct {
	Name     *string
	Email    *string
	Password *string // already hashed
}

// IsEmpty reports whether the patch would change nothing
func (p UserPatch) IsEmpty() bool {
	return p.Name == nil && p.Email == nil && p.Password == nil
}
