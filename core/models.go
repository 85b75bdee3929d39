package core

// CreateUserInput contains the data needed to create a user
type CreateUserInput struct {
	Name     string `json:"name" validate:"required,notblank"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// UpdateUserInput carries a partial update. Only non-nil fields are applied.
type UpdateUserInput struct {
	Name     *string `json:"name,omitempty" validate:"omitnil,notblank"`
	Email    *string `json:"email,omitempty" validate:"omitnil,email"`
	Password *string `json:"password,omitempty" validate:"omitnil,min=8"`
}

// UserView is the model returned to clients
type UserView struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// NewUserView builds the client representation of a stored user.
// A document missing its id, name or email means the store is inconsistent.
func NewUserView(u *User) (*UserView, error) {
	if u == nil || u.ID == "" || u.Name == "" || u.Email == "" {
		return nil, ErrInconsistentRecord
	}
	return &UserView{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
	}, nil
}
