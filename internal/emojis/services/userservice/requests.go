package userservice

type CreateUserRequest struct {
	Email                string `json:"email"                 validate:"required,email,max=255"`
	Name                 string `json:"name"                  validate:"required,max=50"`
	Password             string `json:"password"              validate:"required,min=6,max=72"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required,eqfield=Password"` //nolint:tagliatelle
}

// UpdateUserRequest changes only the fields that are not empty.
type UpdateUserRequest struct {
	Email                string `json:"email"                 validate:"omitempty,email,max=255"`
	Name                 string `json:"name"                  validate:"omitempty,max=50"`
	Password             string `json:"password"              validate:"omitempty,min=6,max=72"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required_with=Password,omitempty,eqfield=Password"` //nolint:tagliatelle,lll
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
