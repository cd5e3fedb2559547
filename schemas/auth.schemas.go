package schemas

// RegisterSchema is the POST /register body. Username falls back to the email
// address when not provided.
type RegisterSchema struct {
	First    string `json:"first" validate:"required,max=255"`
	Last     string `json:"last" validate:"required,max=255"`
	Username string `json:"username" validate:"max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required"`
}

// RegisterResponse is the 201 body of a successful registration.
type RegisterResponse struct {
	Success bool   `json:"success"`
	Email   string `json:"email"`
}

// SignInResponse is the body of a successful sign-in.
type SignInResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	Token    string `json:"token"`
	MemberID int    `json:"memberid"`
	Email    string `json:"email"`
}

// ForgotPasswordSchema is the PUT /passwordreset/forgot body.
type ForgotPasswordSchema struct {
	Email string `json:"email" validate:"required,email,max=255"`
}

// ResetPasswordSchema is the PUT /passwordreset/reset/:token body.
type ResetPasswordSchema struct {
	Password string `json:"password" validate:"required"`
}

// PushTokenSchema is the PUT /auth body.
type PushTokenSchema struct {
	Token string `json:"token" validate:"required"`
}
