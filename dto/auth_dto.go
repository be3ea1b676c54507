package dto

type SignupInput struct {
	Username        string `json:"username" binding:"required,min=2,max=20"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,min=8"`
	ConfirmPassword string `json:"confirmPassword" binding:"required,eqfield=Password"`
	Role            string `json:"role" binding:"omitempty,oneof=buyer seller"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type RefreshTokenInput struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// LogoutInput optionally names the refresh token to revoke with the access token.
type LogoutInput struct {
	RefreshToken string `json:"refreshToken"`
}

type UpdateProfileInput struct {
	Username *string `json:"username" binding:"omitempty,min=2,max=20"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Password *string `json:"password" binding:"omitempty,min=8"`
}
