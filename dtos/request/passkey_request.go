package request

type StartPasskeyRegistrationRequest struct {
	UserId uint `json:"user_id" validate:"required"`
}

type StartPasskeyLoginRequest struct {
	// Empty email starts a discoverable (usernameless) ceremony.
	Email string `json:"email" validate:"omitempty,email"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type RenameCredentialRequest struct {
	DeviceName string `json:"device_name" validate:"required,devicename"`
}
