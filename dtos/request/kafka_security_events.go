package request

type PasskeyRegisteredEvent struct {
	UserId       uint   `json:"user_id"`
	Email        string `json:"email"`
	CredentialId string `json:"credential_id"`
	DeviceName   string `json:"device_name"`
}

type PasskeyRevokedEvent struct {
	UserId    uint `json:"user_id"`
	PasskeyId uint `json:"passkey_id"`
}

type PasskeyLoginEvent struct {
	UserId       uint   `json:"user_id"`
	Email        string `json:"email"`
	CredentialId string `json:"credential_id"`
}
