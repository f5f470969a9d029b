package domain

type MailMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

type CreateUserMailData struct {
	FullName string `json:"fullName"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type ResetPasswordMailData struct {
	FullName   string `json:"fullName"`
	OTP        string `json:"otp"`
	Expiration int    `json:"expiration"`
}

type BookingConfirmedMailData struct {
	FullName    string `json:"fullName"`
	Date        string `json:"date"`
	StartHour   int    `json:"startHour"`
	EndHour     int    `json:"endHour"`
	NPeople     int    `json:"npeople"`
	Description string `json:"description"`
}
