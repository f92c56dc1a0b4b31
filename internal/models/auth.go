package models

type LoginRequest struct {
	Phone    string `json:"phone,omitempty"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password"`
	Role     Role   `json:"role,omitempty"`
}

// LoginData is the payload of a successful login.
type LoginData struct {
	UserID     FlexString `json:"user_id"`
	OperatorID FlexString `json:"operator_id,omitempty"`
	AdminID    FlexString `json:"admin_id,omitempty"`
	Name       string     `json:"name"`
	Phone      string     `json:"phone,omitempty"`
	Email      string     `json:"email,omitempty"`
	Role       Role       `json:"role,omitempty"`
	Token      string     `json:"token,omitempty"`
}

// ID returns the identifier matching the login role.
func (d LoginData) ID() string {
	switch {
	case d.Role == RoleOperator && d.OperatorID != "":
		return d.OperatorID.String()
	case d.Role == RoleAdmin && d.AdminID != "":
		return d.AdminID.String()
	case d.UserID != "":
		return d.UserID.String()
	case d.OperatorID != "":
		return d.OperatorID.String()
	}
	return d.AdminID.String()
}

// SignupProfile is the registration payload shared by every role.
type SignupProfile struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Email    string `json:"email,omitempty"`
	Address  string `json:"address,omitempty"`
	Password string `json:"password"`
	Role     Role   `json:"role,omitempty"`
}

type PasswordResetRequest struct {
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
	Role  Role   `json:"role,omitempty"`
}

type PasswordResetConfirm struct {
	Phone       string `json:"phone"`
	OTP         string `json:"otp"`
	NewPassword string `json:"new_password"`
	Role        Role   `json:"role,omitempty"`
}
