package api

import (
	"context"
	"net/http"
	"regexp"
	"strings"

	"github.com/julianstephens/eathmover/internal/constants"
	"github.com/julianstephens/eathmover/internal/errors"
	"github.com/julianstephens/eathmover/internal/models"
)

const (
	pathUserLogin      = "auth/user_login.php"
	pathAdminLogin     = "auth/admin_login.php"
	pathUserSignup     = "auth/user_signup.php"
	pathOperatorSignup = "auth/operator_signup.php"
	pathAdminSignup    = "auth/admin_signup.php"
	pathResetRequest   = "request_password_reset.php"
	pathResetConfirm   = "confirm_password_reset.php"
)

const (
	MsgInvalidCredentials = "Invalid phone/email or password"
	MsgUserNotFound       = "User not found"
)

var otpPattern = regexp.MustCompile(`^\d{6}$`)

func (c *Client) Login(ctx context.Context, req models.LoginRequest) (models.LoginData, error) {
	if req.Role == "" {
		req.Role = models.RoleUser
	}
	return c.login(ctx, pathUserLogin, req)
}

func (c *Client) AdminLogin(ctx context.Context, req models.LoginRequest) (models.LoginData, error) {
	req.Role = models.RoleAdmin
	return c.login(ctx, pathAdminLogin, req)
}

func (c *Client) login(ctx context.Context, path string, req models.LoginRequest) (models.LoginData, error) {
	if err := validateLogin(req); err != nil {
		return models.LoginData{}, err
	}

	env, err := post[models.LoginData](ctx, c, path, req)
	if err != nil {
		switch errors.StatusOf(err) {
		case http.StatusUnauthorized:
			return models.LoginData{}, errors.API(http.StatusUnauthorized, MsgInvalidCredentials)
		case http.StatusNotFound:
			return models.LoginData{}, errors.API(http.StatusNotFound, MsgUserNotFound)
		}
		return models.LoginData{}, err
	}

	data := env.Data
	if data.Role == "" {
		data.Role = req.Role
	}
	if data.ID() == "" {
		return models.LoginData{}, errors.API(http.StatusOK, "Login response did not include an account id")
	}
	return data, nil
}

func validateLogin(req models.LoginRequest) error {
	if strings.TrimSpace(req.Phone) == "" && strings.TrimSpace(req.Email) == "" {
		return errors.Validation("Please enter your phone number or email")
	}
	if req.Password == "" {
		return errors.Validation("Please enter your password")
	}
	if !req.Role.Valid() {
		return errors.Validationf("Invalid role %q", req.Role)
	}
	return nil
}

func (c *Client) CreateUser(ctx context.Context, profile models.SignupProfile) (string, error) {
	profile.Role = models.RoleUser
	return c.signup(ctx, pathUserSignup, profile)
}

func (c *Client) CreateOperator(ctx context.Context, profile models.SignupProfile) (string, error) {
	profile.Role = models.RoleOperator
	return c.signup(ctx, pathOperatorSignup, profile)
}

func (c *Client) CreateAdmin(ctx context.Context, profile models.SignupProfile) (string, error) {
	profile.Role = models.RoleAdmin
	return c.signup(ctx, pathAdminSignup, profile)
}

func (c *Client) signup(ctx context.Context, path string, profile models.SignupProfile) (string, error) {
	if err := ValidateSignup(profile); err != nil {
		return "", err
	}
	return c.message(ctx, path, profile)
}

// ValidateSignup checks a registration form before it is sent.
func ValidateSignup(p models.SignupProfile) error {
	switch {
	case strings.TrimSpace(p.Name) == "":
		return errors.Validation("Please enter your name")
	case strings.TrimSpace(p.Phone) == "":
		return errors.Validation("Please enter your phone number")
	case len(p.Password) < constants.MinPasswordLength:
		return errors.Validationf("Password must be at least %d characters", constants.MinPasswordLength)
	}
	return nil
}

func (c *Client) RequestPasswordReset(ctx context.Context, req models.PasswordResetRequest) (string, error) {
	if strings.TrimSpace(req.Phone) == "" && strings.TrimSpace(req.Email) == "" {
		return "", errors.Validation("Please enter your phone number or email")
	}
	return c.message(ctx, pathResetRequest, req)
}

func (c *Client) ConfirmPasswordReset(ctx context.Context, req models.PasswordResetConfirm) (string, error) {
	if err := ValidateResetConfirm(req, req.NewPassword); err != nil {
		return "", err
	}
	return c.message(ctx, pathResetConfirm, req)
}

// ValidateResetConfirm checks the OTP and new password. confirm is the
// repeated password entry.
func ValidateResetConfirm(req models.PasswordResetConfirm, confirm string) error {
	switch {
	case strings.TrimSpace(req.Phone) == "":
		return errors.Validation("Please enter your phone number")
	case !otpPattern.MatchString(req.OTP):
		return errors.Validationf("OTP must be exactly %d digits", constants.OTPLength)
	case len(req.NewPassword) < constants.MinPasswordLength:
		return errors.Validationf("Password must be at least %d characters", constants.MinPasswordLength)
	case req.NewPassword != confirm:
		return errors.Validation("Passwords do not match")
	}
	return nil
}
