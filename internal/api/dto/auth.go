package dto

import "github.com/0x029Ax0/starter-kit-api/internal/api/validation"

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Email == "" {
		errors["email"] = "Email is required"
	} else if !validation.IsValidEmail(r.Email) {
		errors["email"] = "Email is invalid"
	}
	if r.Password == "" {
		errors["password"] = "Password is required"
	}

	return errors
}

type RegisterRequest struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

func (r RegisterRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Name == "" {
		errors["name"] = "Name is required"
	}
	if r.Email == "" {
		errors["email"] = "Email is required"
	} else if !validation.IsValidEmail(r.Email) {
		errors["email"] = "Email is invalid"
	}
	validatePassword(errors, r.Password, r.PasswordConfirmation)

	return errors
}

type RecoverAccountRequest struct {
	Email string `json:"email"`
}

func (r RecoverAccountRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Email == "" {
		errors["email"] = "Email is required"
	} else if !validation.IsValidEmail(r.Email) {
		errors["email"] = "Email is invalid"
	}

	return errors
}

type ResetPasswordRequest struct {
	RecoveryCode         string `json:"recovery_code"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

func (r ResetPasswordRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.RecoveryCode == "" {
		errors["recovery_code"] = "Recovery code is required"
	}
	if r.Email == "" {
		errors["email"] = "Email is required"
	} else if !validation.IsValidEmail(r.Email) {
		errors["email"] = "Email is invalid"
	}
	validatePassword(errors, r.Password, r.PasswordConfirmation)

	return errors
}

type VerifyEmailRequest struct {
	Email            string `json:"email"`
	VerificationCode string `json:"verification_code"`
}

func (r VerifyEmailRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Email == "" {
		errors["email"] = "Email is required"
	} else if !validation.IsValidEmail(r.Email) {
		errors["email"] = "Email is invalid"
	}
	if r.VerificationCode == "" {
		errors["verification_code"] = "Verification code is required"
	}

	return errors
}

type ChangePasswordRequest struct {
	Password                string `json:"password"`
	NewPassword             string `json:"new_password"`
	NewPasswordConfirmation string `json:"new_password_confirmation"`
}

func (r ChangePasswordRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Password == "" {
		errors["password"] = "Password is required"
	}
	if r.NewPassword == "" {
		errors["new_password"] = "New password is required"
	} else if len(r.NewPassword) < 8 {
		errors["new_password"] = "New password must be at least 8 characters"
	} else if r.NewPassword != r.NewPasswordConfirmation {
		errors["new_password_confirmation"] = "Password confirmation does not match"
	}

	return errors
}

type UpdateProfileRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	// Optional avatar image as a base64 data URL (png, jpeg or webp).
	Avatar string `json:"avatar,omitempty"`
}

func (r UpdateProfileRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Name == "" {
		errors["name"] = "Name is required"
	}
	if r.Email == "" {
		errors["email"] = "Email is required"
	} else if !validation.IsValidEmail(r.Email) {
		errors["email"] = "Email is invalid"
	}

	return errors
}

type DeleteAccountRequest struct {
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

func (r DeleteAccountRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Password == "" {
		errors["password"] = "Password is required"
	} else if r.Password != r.PasswordConfirmation {
		errors["password_confirmation"] = "Password confirmation does not match"
	}

	return errors
}

func validatePassword(errors map[string]string, password, confirmation string) {
	if password == "" {
		errors["password"] = "Password is required"
	} else if len(password) < 8 {
		errors["password"] = "Password must be at least 8 characters"
	} else if password != confirmation {
		errors["password_confirmation"] = "Password confirmation does not match"
	}
}

type AuthResponse struct {
	Status string `json:"status"`
	User   *User  `json:"user"`
	Token  string `json:"token"`
}

type RedirectResponse struct {
	Status      string `json:"status"`
	RedirectURL string `json:"redirect_url"`
}
