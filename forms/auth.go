package forms

import (
	"strings"

	"github.com/Dosada05/hackathon-portal/client"
	"github.com/Dosada05/hackathon-portal/session"
)

// LoginForm is the entry screen. Admin mode hides the role toggle.
type LoginForm struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
	Role     string `form:"userType" validate:"omitempty,oneof=student organizer"`
	Admin    bool   `form:"-"`
}

func NewLoginForm() *LoginForm {
	return &LoginForm{Role: session.RoleStudent}
}

// SetAdmin switches modes and resets the entered credentials.
func (f *LoginForm) SetAdmin(admin bool) {
	f.Admin = admin
	f.Username = ""
	f.Password = ""
	f.Role = session.RoleStudent
}

func (f *LoginForm) Validate() error {
	f.Username = strings.TrimSpace(f.Username)
	return asError(check(f))
}

func (f *LoginForm) Request() client.LoginRequest {
	role := f.Role
	if f.Admin {
		role = session.RoleAdmin
	}
	return client.LoginRequest{Username: f.Username, Password: f.Password, UserType: role}
}

// SignUpForm creates a student or organizer account.
type SignUpForm struct {
	Name     string `form:"name" validate:"required"`
	Email    string `form:"email" validate:"required,email"`
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required,strongpassword"`
	Role     string `form:"userType" validate:"required,oneof=student organizer"`
	Address  string `form:"address"`
}

func NewSignUpForm() *SignUpForm {
	return &SignUpForm{Role: session.RoleStudent}
}

// SetRole switches between student and organizer and clears the form.
func (f *SignUpForm) SetRole(role string) {
	*f = SignUpForm{Role: role}
}

func (f *SignUpForm) Validate() error {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.TrimSpace(f.Email)
	f.Username = strings.TrimSpace(f.Username)
	f.Address = strings.TrimSpace(f.Address)

	verrs := check(f)
	if f.Role == session.RoleOrganizer && f.Address == "" {
		verrs = merge(verrs, ValidationError{"address": "is required"})
	}
	return asError(verrs)
}

func (f *SignUpForm) Request() client.SignUpRequest {
	req := client.SignUpRequest{
		Name:     f.Name,
		Email:    f.Email,
		Username: f.Username,
		Password: f.Password,
		UserType: f.Role,
	}
	if f.Role == session.RoleOrganizer {
		req.Address = f.Address
	}
	return req
}
