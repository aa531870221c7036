package views

import (
	"context"
	"io"
	"time"

	"github.com/Dosada05/hackathon-portal/client"
	"github.com/Dosada05/hackathon-portal/forms"
	"github.com/Dosada05/hackathon-portal/session"
)

// LoginView is the entry screen.
type LoginView struct {
	base
	Form  *forms.LoginForm
	Error string
}

func NewLoginView(deps Deps) *LoginView {
	return &LoginView{base: base{deps: deps}, Form: forms.NewLoginForm()}
}

func (v *LoginView) Mount(ctx context.Context) { v.mount(ctx) }

// SetAdmin toggles admin mode; the entered fields are reset.
func (v *LoginView) SetAdmin(admin bool) {
	v.Form.SetAdmin(admin)
	v.Error = ""
}

// Submit logs in, stores the session and goes to the role's home.
// On failure the form keeps what was typed and Error holds the message.
func (v *LoginView) Submit(ctx context.Context) error {
	v.Error = ""
	if err := v.Form.Validate(); err != nil {
		v.Error = err.Error()
		return err
	}

	req := v.Form.Request()
	var (
		res *client.LoginResponse
		err error
	)
	if v.Form.Admin {
		res, err = v.deps.Client.AdminLogin(ctx, req.Username, req.Password)
	} else {
		res, err = v.deps.Client.Login(ctx, req)
	}
	if err == nil && !res.Success {
		msg := res.Message
		if msg == "" {
			msg = "Login failed"
		}
		err = &client.APIError{Message: msg}
	}
	if err != nil {
		v.Error = client.Message(err)
		return err
	}

	role := res.Role
	if role == "" {
		role = req.UserType
	}
	state := session.State{Token: res.Token, Role: role}
	switch role {
	case session.RoleStudent:
		state.StudentID = res.StudentID
	case session.RoleOrganizer:
		state.OrganizerID = res.OrganizerID
	}
	if err := v.deps.Session.Login(state); err != nil {
		v.Error = err.Error()
		return err
	}
	v.navigate(HomeFor(role))
	return nil
}

func (v *LoginView) Render(w io.Writer) error {
	t := &textWriter{w: w}
	if v.Form.Admin {
		t.heading("Admin Login")
	} else {
		t.heading("Login")
		t.line("Role: %s", v.Form.Role)
	}
	if v.Error != "" {
		t.line("Error: %s", v.Error)
	}
	t.line("No account yet? Sign up at /register")
	return t.err
}

// SignUpView creates a student or organizer account.
type SignUpView struct {
	base
	Form    *forms.SignUpForm
	Error   string
	Message string
	// RedirectDelay is how long the success message stays before going to login.
	RedirectDelay time.Duration
}

func NewSignUpView(deps Deps) *SignUpView {
	return &SignUpView{base: base{deps: deps}, Form: forms.NewSignUpForm(), RedirectDelay: 2 * time.Second}
}

func (v *SignUpView) Mount(ctx context.Context) { v.mount(ctx) }

// SetRole switches the account type and clears the form.
func (v *SignUpView) SetRole(role string) {
	v.Form.SetRole(role)
	v.Error = ""
	v.Message = ""
}

func (v *SignUpView) Submit(ctx context.Context) error {
	v.Error, v.Message = "", ""
	if err := v.Form.Validate(); err != nil {
		v.Error = err.Error()
		return err
	}

	req := v.Form.Request()
	register := v.deps.Client.RegisterStudent
	if req.UserType == session.RoleOrganizer {
		register = v.deps.Client.RegisterOrganizer
	}
	msg, err := register(ctx, req)
	if err != nil {
		v.Error = client.Message(err)
		return err
	}
	if msg == "" {
		msg = "Registration successful"
	}
	v.Message = msg

	if v.RedirectDelay <= 0 {
		v.navigate(RouteLogin)
		return nil
	}
	// Переход выполняется, только если экран ещё открыт.
	life := v.life
	time.AfterFunc(v.RedirectDelay, func() {
		if life == nil || life.Alive() {
			v.navigate(RouteLogin)
		}
	})
	return nil
}

func (v *SignUpView) Render(w io.Writer) error {
	t := &textWriter{w: w}
	t.heading("Sign Up")
	t.line("Account type: %s", v.Form.Role)
	if v.Message != "" {
		t.line("%s", v.Message)
	}
	if v.Error != "" {
		t.line("Error: %s", v.Error)
	}
	return t.err
}

type AboutView struct{ base }

func NewAboutView(deps Deps) *AboutView { return &AboutView{base: base{deps: deps}} }

func (v *AboutView) Mount(ctx context.Context) { v.mount(ctx) }

func (v *AboutView) Render(w io.Writer) error {
	t := &textWriter{w: w}
	t.heading("About")
	t.line("Students browse hackathons and register solo or as a team.")
	t.line("Organizers host events and review submitted proposals.")
	t.line("Admins oversee users and events.")
	return t.err
}

type NotFoundView struct {
	base
	Path string
}

func NewNotFoundView(deps Deps, path string) *NotFoundView {
	return &NotFoundView{base: base{deps: deps}, Path: path}
}

func (v *NotFoundView) Mount(ctx context.Context) { v.mount(ctx) }

func (v *NotFoundView) Render(w io.Writer) error {
	t := &textWriter{w: w}
	t.heading("404 - Page not found")
	t.line("Nothing lives at %s.", v.Path)
	return t.err
}
