package main

import (
	"fmt"

	"github.com/Dosada05/hackathon-portal/session"
	"github.com/Dosada05/hackathon-portal/views"
	"github.com/spf13/cobra"
)

func newOpenCmd(get func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "open <route>",
		Short: "Open a screen, e.g. /shome or /team-hackathon/<id>",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			a.open(args[0])
			return a.render()
		},
	}
}

func newLoginCmd(get func() *app) *cobra.Command {
	var (
		username, password, role string
		admin                    bool
	)
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and open the home screen of your role",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := get()
			v, err := screen[*views.LoginView](a, views.RouteLogin)
			if err != nil {
				return err
			}
			v.SetAdmin(admin)
			v.Form.Username, v.Form.Password = username, password
			if !admin {
				v.Form.Role = role
			}
			if err := v.Submit(cmd.Context()); err != nil {
				return fmt.Errorf("login failed: %s", v.Error)
			}
			return a.render()
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password")
	cmd.Flags().StringVar(&role, "role", session.RoleStudent, "student or organizer")
	cmd.Flags().BoolVar(&admin, "admin", false, "log in as administrator")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newLogoutCmd(get func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := get()
			if err := a.session.Logout(); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Logged out.")
			return nil
		},
	}
}

func newSignUpCmd(get func() *app) *cobra.Command {
	var role, name, email, username, password, address string
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create a student or organizer account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := get()
			v, err := screen[*views.SignUpView](a, "/register")
			if err != nil {
				return err
			}
			v.RedirectDelay = 0
			v.SetRole(role)
			f := v.Form
			f.Name, f.Email, f.Username, f.Password, f.Address = name, email, username, password, address
			if err := v.Submit(cmd.Context()); err != nil {
				return fmt.Errorf("sign up failed: %s", v.Error)
			}
			fmt.Fprintln(a.out, v.Message)
			return nil
		},
	}
	cmd.Flags().StringVar(&role, "role", session.RoleStudent, "student or organizer")
	cmd.Flags().StringVar(&name, "name", "", "full name")
	cmd.Flags().StringVar(&email, "email", "", "email")
	cmd.Flags().StringVarP(&username, "username", "u", "", "username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password")
	cmd.Flags().StringVar(&address, "address", "", "organization address (organizers)")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print the client version",
		Annotations: map[string]string{"standalone": "true"},
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "portal", version)
		},
	}
}
