// Package views holds one view-model per screen. A view reads identifiers
// from the session, fetches through the client on Mount, keeps the results
// in Remote values and renders them as text.
package views

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"text/tabwriter"
	"time"
	"unicode/utf8"

	"github.com/Dosada05/hackathon-portal/client"
	"github.com/Dosada05/hackathon-portal/session"
)

// Home routes per role.
const (
	RouteLogin          = "/"
	RouteStudentHome    = "/shome"
	RouteOrganizerHome  = "/ohome"
	RouteAdminHome      = "/ahome"
	RouteHostHackathon  = "/hosthk"
	RouteReviewProposal = "/revappro"
	RouteArchive        = "/approreg"
)

// HomeFor returns the landing route of a role.
func HomeFor(role string) string {
	switch role {
	case session.RoleAdmin:
		return RouteAdminHome
	case session.RoleOrganizer:
		return RouteOrganizerHome
	case session.RoleStudent:
		return RouteStudentHome
	}
	return RouteLogin
}

// Deps is what every view is built with.
type Deps struct {
	Client    *client.Client
	Session   *session.Session
	Navigator client.Navigator
	Logger    *slog.Logger
	// Now is used for registration-window hints; defaults to time.Now.
	Now func() time.Time
}

func (d Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

func (d Deps) logger() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return slog.Default()
}

type View interface {
	Mount(ctx context.Context)
	Unmount()
	// Wait blocks until the fetches started by Mount have settled.
	Wait()
	Render(w io.Writer) error
}

// base carries the lifetime handling shared by all views.
type base struct {
	deps Deps
	life *Lifetime
}

func (b *base) mount(ctx context.Context) {
	if b.life != nil {
		b.life.End()
	}
	b.life = NewLifetime(ctx)
}

func (b *base) Unmount() {
	if b.life != nil {
		b.life.End()
	}
}

func (b *base) Wait() {
	if b.life != nil {
		b.life.Wait()
	}
}

func (b *base) navigate(path string) {
	if b.deps.Navigator != nil {
		b.deps.Navigator.Navigate(path)
	}
}

// Logout clears the session and returns to the entry route.
func (b *base) Logout() error {
	if err := b.deps.Session.Logout(); err != nil {
		return err
	}
	b.navigate(RouteLogin)
	return nil
}

// textWriter collects the first write error so render code stays linear.
type textWriter struct {
	w   io.Writer
	err error
}

func (t *textWriter) line(format string, args ...interface{}) {
	if t.err != nil {
		return
	}
	_, t.err = fmt.Fprintf(t.w, format+"\n", args...)
}

func (t *textWriter) heading(title string) {
	t.line("%s", title)
	t.line("%s", strings.Repeat("=", utf8.RuneCountInString(title)))
}

// table writes tab-separated rows aligned in columns.
func (t *textWriter) table(header string, rows []string) {
	if t.err != nil {
		return
	}
	tw := tabwriter.NewWriter(t.w, 0, 4, 2, ' ', 0)
	if _, err := fmt.Fprintln(tw, header); err != nil {
		t.err = err
		return
	}
	for _, r := range rows {
		if _, err := fmt.Fprintln(tw, r); err != nil {
			t.err = err
			return
		}
	}
	t.err = tw.Flush()
}

// remoteState renders the loading and error placeholders and reports whether
// the caller should render data.
func remoteState[T any](t *textWriter, label string, r *Remote[T]) bool {
	switch r.Status() {
	case StatusIdle, StatusLoading:
		t.line("%s: loading...", label)
		return false
	case StatusFailed:
		t.line("%s: error: %s", label, client.Message(r.Err()))
		return false
	}
	return true
}

func formatDay(ts time.Time) string {
	if ts.IsZero() {
		return "N/A"
	}
	return ts.Format("02 Jan 2006")
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}
