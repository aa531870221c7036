package views

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Dosada05/hackathon-portal/client"
	"github.com/Dosada05/hackathon-portal/forms"
	"golang.org/x/sync/errgroup"
)

type studentHome struct {
	Team         []client.Hackathon
	Solo         []client.Hackathon
	Upcoming     []client.StudentEvent
	Participated []client.StudentEvent
}

// StudentHomeView lists open hackathons and the student's own events.
type StudentHomeView struct {
	base
	Home Remote[studentHome]
}

func NewStudentHomeView(deps Deps) *StudentHomeView {
	return &StudentHomeView{base: base{deps: deps}}
}

func (v *StudentHomeView) Mount(ctx context.Context) {
	v.mount(ctx)
	studentID := v.deps.Session.StudentID()
	c := v.deps.Client

	Fetch(v.life, &v.Home, func(ctx context.Context) (studentHome, error) {
		var home studentHome
		var all []client.Hackathon
		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() (err error) {
			all, err = c.ListHackathons(ctx, "")
			return err
		})
		g.Go(func() (err error) {
			home.Upcoming, err = c.StudentHackathons(ctx, studentID, client.ListUpcoming)
			return err
		})
		g.Go(func() (err error) {
			home.Participated, err = c.StudentHackathons(ctx, studentID, client.ListParticipated)
			return err
		})
		if err := g.Wait(); err != nil {
			return home, err
		}
		for _, h := range all {
			switch {
			case strings.Contains(h.Type, "Team"):
				home.Team = append(home.Team, h)
			case strings.Contains(h.Type, "Solo"):
				home.Solo = append(home.Solo, h)
			}
		}
		return home, nil
	})
}

// DetailRoute is where a student goes to see an event.
func DetailRoute(h client.Hackathon) string {
	if strings.Contains(h.Type, "Team") {
		return "/team-hackathon/" + h.ID
	}
	return "/virtual-hackathon/" + h.ID
}

func (v *StudentHomeView) Render(w io.Writer) error {
	t := &textWriter{w: w}
	t.heading("Student Home")
	if !remoteState(t, "Hackathons", &v.Home) {
		return t.err
	}
	home := v.Home.Data()
	renderHackathons(t, "Team Hackathons", home.Team)
	renderHackathons(t, "Virtual Solo Hackathons", home.Solo)
	renderStudentEvents(t, "My Upcoming Hackathons", home.Upcoming)
	renderStudentEvents(t, "Participated Hackathons", home.Participated)
	return t.err
}

func renderHackathons(t *textWriter, title string, list []client.Hackathon) {
	t.line("")
	t.line("%s (%d)", title, len(list))
	if len(list) == 0 {
		t.line("  none")
		return
	}
	rows := make([]string, 0, len(list))
	for _, h := range list {
		rows = append(rows, fmt.Sprintf("%s\t%s\t%s\t%s\t%s", h.Name, formatDay(h.Date), orNA(h.Venue), orNA(h.Prize), DetailRoute(h)))
	}
	t.table("NAME\tDATE\tVENUE\tPRIZE\tOPEN", rows)
}

func renderStudentEvents(t *textWriter, title string, list []client.StudentEvent) {
	t.line("")
	t.line("%s (%d)", title, len(list))
	if len(list) == 0 {
		t.line("  none")
		return
	}
	rows := make([]string, 0, len(list))
	for _, e := range list {
		rows = append(rows, fmt.Sprintf("%s\t%s\t%s\t%s", e.Name, formatDay(e.Date), orNA(e.Venue), e.Status))
	}
	t.table("NAME\tDATE\tVENUE\tPROPOSAL", rows)
}

type eventDetail struct {
	Hackathon  *client.Hackathon
	Registered bool
}

// EventDetailView shows one hackathon and whether the student can register.
type EventDetailView struct {
	base
	HackathonID string
	Team        bool
	Detail      Remote[eventDetail]
}

func NewEventDetailView(deps Deps, hackathonID string, team bool) *EventDetailView {
	return &EventDetailView{base: base{deps: deps}, HackathonID: hackathonID, Team: team}
}

func (v *EventDetailView) Mount(ctx context.Context) {
	v.mount(ctx)
	c, id := v.deps.Client, v.HackathonID
	Fetch(v.life, &v.Detail, func(ctx context.Context) (eventDetail, error) {
		var d eventDetail
		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() (err error) {
			d.Hackathon, err = c.GetHackathon(ctx, id)
			return err
		})
		g.Go(func() (err error) {
			d.Registered, err = c.CheckRegistration(ctx, id)
			return err
		})
		return d, g.Wait()
	})
}

// NotFound reports whether the event does not exist.
func (v *EventDetailView) NotFound() bool {
	return v.Detail.Status() == StatusFailed && errors.Is(v.Detail.Err(), client.ErrNotFound)
}

// Back returns to the student home.
func (v *EventDetailView) Back() { v.navigate(RouteStudentHome) }

// RegisterRoute is the form for this event, or "" when registering is not possible.
func (v *EventDetailView) RegisterRoute() string {
	d := v.Detail.Data()
	if v.Detail.Status() != StatusReady || d.Registered || !registrationOpen(d.Hackathon, v.deps) {
		return ""
	}
	if v.Team {
		return "/Tregpg/" + v.HackathonID
	}
	return "/Vregpg/" + v.HackathonID
}

func registrationOpen(h *client.Hackathon, deps Deps) bool {
	if h == nil {
		return false
	}
	today := deps.now().UTC().Truncate(24 * time.Hour)
	if !h.RegStart.IsZero() && today.Before(h.RegStart.UTC().Truncate(24*time.Hour)) {
		return false
	}
	if !h.RegEnd.IsZero() && today.After(h.RegEnd.UTC().Truncate(24*time.Hour)) {
		return false
	}
	return true
}

func (v *EventDetailView) Render(w io.Writer) error {
	t := &textWriter{w: w}
	if v.NotFound() {
		t.heading("Event not found")
		t.line("[Back] %s", RouteStudentHome)
		return t.err
	}
	if !remoteState(t, "Event", &v.Detail) {
		return t.err
	}

	d := v.Detail.Data()
	h := d.Hackathon
	t.heading(h.Name)
	place := "Platform"
	if h.IsTeam {
		place = "Venue"
	}
	t.line("Type:         %s", h.Type)
	t.line("%-13s %s", place+":", orNA(h.Venue))
	t.line("Date:         %s", formatDay(h.Date))
	t.line("Registration: %s - %s", formatDay(h.RegStart), formatDay(h.RegEnd))
	t.line("Duration:     %s", orNA(h.Duration))
	t.line("Prize:        %s", orNA(h.Prize))
	if h.IsTeam {
		t.line("Team size:    up to %d members", maxMembers(h))
	}
	if h.OrganizerName != "" {
		t.line("Organizer:    %s", h.OrganizerName)
	}
	t.line("")
	t.line("%s", h.Details)
	t.line("")
	switch {
	case d.Registered:
		t.line("[Already Registered]")
	case v.RegisterRoute() != "":
		t.line("[Register Now] %s", v.RegisterRoute())
	default:
		t.line("[Registration Closed]")
	}
	return t.err
}

func maxMembers(h *client.Hackathon) int {
	if h == nil || h.MaxTeamMembers <= 0 {
		return forms.DefaultMaxTeamMembers
	}
	return h.MaxTeamMembers
}

// TeamRegisterView is the team registration form. The event is fetched to
// learn its team-size cap.
type TeamRegisterView struct {
	base
	HackathonID string
	Hackathon   Remote[*client.Hackathon]
	Form        *forms.TeamForm
	Error       string
}

func NewTeamRegisterView(deps Deps, hackathonID string) *TeamRegisterView {
	return &TeamRegisterView{
		base:        base{deps: deps},
		HackathonID: hackathonID,
		Form:        forms.NewTeamForm(hackathonID, deps.Session.StudentID(), 0),
	}
}

func (v *TeamRegisterView) Mount(ctx context.Context) {
	v.mount(ctx)
	c, id := v.deps.Client, v.HackathonID
	v.Hackathon.start()
	Go(v.life, func(ctx context.Context) (*client.Hackathon, error) {
		return c.GetHackathon(ctx, id)
	}, func(h *client.Hackathon, err error) {
		if err != nil {
			v.Hackathon.fail(err)
			return
		}
		v.Hackathon.resolve(h)
		v.Form.SetMaxMembers(h.MaxTeamMembers)
	})
}

// Submit sends the registration; on success the student goes home.
func (v *TeamRegisterView) Submit(ctx context.Context) error {
	v.Error = ""
	if v.Form.StudentID == "" {
		v.Error = "Student ID is missing. Please log in again."
		return errors.New(v.Error)
	}
	if err := v.Form.Validate(); err != nil {
		v.Error = err.Error()
		return err
	}
	req, att := v.Form.Submission()
	if _, err := v.deps.Client.SubmitRegistration(ctx, req, att); err != nil {
		v.Error = submitError(err)
		return err
	}
	v.navigate(RouteStudentHome)
	return nil
}

func submitError(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if errors.Is(err, client.ErrServer) {
		return "Server error occurred"
	}
	return "Registration failed. Please try again."
}

func (v *TeamRegisterView) Render(w io.Writer) error {
	t := &textWriter{w: w}
	t.heading("Register for Team Hackathon")
	if remoteState(t, "Event", &v.Hackathon) {
		t.line("Event: %s (team of 1-%d members plus leader)", v.Hackathon.Data().Name, v.Form.MaxMembers())
	}
	t.line("Members: %d", len(v.Form.Members))
	if p := v.Form.Proposal(); p != nil {
		t.line("Proposal: %s (%d bytes)", p.Filename, len(p.Data))
	}
	if v.Error != "" {
		t.line("Error: %s", v.Error)
	}
	return t.err
}

// SoloRegisterView is the virtual hackathon form, sent as JSON.
type SoloRegisterView struct {
	base
	HackathonID string
	Form        *forms.SoloForm
	Error       string
}

func NewSoloRegisterView(deps Deps, hackathonID string) *SoloRegisterView {
	return &SoloRegisterView{
		base:        base{deps: deps},
		HackathonID: hackathonID,
		Form:        forms.NewSoloForm(hackathonID, deps.Session.StudentID()),
	}
}

func (v *SoloRegisterView) Mount(ctx context.Context) { v.mount(ctx) }

func (v *SoloRegisterView) Submit(ctx context.Context) error {
	v.Error = ""
	if err := v.Form.Validate(); err != nil {
		v.Error = err.Error()
		return err
	}
	if _, err := v.deps.Client.SubmitRegistration(ctx, v.Form.Request(), nil); err != nil {
		v.Error = submitError(err)
		return err
	}
	v.navigate(RouteStudentHome)
	return nil
}

func (v *SoloRegisterView) Render(w io.Writer) error {
	t := &textWriter{w: w}
	t.heading("Register for Virtual Hackathon")
	if v.Error != "" {
		t.line("Error: %s", v.Error)
	}
	return t.err
}
