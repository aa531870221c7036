package views

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/Dosada05/hackathon-portal/client"
	"golang.org/x/sync/errgroup"
)

// Вкладки панели администратора.
const (
	TabDashboard = "dashboard"
	TabUsers     = "users"
	TabEvents    = "events"
)

type adminData struct {
	Users      client.UserCounts
	Events     client.EventCounts
	Students   []client.User
	Organizers []client.User
	Hackathons []client.AdminHackathon
}

// AdminHomeView is the admin panel; all tabs load together.
type AdminHomeView struct {
	base
	Tab  string
	Data Remote[adminData]
}

func NewAdminHomeView(deps Deps) *AdminHomeView {
	return &AdminHomeView{base: base{deps: deps}, Tab: TabDashboard}
}

func (v *AdminHomeView) Mount(ctx context.Context) {
	v.mount(ctx)
	c := v.deps.Client
	Fetch(v.life, &v.Data, func(ctx context.Context) (adminData, error) {
		var d adminData
		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			uc, err := c.UserCounts(ctx)
			if err == nil {
				d.Users = *uc
			}
			return err
		})
		g.Go(func() error {
			ec, err := c.EventCounts(ctx)
			if err == nil {
				d.Events = *ec
			}
			return err
		})
		g.Go(func() (err error) {
			d.Students, err = c.ListStudents(ctx)
			return err
		})
		g.Go(func() (err error) {
			d.Organizers, err = c.ListOrganizers(ctx)
			return err
		})
		g.Go(func() (err error) {
			d.Hackathons, err = c.AdminHackathons(ctx)
			return err
		})
		return d, g.Wait()
	})
}

func (v *AdminHomeView) SetTab(tab string) error {
	switch tab {
	case TabDashboard, TabUsers, TabEvents:
		v.Tab = tab
		return nil
	}
	return fmt.Errorf("unknown tab %q", tab)
}

func (v *AdminHomeView) Render(w io.Writer) error {
	t := &textWriter{w: w}
	t.heading("Admin Panel")
	t.line("[%s] [%s] [%s]", TabDashboard, TabUsers, TabEvents)
	if !remoteState(t, "Data", &v.Data) {
		return t.err
	}
	d := v.Data.Data()
	switch v.Tab {
	case TabUsers:
		renderUsers(t, "Students", d.Students)
		renderUsers(t, "Organizers", d.Organizers)
	case TabEvents:
		t.line("")
		rows := make([]string, 0, len(d.Hackathons))
		for _, h := range d.Hackathons {
			org := "N/A"
			if h.Organizer != nil {
				org = h.Organizer.Name
			}
			rows = append(rows, fmt.Sprintf("%s\t%s\t%s\t%s\t%s\t/event-details/%s", h.ID, h.Name, formatDay(h.Date), h.Status, org, h.ID))
		}
		t.table("ID\tNAME\tDATE\tSTATUS\tORGANIZER\tDETAILS", rows)
	default:
		t.line("")
		t.line("Students:             %d", d.Users.StudentCount)
		t.line("Organizers:           %d", d.Users.OrganizerCount)
		t.line("Upcoming hackathons:  %d", d.Events.UpcomingCount)
		t.line("Conducted hackathons: %d", d.Events.ConductedCount)
	}
	return t.err
}

func renderUsers(t *textWriter, title string, list []client.User) {
	t.line("")
	t.line("%s (%d)", title, len(list))
	if len(list) == 0 {
		return
	}
	rows := make([]string, 0, len(list))
	for _, u := range list {
		rows = append(rows, fmt.Sprintf("%s\t%s\t%s\t%s", u.Name, u.Username, u.Email, orNA(u.Address)))
	}
	t.table("NAME\tUSERNAME\tEMAIL\tADDRESS", rows)
}

type adminEvent struct {
	Hackathon     *client.Hackathon
	Registrations []client.Registration
}

// AdminEventView is one event with its registrations.
type AdminEventView struct {
	base
	EventID string
	Event   Remote[adminEvent]
}

func NewAdminEventView(deps Deps, eventID string) *AdminEventView {
	return &AdminEventView{base: base{deps: deps}, EventID: eventID}
}

func (v *AdminEventView) Mount(ctx context.Context) {
	v.mount(ctx)
	c, id := v.deps.Client, v.EventID
	Fetch(v.life, &v.Event, func(ctx context.Context) (adminEvent, error) {
		var e adminEvent
		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() (err error) {
			e.Hackathon, err = c.GetHackathon(ctx, id)
			return err
		})
		g.Go(func() (err error) {
			e.Registrations, err = c.HackathonRegistrations(ctx, id)
			return err
		})
		return e, g.Wait()
	})
}

func (v *AdminEventView) Back() { v.navigate(RouteAdminHome) }

func (v *AdminEventView) Render(w io.Writer) error {
	t := &textWriter{w: w}
	if v.Event.Status() == StatusFailed && errors.Is(v.Event.Err(), client.ErrNotFound) {
		t.heading("Event not found")
		t.line("[Back] %s", RouteAdminHome)
		return t.err
	}
	if !remoteState(t, "Event", &v.Event) {
		return t.err
	}
	e := v.Event.Data()
	h := e.Hackathon
	t.heading(h.Name)
	t.line("Type:      %s", h.Type)
	t.line("Date:      %s", formatDay(h.Date))
	t.line("Venue:     %s", orNA(h.Venue))
	t.line("Organizer: %s", orNA(h.OrganizerName))
	t.line("Status:    %s", orNA(h.Status))
	t.line("")
	renderRegistrations(t, e.Registrations)
	return t.err
}
