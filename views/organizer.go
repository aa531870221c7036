package views

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/Dosada05/hackathon-portal/client"
	"github.com/Dosada05/hackathon-portal/forms"
	"golang.org/x/sync/errgroup"
)

type organizerHome struct {
	Upcoming  []client.Hackathon
	Conducted []client.Hackathon
}

// OrganizerHomeView shows the organizer's upcoming and conducted events.
type OrganizerHomeView struct {
	base
	Home Remote[organizerHome]
}

func NewOrganizerHomeView(deps Deps) *OrganizerHomeView {
	return &OrganizerHomeView{base: base{deps: deps}}
}

func (v *OrganizerHomeView) Mount(ctx context.Context) {
	v.mount(ctx)
	c, orgID := v.deps.Client, v.deps.Session.OrganizerID()
	Fetch(v.life, &v.Home, func(ctx context.Context) (organizerHome, error) {
		var home organizerHome
		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() (err error) {
			home.Upcoming, err = c.OrganizerHackathons(ctx, orgID, client.ListOrganizerUpcoming)
			return err
		})
		g.Go(func() (err error) {
			home.Conducted, err = c.OrganizerHackathons(ctx, orgID, client.ListConducted)
			return err
		})
		return home, g.Wait()
	})
}

// DownloadReport saves the PDF report of an event into dir and returns the
// file path.
func (v *OrganizerHomeView) DownloadReport(ctx context.Context, hackathonID, dir string) (string, error) {
	name := hackathonID
	home := v.Home.Data()
	if h, ok := findHackathon(hackathonID, home.Upcoming, home.Conducted); ok {
		name = h.Name
	}
	report, err := v.deps.Client.GenerateReport(ctx, hackathonID, name)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, filepath.Base(report.Filename))
	if err := os.WriteFile(path, report.Content, 0o644); err != nil {
		return "", fmt.Errorf("save report: %w", err)
	}
	v.deps.logger().Info("report saved", slog.String("path", path))
	return path, nil
}

func findHackathon(id string, lists ...[]client.Hackathon) (client.Hackathon, bool) {
	for _, list := range lists {
		for _, h := range list {
			if h.ID == id {
				return h, true
			}
		}
	}
	return client.Hackathon{}, false
}

func (v *OrganizerHomeView) Render(w io.Writer) error {
	t := &textWriter{w: w}
	t.heading("Organizer Home")
	t.line("[Host Hackathon] %s   [Review Proposals] %s   [Archive] %s", RouteHostHackathon, RouteReviewProposal, RouteArchive)
	if !remoteState(t, "Hackathons", &v.Home) {
		return t.err
	}
	home := v.Home.Data()
	renderOrganized(t, "Upcoming Hackathons", home.Upcoming)
	renderOrganized(t, "Conducted Hackathons", home.Conducted)
	return t.err
}

func renderOrganized(t *textWriter, title string, list []client.Hackathon) {
	t.line("")
	t.line("%s (%d)", title, len(list))
	if len(list) == 0 {
		t.line("  none")
		return
	}
	rows := make([]string, 0, len(list))
	for _, h := range list {
		rows = append(rows, fmt.Sprintf("%s\t%s\t%s\t%s\t/regstud/%s", h.ID, h.Name, h.Type, formatDay(h.Date), h.ID))
	}
	t.table("ID\tNAME\tTYPE\tDATE\tREGISTRANTS", rows)
}

// HostView is the host-hackathon form.
type HostView struct {
	base
	Form    forms.HostForm
	Message string
	Error   string
}

func NewHostView(deps Deps) *HostView {
	return &HostView{base: base{deps: deps}}
}

func (v *HostView) Mount(ctx context.Context) { v.mount(ctx) }

// Submit creates the event; the form is cleared on success.
func (v *HostView) Submit(ctx context.Context) error {
	v.Message, v.Error = "", ""
	if err := v.Form.Validate(); err != nil {
		v.Error = err.Error()
		return err
	}
	_, msg, err := v.deps.Client.AddHackathon(ctx, v.Form.Request())
	if err != nil {
		v.Error = client.Message(err)
		return err
	}
	if msg == "" {
		msg = "Hackathon hosted successfully"
	}
	v.Message = msg
	v.Form.Reset()
	return nil
}

func (v *HostView) Render(w io.Writer) error {
	t := &textWriter{w: w}
	t.heading("Host Hackathon")
	if v.Message != "" {
		t.line("%s", v.Message)
	}
	if v.Error != "" {
		t.line("Error: %s", v.Error)
	}
	return t.err
}

// ReviewView lists pending proposals of the organizer's events.
type ReviewView struct {
	base
	Proposals Remote[[]client.ProposalView]
	Error     string
}

func NewReviewView(deps Deps) *ReviewView {
	return &ReviewView{base: base{deps: deps}}
}

func (v *ReviewView) Mount(ctx context.Context) {
	v.mount(ctx)
	c, orgID := v.deps.Client, v.deps.Session.OrganizerID()
	Fetch(v.life, &v.Proposals, func(ctx context.Context) ([]client.ProposalView, error) {
		return c.ListProposals(ctx, orgID)
	})
}

func (v *ReviewView) Approve(ctx context.Context, id string) error {
	return v.decide(ctx, id, "approved", v.deps.Client.ApproveProposal)
}

func (v *ReviewView) Reject(ctx context.Context, id string) error {
	return v.decide(ctx, id, "rejected", v.deps.Client.RejectProposal)
}

// decide applies the new status locally only after the server accepted it.
// The list is not refetched.
func (v *ReviewView) decide(ctx context.Context, id, status string, call func(context.Context, string) (*client.ProposalView, error)) error {
	v.Error = ""
	// повторное решение не уходит на сервер
	for _, p := range v.Proposals.Data() {
		if p.ID == id && proposalStatus(p.Status) == status {
			return nil
		}
	}
	updated, err := call(ctx, id)
	if err != nil {
		v.Error = client.Message(err)
		return err
	}
	if updated.Status != "" {
		status = updated.Status
	}
	v.Proposals.update(func(list []client.ProposalView) []client.ProposalView {
		out := make([]client.ProposalView, len(list))
		copy(out, list)
		for i := range out {
			if out[i].ID == id {
				out[i].Status = status
			}
		}
		return out
	})
	return nil
}

func (v *ReviewView) Render(w io.Writer) error {
	t := &textWriter{w: w}
	t.heading("Review Proposals")
	if v.Error != "" {
		t.line("Error: %s", v.Error)
	}
	if !remoteState(t, "Proposals", &v.Proposals) {
		return t.err
	}
	list := v.Proposals.Data()
	if len(list) == 0 {
		t.line("No proposals to review")
		return t.err
	}
	rows := make([]string, 0, len(list))
	for _, p := range list {
		rows = append(rows, proposalRow(p))
	}
	t.table("ID\tHACKATHON\tTEAM\tCONTACT\tPROPOSAL\tSTATUS", rows)
	return t.err
}

func proposalRow(p client.ProposalView) string {
	name, email := p.Contact()
	team := p.TeamName
	if !p.IsTeam {
		team = "-"
	}
	doc := "N/A"
	if p.Proposal != nil {
		doc = p.Proposal.URL
	}
	return fmt.Sprintf("%s\t%s\t%s\t%s <%s>\t%s\t%s", p.ID, orNA(p.Hackathon.Name), team, name, email, doc, proposalStatus(p.Status))
}

// proposalStatus treats a registration without a decision as pending.
func proposalStatus(s string) string {
	if s == "" {
		return "pending"
	}
	return s
}

// ArchiveView shows decided proposals split by outcome.
type ArchiveView struct {
	base
	Proposals Remote[[]client.ProposalView]
}

func NewArchiveView(deps Deps) *ArchiveView {
	return &ArchiveView{base: base{deps: deps}}
}

func (v *ArchiveView) Mount(ctx context.Context) {
	v.mount(ctx)
	c, orgID := v.deps.Client, v.deps.Session.OrganizerID()
	Fetch(v.life, &v.Proposals, func(ctx context.Context) ([]client.ProposalView, error) {
		return c.ListProposals(ctx, orgID)
	})
}

// Split returns approved and rejected proposals.
func (v *ArchiveView) Split() (approved, rejected []client.ProposalView) {
	for _, p := range v.Proposals.Data() {
		switch p.Status {
		case "approved":
			approved = append(approved, p)
		case "rejected":
			rejected = append(rejected, p)
		}
	}
	return approved, rejected
}

func (v *ArchiveView) Render(w io.Writer) error {
	t := &textWriter{w: w}
	t.heading("Proposal Archive")
	if !remoteState(t, "Proposals", &v.Proposals) {
		return t.err
	}
	approved, rejected := v.Split()
	for _, col := range []struct {
		title string
		list  []client.ProposalView
	}{{"Approved", approved}, {"Rejected", rejected}} {
		t.line("")
		t.line("%s (%d)", col.title, len(col.list))
		if len(col.list) == 0 {
			t.line("  none")
			continue
		}
		rows := make([]string, 0, len(col.list))
		for _, p := range col.list {
			rows = append(rows, proposalRow(p))
		}
		t.table("ID\tHACKATHON\tTEAM\tCONTACT\tPROPOSAL\tSTATUS", rows)
	}
	return t.err
}

// RegistrantsView lists everyone registered for one event.
type RegistrantsView struct {
	base
	HackathonID   string
	Registrations Remote[[]client.Registration]
}

func NewRegistrantsView(deps Deps, hackathonID string) *RegistrantsView {
	return &RegistrantsView{base: base{deps: deps}, HackathonID: hackathonID}
}

func (v *RegistrantsView) Mount(ctx context.Context) {
	v.mount(ctx)
	c, id := v.deps.Client, v.HackathonID
	Fetch(v.life, &v.Registrations, func(ctx context.Context) ([]client.Registration, error) {
		list, err := c.HackathonRegistrations(ctx, id)
		if err != nil {
			return nil, err
		}
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].RegisteredAt.Before(list[j].RegisteredAt)
		})
		return list, nil
	})
}

func (v *RegistrantsView) Render(w io.Writer) error {
	t := &textWriter{w: w}
	t.heading("Registered Students")
	if !remoteState(t, "Registrations", &v.Registrations) {
		return t.err
	}
	renderRegistrations(t, v.Registrations.Data())
	return t.err
}

func renderRegistrations(t *textWriter, list []client.Registration) {
	t.line("Total: %d", len(list))
	if len(list) == 0 {
		return
	}
	rows := make([]string, 0, len(list))
	for _, r := range list {
		name, email := r.Contact()
		team := "-"
		if r.IsTeam {
			team = fmt.Sprintf("%s (%d)", r.TeamName, len(r.Members)+1)
		}
		rows = append(rows, fmt.Sprintf("%s\t%s\t%s\t%s\t%s\t%s", name, email, r.Phone, r.Education, team, r.Status))
	}
	t.table("NAME\tEMAIL\tPHONE\tEDUCATION\tTEAM\tSTATUS", rows)
}
