package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/Dosada05/hackathon-portal/client"
	"github.com/Dosada05/hackathon-portal/forms"
	"github.com/Dosada05/hackathon-portal/views"
	"github.com/spf13/cobra"
)

func newHostCmd(get func() *app) *cobra.Command {
	var (
		kind       string
		maxMembers int
		f          forms.HostForm
	)
	cmd := &cobra.Command{
		Use:   "host",
		Short: "Host a new hackathon (organizers)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := get()
			v, err := screen[*views.HostView](a, views.RouteHostHackathon)
			if err != nil {
				return err
			}
			switch kind {
			case "team":
				f.Type = client.TypeTeam
				f.MaxTeamMembers = maxMembers
			case "solo":
				f.Type = client.TypeSolo
			default:
				return fmt.Errorf("unknown hackathon type %q (want team or solo)", kind)
			}
			v.Form = f
			if err := v.Submit(cmd.Context()); err != nil {
				return fmt.Errorf("host failed: %s", v.Error)
			}
			return v.Render(a.out)
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&kind, "type", "team", "team or solo")
	fl.StringVar(&f.Name, "name", "", "event name")
	fl.StringVar(&f.Venue, "venue", "", "venue or platform")
	fl.StringVar(&f.Date, "date", "", "event day (YYYY-MM-DD)")
	fl.StringVar(&f.RegStart, "regstart", "", "registration opens (YYYY-MM-DD)")
	fl.StringVar(&f.RegEnd, "regend", "", "registration closes (YYYY-MM-DD)")
	fl.StringVar(&f.Details, "details", "", "description")
	fl.StringVar(&f.Duration, "duration", "", "duration, e.g. 24h")
	fl.StringVar(&f.Prize, "prize", "", "prize")
	fl.IntVar(&maxMembers, "max-members", forms.DefaultMaxTeamMembers, "team size cap")
	return cmd
}

type detailFlags struct {
	dob, phone, education, participated string
}

func (d *detailFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&d.dob, "dob", "", "date of birth (YYYY-MM-DD)")
	cmd.Flags().StringVar(&d.phone, "phone", "", "phone number")
	cmd.Flags().StringVar(&d.education, "education", "", "MCA, BCA, BSC or BTech")
	cmd.Flags().StringVar(&d.participated, "participated", "no", "participated before: yes or no")
}

func newRegisterCmd(get func() *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register for a hackathon (students)",
	}
	cmd.AddCommand(newRegisterTeamCmd(get), newRegisterSoloCmd(get))
	return cmd
}

// parseMember reads "name,email,YYYY-MM-DD".
func parseMember(s string) (forms.Member, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return forms.Member{}, fmt.Errorf("member %q: want name,email,dob", s)
	}
	return forms.Member{
		Name:  strings.TrimSpace(parts[0]),
		Email: strings.TrimSpace(parts[1]),
		DOB:   strings.TrimSpace(parts[2]),
	}, nil
}

func newRegisterTeamCmd(get func() *app) *cobra.Command {
	var (
		teamName, leaderName, leaderEmail, proposal string
		members                                     []string
		details                                     detailFlags
	)
	cmd := &cobra.Command{
		Use:   "team <hackathonId>",
		Short: "Register a team with its PDF proposal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			v, err := screen[*views.TeamRegisterView](a, "/Tregpg/"+args[0])
			if err != nil {
				return err
			}
			f := v.Form
			f.TeamName, f.LeaderName, f.LeaderEmail = teamName, leaderName, leaderEmail
			f.SetDetails(details.dob, details.phone, details.education, details.participated)
			if len(members) > 0 {
				if err := f.SetTeamSize(len(members)); err != nil {
					return err
				}
			}
			for i, raw := range members {
				m, err := parseMember(raw)
				if err != nil {
					return err
				}
				f.Members[i] = m
			}
			if err := f.AttachProposalFile(proposal); err != nil {
				return err
			}
			if err := v.Submit(cmd.Context()); err != nil {
				return fmt.Errorf("registration failed: %s", v.Error)
			}
			return a.render()
		},
	}
	cmd.Flags().StringVar(&teamName, "team-name", "", "team name")
	cmd.Flags().StringVar(&leaderName, "leader-name", "", "team leader name")
	cmd.Flags().StringVar(&leaderEmail, "leader-email", "", "team leader email")
	cmd.Flags().StringArrayVar(&members, "member", nil, "team member as name,email,dob (repeat per member)")
	cmd.Flags().StringVar(&proposal, "proposal", "", "PDF proposal, at most 5MB (required)")
	_ = cmd.MarkFlagRequired("proposal")
	details.bind(cmd)
	return cmd
}

func newRegisterSoloCmd(get func() *app) *cobra.Command {
	var (
		name, email string
		details     detailFlags
	)
	cmd := &cobra.Command{
		Use:   "solo <hackathonId>",
		Short: "Register for a virtual solo hackathon",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			v, err := screen[*views.SoloRegisterView](a, "/Vregpg/"+args[0])
			if err != nil {
				return err
			}
			v.Form.Name, v.Form.Email = name, email
			v.Form.SetDetails(details.dob, details.phone, details.education, details.participated)
			if err := v.Submit(cmd.Context()); err != nil {
				return fmt.Errorf("registration failed: %s", v.Error)
			}
			return a.render()
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "participant name")
	cmd.Flags().StringVar(&email, "email", "", "participant email")
	details.bind(cmd)
	return cmd
}

func newDecisionCmd(get func() *app, action string) *cobra.Command {
	return &cobra.Command{
		Use:   action + " <proposalId>",
		Short: strings.ToUpper(action[:1]) + action[1:] + " a proposal (organizers)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			v, err := screen[*views.ReviewView](a, views.RouteReviewProposal)
			if err != nil {
				return err
			}
			decide := v.Approve
			if action == "reject" {
				decide = v.Reject
			}
			if err := decide(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("%s failed: %s", action, v.Error)
			}
			return v.Render(a.out)
		},
	}
}

func newReportCmd(get func() *app) *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "report <hackathonId>",
		Short: "Download the PDF report of an event (organizers)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			v, err := screen[*views.OrganizerHomeView](a, views.RouteOrganizerHome)
			if err != nil {
				return err
			}
			path, err := v.DownloadReport(cmd.Context(), args[0], dir)
			if err != nil {
				return fmt.Errorf("report failed: %s", client.Message(err))
			}
			fmt.Fprintln(a.out, "Saved", path)
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", ".", "directory to save the report in")
	return cmd
}

func newWatchCmd(get func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch <hackathonId>",
		Short: "Follow live registrations and proposal decisions of an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "TYPE\tPAYLOAD")
			_ = tw.Flush()
			return a.client.WatchHackathon(cmd.Context(), args[0], func(ev client.Event) {
				payload := string(ev.Payload)
				var compact map[string]interface{}
				if err := json.Unmarshal(ev.Payload, &compact); err == nil {
					if b, err := json.Marshal(compact); err == nil {
						payload = string(b)
					}
				}
				fmt.Fprintf(tw, "%s\t%s\n", ev.Type, payload)
				_ = tw.Flush()
			})
		},
	}
}

