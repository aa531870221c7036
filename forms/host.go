package forms

import (
	"strings"
	"time"

	"github.com/Dosada05/hackathon-portal/client"
)

const dayLayout = "2006-01-02"

func parseDay(s string) (time.Time, error) {
	return time.Parse(dayLayout, strings.TrimSpace(s))
}

// HostForm is the organizer's "host a hackathon" screen.
type HostForm struct {
	Type           string `form:"typeofhk" validate:"required,oneof='Team Hackathon (offline)' 'Virtual Solo Hackathon (online)'"`
	Name           string `form:"ename" validate:"required"`
	Venue          string `form:"venue" validate:"required"`
	Date           string `form:"date" validate:"required,day"`
	RegStart       string `form:"regstart" validate:"required,day"`
	RegEnd         string `form:"regend" validate:"required,day"`
	Details        string `form:"details" validate:"required"`
	Duration       string `form:"durofhk" validate:"required"`
	Prize          string `form:"prize" validate:"required"`
	MaxTeamMembers int    `form:"maxTeamMembers" validate:"omitempty,min=1,max=10"`
}

// Reset clears the form after a successful submission.
func (f *HostForm) Reset() {
	*f = HostForm{}
}

func (f *HostForm) Validate() error {
	f.Name = strings.TrimSpace(f.Name)
	f.Venue = strings.TrimSpace(f.Venue)

	verrs := check(f)
	if len(verrs) > 0 {
		return verrs
	}

	date, _ := parseDay(f.Date)
	start, _ := parseDay(f.RegStart)
	end, _ := parseDay(f.RegEnd)
	if start.After(end) {
		verrs = merge(verrs, ValidationError{"regend": "must not be before registration start"})
	}
	if end.After(date) {
		verrs = merge(verrs, ValidationError{"date": "must not be before registration end"})
	}
	return asError(verrs)
}

func (f *HostForm) Request() client.HostRequest {
	isTeam := f.Type == client.TypeTeam
	req := client.HostRequest{
		Type:            f.Type,
		Name:            f.Name,
		Venue:           f.Venue,
		Date:            strings.TrimSpace(f.Date),
		RegStart:        strings.TrimSpace(f.RegStart),
		RegEnd:          strings.TrimSpace(f.RegEnd),
		Details:         f.Details,
		Duration:        f.Duration,
		Prize:           f.Prize,
		IsTeamHackathon: isTeam,
	}
	if isTeam {
		req.MaxTeamMembers = f.MaxTeamMembers
	}
	return req
}
