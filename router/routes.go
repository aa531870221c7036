package router

import (
	"github.com/Dosada05/hackathon-portal/session"
	"github.com/Dosada05/hackathon-portal/views"
)

// Params are the named segments of a matched path.
type Params map[string]string

// Factory builds the view for a matched route.
type Factory func(deps views.Deps, p Params) views.View

// Route binds a chi pattern to a view. Roles empty means public.
type Route struct {
	Pattern string
	Roles   []string
	Build   Factory
}

func (r Route) allows(role string) bool {
	for _, allowed := range r.Roles {
		if allowed == role {
			return true
		}
	}
	return false
}

var (
	studentOnly   = []string{session.RoleStudent}
	organizerOnly = []string{session.RoleOrganizer}
	adminOnly     = []string{session.RoleAdmin}
)

// Table is the portal's route table.
func Table() []Route {
	return []Route{
		{Pattern: views.RouteLogin, Build: func(d views.Deps, _ Params) views.View { return views.NewLoginView(d) }},
		{Pattern: "/register", Build: func(d views.Deps, _ Params) views.View { return views.NewSignUpView(d) }},
		{Pattern: "/about", Build: func(d views.Deps, _ Params) views.View { return views.NewAboutView(d) }},

		// Студент
		{Pattern: views.RouteStudentHome, Roles: studentOnly, Build: func(d views.Deps, _ Params) views.View {
			return views.NewStudentHomeView(d)
		}},
		{Pattern: "/team-hackathon/{hackathonId}", Roles: studentOnly, Build: func(d views.Deps, p Params) views.View {
			return views.NewEventDetailView(d, p["hackathonId"], true)
		}},
		{Pattern: "/virtual-hackathon/{hackathonId}", Roles: studentOnly, Build: func(d views.Deps, p Params) views.View {
			return views.NewEventDetailView(d, p["hackathonId"], false)
		}},
		{Pattern: "/Tregpg/{hackathonId}", Roles: studentOnly, Build: func(d views.Deps, p Params) views.View {
			return views.NewTeamRegisterView(d, p["hackathonId"])
		}},
		{Pattern: "/Vregpg/{hackathonId}", Roles: studentOnly, Build: func(d views.Deps, p Params) views.View {
			return views.NewSoloRegisterView(d, p["hackathonId"])
		}},

		// Организатор
		{Pattern: views.RouteOrganizerHome, Roles: organizerOnly, Build: func(d views.Deps, _ Params) views.View {
			return views.NewOrganizerHomeView(d)
		}},
		{Pattern: views.RouteHostHackathon, Roles: organizerOnly, Build: func(d views.Deps, _ Params) views.View {
			return views.NewHostView(d)
		}},
		{Pattern: views.RouteReviewProposal, Roles: organizerOnly, Build: func(d views.Deps, _ Params) views.View {
			return views.NewReviewView(d)
		}},
		{Pattern: views.RouteArchive, Roles: organizerOnly, Build: func(d views.Deps, _ Params) views.View {
			return views.NewArchiveView(d)
		}},
		{Pattern: "/regstud/{hackathonId}", Roles: organizerOnly, Build: func(d views.Deps, p Params) views.View {
			return views.NewRegistrantsView(d, p["hackathonId"])
		}},

		// Администратор
		{Pattern: views.RouteAdminHome, Roles: adminOnly, Build: func(d views.Deps, _ Params) views.View {
			return views.NewAdminHomeView(d)
		}},
		{Pattern: "/event-details/{eventId}", Roles: adminOnly, Build: func(d views.Deps, p Params) views.View {
			return views.NewAdminEventView(d, p["eventId"])
		}},
	}
}
