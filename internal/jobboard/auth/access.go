package auth

import (
	"strings"

	"github.com/gartstein/jobboard/internal/jobboard/models"
)

// State is the navigation state of a visitor.
type State string

const (
	StateUnauthenticated State = "unauthenticated"
	StateNoRole          State = "authenticated-no-role"
	StateCandidate       State = "authenticated-candidate"
	StateRecruiter       State = "authenticated-recruiter"
)

// Front-end routes.
const (
	RouteHome                    = "/"
	RouteOnboarding              = "/onboarding"
	RouteJobs                    = "/jobs"
	RouteInternships             = "/internships"
	RoutePostJob                 = "/post-job"
	RouteMyJobs                  = "/my-jobs"
	RouteMyApplications          = "/my-applications"
	RouteSavedJobs               = "/saved-jobs"
	RouteJob                     = "/job"
	RouteApplicationConfirmation = "/application-confirmation"
	RouteVideoCallRoom           = "/video-call-room"
	RouteVideoCallEnded          = "/video-call-ended"
)

// Link is a navigation entry shown to a visitor.
type Link struct {
	Label string `json:"label"`
	Path  string `json:"path"`
}

// Decision is the outcome of gating a route.
type Decision struct {
	Allow    bool   `json:"allow"`
	Redirect string `json:"redirect,omitempty"`
}

// StateOf derives the navigation state from identity, which may be nil.
func StateOf(identity *models.Identity) State {
	switch {
	case identity == nil:
		return StateUnauthenticated
	case identity.Role == models.RoleRecruiter:
		return StateRecruiter
	case identity.Role == models.RoleCandidate:
		return StateCandidate
	default:
		return StateNoRole
	}
}

// HomeFor returns the landing route of a role-bearing state.
func HomeFor(state State) string {
	switch state {
	case StateRecruiter:
		return RoutePostJob
	case StateCandidate:
		return RouteJobs
	default:
		return RouteHome
	}
}

// Gate decides whether a visitor in state may open path. Home is always
// open; every other route needs a signed-in visitor, and every route except
// onboarding also needs a role. Which role is held does not matter here.
func Gate(state State, path string) Decision {
	path = normalize(path)

	if path == RouteHome {
		return Decision{Allow: true}
	}
	if state == StateUnauthenticated {
		return Decision{Redirect: signInRedirect}
	}
	if path == RouteOnboarding {
		if state == StateNoRole {
			return Decision{Allow: true}
		}
		return Decision{Redirect: HomeFor(state)}
	}
	if state == StateNoRole {
		return Decision{Redirect: onboardingRedirect}
	}
	return Decision{Allow: true}
}

// Links returns the navigation entries visible in state.
func Links(state State) []Link {
	switch state {
	case StateRecruiter:
		return []Link{
			{Label: "Post a Job", Path: RoutePostJob},
			{Label: "My Jobs", Path: RouteMyJobs},
		}
	case StateCandidate:
		return []Link{
			{Label: "Jobs", Path: RouteJobs},
			{Label: "Internships", Path: RouteInternships},
			{Label: "My Applications", Path: RouteMyApplications},
			{Label: "Saved Jobs", Path: RouteSavedJobs},
		}
	case StateNoRole:
		return []Link{{Label: "Select Role", Path: RouteOnboarding}}
	default:
		return []Link{}
	}
}

func normalize(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	path = strings.TrimRight(path, "/")
	if path == "" {
		return RouteHome
	}
	return strings.ToLower(path)
}
