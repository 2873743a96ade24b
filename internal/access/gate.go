package access

import "fmt"

// ResourceType identifies what kind of thing a viewer is trying to reach.
type ResourceType string

const (
	ResourceCourse   ResourceType = "course"
	ResourceSession  ResourceType = "seance"
	ResourceDocument ResourceType = "support"
	// ResourceSubscription is the act of subscribing itself. It is always
	// reachable once logged in: you cannot be blocked from subscribing
	// because you are not subscribed.
	ResourceSubscription ResourceType = "subscription"
)

// State is the outcome of one access attempt.
type State int

const (
	Allowed State = iota
	RequiresLogin
	RequiresSubscription
	Denied
)

func (s State) String() string {
	switch s {
	case Allowed:
		return "allowed"
	case RequiresLogin:
		return "requires_login"
	case RequiresSubscription:
		return "requires_subscription"
	default:
		return "denied"
	}
}

// DeniedReason qualifies a Denied decision.
type DeniedReason string

const ReasonInvalidResource DeniedReason = "invalid_resource"

// Viewer is the session-scoped access context: who is looking, what they may
// see, and the navigation intent captured the last time they were turned
// away. It is created from persisted credentials at startup and reset on
// logout; components receive it explicitly, never through a global.
type Viewer struct {
	Authenticated bool
	UserID        string
	subscribed    map[string]bool // course IDs with an active subscription
	PendingIntent *Intent
}

// NewViewer builds a viewer. subscribedCourseIDs may be nil for anonymous or
// never-subscribed viewers.
func NewViewer(authenticated bool, userID string, subscribedCourseIDs []string) *Viewer {
	v := &Viewer{Authenticated: authenticated, UserID: userID}
	for _, id := range subscribedCourseIDs {
		v.grant(id)
	}
	return v
}

func (v *Viewer) grant(courseID string) {
	if v.subscribed == nil {
		v.subscribed = make(map[string]bool)
	}
	v.subscribed[courseID] = true
}

// IsSubscribedTo reports whether the viewer holds an active subscription for
// the given course. Subscription is scoped per course.
func (v *Viewer) IsSubscribedTo(courseID string) bool {
	return v.subscribed[courseID]
}

// CompleteLogin marks the viewer authenticated. The pending intent, if any,
// is kept so the original navigation can be replayed.
func (v *Viewer) CompleteLogin(userID string) {
	v.Authenticated = true
	v.UserID = userID
}

// CompleteSubscription records a finished subscription for one course.
func (v *Viewer) CompleteSubscription(courseID string) {
	v.grant(courseID)
}

// Reset clears the viewer on logout.
func (v *Viewer) Reset() {
	*v = Viewer{}
}

// Resource is the target of an access attempt, flattened to the fields the
// gate and the per-screen parameter mapping need.
type Resource struct {
	Type     ResourceType
	ID       string
	CourseID string // owning course; equals ID for course/subscription resources
	Title    string

	// Séance payload
	VideoURL    string
	Date        string
	Duration    string
	Description string

	// Document payload
	URL     string
	DocType string

	// Checkout payload
	Price     float64
	Professor string
	Thumbnail string
}

// Decision is the typed result of Evaluate. RequiresLogin and
// RequiresSubscription are terminal for the attempt: they carry the prompt
// the UI shows and the intent to replay once the viewer remediates. Allowed
// carries exactly one navigation.
type Decision struct {
	State      State
	Reason     DeniedReason
	Prompt     string
	Intent     *Intent
	Navigation *Navigation
}

// Evaluate decides whether the viewer may reach the resource right now.
// Transition order: malformed resource, then authentication, then the
// subscription exemption for the subscribe action itself, then per-course
// subscription for session/document content.
//
// On RequiresLogin or RequiresSubscription the intent is captured on the
// viewer so a later login/subscription can resume the original navigation.
func Evaluate(v *Viewer, res Resource) Decision {
	if res.ID == "" {
		return Decision{State: Denied, Reason: ReasonInvalidResource}
	}

	target := defaultScreen(res.Type)

	if !v.Authenticated {
		intent := &Intent{ResourceType: res.Type, ResourceID: res.ID, TargetScreen: target}
		v.PendingIntent = intent
		return Decision{
			State:  RequiresLogin,
			Prompt: loginPrompt(res),
			Intent: intent,
		}
	}

	if res.Type == ResourceSubscription {
		nav := NavigationFor(target, res)
		return Decision{State: Allowed, Navigation: &nav}
	}

	if requiresCourseAccess(res.Type) && !v.IsSubscribedTo(res.CourseID) {
		intent := &Intent{ResourceType: res.Type, ResourceID: res.ID, TargetScreen: target}
		v.PendingIntent = intent
		return Decision{
			State:  RequiresSubscription,
			Prompt: subscriptionPrompt(res),
			Intent: intent,
		}
	}

	nav := NavigationFor(target, res)
	return Decision{State: Allowed, Navigation: &nav}
}

func requiresCourseAccess(t ResourceType) bool {
	return t == ResourceSession || t == ResourceDocument
}

func defaultScreen(t ResourceType) Screen {
	switch t {
	case ResourceSession:
		return ScreenSeance
	case ResourceDocument:
		return ScreenPDFViewer
	case ResourceSubscription:
		return ScreenCheckout
	default:
		return ScreenCourse
	}
}

// Interstitial copy, interpolating the resource title the way the app's
// confirm dialogs do.

func loginPrompt(res Resource) string {
	switch res.Type {
	case ResourceSubscription:
		return "Veuillez vous connecter pour vous inscrire à ce cours."
	case ResourceSession:
		return fmt.Sprintf("Veuillez vous connecter pour accéder à la séance %q.", res.Title)
	case ResourceDocument:
		return fmt.Sprintf("Veuillez vous connecter pour accéder au support %q.", res.Title)
	default:
		return "Veuillez vous connecter pour accéder à cette ressource."
	}
}

func subscriptionPrompt(res Resource) string {
	switch res.Type {
	case ResourceSession:
		return fmt.Sprintf("Abonnez-vous au cours pour accéder à la séance %q.", res.Title)
	case ResourceDocument:
		return fmt.Sprintf("Abonnez-vous au cours pour accéder au support %q.", res.Title)
	default:
		return "Abonnez-vous au cours pour accéder à cette ressource."
	}
}
