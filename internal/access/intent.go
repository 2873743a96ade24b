package access

import "errors"

// Screen names the navigation targets the gate can send a viewer to.
type Screen string

const (
	ScreenCourse    Screen = "course"
	ScreenSeance    Screen = "seance"
	ScreenPDFViewer Screen = "pdfviewer"
	ScreenCheckout  Screen = "checkout"
	// ScreenHome is where login/subscription lands when nothing is pending.
	ScreenHome Screen = "home"
)

// Intent records what a viewer was trying to reach when access was denied,
// so the flow can resume after login or subscription without re-prompting.
type Intent struct {
	ResourceType ResourceType `json:"resourceType"`
	ResourceID   string       `json:"resourceId"`
	TargetScreen Screen       `json:"targetScreen"`
}

// Navigation is one navigation instruction: a screen and the parameter
// bundle shaped for that screen only. Screens stay decoupled from resource
// fields they do not use, so the mapping is explicit per screen rather than
// a pass-through of the whole resource.
type Navigation struct {
	Screen Screen `json:"screen"`
	Params any    `json:"params"`
}

// SeanceParams is what the séance player screen needs.
type SeanceParams struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	VideoURL    string `json:"videoUrl,omitempty"`
	Date        string `json:"date,omitempty"`
	Duration    string `json:"duration,omitempty"`
	Description string `json:"description,omitempty"`
}

// PDFViewerParams is what the document viewer screen needs.
type PDFViewerParams struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url,omitempty"`
	Type  string `json:"type"`
}

// CheckoutParams is what the checkout screen needs.
type CheckoutParams struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Price     float64 `json:"price"`
	Professor string  `json:"professor,omitempty"`
	Thumbnail string  `json:"thumbnail,omitempty"`
}

// BaseParams is the fallback bundle for screens without a specific shape.
type BaseParams struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// NavigationFor maps a resource onto the parameter bundle of one screen.
func NavigationFor(screen Screen, res Resource) Navigation {
	switch screen {
	case ScreenSeance:
		return Navigation{Screen: screen, Params: SeanceParams{
			ID:          res.ID,
			Title:       res.Title,
			VideoURL:    res.VideoURL,
			Date:        res.Date,
			Duration:    res.Duration,
			Description: res.Description,
		}}
	case ScreenPDFViewer:
		docType := res.DocType
		if docType == "" {
			docType = "pdf"
		}
		return Navigation{Screen: screen, Params: PDFViewerParams{
			ID:    res.ID,
			Title: res.Title,
			URL:   res.URL,
			Type:  docType,
		}}
	case ScreenCheckout:
		return Navigation{Screen: screen, Params: CheckoutParams{
			ID:        res.ID,
			Title:     res.Title,
			Price:     res.Price,
			Professor: res.Professor,
			Thumbnail: res.Thumbnail,
		}}
	default:
		return Navigation{Screen: screen, Params: BaseParams{ID: res.ID, Title: res.Title}}
	}
}

// ErrIntentMismatch is returned when a replayed resource does not match the
// captured intent.
var ErrIntentMismatch = errors.New("access: resource does not match pending intent")

// Replay resumes the viewer's pending navigation after a successful login or
// subscription. It returns the navigation for the originally requested
// screen and clears the intent; there is no second prompt. With no pending
// intent the viewer lands on the default screen.
func Replay(v *Viewer, resolve func(Intent) (Resource, bool)) (Navigation, error) {
	if v.PendingIntent == nil {
		return Navigation{Screen: ScreenHome, Params: BaseParams{}}, nil
	}
	intent := *v.PendingIntent
	res, ok := resolve(intent)
	if !ok || res.ID != intent.ResourceID {
		v.PendingIntent = nil
		return Navigation{}, ErrIntentMismatch
	}
	v.PendingIntent = nil
	return NavigationFor(intent.TargetScreen, res), nil
}
