package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seanceResource() Resource {
	return Resource{
		Type:     ResourceSession,
		ID:       "seance-1",
		CourseID: "course-x",
		Title:    "Seance 1",
		VideoURL: "https://cdn.example/seance-1.mp4",
		Date:     "13/9/2024",
		Duration: "23:00",
	}
}

func documentResource(courseID string) Resource {
	return Resource{
		Type:     ResourceDocument,
		ID:       "doc-1",
		CourseID: courseID,
		Title:    "Introduction",
		URL:      "https://cdn.example/doc-1.pdf",
		DocType:  "pdf",
	}
}

func TestUnauthenticatedViewerRequiresLogin(t *testing.T) {
	viewer := NewViewer(false, "", nil)
	res := seanceResource()

	decision := Evaluate(viewer, res)

	assert.Equal(t, RequiresLogin, decision.State)
	require.NotNil(t, decision.Intent)
	assert.Equal(t, res.ID, decision.Intent.ResourceID)
	assert.Equal(t, ScreenSeance, decision.Intent.TargetScreen)
	assert.Equal(t, decision.Intent, viewer.PendingIntent)
	assert.Contains(t, decision.Prompt, `"Seance 1"`)
	assert.Nil(t, decision.Navigation)
}

func TestSubscriptionActionAlwaysAllowedWhenAuthenticated(t *testing.T) {
	// Not subscribed to anything; subscribing itself must still be reachable.
	viewer := NewViewer(true, "user-1", nil)
	res := Resource{
		Type:      ResourceSubscription,
		ID:        "course-x",
		CourseID:  "course-x",
		Title:     "2 BAC SM BIOF PHYSIQUE",
		Price:     300,
		Professor: "Laaouani",
	}

	decision := Evaluate(viewer, res)

	assert.Equal(t, Allowed, decision.State)
	require.NotNil(t, decision.Navigation)
	assert.Equal(t, ScreenCheckout, decision.Navigation.Screen)
}

func TestSubscriptionIsScopedPerCourse(t *testing.T) {
	viewer := NewViewer(true, "user-1", []string{"course-x"})

	decision := Evaluate(viewer, documentResource("course-y"))

	assert.Equal(t, RequiresSubscription, decision.State)
	require.NotNil(t, decision.Intent)
	assert.Equal(t, "doc-1", decision.Intent.ResourceID)
	assert.Contains(t, decision.Prompt, `"Introduction"`)
}

func TestSubscriberReachesSessionAndDocument(t *testing.T) {
	viewer := NewViewer(true, "user-1", []string{"course-x"})

	seance := Evaluate(viewer, seanceResource())
	assert.Equal(t, Allowed, seance.State)
	require.NotNil(t, seance.Navigation)
	params, ok := seance.Navigation.Params.(SeanceParams)
	require.True(t, ok)
	assert.Equal(t, "seance-1", params.ID)
	assert.Equal(t, "23:00", params.Duration)

	doc := Evaluate(viewer, documentResource("course-x"))
	assert.Equal(t, Allowed, doc.State)
	docParams, ok := doc.Navigation.Params.(PDFViewerParams)
	require.True(t, ok)
	assert.Equal(t, "https://cdn.example/doc-1.pdf", docParams.URL)
	assert.Equal(t, "pdf", docParams.Type)
}

func TestMissingResourceIDIsDenied(t *testing.T) {
	viewer := NewViewer(true, "user-1", []string{"course-x"})

	decision := Evaluate(viewer, Resource{Type: ResourceSession, CourseID: "course-x"})

	assert.Equal(t, Denied, decision.State)
	assert.Equal(t, ReasonInvalidResource, decision.Reason)
	assert.Nil(t, decision.Navigation)
	assert.Nil(t, viewer.PendingIntent)
}

func TestCourseDetailIsOpenToAuthenticatedNonSubscribers(t *testing.T) {
	viewer := NewViewer(true, "user-1", nil)
	res := Resource{Type: ResourceCourse, ID: "course-x", CourseID: "course-x", Title: "Physique"}

	decision := Evaluate(viewer, res)

	assert.Equal(t, Allowed, decision.State)
	assert.Equal(t, ScreenCourse, decision.Navigation.Screen)
}

func TestIntentReplayAfterLogin(t *testing.T) {
	viewer := NewViewer(false, "", nil)
	res := seanceResource()

	decision := Evaluate(viewer, res)
	require.Equal(t, RequiresLogin, decision.State)

	viewer.CompleteLogin("user-1")
	viewer.CompleteSubscription("course-x")

	nav, err := Replay(viewer, func(intent Intent) (Resource, bool) {
		require.Equal(t, res.ID, intent.ResourceID)
		return res, true
	})
	require.NoError(t, err)

	assert.Equal(t, ScreenSeance, nav.Screen)
	params, ok := nav.Params.(SeanceParams)
	require.True(t, ok)
	assert.Equal(t, res.ID, params.ID)
	assert.Equal(t, res.VideoURL, params.VideoURL)
	assert.Nil(t, viewer.PendingIntent, "replay must consume the intent")
}

func TestReplayWithoutIntentLandsOnDefaultScreen(t *testing.T) {
	viewer := NewViewer(true, "user-1", nil)

	nav, err := Replay(viewer, func(Intent) (Resource, bool) {
		t.Fatal("resolver must not be called without a pending intent")
		return Resource{}, false
	})
	require.NoError(t, err)

	assert.Equal(t, ScreenHome, nav.Screen)
}

func TestReplayWithStaleIntentFails(t *testing.T) {
	viewer := NewViewer(false, "", nil)
	Evaluate(viewer, seanceResource())
	viewer.CompleteLogin("user-1")

	_, err := Replay(viewer, func(Intent) (Resource, bool) {
		return Resource{}, false
	})

	assert.ErrorIs(t, err, ErrIntentMismatch)
	assert.Nil(t, viewer.PendingIntent)
}

func TestCheckoutParamsCarryOnlyCheckoutFields(t *testing.T) {
	res := Resource{
		Type:      ResourceSubscription,
		ID:        "course-x",
		CourseID:  "course-x",
		Title:     "2 BAC SM BIOF PHYSIQUE",
		Price:     300,
		Professor: "Laaouani",
		Thumbnail: "https://cdn.example/thumb.jpg",
		// Fields for other screens must not leak into checkout params.
		VideoURL: "https://cdn.example/never.mp4",
		URL:      "https://cdn.example/never.pdf",
	}

	nav := NavigationFor(ScreenCheckout, res)

	params, ok := nav.Params.(CheckoutParams)
	require.True(t, ok)
	assert.Equal(t, CheckoutParams{
		ID:        "course-x",
		Title:     "2 BAC SM BIOF PHYSIQUE",
		Price:     300,
		Professor: "Laaouani",
		Thumbnail: "https://cdn.example/thumb.jpg",
	}, params)
}

func TestViewerResetClearsEverything(t *testing.T) {
	viewer := NewViewer(true, "user-1", []string{"course-x"})
	Evaluate(viewer, documentResource("course-y")) // leaves a pending intent

	viewer.Reset()

	assert.False(t, viewer.Authenticated)
	assert.Empty(t, viewer.UserID)
	assert.False(t, viewer.IsSubscribedTo("course-x"))
	assert.Nil(t, viewer.PendingIntent)
}
