// Package onboarding implements the onboarding flow's state machine: the
// persisted step flags, the pure step resolvers, and the route guard that
// decides which pages a user may reach.
//
// THE FLOW:
// A new user passes through three steps in a fixed order —
//
//	api-key entry ("/") → resume upload ("/onboard/resume") →
//	LinkedIn opt-in ("/onboard/linkedin") → dashboard ("/dashboard")
//
// — and is then marked complete. The guard funnels incomplete users back
// to their first unmet step and keeps completed users out of the
// onboarding pages.
//
// TWO DIFFERENT "WHAT'S NEXT" QUESTIONS:
// RequiredStep answers "what must this user still do" (used by the guard
// to gate the main app). NextForwardStep answers "where does Continue go
// from the page the user is on" (used by the step pages themselves). They
// are deliberately separate functions: conflating them produces the
// mis-navigation bug where pressing Continue on a later step bounces the
// user backwards to an earlier gap.
package onboarding

import "github.com/sakif/jobassist/internal/model"

// Route paths the flow is built from. The api-key step is the app root so
// a brand-new visit lands directly on it.
const (
	PathAPIKeyStep   = "/"
	PathResumeStep   = "/onboard/resume"
	PathLinkedinStep = "/onboard/linkedin"
	PathDashboard    = "/dashboard"
)

// StepPaths is the onboarding sequence in order. Exported so the server
// can mount the onboarding-only guard on exactly these routes.
var StepPaths = []string{PathAPIKeyStep, PathResumeStep, PathLinkedinStep}

// IsStepPath reports whether path is one of the onboarding step routes.
func IsStepPath(path string) bool {
	for _, p := range StepPaths {
		if p == path {
			return true
		}
	}
	return false
}

// RequiredStep returns the path of the first unmet step in the fixed order
// [api-key → resume → linkedin], or the dashboard when every step is met
// or onboarding is complete.
//
// Pure and total: no I/O, defined for every flag combination.
func RequiredStep(s model.OnboardingState) string {
	if s.OnboardingComplete {
		return PathDashboard
	}
	switch {
	case !s.ApiKeySubmitted:
		return PathAPIKeyStep
	case !s.ResumeUploaded:
		return PathResumeStep
	case !s.LinkedinEnabled:
		return PathLinkedinStep
	}
	return PathDashboard
}

// NextForwardStep returns where Continue goes from the step at current:
// the step after it in the fixed order, regardless of whether earlier
// steps are still incomplete. This is what lets a user skip around and
// come back without being trapped.
//
// Never returns current. From the last step, or any non-step path, or once
// onboarding is complete, it returns the dashboard.
func NextForwardStep(s model.OnboardingState, current string) string {
	if s.OnboardingComplete {
		return PathDashboard
	}
	switch current {
	case PathAPIKeyStep:
		return PathResumeStep
	case PathResumeStep:
		return PathLinkedinStep
	}
	return PathDashboard
}
