// Package model defines the data structures used throughout the application.
package model

// OnboardingState records which onboarding steps a user has been through.
//
// The flags are set-true-once during a single onboarding pass: step pages
// flip their flag immediately before navigating forward, and nothing resets
// them silently. The one sanctioned regression is the guard's self-heal —
// if the server no longer holds an API key for a user whose state claims
// OnboardingComplete, both ApiKeySubmitted and OnboardingComplete are
// cleared so the key-entry step becomes reachable again.
//
// ApiKeySubmitted means the user went through the key-entry step; it does
// NOT guarantee a valid key is still stored server-side. ResumeUploaded and
// LinkedinEnabled may be set by skipping the step (skip marks the step done
// so the resolver never routes the user back to it).
type OnboardingState struct {
	ApiKeySubmitted    bool `json:"apiKeySubmitted"`
	ResumeUploaded     bool `json:"resumeUploaded"`
	LinkedinEnabled    bool `json:"linkedinEnabled"`
	OnboardingComplete bool `json:"onboardingComplete"`
}
