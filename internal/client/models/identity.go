package models

// Identity is the authenticated user as seen by the rest of the app.
// Token and Username are either both set or both empty.
type Identity struct {
	Email    string
	Username string
	Token    string
}

// Complete reports whether every field required for an authenticated
// session is present.
func (i Identity) Complete() bool {
	return i.Email != "" && i.Username != "" && i.Token != ""
}

// Step is the position of a LoginAttempt within the ceremony.
type Step string

const (
	StepCredentials Step = "CREDENTIALS"
	StepTwoFactor   Step = "TWO_FACTOR"
)

// LoginAttempt is the in-memory record of an ongoing login ceremony.
// It is never persisted.
type LoginAttempt struct {
	Email    string
	Password string
	Step     Step
}
