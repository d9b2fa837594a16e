package session

import (
	"context"
	"errors"

	"github.com/quickdrop/quickdrop-go/tool"
	"github.com/quickdrop/quickdrop-go/types"
)

// ErrPromptCancelled is returned when the user dismisses a credential
// prompt. The creation attempt is aborted, the draft survives untouched.
var ErrPromptCancelled = errors.New("credential prompt cancelled")

// Credentials are the HTTP basic-auth values attached to a session.
type Credentials struct {
	Login    string
	Password string
}

// PromptService collects missing credentials from the user. An error
// means the prompt was cancelled.
type PromptService interface {
	CollectPassword(ctx context.Context) (Credentials, error)
	CollectToken(ctx context.Context) (string, error)
}

// Decision is the outcome of evaluating a draft against the required
// credential factors.
type Decision int

const (
	// Proceed means every required credential is present.
	Proceed Decision = iota
	// NeedPassword means basic-auth credentials are missing.
	NeedPassword
	// NeedToken means the one-time token is missing.
	NeedToken
)

// CredentialGate decides whether a session may proceed to creation or
// must first collect credentials through the prompt collaborator.
type CredentialGate struct {
	Prompt PromptService

	PasswordRequired bool
	TokenRequired    bool
}

// Evaluate reports at most one missing factor, password before token.
func (g *CredentialGate) Evaluate(draft *types.Upload) Decision {
	if g.PasswordRequired && (draft.Login == "" || draft.Password == "") {
		return NeedPassword
	}
	if g.TokenRequired && draft.OneTimeToken == "" {
		return NeedToken
	}
	return Proceed
}

// Collect drives the prompt until the draft may proceed, then commits
// the collected values and returns the derived basic-auth token. On
// cancellation nothing is committed and ErrPromptCancelled is returned.
func (g *CredentialGate) Collect(ctx context.Context, draft *types.Upload) (basicAuth string, err error) {
	// Work on a copy so a cancelled prompt leaves the draft untouched.
	pending := *draft
	for {
		switch g.Evaluate(&pending) {
		case NeedPassword:
			creds, err := g.Prompt.CollectPassword(ctx)
			if err != nil {
				tool.DefaultLogger.Debugf("gate: password prompt cancelled")
				return "", ErrPromptCancelled
			}
			pending.Login = creds.Login
			pending.Password = creds.Password
		case NeedToken:
			token, err := g.Prompt.CollectToken(ctx)
			if err != nil {
				tool.DefaultLogger.Debugf("gate: token prompt cancelled")
				return "", ErrPromptCancelled
			}
			pending.OneTimeToken = token
		case Proceed:
			draft.Login = pending.Login
			draft.Password = pending.Password
			draft.OneTimeToken = pending.OneTimeToken
			if draft.Login != "" || draft.Password != "" {
				basicAuth = tool.EncodeBasicAuth(draft.Login, draft.Password)
			}
			return basicAuth, nil
		}
	}
}
