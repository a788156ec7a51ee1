package slack

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/slack-go/slack"
)

var ErrInvalidSignature = errors.New("invalid request signature")

// Verifier checks that a request was signed by Slack with the app's signing
// secret. Requests older than five minutes are rejected.
type Verifier struct {
	secret string
}

func NewVerifier(signingSecret string) *Verifier {
	return &Verifier{secret: signingSecret}
}

func (v *Verifier) Verify(header http.Header, body []byte) error {
	sv, err := slack.NewSecretsVerifier(header, v.secret)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	if _, err := sv.Write(body); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	if err := sv.Ensure(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	return nil
}
