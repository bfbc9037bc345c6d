package auth

import (
	"context"

	"cloud.google.com/go/auth/credentials/idtoken"
	"github.com/cockroachdb/errors"
)

// NewGoogleIDTokenSource returns a TokenSource that mints Google OIDC ID
// tokens for the given audience using Application Default Credentials.
// The audience is typically the URL of the Toolbox server.
func NewGoogleIDTokenSource(audience string) (TokenSource, error) {
	if audience == "" {
		return nil, errors.New("audience is required")
	}
	creds, err := idtoken.NewCredentials(&idtoken.Options{
		Audience: audience,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create ID token credentials")
	}
	return TokenSourceFunc(func(ctx context.Context) (string, error) {
		tok, err := creds.Token(ctx)
		if err != nil {
			return "", errors.Wrap(err, "failed to mint ID token")
		}
		return tok.Value, nil
	}), nil
}
