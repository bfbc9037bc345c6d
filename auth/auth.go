// Package auth provides token sources for tool parameters that the Toolbox
// server resolves from a verified OIDC ID token.
package auth

import (
	"context"

	"github.com/cockroachdb/errors"
	"golang.org/x/oauth2"
)

// TokenSource returns an ID token for an authentication source.
// Token is called on every invocation, implementations should cache and
// refresh as needed.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// TokenSourceFunc adapts a function to the TokenSource interface.
type TokenSourceFunc func(ctx context.Context) (string, error)

func (f TokenSourceFunc) Token(ctx context.Context) (string, error) {
	return f(ctx)
}

// StaticToken returns a TokenSource that always yields the same token.
// Use only for short-lived tokens, such as in tests.
func StaticToken(token string) TokenSource {
	return TokenSourceFunc(func(context.Context) (string, error) {
		if token == "" {
			return "", errors.New("static token is empty")
		}
		return token, nil
	})
}

// FromOAuth2 adapts an oauth2.TokenSource. The ID token is taken from the
// `id_token` extra field when present, otherwise the access token value is
// used as is.
func FromOAuth2(ts oauth2.TokenSource) TokenSource {
	return TokenSourceFunc(func(context.Context) (string, error) {
		tok, err := ts.Token()
		if err != nil {
			return "", errors.Wrap(err, "failed to retrieve oauth2 token")
		}
		if id, ok := tok.Extra("id_token").(string); ok && id != "" {
			return id, nil
		}
		return tok.AccessToken, nil
	})
}

// Headers resolves every source in the map into a `<source>_token` header,
// the shape the Toolbox server expects for authenticated parameters.
func Headers(ctx context.Context, sources map[string]TokenSource) (map[string]string, error) {
	if len(sources) == 0 {
		return nil, nil
	}
	headers := make(map[string]string, len(sources))
	for name, src := range sources {
		token, err := src.Token(ctx)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to get token for auth source %q", name)
		}
		headers[name+"_token"] = token
	}
	return headers, nil
}
