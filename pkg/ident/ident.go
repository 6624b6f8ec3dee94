// Package ident generates the opaque identifiers used across the service:
// 12-character ids for users and notes, 8-character tokens for share links.
// Both draw from an alphanumeric alphabet, giving ~62^12 and ~62^8 spaces.
package ident

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

	idLength         = 12
	shareTokenLength = 8
)

func NewID() (string, error) {
	id, err := gonanoid.Generate(alphabet, idLength)
	if err != nil {
		return "", fmt.Errorf("failed to generate id: %w", err)
	}
	return id, nil
}

func NewShareToken() (string, error) {
	tok, err := gonanoid.Generate(alphabet, shareTokenLength)
	if err != nil {
		return "", fmt.Errorf("failed to generate share token: %w", err)
	}
	return tok, nil
}
