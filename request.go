package chat

import (
	"fmt"
	"strings"
)

// Request carries the conversation history for one generation.
// The provider uses its own default model when Model is empty.
type Request struct {
	Model    string
	Messages []Message
}

// Validate checks universal constraints on Request.
// Provider implementations may apply additional provider-specific validation.
func (r Request) Validate() error {
	if len(r.Messages) == 0 {
		return fmt.Errorf("request has no messages: %w", ErrValidation)
	}
	for i, m := range r.Messages {
		if !m.Role.Valid() {
			return fmt.Errorf("message %d has unknown role %q: %w", i, m.Role, ErrValidation)
		}
	}
	last := r.Messages[len(r.Messages)-1]
	if last.Role != RoleUser {
		return fmt.Errorf("last message must be from user, got %s: %w", last.Role, ErrValidation)
	}
	if strings.TrimSpace(last.Content) == "" {
		return fmt.Errorf("last message is blank: %w", ErrValidation)
	}
	return nil
}
