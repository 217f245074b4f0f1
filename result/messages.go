package result

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/kbukum/resultkit/errors"
)

// Default message texts.
const (
	DefaultSuccessMessage = "Operation completed successfully."
	DefaultErrorPrefix    = "An error occurred: "
)

// Messages supplies the human-readable default texts used by results and
// responses.
type Messages interface {
	// SuccessMessage is attached to successes created without a message.
	SuccessMessage() string
	// ErrorMessage renders a failure detail for display.
	ErrorMessage(detail string) string
}

// DefaultMessages is the built-in provider.
type DefaultMessages struct{}

// SuccessMessage implements Messages.
func (DefaultMessages) SuccessMessage() string { return DefaultSuccessMessage }

// ErrorMessage implements Messages.
func (DefaultMessages) ErrorMessage(detail string) string { return DefaultErrorPrefix + detail }

// StaticMessages is a provider built from configuration. Empty fields fall
// back to the defaults. ErrorFormat may contain "{detail}" or a single %s verb.
type StaticMessages struct {
	Success     string
	ErrorFormat string
}

// SuccessMessage implements Messages.
func (m StaticMessages) SuccessMessage() string {
	if m.Success == "" {
		return DefaultSuccessMessage
	}
	return m.Success
}

// ErrorMessage implements Messages.
func (m StaticMessages) ErrorMessage(detail string) string {
	switch {
	case m.ErrorFormat == "":
		return DefaultErrorPrefix + detail
	case strings.Contains(m.ErrorFormat, "{detail}"):
		return strings.ReplaceAll(m.ErrorFormat, "{detail}", detail)
	case strings.Contains(m.ErrorFormat, "%s"):
		return fmt.Sprintf(m.ErrorFormat, detail)
	default:
		return m.ErrorFormat + detail
	}
}

// --- Process-wide provider ---

type messagesHolder struct{ m Messages }

var current atomic.Pointer[messagesHolder]

func init() {
	current.Store(&messagesHolder{m: DefaultMessages{}})
}

// CurrentMessages returns the process-wide provider.
func CurrentMessages() Messages {
	return current.Load().m
}

// SetMessages replaces the process-wide provider. It is meant to be called
// once during startup; readers racing with the call may observe either
// provider.
func SetMessages(m Messages) error {
	if m == nil {
		return fmt.Errorf("%w: messages provider cannot be nil", errors.ErrInvalidArgument)
	}
	current.Store(&messagesHolder{m: m})
	return nil
}

// ResetMessages restores the built-in provider.
func ResetMessages() {
	current.Store(&messagesHolder{m: DefaultMessages{}})
}

// --- Context-scoped provider ---

type messagesKey struct{}

// WithMessages returns a context carrying m. A nil m returns ctx unchanged.
func WithMessages(ctx context.Context, m Messages) context.Context {
	if m == nil {
		return ctx
	}
	return context.WithValue(ctx, messagesKey{}, m)
}

// MessagesFrom returns the provider carried by ctx, or the process-wide one.
func MessagesFrom(ctx context.Context) Messages {
	if ctx != nil {
		if m, ok := ctx.Value(messagesKey{}).(Messages); ok {
			return m
		}
	}
	return CurrentMessages()
}
