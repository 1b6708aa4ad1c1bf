package contracts

import "context"

// Mailer sends transactional email through an external provider.
type Mailer interface {
	SendWelcome(ctx context.Context, to, name string) error
}
