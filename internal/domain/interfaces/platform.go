package interfaces

import "context"

// SMSSender hands a message to the platform SMS composer. Delivery is not
// confirmed.
type SMSSender interface {
	SendSMS(ctx context.Context, phoneNumber, body string) error
}

// LinkSource delivers deep-link URLs activated by the operating system.
type LinkSource interface {
	// Listen registers fn for every future URL. The returned func
	// unregisters it and may be called more than once.
	Listen(fn func(url string)) (cancel func())
	// PendingURL returns a URL that arrived before anyone listened.
	PendingURL() (string, bool)
}
