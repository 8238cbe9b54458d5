package sms

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"textbuddy/internal/crypto"
	"textbuddy/internal/domain"
)

// Platform selects the sms: URL dialect.
type Platform string

const (
	PlatformAndroid Platform = "android"
	PlatformIOS     Platform = "ios"
)

var (
	// ErrUnsupportedPlatform is returned for platforms without an SMS composer.
	ErrUnsupportedPlatform = errors.New("sms: platform has no composer")
	// ErrEmptyMessage is returned when the number or the body is blank.
	ErrEmptyMessage = errors.New("sms: phone number or message is empty")
)

// ComposeURL builds the URL that opens the native composer prefilled with
// body. Android separates the body with '?', iOS with '&'.
func ComposeURL(p Platform, phoneNumber, body string) (string, error) {
	if strings.TrimSpace(phoneNumber) == "" || strings.TrimSpace(body) == "" {
		return "", ErrEmptyMessage
	}
	escaped, err := crypto.EscapeStrict(body)
	if err != nil {
		return "", err
	}
	switch p {
	case PlatformAndroid:
		return "sms:" + phoneNumber + "?body=" + escaped, nil
	case PlatformIOS:
		return "sms:" + phoneNumber + "&body=" + escaped, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedPlatform, p)
	}
}

// Opener hands a URL to the operating system.
type Opener func(ctx context.Context, url string) error

// Composer implements domain.SMSSender by opening an sms: URL.
type Composer struct {
	platform Platform
	open     Opener
	log      zerolog.Logger
}

// NewComposer returns a Composer for platform that opens URLs with open.
func NewComposer(platform Platform, open Opener, log zerolog.Logger) *Composer {
	return &Composer{platform: platform, open: open, log: log}
}

// SendSMS opens the composer. Blank input and unsupported platforms are
// logged and reported, never fatal.
func (c *Composer) SendSMS(ctx context.Context, phoneNumber, body string) error {
	url, err := ComposeURL(c.platform, phoneNumber, body)
	if err != nil {
		c.log.Warn().Err(err).Str("platform", string(c.platform)).Msg("sms not sent")
		return err
	}
	c.log.Info().Str("url", url).Msg("opening sms composer")
	if c.open == nil {
		return nil
	}
	return c.open(ctx, url)
}

var _ domain.SMSSender = (*Composer)(nil)
