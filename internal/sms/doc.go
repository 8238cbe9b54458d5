// Package sms opens the platform SMS composer with a prefilled sign-up
// message. Delivery is best effort and never confirmed.
package sms
