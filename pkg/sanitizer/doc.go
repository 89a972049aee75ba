// Package sanitizer normalizes user input before validation. Functions are
// pure string transforms and combine through Apply and Compose:
//
//	name := sanitizer.Apply(raw, sanitizer.RemoveControlChars, sanitizer.SingleLine)
//	email := sanitizer.Email(raw)
package sanitizer
