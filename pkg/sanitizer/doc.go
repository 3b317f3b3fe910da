// Package sanitizer normalizes guest-supplied booking input before validation.
//
// All functions are idempotent: applying them twice yields the same result.
// Invalid input is returned in a form the validator will reject rather than
// silently dropped, except for phone numbers that cannot be parsed at all.
package sanitizer
