// Package conv provides checked integer conversions for header fields and
// section sizes read from untrusted input.
package conv
