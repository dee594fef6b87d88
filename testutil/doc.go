// Package testutil provides seeded point generators and exhaustive
// linear-scan ground truth for tree tests.
package testutil
