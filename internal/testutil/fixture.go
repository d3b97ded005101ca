// Package testutil provides helpers for tests that parse definitions.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fsdgo/fsd"
	"github.com/fsdgo/fsd/model"
)

// Parse parses text named "test.fsd" and fails the test if it has any
// error.
func Parse(t testing.TB, text string, opts ...fsd.ParseOption) *model.ServiceInfo {
	t.Helper()
	svc, errs := fsd.TryParse(fsd.NamedText{Name: "test.fsd", Text: text}, opts...)
	require.Empty(t, Messages(errs), "unexpected errors")
	require.NotNil(t, svc)
	return svc
}

// TryParse parses text named "test.fsd" and returns the service and its
// errors.
func TryParse(t testing.TB, text string, opts ...fsd.ParseOption) (*model.ServiceInfo, []*model.Error) {
	t.Helper()
	return fsd.TryParse(fsd.NamedText{Name: "test.fsd", Text: text}, opts...)
}

// ParseErrors parses text and requires it to be invalid.
func ParseErrors(t testing.TB, text string, opts ...fsd.ParseOption) []*model.Error {
	t.Helper()
	_, errs := TryParse(t, text, opts...)
	require.NotEmpty(t, errs, "expected errors")
	return errs
}

// Messages returns the messages of errs, without positions.
func Messages(errs []*model.Error) []string {
	if len(errs) == 0 {
		return nil
	}
	msgs := make([]string, len(errs))
	for i, err := range errs {
		msgs[i] = err.Message
	}
	return msgs
}

// Rendered returns errs rendered with their positions.
func Rendered(errs []*model.Error) []string {
	out := make([]string, len(errs))
	for i, err := range errs {
		out[i] = err.Error()
	}
	return out
}

// LoadFixture reads testdata/<name> relative to the test's package.
func LoadFixture(t testing.TB, name string) fsd.NamedText {
	t.Helper()
	path := filepath.Join("testdata", name)
	data, err := os.ReadFile(path)
	require.NoError(t, err, "failed to read fixture %s", path)
	return fsd.NamedText{Name: name, Text: string(data)}
}
