// Package shared holds helpers used by more than one fxstory package.
//
// The testutil subpackage provides an in-memory slog handler so tests can
// assert on the structured records a component emits:
//
//	logger, handler := testutil.NewTestLogger(t)
//	loader := frame.NewLoader(logger)
//	loader.ReadFile("missing.csv")
//	testutil.AssertLogAttr(t, handler, "error_kind", "FileNotFound")
package shared
