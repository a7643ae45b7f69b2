package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := NetworkError(cause)

	if !errors.Is(err, cause) {
		t.Fatalf("expected errors.Is to find cause")
	}
	if CodeOf(err) != CodeNetworkError {
		t.Errorf("expected code %d, got %d", CodeNetworkError, CodeOf(err))
	}
	if err.Error() != "network error: dial tcp: refused" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestWrapDoesNotReclassify(t *testing.T) {
	inner := ParseError(errors.New("unexpected EOF"))
	outer := CacheError(fmt.Errorf("insert: %w", inner))

	if CodeOf(outer) != CodeParseError {
		t.Errorf("expected first classification to win, got %d", CodeOf(outer))
	}
}

func TestNilStaysNil(t *testing.T) {
	if NetworkError(nil) != nil || CacheError(nil) != nil || WrapError(nil, CodeCacheError) != nil {
		t.Fatal("wrapping nil must return nil")
	}
}

func TestCodeOfPlainError(t *testing.T) {
	if CodeOf(errors.New("boom")) != CodeInternalError {
		t.Error("plain errors should map to internal error")
	}
	if Is(nil, CodeNotFound) {
		t.Error("nil error should not match any code")
	}
	if !Is(NotFoundError(ErrForumNotFound), CodeNotFound) {
		t.Error("expected not found code")
	}
}
