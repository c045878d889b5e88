package cerrors

import (
	"errors"
	"testing"
)

func TestDomainError(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		err := New(CodeNotFound, "string file not found")
		if err.Error() != "[NOT_FOUND] string file not found" {
			t.Errorf("expected [NOT_FOUND] string file not found, got %s", err.Error())
		}
	})

	t.Run("Wrap", func(t *testing.T) {
		original := errors.New("original error")
		err := Wrap(original, CodeInternal, "internal failure")
		expected := "[INTERNAL_ERROR] internal failure: original error"
		if err.Error() != expected {
			t.Errorf("expected %s, got %s", expected, err.Error())
		}
	})

	t.Run("IsCode", func(t *testing.T) {
		err := New(CodeUnknownType, "no such plugin type")
		if !IsCode(err, CodeUnknownType) {
			t.Error("expected IsCode to return true for CodeUnknownType")
		}
		if IsCode(err, CodeNotFound) {
			t.Error("expected IsCode to return false for CodeNotFound")
		}
	})

	t.Run("IsFatal", func(t *testing.T) {
		if !IsFatal(New(CodeInvalidRoot, "missing version.php")) {
			t.Error("expected invalid root to be fatal")
		}
		if IsFatal(New(CodeNotFound, "lang dir missing")) {
			t.Error("expected per-item NOT_FOUND to be non-fatal")
		}
	})

	t.Run("WithContext", func(t *testing.T) {
		de := &DomainError{Code: CodeNotFound, Message: "lang file missing"}
		de.WithContext(CtxLanguage, "fr")
		if de.Context[CtxLanguage] != "fr" {
			t.Errorf("expected context language fr, got %v", de.Context[CtxLanguage])
		}
	})
}
