package ruleerrors

import (
	"errors"
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/spreadcoin/spreadd/domain/consensus/model/externalapi"
)

func TestNewErrMissingParent(t *testing.T) {
	outer := NewErrMissingParent(&externalapi.DomainHash{255, 255, 255})
	expectedOuterErr := "ErrMissingParent: missing the parent block " +
		"0000000000000000000000000000000000000000000000000000000000ffffff"
	inner := &ErrMissingParent{}
	if !errors.As(outer, inner) {
		t.Fatal("TestNewErrMissingParent: Outer should contain ErrMissingParent in it")
	}
	if inner.MissingParentHash[0] != 255 {
		t.Fatalf("TestNewErrMissingParent: Expected 255. found: %d", inner.MissingParentHash[0])
	}

	rule := &RuleError{}
	if !errors.As(outer, rule) {
		t.Fatal("TestNewErrMissingParent: Outer should contain RuleError in it")
	}
	if rule.message != "ErrMissingParent" {
		t.Fatalf("TestNewErrMissingParent: Expected message = 'ErrMissingParent', found: '%s'", rule.message)
	}

	if outer.Error() != expectedOuterErr {
		t.Fatalf("TestNewErrMissingParent: Expected %s. found: %s", expectedOuterErr, outer.Error())
	}
}

func TestWrappedRuleError(t *testing.T) {
	err := pkgerrors.Wrapf(ErrHighHash, "block hash %s is higher than the target", "00ff")
	if !errors.Is(err, ErrHighHash) {
		t.Fatalf("TestWrappedRuleError: the wrapped error should match ErrHighHash")
	}
	if errors.Is(err, ErrBadWholeBlockHash) {
		t.Fatalf("TestWrappedRuleError: the wrapped error should not match ErrBadWholeBlockHash")
	}
	rule := &RuleError{}
	if !errors.As(err, rule) || rule.message != "ErrHighHash" {
		t.Fatalf("TestWrappedRuleError: expected to extract ErrHighHash, got %+v", rule)
	}
}
