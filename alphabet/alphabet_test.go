package alphabet

import (
	"testing"

	"github.com/az-ai-labs/spellgraph/letter"
)

func TestOkUnregisteredLanguagePassesEverything(t *testing.T) {
	r := NewRegistry()
	if !r.Ok("xx", letter.ToLetters("anything goes")) {
		t.Error("unregistered language must accept any word")
	}
}

func TestOkRegisteredLanguageFilters(t *testing.T) {
	r := NewRegistry()
	r.RegisterString("en", "abcdefghijklmnopqrstuvwxyz")

	if !r.Ok("en", letter.ToLetters("hello")) {
		t.Error("hello should be accepted for the English alphabet")
	}
	if r.Ok("en", letter.ToLetters("привет")) {
		t.Error("привет should be rejected for the English alphabet")
	}
}

func TestIdempotentRegistration(t *testing.T) {
	r := NewRegistry()
	r.RegisterString("az", "abcçdeəfgğhxıijkqlmnoöprsştuüvyz")
	before := r.Ok("az", letter.ToLetters("gözəl"))

	r.RegisterString("az", "abcçdeəfgğhxıijkqlmnoöprsştuüvyz")
	after := r.Ok("az", letter.ToLetters("gözəl"))

	if before != after || !after {
		t.Errorf("double registration changed behavior: before=%v after=%v", before, after)
	}
}

func TestRegistered(t *testing.T) {
	r := NewRegistry()
	if r.Registered("en") {
		t.Error("unregistered language reported as registered")
	}
	r.RegisterString("en", "abc")
	if !r.Registered("en") {
		t.Error("registered language reported as unregistered")
	}
}
