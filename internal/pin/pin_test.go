package pin

import "testing"

func TestVerify(t *testing.T) {
	h := Hash("1234")
	if !Verify("1234", h) {
		t.Errorf("correct PIN rejected")
	}
	if Verify("4321", h) {
		t.Errorf("wrong PIN accepted")
	}
	if Verify("", h) {
		t.Errorf("empty PIN accepted")
	}
	if Verify("1234", "") {
		t.Errorf("empty hash accepted")
	}
}

func TestHashStable(t *testing.T) {
	if Hash("1234") != Hash("1234") {
		t.Errorf("hash not deterministic")
	}
	if Hash("1234") == Hash("1235") {
		t.Errorf("distinct PINs collide")
	}
}
