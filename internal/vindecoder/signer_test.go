package vindecoder

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strings"
	"testing"
)

func TestControlSum_KnownInput(t *testing.T) {
	vin := "WF0MXXGBWM8R43240"
	apiKey := "testapikey"
	secretKey := "testsecret"

	// The token is the first ten hex characters of
	// SHA1("VIN|decode|apiKey|secretKey").
	sum := sha1.Sum([]byte(fmt.Sprintf("%s|decode|%s|%s", vin, apiKey, secretKey)))
	want := hex.EncodeToString(sum[:])[:10]

	got := ControlSum(vin, apiKey, secretKey)
	if got != want {
		t.Errorf("ControlSum = %q, want %q", got, want)
	}
}

func TestControlSum_Length(t *testing.T) {
	got := ControlSum("1HGCM82633A004352", "k", "s")
	if len(got) != 10 {
		t.Errorf("ControlSum length = %d, want 10", len(got))
	}
	if got != strings.ToLower(got) {
		t.Errorf("ControlSum = %q, want lowercase hex", got)
	}
}

func TestControlSum_UppercasesVIN(t *testing.T) {
	// The VIN is uppercased before signing, so mixed-case input signs
	// identically to its canonical form.
	upper := ControlSum("WF0MXXGBWM8R43240", "k", "s")
	lower := ControlSum("wf0mxxgbwm8r43240", "k", "s")
	if upper != lower {
		t.Errorf("mixed-case VIN signed differently: %q vs %q", upper, lower)
	}
}

func TestControlSum_DependsOnAllInputs(t *testing.T) {
	base := ControlSum("1HGCM82633A004352", "key", "secret")

	if ControlSum("1HGCM82633A004353", "key", "secret") == base {
		t.Error("changing the VIN did not change the token")
	}
	if ControlSum("1HGCM82633A004352", "key2", "secret") == base {
		t.Error("changing the api key did not change the token")
	}
	if ControlSum("1HGCM82633A004352", "key", "secret2") == base {
		t.Error("changing the secret key did not change the token")
	}
}
