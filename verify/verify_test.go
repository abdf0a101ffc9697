package verify

import (
	"strings"
	"testing"
)

func TestPayloadRoundTrip(t *testing.T) {
	payload := GenerateQRPayload("form_abc123", "Jane Traveler", 933.73)

	formID, err := ParsePayload(payload)
	if err != nil {
		t.Fatalf("ParsePayload: %v", err)
	}
	if formID != "form_abc123" {
		t.Errorf("formID = %q, want form_abc123", formID)
	}
}

func TestNameWithSeparatorStillVerifies(t *testing.T) {
	payload := GenerateQRPayload("form_abc123", "Doe | Jane", 42.00)

	formID, err := ParsePayload(payload)
	if err != nil {
		t.Fatalf("ParsePayload: %v", err)
	}
	if formID != "form_abc123" {
		t.Errorf("formID = %q, want form_abc123", formID)
	}
}

func TestTamperedPayloadRejected(t *testing.T) {
	payload := GenerateQRPayload("form_abc123", "Jane Traveler", 933.73)

	tampered := strings.Replace(payload, "933.73", "9933.73", 1)
	if _, err := ParsePayload(tampered); err == nil {
		t.Error("tampered amount accepted")
	}

	swapped := strings.Replace(payload, "form_abc123", "form_zzz999", 1)
	if _, err := ParsePayload(swapped); err == nil {
		t.Error("swapped form ID accepted")
	}
}

func TestMalformedPayloads(t *testing.T) {
	cases := []string{
		"",
		"no-separators-here",
		"a|b",
		"a|b|c|d|not-base64!!!",
		"form|name|1.00|123|",
	}
	for _, payload := range cases {
		if _, err := ParsePayload(payload); err == nil {
			t.Errorf("ParsePayload(%q) accepted", payload)
		}
	}
}
