package main

import (
	"testing"
)

func TestValidatePort(t *testing.T) {
	for _, ok := range []string{"1", "8000", "65535"} {
		if err := validatePort(ok); err != nil {
			t.Errorf("validatePort(%q) = %v, want nil", ok, err)
		}
	}
	for _, bad := range []string{"", "0", "-1", "65536", "http"} {
		if err := validatePort(bad); err == nil {
			t.Errorf("validatePort(%q) = nil, want error", bad)
		}
	}
}
