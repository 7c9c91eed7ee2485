package naming

import "testing"

func TestNamingRoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		fn       func(string) string
		input    string
		expected string
	}{
		{"target vdc", TargetVDC, "acme-vdc", "acme-vdc-t"},
		{"final vdc", FinalVDC, "acme-vdc-t", "acme-vdc"},
		{"final vdc without marker", FinalVDC, "acme-vdc", "acme-vdc"},
		{"final network", FinalNetwork, "app-net-v2t", "app-net"},
		{"final network without marker", FinalNetwork, "app-net", "app-net"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fn(tt.input); got != tt.expected {
				t.Errorf("got %q, expected %q", got, tt.expected)
			}
		})
	}
}

func TestIsTransitionalNetwork(t *testing.T) {
	if !IsTransitionalNetwork("app-net-v2t") {
		t.Error("expected marker to be detected")
	}
	if IsTransitionalNetwork("app-net") {
		t.Error("unmarked network reported as transitional")
	}
}
