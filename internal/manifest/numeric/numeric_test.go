package numeric

import "testing"

func TestParseSDKInteger(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int32
		wantErr bool
	}{
		{name: "simple", input: "14", want: 14},
		{name: "zero", input: "0", want: 0},
		{name: "hex rejected", input: "0x10", wantErr: true},
		{name: "non digits", input: "4a", wantErr: true},
		{name: "empty", input: "", wantErr: true},
		{name: "overflow", input: "99999999999", wantErr: true},
		{name: "negative rejected", input: "-1", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSDKInteger(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseSDKInteger(%q) error = nil, want error", tt.input)
				}
				if err.Error() != "must be an integer number" {
					t.Fatalf("error = %q, want %q", err.Error(), "must be an integer number")
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseSDKInteger(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Fatalf("ParseSDKInteger(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseGLESVersion(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    uint32
		wantErr bool
	}{
		{name: "typical", input: "0x00020001", want: 0x00020001},
		{name: "short", input: "0x1", want: 1},
		{name: "uppercase prefix", input: "0X10", want: 0x10},
		{name: "missing prefix", input: "10000", wantErr: true},
		{name: "too many digits", input: "0x123456789", wantErr: true},
		{name: "empty digits", input: "0x", wantErr: true},
		{name: "non hex", input: "0xzz", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseGLESVersion(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseGLESVersion(%q) error = nil, want error", tt.input)
				}
				if err.Error() != "must be an integer in the form 0x00020001" {
					t.Fatalf("error = %q", err.Error())
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseGLESVersion(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Fatalf("ParseGLESVersion(%q) = %#x, want %#x", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseRequired(t *testing.T) {
	tests := []struct {
		input     string
		wantValue bool
		wantValid bool
	}{
		{input: "true", wantValue: true, wantValid: true},
		{input: "false", wantValue: false, wantValid: true},
		{input: "", wantValue: true, wantValid: false},
		{input: "yes", wantValue: true, wantValid: false},
		{input: "TRUE", wantValue: true, wantValid: false},
	}
	for _, tt := range tests {
		value, valid := ParseRequired(tt.input)
		if value != tt.wantValue || valid != tt.wantValid {
			t.Fatalf("ParseRequired(%q) = (%v, %v), want (%v, %v)", tt.input, value, valid, tt.wantValue, tt.wantValid)
		}
	}
}

func TestFormatGLESVersion(t *testing.T) {
	if got, want := FormatGLESVersion(0x00010000), "0x00010000"; got != want {
		t.Fatalf("FormatGLESVersion() = %q, want %q", got, want)
	}
	if got, want := FormatGLESVersion(0x1), "0x00000001"; got != want {
		t.Fatalf("FormatGLESVersion() = %q, want %q", got, want)
	}
}
