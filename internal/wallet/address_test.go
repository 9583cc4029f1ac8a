package wallet

import (
	"errors"
	"strings"
	"testing"
)

// EIP-55 reference vectors.
var checksummed = []string{
	"0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
	"0xfB6916095ca1df60bB79Ce92cE3Ea74c37c5d359",
	"0xdbF03B407c01E7cD3CBea99509d93f8DDDC8C6FB",
	"0xD1220A0cf47c7B9Be7A2E6BA89F429762e7b9aDb",
}

func TestChecksum(t *testing.T) {
	for _, want := range checksummed {
		if got := Checksum(strings.ToLower(want)); got != want {
			t.Errorf("Checksum(%s) = %s, want %s", strings.ToLower(want), got, want)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		address string
		wantErr error
	}{
		{name: "checksummed", address: checksummed[0]},
		{name: "all lower", address: strings.ToLower(checksummed[1])},
		{name: "all upper body", address: "0x" + strings.ToUpper(checksummed[2][2:])},
		{name: "bad checksum", address: "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAeD", wantErr: ErrBadChecksum},
		{name: "too short", address: "0x1234", wantErr: ErrInvalidAddress},
		{name: "missing prefix", address: strings.TrimPrefix(strings.ToLower(checksummed[0]), "0x"), wantErr: ErrInvalidAddress},
		{name: "non hex", address: "0xZZZeb6053f3e94c9b9a09f33669435e7ef1beaed", wantErr: ErrInvalidAddress},
		{name: "empty", address: "", wantErr: ErrInvalidAddress},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.address)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate(%q) error = %v, want nil", tt.address, err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate(%q) error = %v, want %v", tt.address, err, tt.wantErr)
			}
		})
	}
}

func TestParseNormalizes(t *testing.T) {
	got, err := Parse("  " + checksummed[3] + " ")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if got != strings.ToLower(checksummed[3]) {
		t.Errorf("Parse = %s, want lower-case form", got)
	}
	if !Equal(got, checksummed[3]) {
		t.Error("Equal should ignore case")
	}
}

func TestValidateTxHash(t *testing.T) {
	good := "0x" + strings.Repeat("ab", 32)
	if err := ValidateTxHash(good); err != nil {
		t.Errorf("ValidateTxHash(%s) = %v", good, err)
	}
	for _, bad := range []string{"", "0x1234", "tx-1700000000", "0x" + strings.Repeat("g", 64)} {
		if err := ValidateTxHash(bad); !errors.Is(err, ErrInvalidTxHash) {
			t.Errorf("ValidateTxHash(%q) = %v, want ErrInvalidTxHash", bad, err)
		}
	}
}

func TestShort(t *testing.T) {
	if got := Short(checksummed[0]); got != "0x5aAe...eAed" {
		t.Errorf("Short = %s", got)
	}
	if got := Short("alice"); got != "alice" {
		t.Errorf("Short(alice) = %s", got)
	}
}
