package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitpay/internal/calculator"
	"github.com/mmynk/splitpay/internal/money"
)

const (
	alice   = "0xa11ce00000000000000000000000000000000001"
	bob     = "0xb0b0000000000000000000000000000000000002"
	charlie = "0xc4a0000000000000000000000000000000000003"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeSnapshot(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "snapshot.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const tripSnapshot = `{
  "participants": ["` + alice + `", "` + bob + `", "` + charlie + `"],
  "expenses": [
    {"amount": "90", "paidBy": "` + alice + `"},
    {"amount": 1000, "paidBy": "` + bob + `", "status": "cancelled"}
  ],
  "payments": [
    {"amount": "10", "from": "` + bob + `", "to": "` + alice + `"},
    {"amount": "20", "from": "` + charlie + `", "to": "` + alice + `", "status": "pending"}
  ]
}`

func TestSettle_JSON(t *testing.T) {
	path := writeSnapshot(t, tripSnapshot)

	out, err := run(t, "", "settle", "--file", path, "--viewer", alice, "--json")
	require.NoError(t, err)

	var got settlement
	require.NoError(t, json.Unmarshal([]byte(out), &got))

	assert.Equal(t, map[string]money.Amount{
		alice:   money.MustParse("50"),
		bob:     money.MustParse("-20"),
		charlie: money.MustParse("-30"),
	}, got.Balances)
	assert.Equal(t, []debt{
		{From: charlie, To: alice, Amount: money.MustParse("30")},
		{From: bob, To: alice, Amount: money.MustParse("20")},
	}, got.Debts)
	require.NotNil(t, got.Viewer)
	assert.Equal(t, money.MustParse("50"), got.Viewer.IsOwed)
	assert.Equal(t, money.MustParse("90"), got.TotalSpent)
}

func TestSettle_Table(t *testing.T) {
	out, err := run(t, tripSnapshot, "settle", "-f", "-")
	require.NoError(t, err)

	assert.Contains(t, out, "PARTICIPANT")
	assert.Contains(t, out, "0xc4a0...0003  0xa11c...0001  30.00 USDC")
}

func TestSettle_SettledUp(t *testing.T) {
	snapshot := `{"participants": ["` + alice + `"], "expenses": [{"amount": "99.99", "paidBy": "` + alice + `"}]}`

	out, err := run(t, snapshot, "settle", "-f", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "Everyone is settled up.")
}

func TestSettle_InvalidInput(t *testing.T) {
	tests := map[string]string{
		"no participants":  `{"participants": []}`,
		"unknown payer":    `{"participants": ["` + alice + `"], "expenses": [{"amount": "1", "paidBy": "` + bob + `"}]}`,
		"unknown status":   `{"participants": ["` + alice + `"], "expenses": [{"amount": "1", "paidBy": "` + alice + `", "status": "deleted"}]}`,
		"zero amount":      `{"participants": ["` + alice + `"], "expenses": [{"amount": "0", "paidBy": "` + alice + `"}]}`,
		"duplicate member": `{"participants": ["` + alice + `", "0x` + strings.ToUpper(alice[2:]) + `"]}`,
	}
	for name, snapshot := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := run(t, snapshot, "settle", "-f", "-")
			require.ErrorIs(t, err, calculator.ErrInvalidInput)
		})
	}
}

func TestSettle_BadFile(t *testing.T) {
	_, err := run(t, "", "settle", "-f", filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)

	_, err = run(t, `{"participants": [], "extra": 1}`, "settle", "-f", "-")
	require.Error(t, err)

	_, err = run(t, "", "settle")
	require.Error(t, err, "--file is required")
}

func TestMigrate(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "splitpay.db")

	out, err := run(t, "", "migrate", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "is up to date")

	_, err = os.Stat(dbPath)
	require.NoError(t, err)
}
