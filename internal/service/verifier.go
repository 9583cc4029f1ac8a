package service

import (
	"context"
	"errors"

	"github.com/mmynk/splitpay/internal/models"
	"github.com/mmynk/splitpay/internal/wallet"
)

// ErrUnverifiedTransaction is returned when a transaction hash does not
// prove the claimed transfer.
var ErrUnverifiedTransaction = errors.New("transaction could not be verified")

// TxVerifier checks that a transaction hash proves payment.
type TxVerifier interface {
	Verify(ctx context.Context, payment *models.Payment, txHash string) error
}

// FormatVerifier only checks the hash format. It does not look at any chain.
type FormatVerifier struct{}

func (FormatVerifier) Verify(_ context.Context, _ *models.Payment, txHash string) error {
	return wallet.ValidateTxHash(txHash)
}
