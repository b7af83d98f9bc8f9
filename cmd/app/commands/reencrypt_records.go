package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	paymentUseCase "github.com/allisson/cardvault/internal/payment/usecase"
)

// RunReEncryptRecords moves every stored payment method from oldKeyID to newKeyID.
// Both keys must be in the ring. Rows already moved are skipped, so an interrupted
// run can be repeated.
func RunReEncryptRecords(
	ctx context.Context,
	paymentMethodUseCase paymentUseCase.PaymentMethodUseCase,
	logger *slog.Logger,
	writer io.Writer,
	oldKeyID, newKeyID string,
	batchSize int,
	format string,
) error {
	if batchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}

	logger.Info("starting payment method re-encryption",
		slog.String("old_key_id", oldKeyID),
		slog.String("new_key_id", newKeyID),
		slog.Int("batch_size", batchSize),
	)

	report, err := paymentMethodUseCase.Migrate(ctx, oldKeyID, newKeyID, batchSize)
	if err != nil {
		return fmt.Errorf("failed to re-encrypt payment methods: %w", err)
	}

	if format == "json" {
		return writeJSON(writer, map[string]interface{}{
			"old_key_id": report.OldKeyID,
			"new_key_id": report.NewKeyID,
			"migrated":   report.Migrated,
		})
	}

	_, _ = fmt.Fprintf(writer, "Re-encrypted %d payment method(s) from %s to %s\n",
		report.Migrated, report.OldKeyID, report.NewKeyID)
	return nil
}
