package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	paymentDomain "github.com/allisson/cardvault/internal/payment/domain"
	paymentUseCase "github.com/allisson/cardvault/internal/payment/usecase"
)

// RunVerifyRecords checks that every stored payment method still decrypts.
// Returns an error when at least one record fails so the exit code reflects the result.
func RunVerifyRecords(
	ctx context.Context,
	paymentMethodUseCase paymentUseCase.PaymentMethodUseCase,
	logger *slog.Logger,
	writer io.Writer,
	batchSize int,
	format string,
) error {
	if batchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}

	report, err := paymentMethodUseCase.Verify(ctx, batchSize)
	if err != nil {
		return fmt.Errorf("failed to verify payment methods: %w", err)
	}

	if format == "json" {
		failed := make([]string, 0, len(report.Failed))
		for _, id := range report.Failed {
			failed = append(failed, id.String())
		}
		if err := writeJSON(writer, map[string]interface{}{
			"checked": report.Checked,
			"failed":  failed,
			"passed":  len(report.Failed) == 0,
		}); err != nil {
			return err
		}
	} else {
		outputVerifyRecordsText(writer, report)
	}

	logger.Info("verification completed",
		slog.Int("checked", report.Checked),
		slog.Int("failed", len(report.Failed)),
	)

	if len(report.Failed) > 0 {
		return fmt.Errorf("integrity check failed: %d record(s)", len(report.Failed))
	}
	return nil
}

func outputVerifyRecordsText(writer io.Writer, report *paymentDomain.VerificationReport) {
	_, _ = fmt.Fprintf(writer, "Payment Method Integrity Verification\n")
	_, _ = fmt.Fprintf(writer, "=====================================\n\n")
	_, _ = fmt.Fprintf(writer, "Checked: %d\n", report.Checked)
	_, _ = fmt.Fprintf(writer, "Failed:  %d\n\n", len(report.Failed))

	switch {
	case len(report.Failed) > 0:
		_, _ = fmt.Fprintf(writer, "Failed IDs:\n")
		for _, id := range report.Failed {
			_, _ = fmt.Fprintf(writer, "  - %s\n", id)
		}
		_, _ = fmt.Fprintf(writer, "\nStatus: FAILED\n")
	case report.Checked == 0:
		_, _ = fmt.Fprintf(writer, "Status: No payment methods stored\n")
	default:
		_, _ = fmt.Fprintf(writer, "Status: PASSED\n")
	}
}
