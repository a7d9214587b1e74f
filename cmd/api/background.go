package main

import (
	"context"
	"time"
)

// reconcileStuckPayments re-runs the owner cascade for PAID payments that were
// never credited, once at startup and then every RECONCILE_INTERVAL.
func (app *application) reconcileStuckPayments(ctx context.Context) {
	interval := app.config.Reconcile.Interval
	if interval <= 0 {
		app.logger.Info("stuck payment reconciliation disabled")
		return
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			app.repairStuckPayments(ctx)

			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
}

func (app *application) repairStuckPayments(ctx context.Context) {
	n, err := app.ledger.RepairStuck(ctx, app.config.Reconcile.Batch)
	if err != nil {
		app.logger.Errorf("Error repairing stuck payments: %v", err)
	}
	if n > 0 {
		app.logger.Infof("Repaired %d stuck payments at %s", n, time.Now().Format(time.RFC1123))
	}
}
