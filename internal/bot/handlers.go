package bot

import (
	"errors"
	"io"
	"net/http"

	"fitlife-bot/internal/payment"
)

const maxWebhookBody = 64 << 10

func (t *TelegramBot) HandleStripeWebhook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if t.ctx.Err() != nil {
		http.Error(w, "Shutting down", http.StatusServiceUnavailable)
		return
	}
	if t.payments == nil {
		http.Error(w, "Payments not configured", http.StatusNotFound)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		t.logger.Errorw("Failed to read webhook body", "error", err)
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	signature := r.Header.Get("Stripe-Signature")
	if signature == "" {
		t.logger.Warnw("Missing Stripe signature header")
		http.Error(w, "Missing signature", http.StatusBadRequest)
		return
	}

	event, err := t.payments.VerifyWebhookSignature(body, signature)
	if err != nil {
		t.logger.Errorw("Failed to verify webhook signature", "error", err)
		http.Error(w, "Invalid signature", http.StatusBadRequest)
		return
	}

	userID, err := payment.CompletedCheckoutUser(event)
	switch {
	case errors.Is(err, payment.ErrNotCheckoutCompleted):
		t.logger.Infow("Ignoring Stripe event", "type", event.Type, "reason", err)
	case err != nil:
		t.logger.Errorw("Failed to parse checkout session", "error", err)
		http.Error(w, "Failed to parse event data", http.StatusBadRequest)
		return
	default:
		// Generation takes minutes; answer Stripe right away.
		if !t.track() {
			t.logger.Warnw("Refusing payment during shutdown", "user_id", userID)
			http.Error(w, "Shutting down", http.StatusServiceUnavailable)
			return
		}
		go func() {
			defer t.wg.Done()
			defer func() {
				if r := recover(); r != nil {
					t.logger.Errorw("Recovered from panic while processing payment", "user_id", userID, "error", r)
				}
			}()
			t.handlePaymentSuccess(userID)
		}()
		t.logger.Infow("Payment processing started", "user_id", userID)
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Webhook received"))
}
