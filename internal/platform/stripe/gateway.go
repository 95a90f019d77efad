package stripe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/phrazzld/parcel-api/internal/config"
	"github.com/phrazzld/parcel-api/internal/platform/logger"
	"github.com/phrazzld/parcel-api/internal/service"
	stripeapi "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/paymentintent"
)

// Gateway creates card payment intents.
type Gateway struct {
	intents  paymentintent.Client
	currency string
	logger   *slog.Logger
}

var _ service.PaymentGateway = (*Gateway)(nil)

// NewGateway creates a Gateway from payment configuration.
func NewGateway(cfg config.PaymentConfig, log *slog.Logger) (*Gateway, error) {
	if cfg.StripeSecretKey == "" {
		return nil, errors.New("stripe secret key is required")
	}
	if log == nil {
		log = slog.Default()
	}
	log = log.With("component", "stripe_gateway")

	backendCfg := &stripeapi.BackendConfig{
		HTTPClient:        &http.Client{Timeout: cfg.GatewayTimeout},
		MaxNetworkRetries: stripeapi.Int64(0),
		LeveledLogger:     &leveledLogger{logger: log},
	}
	if cfg.APIBaseURL != "" {
		backendCfg.URL = stripeapi.String(cfg.APIBaseURL)
	}

	return &Gateway{
		intents: paymentintent.Client{
			B:   stripeapi.GetBackendWithConfig(stripeapi.APIBackend, backendCfg),
			Key: cfg.StripeSecretKey,
		},
		currency: cfg.Currency,
		logger:   log,
	}, nil
}

// CreatePaymentIntent implements service.PaymentGateway.
func (g *Gateway) CreatePaymentIntent(ctx context.Context, amountInCents int64) (string, error) {
	params := &stripeapi.PaymentIntentParams{
		Amount:             stripeapi.Int64(amountInCents),
		Currency:           stripeapi.String(g.currency),
		PaymentMethodTypes: stripeapi.StringSlice([]string{"card"}),
	}
	params.Context = ctx

	intent, err := g.intents.New(params)
	if err != nil {
		var apiErr *stripeapi.Error
		if errors.As(err, &apiErr) {
			logger.FromContextOrDefault(ctx, g.logger).Warn("stripe rejected payment intent",
				"status", apiErr.HTTPStatusCode,
				"type", apiErr.Type,
				"code", apiErr.Code,
				"request_id", apiErr.RequestID)
			return "", &service.GatewayError{Message: apiErr.Msg, Err: err}
		}
		return "", fmt.Errorf("stripe request failed: %w", err)
	}

	return intent.ClientSecret, nil
}

// leveledLogger routes SDK logging into slog. The SDK logs at info for every
// request; that is demoted to debug.
type leveledLogger struct {
	logger *slog.Logger
}

var _ stripeapi.LeveledLoggerInterface = (*leveledLogger)(nil)

func (l *leveledLogger) Debugf(format string, v ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, v...))
}

func (l *leveledLogger) Infof(format string, v ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, v...))
}

func (l *leveledLogger) Warnf(format string, v ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, v...))
}

func (l *leveledLogger) Errorf(format string, v ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, v...))
}
