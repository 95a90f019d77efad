// Package stripe implements service.PaymentGateway on top of the Stripe API.
// Gateway failures are reported as *service.GatewayError carrying Stripe's
// own message. Automatic network retries are disabled: each intent request
// is attempted exactly once.
package stripe
