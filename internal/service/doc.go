// Package service contains the application use cases of the parcel backend.
// It orchestrates domain objects and the store interfaces (internal/store) to
// fulfill the HTTP features, and publishes domain events after state changes.
//
// Key components:
//
// 1. PaymentService:
//   - Creates payment intents through a PaymentGateway
//   - Records a payment and marks its parcel paid as one atomic store transition
//   - Lists a payer's payment history
//
// 2. ParcelService, UserService, RiderService, TrackingService:
//   - Thin field-mapped reads and writes over the corresponding stores
//
// 3. TrackingEventHandler:
//   - Appends tracking log entries in reaction to parcel and payment events
//
// Services receive their dependencies through constructor injection and never
// depend on a concrete database. Expected failures are returned as sentinel
// errors that the API layer maps to HTTP status codes.
package service
