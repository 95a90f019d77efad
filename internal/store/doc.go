// Package store defines the persistence contracts for parcels, payments,
// users, riders and tracking logs. Implementations live under
// internal/platform (postgres and mongo); services depend only on the
// interfaces declared here.
package store
