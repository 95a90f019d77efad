// Package domain contains the core business entities, value objects, and
// domain logic of the application: parcels, the payments recorded against
// them, the users and riders who handle them, and their tracking history.
// It is independent of any storage or delivery mechanism.
package domain
