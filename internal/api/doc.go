// Package api handles incoming HTTP requests for the parcel backend: request
// decoding and validation, calls into the services, and response formatting.
// Service and store errors are classified here, and only here, into HTTP
// status codes and client-safe messages.
package api
