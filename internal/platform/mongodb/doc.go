// Package mongodb implements the store interfaces on MongoDB. Payment
// recording relies on multi-document transactions, so the server must run as
// a replica set.
package mongodb
