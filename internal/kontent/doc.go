// Package kontent is a small REST client for the Kontent.ai Management API
// (v2) and Delivery API.
//
// Only the calls needed to read content models, read items and create
// migrated items are implemented. Management responses are decoded into the
// element package types so the rest of the migrator never sees wire JSON.
package kontent
