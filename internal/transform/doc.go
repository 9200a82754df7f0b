// Package transform converts element values between element types.
//
// Conversions are pure and never fail: input that cannot be converted
// yields nil, and the caller decides what a nil value means for the item.
// Values have the shapes produced by decoding Management API JSON into any:
// strings, float64 numbers, and lists of references ({"id": ...},
// {"codename": ...}).
package transform
