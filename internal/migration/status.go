package migration

//go:generate go tool stringer -type=ItemStatus -linecomment -output=item_status_string.go

// ItemStatus is the outcome of migrating one item.
type ItemStatus int

const (
	ItemPending   ItemStatus = iota // pending
	ItemSucceeded                   // succeeded
	ItemFailed                      // failed
)

// MarshalText renders the status by name in JSON output.
func (s ItemStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
