package payment

// IDGenerator hands out identifiers for new payments.
type IDGenerator interface {
	NewID() string
}
