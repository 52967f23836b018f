package model

type DeliveryStatus string

const (
	DeliveryAccepted       DeliveryStatus = "accepted"
	DeliveryRejected       DeliveryStatus = "rejected"
	DeliveryTransportError DeliveryStatus = "transport_error"
)

type DeliveryResult struct {
	Status DeliveryStatus
	Reason string
	Err    error
}

func (r DeliveryResult) Accepted() bool {
	return r.Status == DeliveryAccepted
}
