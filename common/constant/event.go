package constant

const (
	QueueStreamName = "dodgeball_sale_queue_stream"
)

const (
	AllWildcard   = "events.>"
	OrderWildcard = "events.order.>"

	SubjectOrderCreated = "events.order.created"
)
