package constant

// OrderIDFormat pads order ids to four digits for the printed tickets.
// Counters past 9999 keep growing in width instead of wrapping.
const OrderIDFormat = "%04d"

const DefaultDeferredPaymentType = "Venmo"
