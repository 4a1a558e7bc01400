package eventmodels

type OrderTimeInForce string

const (
	// OrderTimeInForceDay keeps the order eligible until the end of the
	// trading day.
	OrderTimeInForceDay OrderTimeInForce = "day"
	// OrderTimeInForceGTC keeps the order eligible until it is canceled.
	OrderTimeInForceGTC OrderTimeInForce = "gtc"
	// OrderTimeInForceUntilMarketOpen makes the order eligible to execute
	// only in the next market opening auction.
	OrderTimeInForceUntilMarketOpen OrderTimeInForce = "opg"
	// OrderTimeInForceUntilMarketClose makes the order eligible to execute
	// only in the next market closing auction.
	OrderTimeInForceUntilMarketClose OrderTimeInForce = "cls"
	// OrderTimeInForceFillOrKill requires the full quantity to execute
	// immediately or the order is canceled.
	OrderTimeInForceFillOrKill OrderTimeInForce = "fok"
	// OrderTimeInForceImmediateOrCancel executes what it can immediately and
	// cancels the rest.
	OrderTimeInForceImmediateOrCancel OrderTimeInForce = "ioc"
)
