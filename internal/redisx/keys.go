package redisx

import "time"

const (
	// Cached order lookups: order:{order_id} -> serialized order response.
	KeyOrder = "order:%s"
)

var TTLOrderCache = 5 * time.Minute
