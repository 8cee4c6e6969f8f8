package main

// CloudWatch metric names emitted by the worker.
const (
	MetricOrdersPlaced       = "OrdersPlaced"
	MetricOrderValue         = "OrderValue"
	MetricOrderStatusChanged = "OrderStatusChanged"
	MetricOrdersDeleted      = "OrdersDeleted"
	MetricEnquiriesCreated   = "EnquiriesCreated"
)
