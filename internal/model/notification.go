package model

import "time"

// NotificationType controls how a notification is presented.
type NotificationType string

const (
	NotifySuccess NotificationType = "success"
	NotifyWarning NotificationType = "warning"
	NotifyError   NotificationType = "error"
	NotifyInfo    NotificationType = "info"
)

// NotificationCategory tells which part of the ledger emitted a notification.
type NotificationCategory string

const (
	NotifyTransaction NotificationCategory = "transaction"
	NotifyBudget      NotificationCategory = "budget"
	NotifySystem      NotificationCategory = "system"
)

// Notification is one entry of the newest-first event stream.
type Notification struct {
	ID        ID                   `json:"id"`
	Message   string               `json:"message"`
	Type      NotificationType     `json:"type"`
	Read      bool                 `json:"read"`
	Timestamp time.Time            `json:"timestamp"`
	Category  NotificationCategory `json:"category"`
}
