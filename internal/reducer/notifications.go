package reducer

import (
	"slices"
	"strings"

	"github.com/cleared-dev/tally/internal/model"
)

// AddNotification prepends a notification. Type defaults to info and
// Category to system.
type AddNotification struct {
	Message  string
	Type     model.NotificationType
	Category model.NotificationCategory
}

func (AddNotification) Kind() string { return "addNotification" }

func (a AddNotification) Apply(s model.State, env Env) (model.State, error) {
	msg := strings.TrimSpace(a.Message)
	if msg == "" {
		return s, ValidationError{Field: "message", Description: "is required"}
	}
	typ := a.Type
	switch typ {
	case "":
		typ = model.NotifyInfo
	case model.NotifySuccess, model.NotifyWarning, model.NotifyError, model.NotifyInfo:
	default:
		return s, ValidationError{Field: "type", Description: "unknown notification type " + string(typ)}
	}
	cat := a.Category
	if cat == "" {
		cat = model.NotifySystem
	}
	return notify(s.Clone(), env, typ, cat, "%s", msg), nil
}

// UpdateNotification changes the read flag or the message.
type UpdateNotification struct {
	ID      model.ID
	Read    *bool
	Message *string
}

func (UpdateNotification) Kind() string { return "updateNotification" }

func (a UpdateNotification) Apply(s model.State, _ Env) (model.State, error) {
	i := findNotification(s, a.ID)
	if i < 0 {
		return s, ReferenceError{Kind: "notification", ID: string(a.ID)}
	}
	out := s.Clone()
	if a.Read != nil {
		out.Notifications[i].Read = *a.Read
	}
	if a.Message != nil {
		out.Notifications[i].Message = *a.Message
	}
	return out, nil
}

// DeleteNotification removes one notification.
type DeleteNotification struct {
	ID model.ID
}

func (DeleteNotification) Kind() string { return "deleteNotification" }

func (a DeleteNotification) Apply(s model.State, _ Env) (model.State, error) {
	if findNotification(s, a.ID) < 0 {
		return s, ReferenceError{Kind: "notification", ID: string(a.ID)}
	}
	out := s.Clone()
	out.Notifications = slices.DeleteFunc(out.Notifications, func(n model.Notification) bool { return n.ID == a.ID })
	return out, nil
}

// ClearNotifications empties the stream.
type ClearNotifications struct{}

func (ClearNotifications) Kind() string { return "clearAllNotifications" }

func (ClearNotifications) Apply(s model.State, _ Env) (model.State, error) {
	out := s.Clone()
	out.Notifications = []model.Notification{}
	return out, nil
}

// MarkAllNotificationsRead sets every read flag.
type MarkAllNotificationsRead struct{}

func (MarkAllNotificationsRead) Kind() string { return "markAllNotificationsRead" }

func (MarkAllNotificationsRead) Apply(s model.State, _ Env) (model.State, error) {
	out := s.Clone()
	for i := range out.Notifications {
		out.Notifications[i].Read = true
	}
	return out, nil
}

func findNotification(s model.State, nID model.ID) int {
	return slices.IndexFunc(s.Notifications, func(n model.Notification) bool { return n.ID == nID })
}
