package ledger

import (
	"context"
	"strings"

	"moneyx/internal/core"
	"moneyx/internal/store"
)

// NotificationPatch toggles individual notification settings.
type NotificationPatch struct {
	LowBalance        *bool `json:"lowBalance,omitempty"`
	BillReminders     *bool `json:"billReminders,omitempty"`
	LargeTransactions *bool `json:"largeTransactions,omitempty"`
	WeeklySummary     *bool `json:"weeklySummary,omitempty"`
	AIInsights        *bool `json:"aiInsights,omitempty"`
}

// PreferencesPatch merges into the current preferences. Notification
// toggles merge one by one; absent toggles keep their value.
type PreferencesPatch struct {
	Currency      *string            `json:"currency,omitempty"`
	DateFormat    *string            `json:"dateFormat,omitempty"`
	DarkMode      *bool              `json:"darkMode,omitempty"`
	Notifications *NotificationPatch `json:"notifications,omitempty"`
}

func (p NotificationPatch) apply(n *core.NotificationSettings) {
	set := func(dst *bool, src *bool) {
		if src != nil {
			*dst = *src
		}
	}
	set(&n.LowBalance, p.LowBalance)
	set(&n.BillReminders, p.BillReminders)
	set(&n.LargeTransactions, p.LargeTransactions)
	set(&n.WeeklySummary, p.WeeklySummary)
	set(&n.AIInsights, p.AIInsights)
}

func (s *Service) UpdatePreferences(ctx context.Context, patch PreferencesPatch) (core.Preferences, error) {
	var updated core.Preferences
	o := &outcome{
		op:          "update preferences",
		title:       "Preferences updated",
		description: "Your preferences have been updated successfully",
		failTitle:   "Failed to update preferences",
		failDesc:    "An error occurred while updating your preferences",
	}
	err := s.run(ctx, o, func(st *store.State) error {
		p := &st.Preferences
		if patch.Currency != nil {
			c := strings.ToUpper(strings.TrimSpace(*patch.Currency))
			if len(c) != 3 {
				return core.Invalidf(o.op, "currency must be a three letter ISO code")
			}
			p.Currency = c
		}
		if patch.DateFormat != nil {
			if strings.TrimSpace(*patch.DateFormat) == "" {
				return core.Invalidf(o.op, "date format cannot be empty")
			}
			p.DateFormat = *patch.DateFormat
		}
		if patch.DarkMode != nil {
			p.DarkMode = *patch.DarkMode
		}
		if patch.Notifications != nil {
			patch.Notifications.apply(&p.Notifications)
		}
		updated = *p
		return nil
	})
	return updated, err
}

// MarkNotificationAsRead flips the read flag of one notification.
func (s *Service) MarkNotificationAsRead(ctx context.Context, id string) error {
	o := &outcome{
		op:          "mark notification read",
		title:       "Notification read",
		description: "Notification marked as read",
		failTitle:   "Failed to update notification",
		failDesc:    "An error occurred while updating the notification",
	}
	return s.run(ctx, o, func(st *store.State) error {
		n := st.Notification(id)
		if n == nil {
			return core.NotFound(o.op, "notification", id)
		}
		n.Read = true
		return nil
	})
}

// AddNotification stores an informational notification, newest first.
func (s *Service) AddNotification(ctx context.Context, typ core.NotificationType, message string) (core.Notification, error) {
	var created core.Notification
	o := &outcome{
		op:          "add notification",
		title:       "Notification added",
		description: message,
		failTitle:   "Failed to add notification",
		failDesc:    "An error occurred while adding the notification",
	}
	err := s.run(ctx, o, func(st *store.State) error {
		switch typ {
		case core.NotificationBill, core.NotificationBalance, core.NotificationTransaction, core.NotificationInsight:
		default:
			return core.Invalid(o.op, core.ErrInvalidType)
		}
		if strings.TrimSpace(message) == "" {
			return core.Invalidf(o.op, "notification message cannot be empty")
		}
		created = s.appendNotification(st, typ, message)
		return nil
	})
	return created, err
}
