package notify

import (
	"context"

	"github.com/godbus/dbus/v5"
)

const (
	notificationsDest = "org.freedesktop.Notifications"
	notificationsPath = dbus.ObjectPath("/org/freedesktop/Notifications")
	notifyMethod      = "org.freedesktop.Notifications.Notify"
)

// freedesktop urgency levels
const (
	urgencyNormal   byte = 1
	urgencyCritical byte = 2
)

func (d *Desktop) show(ctx context.Context, kind Kind, title, message string) error {
	conn, err := dbus.SessionBus()
	if err != nil {
		return err
	}

	urgency := urgencyNormal
	if kind == Main {
		urgency = urgencyCritical
	}
	hints := map[string]dbus.Variant{
		"urgency": dbus.MakeVariant(urgency),
	}

	obj := conn.Object(notificationsDest, notificationsPath)
	call := obj.CallWithContext(ctx, notifyMethod, 0,
		d.appName,
		uint32(0), // replaces_id
		"",        // app_icon
		title,
		message,
		[]string{}, // actions
		hints,
		int32(displayTimeout(kind).Milliseconds()),
	)
	return call.Err
}
