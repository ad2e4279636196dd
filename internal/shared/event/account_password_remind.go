package event

import "time"

const AccountPasswordRemindDestination string = "account.password.remind"
const AccountPasswordRemindConsumerNotification string = "account_password_remind_notification"

type AccountPasswordRemindMessage struct {
	Email     string    `json:"email"`
	AuthKey   string    `json:"auth_key"`
	ExpiresAt time.Time `json:"expires_at"`
}
