package event

const AccountPasswordReissuedDestination string = "account.password.reissued"
const AccountPasswordReissuedConsumerNotification string = "account_password_reissued_notification"

// AccountPasswordReissuedMessage carries the new plaintext password to the
// mailer. It must never be logged.
type AccountPasswordReissuedMessage struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
