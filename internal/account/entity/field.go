package entity

// Form field keys. Error codes are reported under these keys.
const (
	FieldEmail  = "email"
	FieldPass   = "pass"
	FieldPassRe = "pass_re"
	FieldPic    = "pic"
	FieldToken  = "token"
)

const (
	// EmailMaxLen bounds the email column.
	EmailMaxLen = 255
	// ReissuedPasswordLength is the length of a password issued by the reminder.
	ReissuedPasswordLength = 10
)
