package msgcat

// Code identifies a user-facing message. Only codes are stored while a request
// is being validated; text is resolved by a Catalog when the response is rendered.
type Code uint8

const (
	// CodeUnknown is the zero value and never written by validators.
	CodeUnknown Code = iota
	Required
	Duplicate
	TooLong
	InvalidEmail
	TooShort
	NotHalfWidth
	Transient
	Mismatch
	MailFailed
	AuthKeyMismatch
	AuthKeyExpired
	InvalidNumber
	InvalidPhone
	UploadNoFile
	UploadTooLarge
	UploadUnrecognized
	UploadStorage
)

// Kind groups codes into the error taxonomy callers branch on.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindMissingRequired
	KindDuplicateValue
	KindTooLong
	KindInvalidFormat
	KindTooShort
	KindMismatchedInputs
	KindInvalidNumber
	KindTransient
	KindExpired
	KindUploadMissingFile
	KindUploadTooLarge
	KindUploadUnrecognizedType
	KindUploadStorageFailure
)

type codeInfo struct {
	key    string
	legacy string
	kind   Kind
}

var codes = map[Code]codeInfo{
	Required:           {key: "required", legacy: "MSG01", kind: KindMissingRequired},
	Duplicate:          {key: "duplicate", legacy: "MSG02", kind: KindDuplicateValue},
	TooLong:            {key: "too_long", legacy: "MSG03", kind: KindTooLong},
	InvalidEmail:       {key: "invalid_email", legacy: "MSG04", kind: KindInvalidFormat},
	TooShort:           {key: "too_short", legacy: "MSG05", kind: KindTooShort},
	NotHalfWidth:       {key: "not_half_width", legacy: "MSG06", kind: KindInvalidFormat},
	Transient:          {key: "transient", legacy: "MSG07", kind: KindTransient},
	Mismatch:           {key: "mismatch", legacy: "MSG08", kind: KindMismatchedInputs},
	MailFailed:         {key: "mail_failed", legacy: "MSG10", kind: KindTransient},
	AuthKeyMismatch:    {key: "auth_key_mismatch", legacy: "MSG11", kind: KindMismatchedInputs},
	AuthKeyExpired:     {key: "auth_key_expired", legacy: "MSG12", kind: KindExpired},
	InvalidNumber:      {key: "invalid_number", legacy: "MSG13", kind: KindInvalidNumber},
	InvalidPhone:       {key: "invalid_phone", legacy: "MSG14", kind: KindInvalidFormat},
	UploadNoFile:       {key: "upload_no_file", kind: KindUploadMissingFile},
	UploadTooLarge:     {key: "upload_too_large", kind: KindUploadTooLarge},
	UploadUnrecognized: {key: "upload_unrecognized", kind: KindUploadUnrecognizedType},
	UploadStorage:      {key: "upload_storage", kind: KindUploadStorageFailure},
}

// String returns the stable translation key of the code.
func (c Code) String() string {
	if info, ok := codes[c]; ok {
		return info.key
	}
	return "unknown"
}

// Legacy returns the MSGxx identifier used by the earlier PHP front end, or "" when
// the code was introduced later.
func (c Code) Legacy() string {
	return codes[c].legacy
}

// Kind returns the taxonomy bucket of the code.
func (c Code) Kind() Kind {
	return codes[c].kind
}

// All returns every defined code in declaration order.
func All() []Code {
	out := make([]Code, 0, len(codes))
	for c := Required; c <= UploadStorage; c++ {
		out = append(out, c)
	}
	return out
}
