package inbound

import "net/http"

type SignupResponse struct {
	ID    int64  `json:"id,string"`
	Email string `json:"email"`
	Pic   string `json:"pic,omitempty"`
}

func (SignupResponse) StatusCode() int {
	return http.StatusCreated
}

func (SignupResponse) Message() string {
	return "Signup successful."
}

type UploadImageResponse struct {
	Path string `json:"path"`
	Type string `json:"type"`
	Size int64  `json:"size"`
}

func (UploadImageResponse) StatusCode() int {
	return http.StatusCreated
}

type PasswordRemindResponse struct{}

func (PasswordRemindResponse) Message() string {
	return "If an account with that email exists, we have sent an auth key."
}

type PasswordRemindVerifyResponse struct{}

func (PasswordRemindVerifyResponse) Message() string {
	return "A new password has been sent to your email."
}
