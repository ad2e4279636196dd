package msgcat

var messages = map[string]map[Code]string{
	LocaleJA: {
		Required:           "必須入力です",
		Duplicate:          "そのEmailはすでに登録されています",
		TooLong:            "最大入力値を超えています",
		InvalidEmail:       "Emailの形式が正しくありません",
		TooShort:           "入力文字数が少ないです",
		NotHalfWidth:       "半角で入力してください",
		Transient:          "エラーが発生しました。しばらく経ってからやり直してください",
		Mismatch:           "入力が一致しておりません",
		MailFailed:         "メール送信に失敗しました",
		AuthKeyMismatch:    "認証キーが違います",
		AuthKeyExpired:     "有効期限が切れています",
		InvalidNumber:      "数値を入力してください",
		InvalidPhone:       "電話番号の形式が異なります",
		UploadNoFile:       "ファイルが選択されていません",
		UploadTooLarge:     "ファイルサイズが大きすぎます",
		UploadUnrecognized: "画像形式が正しくありません",
		UploadStorage:      "ファイルの保存に失敗しました",
	},
	LocaleEN: {
		Required:           "This field is required",
		Duplicate:          "This email is already registered",
		TooLong:            "The input exceeds the maximum length",
		InvalidEmail:       "The email format is invalid",
		TooShort:           "The input is too short",
		NotHalfWidth:       "Use half-width alphanumeric characters",
		Transient:          "An error occurred. Please try again later",
		Mismatch:           "The inputs do not match",
		MailFailed:         "Failed to send the email",
		AuthKeyMismatch:    "The authentication key is incorrect",
		AuthKeyExpired:     "The authentication key has expired",
		InvalidNumber:      "Enter a number",
		InvalidPhone:       "The phone number format is invalid",
		UploadNoFile:       "No file was selected",
		UploadTooLarge:     "The file is too large",
		UploadUnrecognized: "Only GIF, JPEG and PNG images are accepted",
		UploadStorage:      "Failed to store the file",
	},
}
