package api

// Client-facing messages
const (
	MsgOK            = "Success"
	MsgCreated       = "Created successfully"
	MsgCodeSent      = "Verification code sent"
	MsgCodeVerified  = "Code verified"
	MsgRegistered    = "Account created successfully"
	MsgPasswordReset = "Password changed successfully"
	MsgMissingFields = "Please fill in all required fields"
	MsgNotFound      = "Record not found"
	MsgDuplicate     = "Record already exists"
	MsgInternal      = "Internal server error"
	MsgTryAgain      = "Service busy, please try again"
	MsgFileRequired  = "File is required"
	MsgUsernameTaken = "Username already exists. Please choose a different username."
	MsgAccountGone   = "Partner account not found"
)
