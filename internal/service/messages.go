package service

// User-visible envelope messages.
const (
	MsgInvalidCredentials = "Invalid credentials"
	MsgLoginSuccessful    = "Login successful"

	MsgEmailAlreadyExists     = "Email already exists"
	MsgPasswordsDoNotMatch    = "Passwords do not match"
	MsgRegistrationSuccessful = "Registration successful"

	MsgPasswordIsInvalid = "Password is invalid"
	MsgUpdateSuccessful  = "Update successful"

	MsgUserNotFound = "User not found"

	MsgMachineNotFound         = "Machine not found"
	MsgMachineSaveFailed       = "Machine save failed"
	MsgMachineSaveSuccessful   = "Machine saved successfully"
	MsgMachineGetAllSuccessful = "Machines retrieved successfully"
	MsgMachineDeleteSuccessful = "Machine deleted successfully"
	MsgMachineUpdateSuccessful = "Machine updated successfully"
)
