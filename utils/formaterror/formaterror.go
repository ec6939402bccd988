package formaterror

import "strings"

// FormatError maps raw database error text to the message shown to the
// user.
func FormatError(err string) map[string]string {
	errorMessages := make(map[string]string)

	if strings.Contains(err, "username") {
		errorMessages["Taken_username"] = "Username Already Taken"
	}
	if strings.Contains(err, "email") {
		errorMessages["Taken_email"] = "Email Already Taken"
	}
	if strings.Contains(err, "record not found") {
		errorMessages["No_record"] = "Record Not Found"
	}
	if strings.Contains(err, "hashedPassword") {
		errorMessages["Incorrect_password"] = "Incorrect Password"
	}
	if len(errorMessages) == 0 {
		errorMessages["Incorrect_details"] = "Incorrect Details"
	}
	return errorMessages
}
