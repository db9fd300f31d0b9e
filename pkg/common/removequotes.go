package common

// RemoveSingleQuotesIfAny unquotes strings such as "'coke'".
// Both users and models like to quote object phrases, so we normalize them before use.
func RemoveSingleQuotesIfAny(str string) string {
	if len(str) > 2 && str[0] == '\'' && str[len(str)-1] == '\'' {
		str = str[1 : len(str)-1]
	}
	return str
}

// RemoveDoubleQuotesIfAny unquotes strings such as "\"coke\"".
func RemoveDoubleQuotesIfAny(str string) string {
	if len(str) > 2 && str[0] == '"' && str[len(str)-1] == '"' {
		str = str[1 : len(str)-1]
	}
	return str
}
