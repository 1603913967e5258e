package config

// NewAPIForTest creates an API config for testing purposes
func NewAPIForTest(baseURL, userPoolID, clientID, idToken string, breaker bool) *API {
	return &API{
		baseURL:    baseURL,
		userPoolID: userPoolID,
		clientID:   clientID,
		idToken:    idToken,
		breaker:    breaker,
	}
}

func (x *API) CredentialsForTest() (userPoolID, clientID string, breaker bool) {
	return x.userPoolID, x.clientID, x.breaker
}

// NewLoggerForTest creates a Logger config for testing purposes
func NewLoggerForTest(level, format, output string) *Logger {
	return &Logger{level: level, format: format, output: output}
}

func (x *Storage) BucketForTest() string {
	return x.bucket
}
