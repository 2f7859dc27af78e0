package model

// Credentials are addressed by a service ("watson") and a key naming the
// credential type within that service ("api_key").
const (
	// CredentialServiceWatson names the hosted model platform credentials.
	CredentialServiceWatson = "watson"
	// CredentialKeyAPIKey is the long-lived API key exchanged for bearer tokens.
	CredentialKeyAPIKey = "api_key"
)
