package wms

// Credentials are the two process-wide secrets used for the password grant.
// A value is built once at start-up and passed by value afterwards.
type Credentials struct {
	password string
	secret   string
}

// NewCredentials builds the credential pair.
func NewCredentials(password, secret string) Credentials {
	return Credentials{password: password, secret: secret}
}

// Password returns the grant password.
func (c Credentials) Password() string { return c.password }

// ClientSecret returns the OAuth client secret.
func (c Credentials) ClientSecret() string { return c.secret }

// HasPassword reports whether the password is set.
func (c Credentials) HasPassword() bool { return c.password != "" }

// HasSecret reports whether the client secret is set.
func (c Credentials) HasSecret() bool { return c.secret != "" }

// Validate returns ErrCredentialsMissing unless both values are set.
func (c Credentials) Validate() error {
	if !c.HasPassword() || !c.HasSecret() {
		return ErrCredentialsMissing
	}
	return nil
}
