package manhattan

// TokenResponse is the subset of the OAuth token answer the bridge reads.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
}

