package rpc

import "time"

type PingResponse struct {
	Status string `json:"status"`
}

// AuthenticateRequest proves ownership of an address: Signature is the
// ed25519 signature of the auth message for Address and Timestamp.
type AuthenticateRequest struct {
	Address   string `json:"address"`
	PublicKey []byte `json:"publicKey"`
	Timestamp int64  `json:"timestamp"`
	Signature []byte `json:"signature"`
}

type AuthenticateResponse struct {
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

type Keyword struct {
	Name string `json:"name"`
	Desc string `json:"desc,omitempty"`
}

type IdentityResponse struct {
	Address        string               `json:"address"`
	State          string               `json:"state"`
	Flips          []string             `json:"flips"`
	RequiredFlips  int                  `json:"requiredFlips"`
	AvailableFlips int                  `json:"availableFlips"`
	Keywords       map[string][]Keyword `json:"keywords,omitempty"`
}

type EpochResponse struct {
	Epoch          int       `json:"epoch"`
	NextValidation time.Time `json:"nextValidation"`
}

// SubmitFlipRequest carries the sealed flip. Pair is the keyword pair
// index pair, nil when the author did not choose one.
type SubmitFlipRequest struct {
	Payload []byte  `json:"payload"`
	Nonce   []byte  `json:"nonce"`
	Pair    *[2]int `json:"pair,omitempty"`
}

type SubmitFlipResponse struct {
	Hash string `json:"hash"`
}

type DeleteFlipRequest struct {
	Hash string `json:"hash"`
}
