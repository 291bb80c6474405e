package entity

import "errors"

// Resolution outcomes callers are expected to branch on with errors.Is.
var (
	// ErrInvalidChainID marks a chain id that is neither a decimal number
	// nor a 0x-hex number.
	ErrInvalidChainID = errors.New("invalid chain id")

	// ErrUnknownNetwork marks an identifier no cached record matches.
	ErrUnknownNetwork = errors.New("unknown network")

	// ErrNoHealthyEndpoint means the network is known but no candidate
	// endpoint passed a live probe. Usually transient.
	ErrNoHealthyEndpoint = errors.New("no healthy rpc endpoint")

	// ErrNoPreferredEndpoints means a preferred-only resolution was asked
	// for without any usable preferred endpoint.
	ErrNoPreferredEndpoints = errors.New("no usable preferred rpc endpoints")
)
