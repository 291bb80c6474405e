package entity

// ChainRecord is a cached chain metadata entry. ChainID is always the
// canonical lowercase 0x-hex form; a record is reachable in the registry
// under its hex id, decimal id, short name, slug and any configured aliases.
type ChainRecord struct {
	ChainID          string   `json:"chainId"`
	DisplayName      string   `json:"displayName"`
	NativeSymbol     string   `json:"nativeSymbol"`
	NativeName       string   `json:"nativeName"`
	Decimals         int32    `json:"decimals"`
	RPCURLs          []string `json:"rpcUrls"`
	BlockExplorerURL string   `json:"blockExplorerUrl,omitempty"`
	ShortName        string   `json:"shortName,omitempty"`
	Slug             string   `json:"slug,omitempty"`

	// Static marks records that came from the embedded seed table rather
	// than remote enrichment.
	Static bool `json:"-"`
}

// NetworkConfig is a resolved, connection-ready snapshot of a chain record.
// RPCURLs[0] passed a live chain-id probe at resolution time; the remaining
// endpoints keep their preference order and are untested.
type NetworkConfig struct {
	ChainID          string   `json:"chainId"`
	DisplayName      string   `json:"displayName"`
	NativeSymbol     string   `json:"nativeSymbol"`
	NativeName       string   `json:"nativeName"`
	Decimals         int32    `json:"decimals"`
	RPCURLs          []string `json:"rpcUrls"`
	BlockExplorerURL string   `json:"blockExplorerUrl,omitempty"`
}
