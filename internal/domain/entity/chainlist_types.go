package entity

import (
	"encoding/json"
	"fmt"
)

// ChainDescriptor is one entry of the public chain list
// (https://chainid.network/chains.json). Only the fields the registry
// consumes are mapped.
type ChainDescriptor struct {
	Name      string            `json:"name"`
	ShortName string            `json:"shortName"`
	ChainID   int64             `json:"chainId"`
	Currency  ChainlistCurrency `json:"nativeCurrency"`
	RPC       []RPCEntry        `json:"rpc"`
	Explorers []ChainExplorer   `json:"explorers"`
}

// ChainlistCurrency describes a chain's native token.
type ChainlistCurrency struct {
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals int32  `json:"decimals"`
}

// ChainExplorer is a block explorer reference from the chain list.
type ChainExplorer struct {
	Name     string `json:"name"`
	URL      string `json:"url"`
	Standard string `json:"standard"`
}

// RPCEntry is one rpc endpoint of a chain list entry. The upstream feed mixes
// two shapes in the same array, a plain url string and an object with a "url"
// field, so decoding handles both.
type RPCEntry struct {
	URL string `json:"url"`
}

func (e *RPCEntry) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &e.URL)
	}
	var obj struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("decode rpc entry: %w", err)
	}
	e.URL = obj.URL
	return nil
}
